package sheetfill

// CellListener is notified before and after each cell written by the block
// expander. Implement it to apply conditional styling, auditing, or other
// per-cell processing during loop expansion.
type CellListener interface {
	// BeforeCell is called with the template cell about to be written to target.
	// Return false to skip the default write for this cell.
	BeforeCell(src Cell, target CellRef, ctx *Context, g Grid) bool

	// AfterCell is called after target has been written.
	AfterCell(src Cell, target CellRef, ctx *Context, g Grid)
}
