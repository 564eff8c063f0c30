package sheetfill

// StyleID is an opaque handle into the workbook's style table.
// Zero means the cell carries no explicit style. Handles are shared: assigning
// one to another cell makes both cells render identically without cloning
// anything.
type StyleID int

// Cell holds the content of a single grid position.
type Cell struct {
	Value   any     // nil, string, number, bool or HyperlinkValue
	Formula string  // formula without leading '='
	Style   StyleID // style handle, 0 = default
}

// Text returns the cell value as a string if it holds one.
func (c Cell) Text() (string, bool) {
	s, ok := c.Value.(string)
	return s, ok
}

// HasStyle reports whether the cell carries an explicit style.
func (c Cell) HasStyle() bool {
	return c.Style != 0
}

// IsZero reports whether the cell has neither content nor style.
func (c Cell) IsZero() bool {
	return c.Value == nil && c.Formula == "" && c.Style == 0
}
