package sheetfill

import "fmt"

// Grid is a single worksheet addressed by 1-based (row, col). Structural
// edits renumber everything below the edited range; cells never change column.
//
// Two implementations ship with the package: MemGrid, a pure in-memory row
// store, and SheetGrid, which applies every operation to an excelize worksheet.
type Grid interface {
	// Rows returns the number of rows in use.
	Rows() int
	// Cols returns the number of columns in use.
	Cols() int
	// Cell returns the cell at (row, col), or the zero Cell if it is empty.
	Cell(row, col int) Cell
	// SetCell replaces the cell at (row, col).
	SetCell(row, col int, c Cell) error
	// InsertRows inserts n empty rows so that the first new row is at index at.
	InsertRows(at, n int) error
	// DeleteRows removes n rows starting at index at.
	DeleteRows(at, n int) error
	// RowHeight returns the custom height of a row, 0 if it has none.
	RowHeight(row int) float64
	// SetRowHeight sets a custom row height.
	SetRowHeight(row int, height float64) error
}

func checkRowArgs(at, n int) error {
	if at < 1 {
		return fmt.Errorf("invalid row index %d", at)
	}
	if n < 0 {
		return fmt.Errorf("invalid row count %d", n)
	}
	return nil
}

func checkCellArgs(row, col int) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell position (%d, %d)", row, col)
	}
	return nil
}
