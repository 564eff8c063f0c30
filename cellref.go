package sheetfill

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// CellRef represents a single cell position in a worksheet.
// Rows and columns are 1-based, matching the spreadsheet's own addressing.
type CellRef struct {
	Sheet string // sheet name (empty = current sheet)
	Row   int    // 1-based row index
	Col   int    // 1-based column index
}

// NewCellRef creates a CellRef with explicit sheet, row, col.
func NewCellRef(sheet string, row, col int) CellRef {
	return CellRef{Sheet: sheet, Row: row, Col: col}
}

// String formats the CellRef as "Sheet1!A1" or "A1" if no sheet.
func (c CellRef) String() string {
	name := c.CellName()
	if c.Sheet != "" {
		return c.Sheet + "!" + name
	}
	return name
}

// CellName returns just the cell part like "A1" without sheet name, or ""
// if the position is outside the worksheet.
func (c CellRef) CellName() string {
	name, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return ""
	}
	return name
}

// AreaRef represents a rectangular area defined by two cell references.
type AreaRef struct {
	First CellRef
	Last  CellRef
}

// NewAreaRef creates an AreaRef from two cell references.
func NewAreaRef(first, last CellRef) AreaRef {
	return AreaRef{First: first, Last: last}
}

// String formats the AreaRef as "Sheet1!A1:C5" or "A1:C5".
func (a AreaRef) String() string {
	if a.First.Sheet != "" && a.First.Sheet == a.Last.Sheet {
		return a.First.Sheet + "!" + a.First.CellName() + ":" + a.Last.CellName()
	}
	return a.First.String() + ":" + a.Last.String()
}

// Size returns the dimensions of the area.
func (a AreaRef) Size() Size {
	return Size{
		Width:  a.Last.Col - a.First.Col + 1,
		Height: a.Last.Row - a.First.Row + 1,
	}
}

// Contains returns true if the given cell reference is within this area.
func (a AreaRef) Contains(ref CellRef) bool {
	if a.First.Sheet != "" && ref.Sheet != "" && a.First.Sheet != ref.Sheet {
		return false
	}
	return ref.Row >= a.First.Row && ref.Row <= a.Last.Row &&
		ref.Col >= a.First.Col && ref.Col <= a.Last.Col
}

// Size represents width (columns) and height (rows).
type Size struct {
	Width  int
	Height int
}

// String formats the Size as "(WxH)".
func (s Size) String() string {
	return fmt.Sprintf("(%dx%d)", s.Width, s.Height)
}
