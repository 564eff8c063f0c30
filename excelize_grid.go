package sheetfill

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// defaultRowHeight is the height excelize reports for rows without a custom height.
const defaultRowHeight = 15.0

// SheetGrid implements Grid directly on top of an excelize worksheet.
// Row insertion and deletion go through excelize, which keeps merged ranges,
// hyperlinks, drawings and formulas outside the edited rows in place.
type SheetGrid struct {
	file  *excelize.File
	sheet string
	rows  int
	cols  int
}

// NewSheetGrid wraps a worksheet of an open workbook.
func NewSheetGrid(f *excelize.File, sheet string) (*SheetGrid, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	g := &SheetGrid{file: f, sheet: sheet, rows: len(rows)}
	for _, row := range rows {
		if len(row) > g.cols {
			g.cols = len(row)
		}
	}
	return g, nil
}

// ActiveSheet returns the name of the workbook's active sheet.
func ActiveSheet(f *excelize.File) string {
	return f.GetSheetName(f.GetActiveSheetIndex())
}

// Sheet returns the worksheet name.
func (g *SheetGrid) Sheet() string { return g.sheet }

// File returns the underlying excelize file.
func (g *SheetGrid) File() *excelize.File { return g.file }

// Rows returns the number of rows in use.
func (g *SheetGrid) Rows() int { return g.rows }

// Cols returns the highest column seen in use.
func (g *SheetGrid) Cols() int { return g.cols }

// Cell reads a cell's value, formula and style. Read errors yield the zero Cell.
func (g *SheetGrid) Cell(row, col int) Cell {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Cell{}
	}
	var c Cell
	if style, err := g.file.GetCellStyle(g.sheet, name); err == nil {
		c.Style = StyleID(style)
	}
	if formula, err := g.file.GetCellFormula(g.sheet, name); err == nil && formula != "" {
		c.Formula = formula
		return c
	}
	raw, err := g.file.GetCellValue(g.sheet, name, excelize.Options{RawCellValue: true})
	if err != nil || raw == "" {
		return c
	}
	c.Value = raw
	typ, err := g.file.GetCellType(g.sheet, name)
	if err != nil {
		return c
	}
	switch typ {
	case excelize.CellTypeBool:
		c.Value = raw == "1" || raw == "TRUE" || raw == "true"
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			c.Value = n
		}
	}
	return c
}

// SetCell writes value or formula and style to (row, col).
func (g *SheetGrid) SetCell(row, col int, c Cell) error {
	if err := checkCellArgs(row, col); err != nil {
		return err
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	switch v := c.Value.(type) {
	case HyperlinkValue:
		err = g.setHyperlink(name, v)
	default:
		if c.Formula != "" {
			err = g.file.SetCellFormula(g.sheet, name, c.Formula)
		} else {
			err = g.file.SetCellValue(g.sheet, name, c.Value)
		}
	}
	if err != nil {
		return fmt.Errorf("set cell %s!%s: %w", g.sheet, name, err)
	}
	if err := g.file.SetCellStyle(g.sheet, name, name, int(c.Style)); err != nil {
		return fmt.Errorf("set style %s!%s: %w", g.sheet, name, err)
	}
	if row > g.rows {
		g.rows = row
	}
	if col > g.cols {
		g.cols = col
	}
	return nil
}

// InsertRows inserts n empty rows at index at.
func (g *SheetGrid) InsertRows(at, n int) error {
	if err := checkRowArgs(at, n); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if err := g.file.InsertRows(g.sheet, at, n); err != nil {
		return fmt.Errorf("insert %d rows at %d: %w", n, at, err)
	}
	if at <= g.rows {
		g.rows += n
	} else {
		g.rows = at + n - 1
	}
	return nil
}

// DeleteRows removes n rows starting at at.
func (g *SheetGrid) DeleteRows(at, n int) error {
	if err := checkRowArgs(at, n); err != nil {
		return err
	}
	if at > g.rows {
		return nil
	}
	n = min(n, g.rows-at+1)
	for range n {
		if err := g.file.RemoveRow(g.sheet, at); err != nil {
			return fmt.Errorf("remove row %d: %w", at, err)
		}
	}
	g.rows -= n
	return nil
}

// RowHeight returns the custom height of a row, 0 when it uses the default.
func (g *SheetGrid) RowHeight(row int) float64 {
	h, err := g.file.GetRowHeight(g.sheet, row)
	if err != nil || h == defaultRowHeight {
		return 0
	}
	return h
}

// SetRowHeight sets a custom row height.
func (g *SheetGrid) SetRowHeight(row int, height float64) error {
	return g.file.SetRowHeight(g.sheet, row, height)
}

// ReadGrid copies a worksheet into a MemGrid. The workbook is not modified.
func ReadGrid(f *excelize.File, sheet string) (*MemGrid, error) {
	src, err := NewSheetGrid(f, sheet)
	if err != nil {
		return nil, err
	}
	g := NewMemGrid()
	g.grow(src.Rows())
	for row := 1; row <= src.Rows(); row++ {
		for col := 1; col <= src.Cols(); col++ {
			if c := src.Cell(row, col); !c.IsZero() {
				if err := g.SetCell(row, col, c); err != nil {
					return nil, err
				}
			}
		}
		if h := src.RowHeight(row); h > 0 {
			if err := g.SetRowHeight(row, h); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
