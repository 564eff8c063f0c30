package sheetfill

import (
	"fmt"
	"slices"
)

type rowID uint64

type memRow struct {
	cells  map[int]Cell
	height float64
}

// MemGrid is an in-memory Grid. Rows live in an arena keyed by a stable
// identifier and the physical order is a slice of those identifiers, so
// inserting or deleting rows only splices identifiers and never moves cells.
type MemGrid struct {
	order  []rowID
	arena  map[rowID]*memRow
	nextID rowID
	cols   int
}

// NewMemGrid creates an empty grid.
func NewMemGrid() *MemGrid {
	return &MemGrid{arena: make(map[rowID]*memRow)}
}

// NewMemGridFromValues builds a grid from row-major values. Empty strings
// and nil leave the cell empty. Handy for tests and programmatic templates.
func NewMemGridFromValues(rows [][]any) *MemGrid {
	g := NewMemGrid()
	for r, row := range rows {
		for c, v := range row {
			if v == nil || v == "" {
				continue
			}
			_ = g.SetCell(r+1, c+1, Cell{Value: v})
		}
	}
	if len(rows) > len(g.order) {
		g.grow(len(rows))
	}
	return g
}

func (g *MemGrid) newRow() rowID {
	g.nextID++
	g.arena[g.nextID] = &memRow{cells: make(map[int]Cell)}
	return g.nextID
}

// grow appends empty rows until the grid has at least n rows.
func (g *MemGrid) grow(n int) {
	for len(g.order) < n {
		g.order = append(g.order, g.newRow())
	}
}

func (g *MemGrid) row(row int) *memRow {
	if row < 1 || row > len(g.order) {
		return nil
	}
	return g.arena[g.order[row-1]]
}

// Rows returns the number of rows.
func (g *MemGrid) Rows() int { return len(g.order) }

// Cols returns the highest column holding a cell.
func (g *MemGrid) Cols() int { return g.cols }

// Cell returns the cell at (row, col).
func (g *MemGrid) Cell(row, col int) Cell {
	r := g.row(row)
	if r == nil {
		return Cell{}
	}
	return r.cells[col]
}

// SetCell stores a cell, growing the grid when needed. Setting the zero Cell
// clears the position.
func (g *MemGrid) SetCell(row, col int, c Cell) error {
	if err := checkCellArgs(row, col); err != nil {
		return err
	}
	g.grow(row)
	r := g.row(row)
	if c.IsZero() {
		delete(r.cells, col)
		return nil
	}
	r.cells[col] = c
	if col > g.cols {
		g.cols = col
	}
	return nil
}

// InsertRows inserts n empty rows at index at. Inserting past the last row
// pads the grid with empty rows first.
func (g *MemGrid) InsertRows(at, n int) error {
	if err := checkRowArgs(at, n); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	g.grow(at - 1)
	ids := make([]rowID, n)
	for i := range ids {
		ids[i] = g.newRow()
	}
	g.order = slices.Insert(g.order, at-1, ids...)
	g.shiftFormulas(at, n)
	return nil
}

// DeleteRows removes up to n rows starting at at.
func (g *MemGrid) DeleteRows(at, n int) error {
	if err := checkRowArgs(at, n); err != nil {
		return err
	}
	if at > len(g.order) || n == 0 {
		return nil
	}
	end := min(at-1+n, len(g.order))
	for _, id := range g.order[at-1 : end] {
		delete(g.arena, id)
	}
	g.order = slices.Delete(g.order, at-1, end)
	g.shiftFormulas(end+1, -(end - at + 1))
	g.recountCols()
	return nil
}

// shiftFormulas rewrites every formula reference to a row at or below from
// by delta rows, keeping formulas pointed at the cells they referred to.
func (g *MemGrid) shiftFormulas(from, delta int) {
	for _, id := range g.order {
		for col, c := range g.arena[id].cells {
			if c.Formula == "" {
				continue
			}
			c.Formula = shiftFormulaRows(c.Formula, from, delta)
			g.arena[id].cells[col] = c
		}
	}
}

func (g *MemGrid) recountCols() {
	g.cols = 0
	for _, id := range g.order {
		for col := range g.arena[id].cells {
			if col > g.cols {
				g.cols = col
			}
		}
	}
}

// RowHeight returns the custom height of a row.
func (g *MemGrid) RowHeight(row int) float64 {
	r := g.row(row)
	if r == nil {
		return 0
	}
	return r.height
}

// SetRowHeight sets the custom height of a row.
func (g *MemGrid) SetRowHeight(row int, height float64) error {
	if row < 1 {
		return fmt.Errorf("invalid row index %d", row)
	}
	g.grow(row)
	g.row(row).height = height
	return nil
}

// Values returns the grid content as row-major values, nil for empty cells.
func (g *MemGrid) Values() [][]any {
	out := make([][]any, len(g.order))
	for i := range g.order {
		row := make([]any, g.cols)
		for col, c := range g.arena[g.order[i]].cells {
			row[col-1] = c.Value
		}
		out[i] = row
	}
	return out
}
