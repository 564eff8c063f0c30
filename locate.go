package sheetfill

import "fmt"

// LoopBlock is a rectangular grid region bounded by a loop-start and a
// loop-end marker, repeated once per item of the list named Items.
type LoopBlock struct {
	StartRow int
	EndRow   int
	StartCol int
	EndCol   int
	Var      string  // loop variable name
	Items    string  // name of the list in the top-level context
	Start    CellRef // position of the loop-start marker
	End      CellRef // position of the loop-end marker
}

// RowSpan returns the number of rows the block covers.
func (b LoopBlock) RowSpan() int { return b.EndRow - b.StartRow + 1 }

// Area returns the block's bounding rectangle.
func (b LoopBlock) Area() AreaRef {
	return NewAreaRef(NewCellRef("", b.StartRow, b.StartCol), NewCellRef("", b.EndRow, b.EndCol))
}

// overlapsRows reports whether the two blocks share at least one row.
func (b LoopBlock) overlapsRows(o LoopBlock) bool {
	return b.StartRow <= o.EndRow && o.StartRow <= b.EndRow
}

// String formats the block as "p in projects A5:C7".
func (b LoopBlock) String() string {
	return fmt.Sprintf("%s in %s %s", b.Var, b.Items, b.Area())
}

// LocateBlocks scans the grid bottom-to-top, right-to-left, and pairs each
// loop-end marker with the nearest loop-start marker that precedes it in the
// same reverse order. End markers without a preceding start are skipped.
//
// Pairing is flat: it handles sibling blocks but not nesting, where an inner
// start would be paired with every end below it. Blocks are returned in
// discovery order, i.e. by descending end position, so expanding them in
// order never moves a block that is still waiting.
func LocateBlocks(g Grid) []LoopBlock {
	var blocks []LoopBlock
	rows, cols := g.Rows(), g.Cols()

	for row := rows; row >= 1; row-- {
		for col := cols; col >= 1; col-- {
			text, ok := g.Cell(row, col).Text()
			if !ok || !isLoopEnd(text) {
				continue
			}
			if b, ok := findLoopStart(g, row, col); ok {
				blocks = append(blocks, b)
			}
		}
	}
	return blocks
}

// findLoopStart continues the reverse scan from just before (endRow, endCol)
// and returns the block closed by the first loop-start marker it meets.
func findLoopStart(g Grid, endRow, endCol int) (LoopBlock, bool) {
	cols := g.Cols()
	for row := endRow; row >= 1; row-- {
		for col := cols; col >= 1; col-- {
			if row == endRow && col >= endCol {
				continue
			}
			text, ok := g.Cell(row, col).Text()
			if !ok {
				continue
			}
			varName, listName, ok := matchLoopStart(text)
			if !ok {
				continue
			}
			return LoopBlock{
				StartRow: row,
				EndRow:   endRow,
				StartCol: min(col, endCol),
				EndCol:   max(col, endCol),
				Var:      varName,
				Items:    listName,
				Start:    NewCellRef("", row, col),
				End:      NewCellRef("", endRow, endCol),
			}, true
		}
	}
	return LoopBlock{}, false
}

// markerPositions lists every loop-start and loop-end marker in the grid.
func markerPositions(g Grid) (starts, ends []CellRef) {
	for row := 1; row <= g.Rows(); row++ {
		for col := 1; col <= g.Cols(); col++ {
			text, ok := g.Cell(row, col).Text()
			if !ok {
				continue
			}
			if _, _, ok := matchLoopStart(text); ok {
				starts = append(starts, NewCellRef("", row, col))
			}
			if isLoopEnd(text) {
				ends = append(ends, NewCellRef("", row, col))
			}
		}
	}
	return starts, ends
}
