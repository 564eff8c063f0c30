package sheetfill

import (
	"fmt"
	"strings"
)

// Describe parses a template and returns a human-readable tree showing
// the loop blocks and the expressions found in cells.
// Useful for debugging templates during development.
func Describe(templatePath string, opts ...Option) (string, error) {
	allOpts := append([]Option{WithTemplate(templatePath)}, opts...)
	return NewFiller(allOpts...).Describe()
}

// Describe opens the template, locates its blocks, and returns a
// human-readable tree of blocks and expressions.
func (f *Filler) Describe() (string, error) {
	file, err := f.openTemplate()
	if err != nil {
		return "", err
	}
	defer file.Close()

	g, err := f.sheetGrid(file)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Template: %s\n", f.templateName())
	f.renderer.describeGrid(&b, g, g.Sheet())
	return b.String(), nil
}

// DescribeGrid returns the tree of blocks and expressions for an in-memory grid.
func DescribeGrid(g Grid, opts ...Option) string {
	var b strings.Builder
	NewRenderer(opts...).describeGrid(&b, g, "")
	return b.String()
}

// describeGrid writes the sheet header, the expressions outside any block and
// then every block, top to bottom, with the expressions it contains.
func (r *Renderer) describeGrid(b *strings.Builder, g Grid, sheet string) {
	size := Size{Width: g.Cols(), Height: g.Rows()}
	if sheet == "" {
		sheet = "<grid>"
	}
	fmt.Fprintf(b, "%s %s\n", sheet, size)

	blocks := LocateBlocks(g)
	skipped := make(map[int]bool)
	var kept []LoopBlock
	for i, blk := range blocks {
		if overlapsAny(blk, kept) {
			skipped[i] = true
			continue
		}
		kept = append(kept, blk)
	}

	inBlock := func(row, col int) bool {
		for _, blk := range kept {
			if blk.Area().Contains(NewCellRef("", row, col)) {
				return true
			}
		}
		return false
	}

	top := r.expressionLines(g, 1, g.Rows(), 1, g.Cols(), "    ", inBlock)
	if len(top) > 0 {
		b.WriteString("  Expressions:\n")
		for _, line := range top {
			b.WriteString(line)
		}
	}

	if len(blocks) == 0 {
		return
	}
	b.WriteString("  Loop blocks:\n")
	for i := len(blocks) - 1; i >= 0; i-- {
		blk := blocks[i]
		fmt.Fprintf(b, "    %s %s in %s %s rows=%d", blk.Area(), blk.Var, blk.Items, blk.Area().Size(), blk.RowSpan())
		if skipped[i] {
			b.WriteString(" (overlaps, skipped)\n")
			continue
		}
		b.WriteByte('\n')
		lines := r.expressionLines(g, blk.StartRow, blk.EndRow, blk.StartCol, blk.EndCol, "        ", nil)
		if len(lines) > 0 {
			b.WriteString("      Expressions:\n")
			for _, line := range lines {
				b.WriteString(line)
			}
		}
	}
}

// expressionLines lists the interpolation cells of a rectangle, one line each.
// Cells for which skip returns true are left out.
func (r *Renderer) expressionLines(g Grid, fromRow, toRow, fromCol, toCol int, prefix string, skip func(row, col int) bool) []string {
	var lines []string
	for row := fromRow; row <= toRow; row++ {
		for col := fromCol; col <= toCol; col++ {
			if skip != nil && skip(row, col) {
				continue
			}
			c := g.Cell(row, col)
			text, ok := c.Text()
			if !ok || !strings.Contains(text, r.opts.notationBegin) {
				continue
			}
			ref := NewCellRef("", row, col)
			lines = append(lines, fmt.Sprintf("%s%s: %s\n", prefix, ref.CellName(), text))
		}
	}
	return lines
}
