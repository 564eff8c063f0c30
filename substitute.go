package sheetfill

import (
	"fmt"
	"time"
)

// substitute evaluates every remaining interpolation cell against the
// top-level context. Cells still holding block syntax are left alone: they
// are markers the locator could not pair.
func (r *Renderer) substitute(g Grid, ctx *Context, rep *Report) error {
	for row := 1; row <= g.Rows(); row++ {
		for col := 1; col <= g.Cols(); col++ {
			c := g.Cell(row, col)
			text, ok := c.Text()
			if !ok || !ctx.HasExpression(text) || hasBlockMarker(text) {
				continue
			}
			rep.ScalarsSeen++
			ref := NewCellRef("", row, col)

			v, err := ctx.EvaluateCellValue(text)
			if err != nil {
				rep.warn(ref, "keeping template text %q: %v", text, err)
				r.opts.logger.Warn("cell left unrendered", "cell", ref.String(), "text", text, "err", err)
				continue
			}
			c.Value = r.cellValue(v)
			if err := g.SetCell(row, col, c); err != nil {
				return fmt.Errorf("write %s: %w", ref, err)
			}
			rep.ScalarsFilled++
		}
	}
	return nil
}

// cellValue converts an evaluation result into something a cell can hold.
// Scalars keep their type unless text values are requested; anything else
// (maps, slices, structs) is written as its text form.
func (r *Renderer) cellValue(v any) any {
	switch v.(type) {
	case nil:
		return nil
	case string:
		return v
	case HyperlinkValue:
		if r.opts.textValues {
			return formatValue(v)
		}
		return v
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, time.Time:
		if r.opts.textValues {
			return formatValue(v)
		}
		return v
	default:
		return formatValue(v)
	}
}
