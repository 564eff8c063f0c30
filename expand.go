package sheetfill

import (
	"fmt"
	"reflect"
)

// blockTemplate is the content of a loop block captured before its rows are
// deleted: one Cell per rectangle position plus each row's custom height.
type blockTemplate struct {
	cells   [][]Cell
	heights []float64
}

func snapshotBlock(g Grid, b LoopBlock) blockTemplate {
	tpl := blockTemplate{
		cells:   make([][]Cell, b.RowSpan()),
		heights: make([]float64, b.RowSpan()),
	}
	for r := range tpl.cells {
		row := b.StartRow + r
		cells := make([]Cell, b.EndCol-b.StartCol+1)
		for c := range cells {
			cells[c] = g.Cell(row, b.StartCol+c)
		}
		tpl.cells[r] = cells
		tpl.heights[r] = g.RowHeight(row)
	}
	return tpl
}

// expandBlock replaces the rows of b with one rendered copy per item of the
// list b.Items and returns the number of items. A missing, empty or
// non-list value removes the rows and emits nothing.
func (r *Renderer) expandBlock(g Grid, b LoopBlock, ctx *Context, rep *Report) (int, error) {
	log := r.opts.logger.With("block", b.String())

	items, err := toSlice(ctx.GetVar(b.Items))
	if err != nil {
		rep.warn(b.Start, "list %q is not iterable: %v", b.Items, err)
		items = nil
	}
	if len(items) == 0 {
		log.Warn("list missing or empty, removing template rows", "list", b.Items)
		if err := g.DeleteRows(b.StartRow, b.RowSpan()); err != nil {
			return 0, err
		}
		return 0, nil
	}
	log.Info("expanding loop block", "items", len(items), "rows", b.RowSpan())

	tpl := snapshotBlock(g, b)
	if err := g.DeleteRows(b.StartRow, b.RowSpan()); err != nil {
		return 0, err
	}

	// Inserting at the same anchor in reverse leaves the copies in list order.
	for i := len(items) - 1; i >= 0; i-- {
		if err := g.InsertRows(b.StartRow, b.RowSpan()); err != nil {
			return 0, err
		}
		if err := r.renderItem(g, b, tpl, ctx, items[i], rep); err != nil {
			return 0, fmt.Errorf("item %d: %w", i, err)
		}
		log.Debug("item rendered", "index", i)
	}
	return len(items), nil
}

// renderItem fills the freshly inserted rows at b.StartRow with one copy of tpl.
func (r *Renderer) renderItem(g Grid, b LoopBlock, tpl blockTemplate, ctx *Context, item any, rep *Report) error {
	itemCtx := ctx.scoped(b.Var, item)
	if r.opts.inheritScope {
		defer ctx.bind(b.Var, item)()
		itemCtx = ctx
	}

	for rOff, cells := range tpl.cells {
		row := b.StartRow + rOff
		if h := tpl.heights[rOff]; r.opts.rowHeights && h > 0 {
			if err := g.SetRowHeight(row, h); err != nil {
				return err
			}
		}
		for cOff, src := range cells {
			target := NewCellRef("", row, b.StartCol+cOff)
			if !r.beforeCell(src, target, itemCtx, g) {
				continue
			}
			c := Cell{Formula: src.Formula}
			if src.HasStyle() {
				c.Style = src.Style
			}
			c.Value = r.loopCellValue(src, target, itemCtx, rep)
			if !c.IsZero() {
				if err := g.SetCell(row, target.Col, c); err != nil {
					return err
				}
			}
			r.afterCell(src, target, itemCtx, g)
		}
	}
	return nil
}

// loopCellValue resolves the value of one expanded cell. Interpolated text is
// evaluated with loop markers stripped; marker-only text becomes empty; other
// values are copied. If evaluation fails the original text is kept.
func (r *Renderer) loopCellValue(src Cell, target CellRef, ctx *Context, rep *Report) any {
	text, isText := src.Text()
	switch {
	case isText && ctx.HasExpression(text):
		clean := stripLoopMarkers(text)
		if clean == "" {
			return nil
		}
		v, err := ctx.EvaluateCellValue(clean)
		if err != nil {
			rep.warn(target, "keeping template text %q: %v", text, err)
			r.opts.logger.Warn("cell left unrendered", "cell", target.String(), "text", text, "err", err)
			return text
		}
		return r.cellValue(v)
	case isText && isLoopMarker(text):
		return nil
	default:
		return src.Value
	}
}

func (r *Renderer) beforeCell(src Cell, target CellRef, ctx *Context, g Grid) bool {
	for _, l := range r.opts.listeners {
		if !l.BeforeCell(src, target, ctx, g) {
			return false
		}
	}
	return true
}

func (r *Renderer) afterCell(src Cell, target CellRef, ctx *Context, g Grid) {
	for _, l := range r.opts.listeners {
		l.AfterCell(src, target, ctx, g)
	}
}

// toSlice converts any iterable value to a []any slice. nil yields nil.
func toSlice(val any) ([]any, error) {
	if val == nil {
		return nil, nil
	}
	if s, ok := val.([]any); ok {
		return s, nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		result := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			result[i] = v.Index(i).Interface()
		}
		return result, nil
	default:
		return nil, fmt.Errorf("cannot iterate over %T", val)
	}
}
