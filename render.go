package sheetfill

import (
	"fmt"
	"time"
)

// Renderer expands loop blocks and substitutes placeholders in a Grid.
// A Renderer holds no per-render state and may be shared between goroutines
// as long as each render works on its own Grid.
type Renderer struct {
	opts      *Options
	evaluator ExpressionEvaluator
}

// NewRenderer creates a Renderer with the given options.
func NewRenderer(opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	ev := o.evaluator
	if ev == nil {
		ev = NewExpressionEvaluator()
	}
	return &Renderer{opts: o, evaluator: ev}
}

// Render renders g in place against data using a one-off Renderer.
func Render(g Grid, data map[string]any, opts ...Option) (*Report, error) {
	return NewRenderer(opts...).Render(g, data)
}

// NewContext creates a top-level Context for data using the renderer's
// notation and evaluator.
func (r *Renderer) NewContext(data map[string]any) *Context {
	return NewContext(data,
		WithNotation(r.opts.notationBegin, r.opts.notationEnd),
		WithEvaluator(r.evaluator),
	)
}

// Render locates all loop blocks, expands them bottom-to-top, then
// substitutes the remaining placeholders against data. data is only read.
//
// Per-cell evaluation failures never abort the render; they are returned as
// warnings in the Report. The returned error is reserved for grid failures.
func (r *Renderer) Render(g Grid, data map[string]any) (*Report, error) {
	start := time.Now()
	log := r.opts.logger
	ctx := r.NewContext(data)
	rep := &Report{}

	log.Info("render started", "rows", g.Rows(), "cols", g.Cols(), "fields", len(data))

	blocks := LocateBlocks(g)
	log.Info("loop blocks located", "count", len(blocks))

	var expanded []LoopBlock
	for _, b := range blocks {
		res := BlockResult{Block: b}
		if prev, ok := firstOverlap(b, expanded); ok {
			res.Skipped = true
			rep.Blocks = append(rep.Blocks, res)
			rep.warn(b.End, "loop block %s shares rows with %s and was skipped; its cells in those rows were removed when %s expanded",
				b, prev, prev.Items)
			log.Warn("loop block sharing rows skipped", "block", b.String(), "with", prev.String())
			continue
		}
		n, err := r.expandBlock(g, b, ctx, rep)
		if err != nil {
			return rep, fmt.Errorf("expand block %s: %w", b, err)
		}
		res.Items = n
		res.RowsEmitted = n * b.RowSpan()
		rep.Blocks = append(rep.Blocks, res)
		expanded = append(expanded, b)
	}

	if err := r.substitute(g, ctx, rep); err != nil {
		return rep, fmt.Errorf("substitute placeholders: %w", err)
	}
	log.Info("placeholders substituted", "candidates", rep.ScalarsSeen, "rendered", rep.ScalarsFilled)

	rep.Elapsed = time.Since(start)
	log.Info("render finished", "rows", g.Rows(), "issues", len(rep.Issues), "elapsed", rep.Elapsed)
	return rep, nil
}

func overlapsAny(b LoopBlock, blocks []LoopBlock) bool {
	_, ok := firstOverlap(b, blocks)
	return ok
}

// firstOverlap returns the first of blocks that shares a row with b.
func firstOverlap(b LoopBlock, blocks []LoopBlock) (LoopBlock, bool) {
	for _, o := range blocks {
		if b.overlapsRows(o) {
			return o, true
		}
	}
	return LoopBlock{}, false
}
