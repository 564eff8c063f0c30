package sheetfill

import (
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// Options holds configuration for the Renderer and Filler.
type Options struct {
	templatePath      string
	templateReader    io.Reader
	sheet             string
	notationBegin     string
	notationEnd       string
	evaluator         ExpressionEvaluator
	logger            *slog.Logger
	inheritScope      bool
	textValues        bool
	rowHeights        bool
	recalculateOnOpen bool
	listeners         []CellListener
	preWrite          func(*excelize.File) error
}

func defaultOptions() *Options {
	return &Options{
		notationBegin: DefaultNotationBegin,
		notationEnd:   DefaultNotationEnd,
		logger:        slog.New(slog.DiscardHandler),
		rowHeights:    true,
	}
}

// Option configures the Renderer and Filler.
type Option func(*Options)

// WithTemplate sets the template file path.
func WithTemplate(path string) Option {
	return func(o *Options) { o.templatePath = path }
}

// WithTemplateReader sets the template as an io.Reader.
func WithTemplateReader(r io.Reader) Option {
	return func(o *Options) { o.templateReader = r }
}

// WithSheet selects the worksheet to render (default: the active sheet).
func WithSheet(name string) Option {
	return func(o *Options) { o.sheet = name }
}

// WithExpressionNotation sets the interpolation delimiters (default: "{{", "}}").
// Loop markers always use "{% ... %}".
func WithExpressionNotation(begin, end string) Option {
	return func(o *Options) {
		o.notationBegin = begin
		o.notationEnd = end
	}
}

// WithExpressionEvaluator replaces the expr-lang evaluator.
func WithExpressionEvaluator(ev ExpressionEvaluator) Option {
	return func(o *Options) { o.evaluator = ev }
}

// WithLogger sets the structured logger (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithInheritedScope makes loop cells see the top-level context in addition
// to the loop variable. By default a loop cell sees only its loop variable.
func WithInheritedScope(inherit bool) Option {
	return func(o *Options) { o.inheritScope = inherit }
}

// WithTextValues writes every rendered value as text. By default a cell that
// is exactly one expression keeps the result's type (number, bool).
func WithTextValues(text bool) Option {
	return func(o *Options) { o.textValues = text }
}

// WithRowHeights controls whether expanded rows copy the template rows'
// custom heights (default: true).
func WithRowHeights(enabled bool) Option {
	return func(o *Options) { o.rowHeights = enabled }
}

// WithRecalculateOnOpen tells Excel to recalculate all formulas when the file is opened.
func WithRecalculateOnOpen(recalc bool) Option {
	return func(o *Options) { o.recalculateOnOpen = recalc }
}

// WithCellListener adds a listener notified before/after each expanded cell.
func WithCellListener(l CellListener) Option {
	return func(o *Options) { o.listeners = append(o.listeners, l) }
}

// WithPreWrite sets a callback executed on the rendered workbook before it is written.
func WithPreWrite(fn func(*excelize.File) error) Option {
	return func(o *Options) { o.preWrite = fn }
}
