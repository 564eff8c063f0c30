package sheetfill

import (
	"fmt"
	"strconv"
	"strings"
)

// Context holds template data and provides expression evaluation.
// It manages both caller-provided data and loop iteration variables (runVars).
// The caller's data map is never written to.
type Context struct {
	data          map[string]any
	runVars       map[string]any
	evaluator     ExpressionEvaluator
	notationBegin string
	notationEnd   string

	cachedMap map[string]any // merged view, reset by bind
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithNotation sets custom expression notation delimiters.
func WithNotation(begin, end string) ContextOption {
	return func(c *Context) {
		c.notationBegin = begin
		c.notationEnd = end
	}
}

// WithEvaluator sets a custom expression evaluator.
func WithEvaluator(ev ExpressionEvaluator) ContextOption {
	return func(c *Context) {
		c.evaluator = ev
	}
}

// NewContext creates a new Context with the given data and options.
func NewContext(data map[string]any, opts ...ContextOption) *Context {
	if data == nil {
		data = make(map[string]any)
	}
	c := &Context{
		data:          data,
		runVars:       make(map[string]any),
		evaluator:     NewExpressionEvaluator(),
		notationBegin: DefaultNotationBegin,
		notationEnd:   DefaultNotationEnd,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// scoped returns a fresh Context holding only name → value, sharing the
// evaluator and notation of c.
func (c *Context) scoped(name string, value any) *Context {
	return &Context{
		data:          map[string]any{name: value},
		runVars:       make(map[string]any),
		evaluator:     c.evaluator,
		notationBegin: c.notationBegin,
		notationEnd:   c.notationEnd,
	}
}

// GetVar returns the value bound to name, looking at loop bindings first.
func (c *Context) GetVar(name string) any {
	if v, ok := c.runVars[name]; ok {
		return v
	}
	return c.data[name]
}

// ToMap returns data merged with the loop bindings, which win on conflict.
// Built-in functions fill any name the data leaves free.
func (c *Context) ToMap() map[string]any {
	if c.cachedMap != nil {
		return c.cachedMap
	}
	m := make(map[string]any, len(c.data)+len(c.runVars)+len(builtins))
	for k, v := range c.data {
		m[k] = v
	}
	for k, v := range c.runVars {
		m[k] = v
	}
	for k, fn := range builtins {
		if _, ok := m[k]; !ok {
			m[k] = fn
		}
	}
	c.cachedMap = m
	return m
}

// Evaluate evaluates an expression string using the merged data.
func (c *Context) Evaluate(expression string) (any, error) {
	return c.evaluator.Evaluate(expression, c.ToMap())
}

// HasExpression reports whether value contains the opening delimiter.
func (c *Context) HasExpression(value string) bool {
	return strings.Contains(value, c.notationBegin)
}

// EvaluateCellValue evaluates a cell value string, processing embedded expressions.
// If the value is a single expression like "{{ p.money }}", the result keeps its
// type (number, bool, ...). Mixed content like "Total: {{ p.money }}" always
// yields a string. A nil result becomes nil for a single expression and
// contributes nothing to mixed content.
func (c *Context) EvaluateCellValue(value string) (any, error) {
	segments, err := ParseExpressions(value, c.notationBegin, c.notationEnd)
	if err != nil {
		return nil, err
	}

	if exprStr, isSingle := ExtractSingleExpression(value, c.notationBegin, c.notationEnd); isSingle {
		result, err := c.Evaluate(exprStr)
		if err != nil {
			return nil, fmt.Errorf("evaluate %q: %w", value, err)
		}
		return result, nil
	}

	var b strings.Builder
	for _, seg := range segments {
		if !seg.IsExpression {
			b.WriteString(seg.Text)
			continue
		}
		val, err := c.Evaluate(seg.Text)
		if err != nil {
			return nil, fmt.Errorf("evaluate expression %q in %q: %w", seg.Text, value, err)
		}
		b.WriteString(formatValue(val))
	}
	return b.String(), nil
}

// RenderString evaluates value and always returns text.
func (c *Context) RenderString(value string) (string, error) {
	v, err := c.EvaluateCellValue(value)
	if err != nil {
		return "", err
	}
	return formatValue(v), nil
}

// formatValue converts an evaluation result to cell text.
func formatValue(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(vv), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", vv)
	}
}

// bind makes name resolve to value until the returned func is called, which
// restores whatever name resolved to before. Calls must unwind in reverse order.
func (c *Context) bind(name string, value any) (restore func()) {
	old, had := c.runVars[name]
	c.runVars[name] = value
	c.cachedMap = nil
	return func() {
		if had {
			c.runVars[name] = old
		} else {
			delete(c.runVars, name)
		}
		c.cachedMap = nil
	}
}
