package sheetfill

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Default interpolation delimiters.
const (
	DefaultNotationBegin = "{{"
	DefaultNotationEnd   = "}}"
)

// ErrSyntax reports malformed interpolation text: an unterminated or empty
// expression, or an expression that does not compile.
var ErrSyntax = errors.New("template syntax error")

// ExpressionEvaluator evaluates a single expression (the text between the
// delimiters) against a data map.
type ExpressionEvaluator interface {
	Evaluate(expression string, data map[string]any) (any, error)
}

// exprEvaluator implements ExpressionEvaluator using expr-lang/expr.
type exprEvaluator struct {
	cache sync.Map // expression string → compiled *vm.Program
}

// NewExpressionEvaluator creates a new expression evaluator backed by expr-lang/expr.
// Compiled programs are cached and the evaluator is safe for concurrent use.
func NewExpressionEvaluator() ExpressionEvaluator {
	return &exprEvaluator{}
}

func (e *exprEvaluator) Evaluate(expression string, data map[string]any) (any, error) {
	program, err := e.compile(expression)
	if err != nil {
		return nil, fmt.Errorf("%w: compile expression %q: %v", ErrSyntax, expression, err)
	}
	result, err := expr.Run(program, data)
	if err != nil {
		return nil, fmt.Errorf("evaluate expression %q: %w", expression, err)
	}
	return result, nil
}

func (e *exprEvaluator) compile(expression string) (*vm.Program, error) {
	if cached, ok := e.cache.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := compileExpression(expression)
	if err != nil {
		return nil, err
	}
	e.cache.Store(expression, program)
	return program, nil
}

// compileExpression compiles without a typed environment so one program can
// serve every data shape the expression is later run against.
func compileExpression(expression string) (*vm.Program, error) {
	return expr.Compile(expression, expr.AllowUndefinedVariables())
}

// ExpressionSegment represents a part of a cell value: either literal text or an expression.
type ExpressionSegment struct {
	IsExpression bool
	Text         string // literal text or trimmed expression content (without delimiters)
}

// ParseExpressions splits a cell value into segments of literal text and expressions.
// For example, "Name: {{ p.name }}" → [{false, "Name: "}, {true, "p.name"}].
// An opening delimiter without a matching close, or an empty expression,
// yields ErrSyntax.
func ParseExpressions(value string, begin, end string) ([]ExpressionSegment, error) {
	if begin == "" || end == "" {
		begin, end = DefaultNotationBegin, DefaultNotationEnd
	}

	var segments []ExpressionSegment
	remaining := value

	for {
		startIdx := strings.Index(remaining, begin)
		if startIdx < 0 {
			break
		}

		searchFrom := startIdx + len(begin)
		endIdx := findMatchingEnd(remaining[searchFrom:], begin, end)
		if endIdx < 0 {
			return nil, fmt.Errorf("%w: unterminated %q in %q", ErrSyntax, begin, value)
		}
		endIdx += searchFrom

		if startIdx > 0 {
			segments = append(segments, ExpressionSegment{Text: remaining[:startIdx]})
		}

		exprText := strings.TrimSpace(remaining[searchFrom:endIdx])
		if exprText == "" {
			return nil, fmt.Errorf("%w: empty expression in %q", ErrSyntax, value)
		}
		segments = append(segments, ExpressionSegment{IsExpression: true, Text: exprText})

		remaining = remaining[endIdx+len(end):]
	}

	if remaining != "" {
		segments = append(segments, ExpressionSegment{Text: remaining})
	}
	return segments, nil
}

// findMatchingEnd finds the position of the matching end delimiter,
// handling nested begin/end pairs.
func findMatchingEnd(s string, begin, end string) int {
	depth := 0
	for i := 0; i <= len(s)-len(end); i++ {
		if strings.HasPrefix(s[i:], begin) {
			depth++
			i += len(begin) - 1
		} else if strings.HasPrefix(s[i:], end) {
			if depth == 0 {
				return i
			}
			depth--
			i += len(end) - 1
		}
	}
	return -1
}

// ExtractSingleExpression extracts the expression from a value like "{{ p.name }}".
// Returns the trimmed expression and true if the value is exactly one
// expression with no surrounding text.
func ExtractSingleExpression(value string, begin, end string) (string, bool) {
	if begin == "" || end == "" {
		begin, end = DefaultNotationBegin, DefaultNotationEnd
	}
	segments, err := ParseExpressions(strings.TrimSpace(value), begin, end)
	if err != nil || len(segments) != 1 || !segments[0].IsExpression {
		return "", false
	}
	return segments[0].Text, true
}
