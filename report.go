package sheetfill

import (
	"fmt"
	"time"
)

// Severity indicates the severity of an issue.
type Severity int

const (
	SeverityError   Severity = iota // Template cannot render as intended
	SeverityWarning                 // Rendering continued but the output may be unexpected
)

// String returns "ERROR" or "WARN".
func (s Severity) String() string {
	if s == SeverityWarning {
		return "WARN"
	}
	return "ERROR"
}

// Issue is a single problem found while validating or rendering a template.
type Issue struct {
	Severity Severity
	CellRef  CellRef
	Message  string
}

// String formats the issue as "[ERROR] A2: message" or "[WARN] ...".
func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.CellRef, i.Message)
}

// BlockResult describes what happened to one loop block during a render.
type BlockResult struct {
	Block       LoopBlock
	Items       int  // number of items in the bound list
	RowsEmitted int  // Items × Block.RowSpan()
	Skipped     bool // true if the block overlapped one already expanded
}

// Report summarises a render.
type Report struct {
	Blocks        []BlockResult
	ScalarsSeen   int // candidate cells visited by the substitution pass
	ScalarsFilled int // candidate cells successfully substituted
	Issues        []Issue
	Elapsed       time.Duration
}

func (r *Report) warn(ref CellRef, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity: SeverityWarning,
		CellRef:  ref,
		Message:  fmt.Sprintf(format, args...),
	})
}
