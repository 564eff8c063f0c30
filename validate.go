package sheetfill

import (
	"fmt"
	"strings"
)

// Validate checks a template for structural and expression errors without
// requiring data. It returns a list of issues found. A non-nil error indicates
// the template could not be opened at all.
func Validate(templatePath string, opts ...Option) ([]Issue, error) {
	allOpts := append([]Option{WithTemplate(templatePath)}, opts...)
	return NewFiller(allOpts...).Validate()
}

// ValidateGrid runs the static checks of Validate against an in-memory grid.
func ValidateGrid(g Grid, opts ...Option) []Issue {
	return NewRenderer(opts...).Validate(g)
}

// Validate opens the template, selects the sheet and performs static checks.
// Issue positions carry the sheet name.
func (f *Filler) Validate() ([]Issue, error) {
	file, err := f.openTemplate()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	g, err := f.sheetGrid(file)
	if err != nil {
		return nil, err
	}
	issues := f.renderer.Validate(g)
	for i := range issues {
		issues[i].CellRef.Sheet = g.Sheet()
	}
	return issues, nil
}

// Validate reports what a render of g would silently skip or keep unrendered:
// unpaired loop markers, overlapping blocks, unknown block tags and
// interpolations that do not parse or compile. g is only read.
func (r *Renderer) Validate(g Grid) []Issue {
	var issues []Issue
	issues = append(issues, validateMarkers(g)...)
	issues = append(issues, r.validateExpressions(g)...)
	return issues
}

// validateMarkers compares the blocks the locator pairs with every marker in
// the grid.
func validateMarkers(g Grid) []Issue {
	var issues []Issue
	blocks := LocateBlocks(g)
	pairedStarts := make(map[CellRef]bool)
	pairedEnds := make(map[CellRef]bool)

	var kept []LoopBlock
	for _, b := range blocks {
		pairedStarts[b.Start] = true
		pairedEnds[b.End] = true
		if overlapsAny(b, kept) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				CellRef:  b.End,
				Message:  fmt.Sprintf("loop block %s shares rows with another block and will be skipped; its cells in those rows are removed", b),
			})
			continue
		}
		kept = append(kept, b)
	}

	starts, ends := markerPositions(g)
	for _, ref := range starts {
		if !pairedStarts[ref] {
			issues = append(issues, Issue{
				Severity: SeverityError,
				CellRef:  ref,
				Message:  "loop start has no matching {% endfor %}",
			})
		}
	}
	for _, ref := range ends {
		if !pairedEnds[ref] {
			issues = append(issues, Issue{
				Severity: SeverityError,
				CellRef:  ref,
				Message:  "{% endfor %} has no preceding loop start",
			})
		}
	}
	return issues
}

// validateExpressions checks every text cell for unknown block tags and
// interpolation syntax.
func (r *Renderer) validateExpressions(g Grid) []Issue {
	var issues []Issue
	begin, end := r.opts.notationBegin, r.opts.notationEnd

	for row := 1; row <= g.Rows(); row++ {
		for col := 1; col <= g.Cols(); col++ {
			text, ok := g.Cell(row, col).Text()
			if !ok {
				continue
			}
			ref := NewCellRef("", row, col)

			clean := text
			if hasBlockMarker(text) {
				clean = stripLoopMarkers(text)
				if hasBlockMarker(clean) {
					issues = append(issues, Issue{
						Severity: SeverityWarning,
						CellRef:  ref,
						Message:  fmt.Sprintf("unrecognised block tag in %q; only for and endfor are supported", text),
					})
					continue
				}
			}
			if !strings.Contains(clean, begin) {
				continue
			}
			issues = append(issues, checkExpressionSyntax(ref, clean, begin, end)...)
		}
	}
	return issues
}

// checkExpressionSyntax extracts the expressions of value and compiles each one.
func checkExpressionSyntax(ref CellRef, value, begin, end string) []Issue {
	segments, err := ParseExpressions(value, begin, end)
	if err != nil {
		return []Issue{{
			Severity: SeverityError,
			CellRef:  ref,
			Message:  fmt.Sprintf("invalid expression syntax %q: %v", value, err),
		}}
	}
	var issues []Issue
	for _, seg := range segments {
		if !seg.IsExpression {
			continue
		}
		if _, err := compileExpression(seg.Text); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				CellRef:  ref,
				Message:  fmt.Sprintf("invalid expression syntax %q: %v", seg.Text, err),
			})
		}
	}
	return issues
}
