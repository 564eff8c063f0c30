package sheetfill

import (
	"regexp"
	"strconv"
	"strings"
)

// cellRefRegex matches cell references in formulas (e.g., A1, $A$1, Sheet1!A1).
// Ranges such as A1:B5 match as two references.
var cellRefRegex = regexp.MustCompile(`(?:('[^']+'|[A-Za-z0-9_.]+)!)?(\$?)([A-Z]{1,3})(\$?)(\d+)`)

// shiftFormulaRows moves every same-sheet reference of formula whose row is
// at least from by delta rows, the way a spreadsheet does when rows are
// inserted or removed above it. Absolute rows move too. Sheet-qualified
// references, quoted text and names such as LOG10( are left alone.
func shiftFormulaRows(formula string, from, delta int) string {
	if delta == 0 || formula == "" {
		return formula
	}
	quoted := quotedMask(formula)

	var b strings.Builder
	last := 0
	for _, m := range cellRefRegex.FindAllStringSubmatchIndex(formula, -1) {
		start, end := m[0], m[1]
		if quoted[start] || m[2] >= 0 || !isRefBoundary(formula, start, end) {
			continue
		}
		row, err := strconv.Atoi(formula[m[10]:m[11]])
		if err != nil || row < from {
			continue
		}
		b.WriteString(formula[last:m[10]])
		b.WriteString(strconv.Itoa(row + delta))
		last = end
	}
	if last == 0 {
		return formula
	}
	b.WriteString(formula[last:])
	return b.String()
}

// quotedMask marks the bytes of s that sit inside a double-quoted string literal.
func quotedMask(s string) []bool {
	mask := make([]bool, len(s))
	in := false
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			in = !in
		}
		mask[i] = in
	}
	return mask
}

// isRefBoundary reports whether s[start:end] stands alone as a reference and
// is not part of a longer name or a function call.
func isRefBoundary(s string, start, end int) bool {
	if start > 0 && isNameByte(s[start-1]) {
		return false
	}
	if end < len(s) && (isNameByte(s[end]) || s[end] == '(') {
		return false
	}
	return true
}

func isNameByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '_' || b == '.'
}
