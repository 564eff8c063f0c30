package sheetfill

import (
	"regexp"
	"strings"
)

// Block marker syntax. Both patterns tolerate whitespace around tokens and
// match anywhere inside the cell text.
var (
	loopStartPattern = regexp.MustCompile(`{%\s*for\s+(\w+)\s+in\s+(\w+)\s*%}`)
	loopEndPattern   = regexp.MustCompile(`{%\s*endfor\s*%}`)
)

const blockMarker = "{%"

// matchLoopStart returns the loop variable and list name if text carries a
// loop-start marker.
func matchLoopStart(text string) (varName, listName string, ok bool) {
	m := loopStartPattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// isLoopEnd reports whether text carries a loop-end marker.
func isLoopEnd(text string) bool {
	return loopEndPattern.MatchString(text)
}

// isLoopMarker reports whether text carries either loop marker.
func isLoopMarker(text string) bool {
	return loopStartPattern.MatchString(text) || loopEndPattern.MatchString(text)
}

// stripLoopMarkers removes loop markers from text and trims what is left.
func stripLoopMarkers(text string) string {
	clean := strings.TrimSpace(loopStartPattern.ReplaceAllString(text, ""))
	return strings.TrimSpace(loopEndPattern.ReplaceAllString(clean, ""))
}

// hasBlockMarker reports whether text still contains block syntax.
func hasBlockMarker(text string) bool {
	return strings.Contains(text, blockMarker)
}
