package sheetfill

import (
	"fmt"
	"strings"
)

// HyperlinkValue is the result of the hyperlink() template function.
// SheetGrid writes the display text and attaches the link; other grids keep
// the value as is. In mixed text it renders as its display text.
type HyperlinkValue struct {
	URL     string
	Display string
}

// String returns the display text, falling back to the URL.
func (h HyperlinkValue) String() string {
	if h.Display != "" {
		return h.Display
	}
	return h.URL
}

// Hyperlink builds a HyperlinkValue. A URL starting with "#" points inside the
// workbook, e.g. "#Sheet2!A1".
// Usage in template: {{ hyperlink(p.url, p.name) }}
func Hyperlink(url, display string) HyperlinkValue {
	return HyperlinkValue{URL: url, Display: display}
}

// builtins are available to every expression unless the data uses the same name.
var builtins = map[string]any{
	"hyperlink": Hyperlink,
}

// setHyperlink writes h into the named cell of the grid's sheet.
func (g *SheetGrid) setHyperlink(cell string, h HyperlinkValue) error {
	if err := g.file.SetCellValue(g.sheet, cell, h.String()); err != nil {
		return err
	}
	link, linkType := h.URL, "External"
	if loc, ok := strings.CutPrefix(h.URL, "#"); ok {
		link, linkType = loc, "Location"
	}
	if err := g.file.SetCellHyperLink(g.sheet, cell, link, linkType); err != nil {
		return fmt.Errorf("hyperlink %q: %w", h.URL, err)
	}
	return nil
}
