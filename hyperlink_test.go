package sheetfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestHyperlinkValue_String(t *testing.T) {
	assert.Equal(t, "Example", Hyperlink("https://example.com", "Example").String())
	assert.Equal(t, "https://example.com", Hyperlink("https://example.com", "").String())
}

func TestRender_HyperlinkInMemGrid(t *testing.T) {
	g := NewMemGridFromValues([][]any{
		{"{% for p in ps %}{{ hyperlink(p.url, p.name) }}", "see {{ hyperlink(p.url, p.name) }}{% endfor %}"},
	})
	_, err := Render(g, map[string]any{"ps": []any{
		map[string]any{"url": "https://a.example", "name": "A"},
	}})
	require.NoError(t, err)

	assert.Equal(t, HyperlinkValue{URL: "https://a.example", Display: "A"}, g.Cell(1, 1).Value)
	assert.Equal(t, "see A", g.Cell(1, 2).Value)
}

func TestRender_DataShadowsBuiltin(t *testing.T) {
	g := NewMemGridFromValues([][]any{{"{{ hyperlink }}"}})
	_, err := Render(g, map[string]any{"hyperlink": "mine"})
	require.NoError(t, err)
	assert.Equal(t, "mine", g.Cell(1, 1).Value)
}

func TestSheetGrid_WritesHyperlink(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", `{{ hyperlink("https://example.com", "Example") }}`)
	f.SetCellValue("Sheet1", "A2", `{{ hyperlink("#Sheet1!C3", "Jump") }}`)

	g, err := NewSheetGrid(f, "Sheet1")
	require.NoError(t, err)
	_, err = Render(g, nil)
	require.NoError(t, err)

	v, _ := f.GetCellValue("Sheet1", "A1")
	assert.Equal(t, "Example", v)
	ok, link, err := f.GetCellHyperLink("Sheet1", "A1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", link)

	ok, link, err = f.GetCellHyperLink("Sheet1", "A2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sheet1!C3", link)
}
