package sheetfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestSheetGrid(t *testing.T) (*excelize.File, *SheetGrid) {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })

	f.SetCellValue("Sheet1", "A1", "text")
	f.SetCellValue("Sheet1", "B1", 42)
	f.SetCellValue("Sheet1", "C1", true)
	f.SetCellFormula("Sheet1", "A2", "B1*2")
	f.SetCellValue("Sheet1", "A3", "{{ x }}")

	g, err := NewSheetGrid(f, "Sheet1")
	require.NoError(t, err)
	return f, g
}

func TestSheetGrid_ReadsCells(t *testing.T) {
	_, g := newTestSheetGrid(t)

	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 3, g.Cols())
	assert.Equal(t, "text", g.Cell(1, 1).Value)
	assert.Equal(t, 42.0, g.Cell(1, 2).Value)
	assert.Equal(t, true, g.Cell(1, 3).Value)
	assert.Equal(t, "B1*2", g.Cell(2, 1).Formula)
	assert.True(t, g.Cell(5, 5).IsZero())
}

func TestSheetGrid_NotFound(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := NewSheetGrid(f, "Missing")
	assert.ErrorContains(t, err, "not found")
}

func TestSheetGrid_SetCellKeepsStyle(t *testing.T) {
	f, g := newTestSheetGrid(t)
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Italic: true}})
	require.NoError(t, err)

	require.NoError(t, g.SetCell(4, 5, Cell{Value: "x", Style: StyleID(style)}))
	assert.Equal(t, 4, g.Rows())
	assert.Equal(t, 5, g.Cols())

	c := g.Cell(4, 5)
	assert.Equal(t, "x", c.Value)
	assert.Equal(t, StyleID(style), c.Style)

	require.NoError(t, g.SetCell(4, 4, Cell{Formula: "A1&\"!\""}))
	assert.Equal(t, `A1&"!"`, g.Cell(4, 4).Formula)
}

func TestSheetGrid_InsertAndDeleteRows(t *testing.T) {
	f, g := newTestSheetGrid(t)

	require.NoError(t, g.InsertRows(2, 2))
	assert.Equal(t, 5, g.Rows())
	assert.True(t, g.Cell(2, 1).IsZero())
	assert.Equal(t, "{{ x }}", g.Cell(5, 1).Value)

	formula, err := f.GetCellFormula("Sheet1", "A4")
	require.NoError(t, err)
	assert.Equal(t, "B1*2", formula, "references above the insertion point are unchanged")

	require.NoError(t, g.DeleteRows(2, 2))
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, "B1*2", g.Cell(2, 1).Formula)

	require.NoError(t, g.DeleteRows(3, 10))
	assert.Equal(t, 2, g.Rows())

	assert.Error(t, g.InsertRows(0, 1))
	assert.Error(t, g.DeleteRows(1, -1))
}

func TestSheetGrid_RowHeight(t *testing.T) {
	_, g := newTestSheetGrid(t)
	assert.Equal(t, 0.0, g.RowHeight(1), "default height reads as none")

	require.NoError(t, g.SetRowHeight(2, 28))
	assert.Equal(t, 28.0, g.RowHeight(2))

	require.NoError(t, g.InsertRows(1, 1))
	assert.Equal(t, 28.0, g.RowHeight(3), "height moves with its row")
}

func TestReadGrid(t *testing.T) {
	f, g := newTestSheetGrid(t)
	require.NoError(t, g.SetRowHeight(3, 40))

	mem, err := ReadGrid(f, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, 3, mem.Rows())
	assert.Equal(t, "text", mem.Cell(1, 1).Value)
	assert.Equal(t, "B1*2", mem.Cell(2, 1).Formula)
	assert.Equal(t, 40.0, mem.RowHeight(3))

	// Rendering the copy leaves the workbook untouched.
	_, err = Render(mem, map[string]any{"x": "rendered"})
	require.NoError(t, err)
	assert.Equal(t, "rendered", mem.Cell(3, 1).Value)
	v, _ := f.GetCellValue("Sheet1", "A3")
	assert.Equal(t, "{{ x }}", v)
}

func TestSheetGrid_RenderInPlace(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "{% for n in nums %}{{ n * 10 }}")
	f.SetCellValue("Sheet1", "B1", "{% endfor %}")
	f.SetCellValue("Sheet1", "A2", "end")

	g, err := NewSheetGrid(f, ActiveSheet(f))
	require.NoError(t, err)
	rep, err := Render(g, map[string]any{"nums": []any{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Blocks[0].RowsEmitted)

	for i, want := range []string{"10", "20", "30", "end"} {
		name, _ := excelize.CoordinatesToCellName(1, i+1)
		v, _ := f.GetCellValue("Sheet1", name)
		assert.Equal(t, want, v, name)
	}
}
