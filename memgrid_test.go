package sheetfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemGrid_SetCellGrows(t *testing.T) {
	g := NewMemGrid()
	require.NoError(t, g.SetCell(3, 2, Cell{Value: "x", Style: 4}))

	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 2, g.Cols())
	assert.Equal(t, Cell{Value: "x", Style: 4}, g.Cell(3, 2))
	assert.Equal(t, Cell{}, g.Cell(1, 1))
	assert.Equal(t, Cell{}, g.Cell(99, 99))
}

func TestMemGrid_SetCellInvalid(t *testing.T) {
	g := NewMemGrid()
	assert.Error(t, g.SetCell(0, 1, Cell{Value: "x"}))
	assert.Error(t, g.SetCell(1, 0, Cell{Value: "x"}))
}

func TestMemGrid_InsertRowsShiftsBelow(t *testing.T) {
	g := NewMemGridFromValues([][]any{
		{"a1", "b1"},
		{"a2", "b2"},
		{"a3", "b3"},
	})

	require.NoError(t, g.InsertRows(2, 2))

	assert.Equal(t, 5, g.Rows())
	assert.Equal(t, "a1", g.Cell(1, 1).Value)
	assert.Nil(t, g.Cell(2, 1).Value)
	assert.Nil(t, g.Cell(3, 2).Value)
	assert.Equal(t, "a2", g.Cell(4, 1).Value)
	assert.Equal(t, "b3", g.Cell(5, 2).Value)
}

func TestMemGrid_InsertRowsPastEnd(t *testing.T) {
	g := NewMemGridFromValues([][]any{{"a1"}})
	require.NoError(t, g.InsertRows(4, 1))
	assert.Equal(t, 4, g.Rows())
}

func TestMemGrid_DeleteRowsShiftsUp(t *testing.T) {
	g := NewMemGridFromValues([][]any{
		{"a1"},
		{"a2", "b2", "c2"},
		{"a3"},
		{"a4"},
	})

	require.NoError(t, g.DeleteRows(2, 2))

	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, "a1", g.Cell(1, 1).Value)
	assert.Equal(t, "a4", g.Cell(2, 1).Value)
	assert.Equal(t, 1, g.Cols(), "column count shrinks when the widest row goes")
}

func TestMemGrid_DeleteRowsClampsToEnd(t *testing.T) {
	g := NewMemGridFromValues([][]any{{"a1"}, {"a2"}})
	require.NoError(t, g.DeleteRows(2, 10))
	assert.Equal(t, 1, g.Rows())

	require.NoError(t, g.DeleteRows(5, 1))
	assert.Equal(t, 1, g.Rows())
	assert.Error(t, g.DeleteRows(0, 1))
}

func TestMemGrid_RowHeightMovesWithRow(t *testing.T) {
	g := NewMemGridFromValues([][]any{{"a1"}, {"a2"}})
	require.NoError(t, g.SetRowHeight(2, 30))

	require.NoError(t, g.InsertRows(1, 1))
	assert.Equal(t, 0.0, g.RowHeight(1))
	assert.Equal(t, 30.0, g.RowHeight(3))
}

func TestMemGrid_Values(t *testing.T) {
	g := NewMemGridFromValues([][]any{{"a", nil, 3.0}, {}})
	assert.Equal(t, [][]any{{"a", nil, 3.0}, {nil, nil, nil}}, g.Values())
}

func TestMemGrid_FormulasFollowRowEdits(t *testing.T) {
	g := NewMemGrid()
	require.NoError(t, g.SetCell(1, 1, Cell{Formula: "SUM(A2:A3)"}))
	require.NoError(t, g.SetCell(2, 1, Cell{Value: 1}))
	require.NoError(t, g.SetCell(3, 1, Cell{Value: 2}))
	require.NoError(t, g.SetCell(4, 1, Cell{Formula: "A1+A3"}))

	require.NoError(t, g.InsertRows(3, 2))
	assert.Equal(t, "SUM(A2:A5)", g.Cell(1, 1).Formula)
	assert.Equal(t, "A1+A5", g.Cell(6, 1).Formula)

	require.NoError(t, g.DeleteRows(3, 2))
	assert.Equal(t, "SUM(A2:A3)", g.Cell(1, 1).Formula)
	assert.Equal(t, "A1+A3", g.Cell(4, 1).Formula)
}
