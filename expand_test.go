package sheetfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSlice(t *testing.T) {
	s, err := toSlice(nil)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = toSlice([]any{1, "a"})
	require.NoError(t, err)
	assert.Equal(t, []any{1, "a"}, s)

	s, err = toSlice([]string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "y"}, s)

	s, err = toSlice([2]int{4, 5})
	require.NoError(t, err)
	assert.Equal(t, []any{4, 5}, s)

	_, err = toSlice(map[string]any{"a": 1})
	assert.ErrorContains(t, err, "cannot iterate")
}

func TestSnapshotBlock(t *testing.T) {
	g := NewMemGridFromValues([][]any{
		{"x", "{% for p in ps %}", "y"},
		{"x", "{{ p }}", "{% endfor %}"},
	})
	require.NoError(t, g.SetRowHeight(2, 22))
	b := LocateBlocks(g)[0]

	tpl := snapshotBlock(g, b)
	require.Len(t, tpl.cells, 2)
	assert.Len(t, tpl.cells[0], 2, "rectangle spans columns B..C")
	assert.Equal(t, "{{ p }}", tpl.cells[1][0].Value)
	assert.Equal(t, []float64{0, 22}, tpl.heights)
}

func TestLoopCellValue(t *testing.T) {
	r := NewRenderer()
	ctx := NewContext(nil).scoped("p", map[string]any{"name": "A", "n": 2})
	target := NewCellRef("", 1, 1)

	tests := []struct {
		name string
		src  Cell
		want any
	}{
		{"single expression typed", Cell{Value: "{{ p.n }}"}, 2},
		{"mixed text", Cell{Value: "Name: {{ p.name }}"}, "Name: A"},
		{"markers stripped", Cell{Value: "{% for p in ps %} {{ p.name }} {% endfor %}"}, "A"},
		{"marker only", Cell{Value: "{% endfor %}"}, nil},
		{"start marker only", Cell{Value: "{% for p in ps %}"}, nil},
		{"literal copied", Cell{Value: "static"}, "static"},
		{"number copied", Cell{Value: 7.5}, 7.5},
		{"empty", Cell{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := &Report{}
			got := r.loopCellValue(tt.src, target, ctx, rep)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, rep.Issues)
		})
	}
}

func TestLoopCellValue_ErrorKeepsText(t *testing.T) {
	r := NewRenderer()
	ctx := NewContext(nil).scoped("p", 1)
	rep := &Report{}

	got := r.loopCellValue(Cell{Value: "{% for p in ps %}{{ p +"}, NewCellRef("", 3, 2), ctx, rep)
	assert.Equal(t, "{% for p in ps %}{{ p +", got, "original text, markers included")
	require.Len(t, rep.Issues, 1)
	assert.Equal(t, "B3", rep.Issues[0].CellRef.String())
}

func TestExpandBlock_ReturnsItemCount(t *testing.T) {
	g := NewMemGridFromValues([][]any{
		{"{% for p in ps %}{{ p }}", "{% endfor %}"},
		{"tail"},
	})
	r := NewRenderer()
	rep := &Report{}
	b := LocateBlocks(g)[0]
	assert.Equal(t, 1, b.RowSpan())

	n, err := r.expandBlock(g, b, r.NewContext(map[string]any{"ps": []string{"a", "b", "c"}}), rep)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	// The end marker column renders empty, so only column A is in use.
	assert.Equal(t, [][]any{{"a"}, {"b"}, {"c"}, {"tail"}}, g.Values())
}

func TestLocateBlocks_SameCellMarkersDoNotPair(t *testing.T) {
	g := NewMemGridFromValues([][]any{{"{% for p in ps %}{{ p }}{% endfor %}"}})
	assert.Empty(t, LocateBlocks(g))
}
