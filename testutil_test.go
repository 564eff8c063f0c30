package sheetfill

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// saveTemplate writes f to a temporary xlsx file and returns its path.
func saveTemplate(t *testing.T, f *excelize.File, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

// createNoticeTemplate builds the notice template used by the end-to-end tests.
// Layout:
//
//	A1: "Notice"                   B1: "{{ notice_no }}"
//	A4: "Code" (bold)              B4: "Name" (bold)
//	A5: "{% for p in projects %}"
//	A6: "{{ p.code }}" (bordered)  B6: "{{ p.name }}" (bordered), row height 30
//	A7: "{{ p.money }}"            B7: "{% endfor %}"
//	A8: "Total"                    B8: "{{ all_money }}"   C8: =LEN(A1)
func createNoticeTemplate(t *testing.T) (path string, boldStyle, borderStyle int) {
	t.Helper()
	f := excelize.NewFile()
	sheet := "Sheet1"

	var err error
	boldStyle, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)
	borderStyle, err = f.NewStyle(&excelize.Style{
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	require.NoError(t, err)

	f.SetCellValue(sheet, "A1", "Notice")
	f.SetCellValue(sheet, "B1", "{{ notice_no }}")
	f.SetCellValue(sheet, "A4", "Code")
	f.SetCellValue(sheet, "B4", "Name")
	f.SetCellStyle(sheet, "A4", "B4", boldStyle)

	f.SetCellValue(sheet, "A5", "{% for p in projects %}")
	f.SetCellValue(sheet, "A6", "{{ p.code }}")
	f.SetCellValue(sheet, "B6", "{{ p.name }}")
	f.SetCellStyle(sheet, "A6", "B6", borderStyle)
	f.SetRowHeight(sheet, 6, 30)
	f.SetCellValue(sheet, "A7", "{{ p.money }}")
	f.SetCellValue(sheet, "B7", "{% endfor %}")

	f.SetCellValue(sheet, "A8", "Total")
	f.SetCellValue(sheet, "B8", "{{ all_money }}")
	f.SetCellFormula(sheet, "C8", "LEN(A1)")

	return saveTemplate(t, f, "notice.xlsx"), boldStyle, borderStyle
}

func noticeFillData() map[string]any {
	return map[string]any{
		"notice_no": "TEST001",
		"all_money": 300.0,
		"projects": []any{
			map[string]any{"code": "P1", "name": "A", "money": 100.0},
			map[string]any{"code": "P2", "name": "B", "money": 200.0},
		},
	}
}

// openOutput opens rendered bytes for inspection.
func openOutput(t *testing.T, out []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
