package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			cellName, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cellName, cell))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestDecodeWorkbookXLSX(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Item Code", "Description", "Total Cost"},
		{"1", "Sitework", 1000},
		{"2", "Concrete", 9000},
	})

	rows, err := NewWorkbookDecoder().DecodeWorkbook(buf, "boq.xlsx")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0]["Item Code"])
	assert.Equal(t, "Sitework", rows[0]["Description"])
	assert.Equal(t, "9000", rows[1]["Total Cost"])
}

func TestDecodeWorkbookCSV(t *testing.T) {
	csv := "Item Code,Description,Total Cost\n" +
		"1,Sitework,1000\n" +
		"2,Concrete,9000\n"

	rows, err := NewWorkbookDecoder().DecodeWorkbook(strings.NewReader(csv), "boq.csv")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Concrete", rows[1]["Description"])
}

func TestDecodeWorkbookCSVWithBOMHeader(t *testing.T) {
	csv := "\uFEFFItem Code,Description,Total Cost\n" +
		"1,Sitework,1000\n"

	rows, err := NewWorkbookDecoder().DecodeWorkbook(strings.NewReader(csv), "boq.csv")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["Item Code"])
}

func TestDecodeWorkbookSkipsBlankRows(t *testing.T) {
	csv := "Item Code,Description,Total Cost\n" +
		"1,Sitework,1000\n" +
		",,\n" +
		"2,Concrete,9000\n"

	rows, err := NewWorkbookDecoder().DecodeWorkbook(strings.NewReader(csv), "boq.csv")

	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestDecodeWorkbookHeaderOnly(t *testing.T) {
	rows, err := NewWorkbookDecoder().DecodeWorkbook(strings.NewReader("Item Code,Description\n"), "boq.csv")

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDecodeWorkbookRaggedCSV(t *testing.T) {
	csv := "Item Code,Description,Total Cost\n" +
		"1,Sitework\n" +
		"2,Concrete,9000,extra\n"

	rows, err := NewWorkbookDecoder().DecodeWorkbook(strings.NewReader(csv), "boq.csv")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	_, hasTotal := rows[0]["Total Cost"]
	assert.False(t, hasTotal, "short rows omit trailing columns")
	assert.Equal(t, "9000", rows[1]["Total Cost"])
}
