package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WorkbookDecoder turns raw spreadsheet bytes into header-keyed row maps.
// The analysis core is agnostic to the on-disk format; this is the only
// place that knows about xlsx vs csv.
type WorkbookDecoder interface {
	DecodeWorkbook(r io.Reader, fileName string) ([]map[string]string, error)
}

type workbookDecoder struct{}

func NewWorkbookDecoder() WorkbookDecoder {
	return &workbookDecoder{}
}

// DecodeWorkbook reads the first sheet of an xlsx workbook, or a csv file,
// into one map per data row keyed by the header row's column names. The
// format is chosen by file extension, defaulting to xlsx.
func (d *workbookDecoder) DecodeWorkbook(r io.Reader, fileName string) ([]map[string]string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return decodeCSV(r)
	default:
		return decodeXLSX(r)
	}
}

func decodeXLSX(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %w", sheetName, err)
	}

	return mapRows(rows), nil
}

func decodeCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // BoQ exports often have ragged rows

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return mapRows(rows), nil
}

// mapRows zips the header row with each data row. Cells beyond the header
// width are ignored; short rows simply omit the trailing keys.
func mapRows(rows [][]string) []map[string]string {
	if len(rows) < 2 {
		return nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}

	mapped := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(headers))
		empty := true
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			record[headers[i]] = cell
			if strings.TrimSpace(cell) != "" {
				empty = false
			}
		}
		if !empty {
			mapped = append(mapped, record)
		}
	}

	return mapped
}

// ReadAllBytes drains a download stream into memory so the decoder can seek.
func ReadAllBytes(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
