// Package loader reads delimited and Excel files into dataset tables. The
// first sheet containing data is used for Excel workbooks; CSV input may
// carry a UTF-8 BOM (commonly written by Excel) which is stripped.
package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"tsclean/internal/dataset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads the file at path into a table, dispatching on the extension.
// Supported: .csv, .xlsx, .xls.
func Load(path string) (*dataset.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx", ".xls":
		return LoadExcel(path)
	default:
		return nil, fmt.Errorf("unsupported file format %q", filepath.Ext(path))
	}
}

// LoadCSV reads a CSV file. The first record is the header row; ragged
// records are tolerated and padded with missing cells.
func LoadCSV(path string) (*dataset.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}

	t, err := dataset.FromRecords(records[0], records[1:])
	if err != nil {
		return nil, fmt.Errorf("building table from %s: %w", path, err)
	}
	slog.Info("Loaded CSV file",
		slog.String("path", path),
		slog.Int("rows", t.RowCount()),
		slog.Int("columns", len(t.Columns)))
	return t, nil
}

// LoadExcel reads an Excel workbook. Sheets are scanned in order and the
// first one with a header row plus at least one cell of data wins.
func LoadExcel(path string) (*dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var rows [][]string
	var sheetName string
	for _, name := range f.GetSheetList() {
		candidate, err := f.GetRows(name)
		if err != nil || len(candidate) == 0 {
			continue
		}
		if hasData(candidate) {
			rows = candidate
			sheetName = name
			break
		}
	}
	if sheetName == "" {
		return nil, fmt.Errorf("%s contains no sheet with data", path)
	}

	t, err := dataset.FromRecords(rows[0], rows[1:])
	if err != nil {
		return nil, fmt.Errorf("building table from %s: %w", path, err)
	}
	slog.Info("Loaded Excel file",
		slog.String("path", path),
		slog.String("sheet", sheetName),
		slog.Int("rows", t.RowCount()),
		slog.Int("columns", len(t.Columns)))
	return t, nil
}

func hasData(rows [][]string) bool {
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return true
			}
		}
	}
	return false
}
