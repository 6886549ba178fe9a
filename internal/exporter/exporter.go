// Package exporter writes cleaned tables back to disk as CSV or Excel,
// keeping the input's column layout. CSV output can carry a UTF-8 BOM so
// Excel opens it with the right encoding.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"tsclean/internal/dataset"
)

// WriteOptions configures table output.
type WriteOptions struct {
	// BOMPrefix prepends a UTF-8 BOM to CSV output for Excel compatibility.
	BOMPrefix bool
	// SheetName names the sheet for Excel output. Defaults to "Sheet1".
	SheetName string
}

// Write saves the table at path, dispatching on the extension. Supported:
// .csv, .xlsx.
func Write(t *dataset.Table, path string, opts WriteOptions) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return WriteCSV(t, path, opts)
	case ".xlsx":
		return WriteExcel(t, path, opts)
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
}

// WriteCSV writes the table as CSV, header row first.
func WriteCSV(t *dataset.Table, path string, opts WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	if opts.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("writing BOM: %w", err)
		}
	}

	headers, records := t.Records()
	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}

	slog.Info("Wrote CSV file",
		slog.String("path", path),
		slog.Int("rows", len(records)))
	return nil
}

// WriteExcel writes the table as a single-sheet workbook using the excelize
// stream writer, row by row.
func WriteExcel(t *dataset.Table, path string, opts WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	sheet := opts.SheetName
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("naming sheet: %w", err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}

	headers, records := t.Records()
	if err := writeStreamRow(sw, 1, headers); err != nil {
		return err
	}
	for i, record := range records {
		if err := writeStreamRow(sw, i+2, record); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	slog.Info("Wrote Excel file",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(records)))
	return nil
}

func writeStreamRow(sw *excelize.StreamWriter, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := sw.SetRow(cell, values); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}

// DefaultOutputPath derives the output file name from the input:
// <stem>_processed_<timestamp><ext> in the same directory.
func DefaultOutputPath(inputPath string, now time.Time) string {
	dir := filepath.Dir(inputPath)
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(filepath.Base(inputPath), ext)
	return filepath.Join(dir, fmt.Sprintf("%s_processed_%s%s", stem, now.Format("20060102_150405"), ext))
}
