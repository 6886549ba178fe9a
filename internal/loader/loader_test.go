package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tsclean/internal/dataset"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeTempCSV(t, "Date,TEMP\n2025-11-27 00:00,10\n2025-11-27 01:00,\n")

	tab, err := LoadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "TEMP"}, tab.ColumnNames())
	assert.Equal(t, 2, tab.RowCount())

	temp, _ := tab.Column("TEMP")
	assert.Equal(t, dataset.NumberValue(10), temp.Cells[0])
	assert.True(t, temp.Cells[1].IsMissing())
}

func TestLoadCSV_StripsBOM(t *testing.T) {
	path := writeTempCSV(t, "\xEF\xBB\xBFTEMP\n11\n")

	tab, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"TEMP"}, tab.ColumnNames(), "BOM must not leak into the first header")
}

func TestLoadCSV_RaggedRecords(t *testing.T) {
	path := writeTempCSV(t, "A,B\n1,2\n3\n")

	tab, err := LoadCSV(path)
	require.NoError(t, err)

	b, _ := tab.Column("B")
	assert.True(t, b.Cells[1].IsMissing(), "short records are padded with missing cells")
}

func TestLoadCSV_EmptyFile(t *testing.T) {
	path := writeTempCSV(t, "")
	_, err := LoadCSV(path)
	assert.Error(t, err)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("data.parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestLoadExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Date", "TEMP"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"2025-11-27 00:00", 10}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"2025-11-27 01:00", 12}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tab, err := LoadExcel(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "TEMP"}, tab.ColumnNames())
	assert.Equal(t, 2, tab.RowCount())
	temp, _ := tab.Column("TEMP")
	assert.Equal(t, []float64{10, 12}, temp.NonMissing())
}

func TestLoadExcel_SkipsEmptySheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.xlsx")

	f := excelize.NewFile()
	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Data", "A1", &[]interface{}{"TEMP"}))
	require.NoError(t, f.SetSheetRow("Data", "A2", &[]interface{}{42}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tab, err := LoadExcel(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"TEMP"}, tab.ColumnNames())

	temp, _ := tab.Column("TEMP")
	assert.Equal(t, []float64{42}, temp.NonMissing())
}
