// Package timealign handles the date column of a sensor table: detection by
// name, snapping timestamps to a sampling interval, and realigning them from
// a fixed start time. Sensor exports produced by spreadsheet auto-fill often
// drift by a few seconds per row; snapping corrects that without touching
// any other column.
package timealign

import (
	"fmt"
	"strings"
	"time"

	"tsclean/internal/dataset"
)

// dateKeywords are matched case-insensitively against column names, first
// match wins.
var dateKeywords = []string{"date", "time", "datetime", "timestamp"}

// layouts are tried in order when parsing date cells.
var layouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
}

// DefaultInterval is the sampling interval of the source loggers.
const DefaultInterval = 2 * time.Minute

// DetectDateColumn returns the name of the first column whose name contains
// a date keyword, or false when the table has none.
func DetectDateColumn(t *dataset.Table) (string, bool) {
	for _, col := range t.Columns {
		lower := strings.ToLower(col.Name)
		for _, kw := range dateKeywords {
			if strings.Contains(lower, kw) {
				return col.Name, true
			}
		}
	}
	return "", false
}

// parseCell parses one date cell, remembering which layout matched so the
// original text format can be preserved on output.
func parseCell(v dataset.Value) (time.Time, string, bool) {
	if v.Kind != dataset.KindText {
		return time.Time{}, "", false
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, v.Text); err == nil {
			return ts, layout, true
		}
	}
	return time.Time{}, "", false
}

// Snap rounds every timestamp in the named column to the nearest multiple of
// interval, carrying overflow past midnight into the next day. Cells that do
// not parse as timestamps are left alone. Returns a new table and the number
// of cells that actually changed.
func Snap(t *dataset.Table, column string, interval time.Duration) (*dataset.Table, int, error) {
	if interval <= 0 {
		return nil, 0, fmt.Errorf("snap interval must be positive, got %s", interval)
	}
	col, ok := t.Column(column)
	if !ok {
		return nil, 0, fmt.Errorf("date column %q not found", column)
	}

	out := t.Clone()
	outCol, _ := out.Column(column)
	corrected := 0
	for i, v := range col.Cells {
		ts, layout, ok := parseCell(v)
		if !ok {
			continue
		}
		snapped := ts.Round(interval)
		if !snapped.Equal(ts) {
			outCol.Cells[i] = dataset.TextValue(snapped.Format(layout))
			corrected++
		}
	}
	return out, corrected, nil
}

// Realign rewrites the named column as start + i*interval for row i,
// discarding the original timestamps. The output format follows the first
// parseable cell's layout, falling back to "2006-01-02 15:04:05".
func Realign(t *dataset.Table, column string, start time.Time, interval time.Duration) (*dataset.Table, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("realign interval must be positive, got %s", interval)
	}
	col, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("date column %q not found", column)
	}

	layout := "2006-01-02 15:04:05"
	for _, v := range col.Cells {
		if _, l, ok := parseCell(v); ok {
			layout = l
			break
		}
	}

	out := t.Clone()
	outCol, _ := out.Column(column)
	for i := range outCol.Cells {
		ts := start.Add(time.Duration(i) * interval)
		outCol.Cells[i] = dataset.TextValue(ts.Format(layout))
	}
	return out, nil
}
