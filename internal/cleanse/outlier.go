package cleanse

import (
	"fmt"

	"tsclean/internal/dataset"
)

// bound is a closed interval; values outside [Lower, Upper] are outliers.
type bound struct {
	Lower, Upper float64
}

func (b bound) contains(f float64) bool {
	return f >= b.Lower && f <= b.Upper
}

// OutlierResult reports what the outlier stage did to each numeric column.
type OutlierResult struct {
	// CellsMarked counts cells blanked per column (MarkMissing only).
	CellsMarked map[string]int `json:"cells_marked,omitempty"`
	// RowsFlagged counts, per column, the rows whose value in that column
	// was out of bound (DropRow only). A row out of bound in several
	// columns is counted once per such column, so these can sum to more
	// than RowsDropped.
	RowsFlagged map[string]int `json:"rows_flagged,omitempty"`
	// RowsDropped is the total number of rows removed (DropRow only).
	RowsDropped int `json:"rows_dropped"`
	// SkippedColumns lists numeric columns with degenerate statistics
	// (zero spread or too few samples) that were left untouched.
	SkippedColumns []string `json:"skipped_columns,omitempty"`
}

// columnBound computes the outlier bound for one column's non-missing
// values, or reports that the column must be skipped: fewer than two values
// (four for IQR, quartiles are undefined below that) or zero spread make the
// bound degenerate, and flagging against a degenerate bound would flag
// everything or nothing meaningfully.
func columnBound(values []float64, method OutlierMethod) (bound, bool) {
	if k, ok := method.SigmaMultiplier(); ok {
		if len(values) < 2 {
			return bound{}, false
		}
		std := sampleStd(values)
		if std == 0 {
			return bound{}, false
		}
		m := mean(values)
		return bound{Lower: m - k*std, Upper: m + k*std}, true
	}
	// IQR
	if len(values) < 4 {
		return bound{}, false
	}
	q1 := percentile(values, 0.25)
	q3 := percentile(values, 0.75)
	iqr := q3 - q1
	if iqr == 0 {
		return bound{}, false
	}
	return bound{Lower: q1 - 1.5*iqr, Upper: q3 + 1.5*iqr}, true
}

// HandleOutliers applies the configured method and disposition to every
// numeric column and returns the processed table plus per-column counts.
// Non-numeric columns are untouched. All bounds are computed from the input
// table before any cell or row changes, so dropping decisions from one
// column never shift another column's statistics. Pre-existing missing cells
// are excluded from the statistics and are never treated as out of bound.
func HandleOutliers(t *dataset.Table, class Classification, method OutlierMethod, disposition Disposition) (*dataset.Table, OutlierResult, error) {
	if !method.Valid() {
		return nil, OutlierResult{}, fmt.Errorf("unknown outlier method %q", method)
	}
	if !disposition.Valid() {
		return nil, OutlierResult{}, fmt.Errorf("unknown outlier disposition %q", disposition)
	}

	result := OutlierResult{
		CellsMarked: make(map[string]int),
		RowsFlagged: make(map[string]int),
	}

	// Pre-drop bound per numeric column.
	bounds := make(map[string]bound)
	for _, col := range t.Columns {
		if class[col.Name] != Numeric {
			continue
		}
		b, ok := columnBound(col.NonMissing(), method)
		if !ok {
			result.SkippedColumns = append(result.SkippedColumns, col.Name)
			continue
		}
		bounds[col.Name] = b
	}

	out := t.Clone()
	switch disposition {
	case MarkMissing:
		for i := range out.Columns {
			col := &out.Columns[i]
			b, ok := bounds[col.Name]
			if !ok {
				continue
			}
			for r, v := range col.Cells {
				if f, isNum := v.AsNumber(); isNum && !b.contains(f) {
					col.Cells[r] = dataset.Missing()
					result.CellsMarked[col.Name]++
				}
			}
		}
		return out, result, nil

	case DropRow:
		rows := out.RowCount()
		keep := make([]bool, rows)
		for i := range keep {
			keep[i] = true
		}
		for i := range out.Columns {
			col := &out.Columns[i]
			b, ok := bounds[col.Name]
			if !ok {
				continue
			}
			for r, v := range col.Cells {
				if f, isNum := v.AsNumber(); isNum && !b.contains(f) {
					result.RowsFlagged[col.Name]++
					keep[r] = false
				}
			}
		}
		dropped, err := out.Select(keep)
		if err != nil {
			return nil, OutlierResult{}, fmt.Errorf("dropping outlier rows: %w", err)
		}
		result.RowsDropped = rows - dropped.RowCount()
		return dropped, result, nil
	}
	return nil, OutlierResult{}, fmt.Errorf("unreachable disposition %q", disposition)
}
