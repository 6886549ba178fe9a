package cleanse

import (
	"fmt"
	"strings"
	"time"
)

// RunSummary aggregates what each pipeline stage did during one run. It is
// produced fresh per run and owned by the caller afterwards.
type RunSummary struct {
	RunID    string        `json:"run_id"`
	RowsIn   int           `json:"rows_in"`
	RowsOut  int           `json:"rows_out"`
	Duration time.Duration `json:"duration"`

	Classification Classification `json:"classification"`

	FilterRowsRemoved int `json:"filter_rows_removed"`

	OutlierMethod      OutlierMethod `json:"outlier_method"`
	OutlierDisposition Disposition   `json:"outlier_disposition"`
	Outliers           OutlierResult `json:"outliers"`

	NormalizationMethod NormalizationMethod `json:"normalization_method"`
	Normalization       NormalizeResult     `json:"normalization"`
}

// String renders a human-readable digest for CLI output.
func (s *RunSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rows: %d -> %d\n", s.RowsIn, s.RowsOut)
	fmt.Fprintf(&b, "filtered out: %d rows\n", s.FilterRowsRemoved)
	switch s.OutlierDisposition {
	case MarkMissing:
		total := 0
		for _, n := range s.Outliers.CellsMarked {
			total += n
		}
		fmt.Fprintf(&b, "outliers (%s): %d cells marked missing\n", s.OutlierMethod, total)
	case DropRow:
		fmt.Fprintf(&b, "outliers (%s): %d rows dropped\n", s.OutlierMethod, s.Outliers.RowsDropped)
	}
	if len(s.Outliers.SkippedColumns) > 0 {
		fmt.Fprintf(&b, "outlier-skipped columns: %s\n", strings.Join(s.Outliers.SkippedColumns, ", "))
	}
	if s.NormalizationMethod != NormalizeNone {
		fmt.Fprintf(&b, "normalized (%s): %d columns", s.NormalizationMethod, len(s.Normalization.Normalized))
		if len(s.Normalization.Skipped) > 0 {
			fmt.Fprintf(&b, " (%d skipped)", len(s.Normalization.Skipped))
		}
		b.WriteString("\n")
	}
	return b.String()
}
