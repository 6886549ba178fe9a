package cleanse

import "tsclean/internal/dataset"

// ColumnKind tags a column as eligible for numeric operations or not.
type ColumnKind string

const (
	// Numeric columns participate in filtering statistics, outlier
	// handling, and normalization.
	Numeric ColumnKind = "numeric"
	// NonNumeric columns pass through every stage unchanged.
	NonNumeric ColumnKind = "non_numeric"
)

// Classification maps column names to their kind for one pipeline run. It is
// computed once at pipeline start and never re-derived mid-run.
type Classification map[string]ColumnKind

// NumericColumns returns the numeric column names in table order.
func (c Classification) NumericColumns(t *dataset.Table) []string {
	var names []string
	for _, col := range t.Columns {
		if c[col.Name] == Numeric {
			names = append(names, col.Name)
		}
	}
	return names
}

// Classify inspects every column and decides whether it is numeric. A column
// is numeric when it has at least one non-missing value and every
// non-missing value is a number. Empty columns classify as non-numeric since
// no numeric operation on them is meaningful. Classification never fails;
// ambiguous columns simply route to NonNumeric.
func Classify(t *dataset.Table) Classification {
	out := make(Classification, len(t.Columns))
	for _, col := range t.Columns {
		out[col.Name] = classifyColumn(&col)
	}
	return out
}

func classifyColumn(col *dataset.Column) ColumnKind {
	seen := false
	for _, v := range col.Cells {
		switch v.Kind {
		case dataset.KindText:
			return NonNumeric
		case dataset.KindNumber:
			seen = true
		}
	}
	if !seen {
		return NonNumeric
	}
	return Numeric
}
