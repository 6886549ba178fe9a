package cleanse

import (
	"fmt"

	"tsclean/internal/dataset"
)

// NormalizeResult reports which numeric columns were rescaled and which were
// skipped because their spread was zero.
type NormalizeResult struct {
	Normalized []string `json:"normalized,omitempty"`
	Skipped    []string `json:"skipped,omitempty"`
}

// Normalize rescales every numeric column with the chosen method and returns
// a new table. Parameters are estimated from non-missing values only, and
// missing cells remain missing afterwards. Columns with zero spread (σ = 0
// for ZScore, max = min for MinMax) are left unchanged and reported as
// skipped rather than divided by zero.
func Normalize(t *dataset.Table, class Classification, method NormalizationMethod) (*dataset.Table, NormalizeResult, error) {
	if !method.Valid() {
		return nil, NormalizeResult{}, fmt.Errorf("unknown normalization method %q", method)
	}
	if method == NormalizeNone {
		return t.Clone(), NormalizeResult{}, nil
	}

	out := t.Clone()
	var result NormalizeResult
	for i := range out.Columns {
		col := &out.Columns[i]
		if class[col.Name] != Numeric {
			continue
		}
		values := col.NonMissing()
		transform, ok := columnTransform(values, method)
		if !ok {
			result.Skipped = append(result.Skipped, col.Name)
			continue
		}
		for r, v := range col.Cells {
			if f, isNum := v.AsNumber(); isNum {
				col.Cells[r] = dataset.NumberValue(transform(f))
			}
		}
		result.Normalized = append(result.Normalized, col.Name)
	}
	return out, result, nil
}

// columnTransform builds the per-cell rescaling function, or reports the
// column cannot be normalized.
func columnTransform(values []float64, method NormalizationMethod) (func(float64) float64, bool) {
	switch method {
	case NormalizeZScore:
		std := sampleStd(values)
		if std == 0 {
			return nil, false
		}
		m := mean(values)
		return func(f float64) float64 { return (f - m) / std }, true
	case NormalizeMinMax:
		min, max := minMax(values)
		if len(values) == 0 || max == min {
			return nil, false
		}
		return func(f float64) float64 { return (f - min) / (max - min) }, true
	}
	return nil, false
}
