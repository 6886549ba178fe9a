package cleanse

import "fmt"

// OutlierMethod selects how the per-column outlier bound is computed.
type OutlierMethod string

const (
	// Sigma2 bounds at mean ± 2 standard deviations (~95.4% of a normal
	// distribution).
	Sigma2 OutlierMethod = "2sigma"
	// Sigma25 bounds at mean ± 2.5 standard deviations (~98.8%).
	Sigma25 OutlierMethod = "2.5sigma"
	// Sigma3 bounds at mean ± 3 standard deviations (~99.7%).
	Sigma3 OutlierMethod = "3sigma"
	// IQR bounds at [Q1 − 1.5·IQR, Q3 + 1.5·IQR].
	IQR OutlierMethod = "iqr"
)

// SigmaMultiplier returns the k in mean ± k·σ and whether the method is a
// sigma variant.
func (m OutlierMethod) SigmaMultiplier() (float64, bool) {
	switch m {
	case Sigma2:
		return 2.0, true
	case Sigma25:
		return 2.5, true
	case Sigma3:
		return 3.0, true
	default:
		return 0, false
	}
}

// Valid reports whether m is a known method.
func (m OutlierMethod) Valid() bool {
	_, sigma := m.SigmaMultiplier()
	return sigma || m == IQR
}

// Disposition selects what happens to an out-of-bound value.
type Disposition string

const (
	// MarkMissing blanks the offending cell in place; row count is
	// unchanged and sibling cells are untouched.
	MarkMissing Disposition = "nan"
	// DropRow removes any row holding at least one out-of-bound value.
	DropRow Disposition = "drop"
)

// Valid reports whether d is a known disposition.
func (d Disposition) Valid() bool {
	return d == MarkMissing || d == DropRow
}

// NormalizationMethod selects the optional final rescaling transform.
type NormalizationMethod string

const (
	// NormalizeNone leaves the table unchanged.
	NormalizeNone NormalizationMethod = "none"
	// NormalizeZScore rescales to zero mean and unit variance.
	NormalizeZScore NormalizationMethod = "zscore"
	// NormalizeMinMax rescales to the [0, 1] range.
	NormalizeMinMax NormalizationMethod = "minmax"
)

// Valid reports whether n is a known normalization method.
func (n NormalizationMethod) Valid() bool {
	switch n {
	case NormalizeNone, NormalizeZScore, NormalizeMinMax:
		return true
	}
	return false
}

// Options carries the per-run pipeline parameters. Conditions is an ordered
// conjunction; the remaining fields are closed enums validated up front.
type Options struct {
	Conditions    []FilterCondition   `json:"conditions,omitempty"`
	Outlier       OutlierMethod       `json:"outlier_method"`
	Disposition   Disposition         `json:"disposition"`
	Normalization NormalizationMethod `json:"normalization"`
}

// DefaultOptions returns the stock settings: 2.5σ outlier bounds, whole-row
// drop, no normalization.
func DefaultOptions() Options {
	return Options{
		Outlier:       Sigma25,
		Disposition:   DropRow,
		Normalization: NormalizeNone,
	}
}

// Validate checks the enum fields. Condition validation needs the table and
// happens separately in the filter engine.
func (o Options) Validate() error {
	if !o.Outlier.Valid() {
		return fmt.Errorf("unknown outlier method %q", o.Outlier)
	}
	if !o.Disposition.Valid() {
		return fmt.Errorf("unknown outlier disposition %q", o.Disposition)
	}
	if !o.Normalization.Valid() {
		return fmt.Errorf("unknown normalization method %q", o.Normalization)
	}
	return nil
}
