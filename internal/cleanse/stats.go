package cleanse

import (
	"math"
	"sort"
)

// mean computes the average of xs. Returns 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

// sampleStd computes the sample standard deviation (n-1 denominator),
// matching the estimator the source data was profiled with. Returns 0 when
// fewer than two values are present.
func sampleStd(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, v := range xs {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}

// percentile computes the p-quantile (0 <= p <= 1) using linear
// interpolation between closest ranks. The input is not modified.
func percentile(xs []float64, p float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// minMax returns the smallest and largest values of xs.
func minMax(xs []float64) (min, max float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	min, max = xs[0], xs[0]
	for _, v := range xs[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// ColumnStats describes the distribution of a numeric column. It backs the
// column-inspection API and the CLI preview.
type ColumnStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
}

// Stats computes descriptive statistics over the non-missing values.
func Stats(values []float64) ColumnStats {
	if len(values) == 0 {
		return ColumnStats{}
	}
	min, max := minMax(values)
	return ColumnStats{
		Count:  len(values),
		Mean:   mean(values),
		Std:    sampleStd(values),
		Min:    min,
		Max:    max,
		Q1:     percentile(values, 0.25),
		Median: percentile(values, 0.5),
		Q3:     percentile(values, 0.75),
	}
}
