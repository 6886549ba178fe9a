package cleanse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsclean/internal/dataset"
)

func TestNormalize_None(t *testing.T) {
	tab, class := sensorTable(t)

	out, result, err := Normalize(tab, class, NormalizeNone)
	require.NoError(t, err)

	col, _ := out.Column("TEMP")
	orig, _ := tab.Column("TEMP")
	assert.Equal(t, orig.Cells, col.Cells)
	assert.Empty(t, result.Normalized)
	assert.Empty(t, result.Skipped)
}

func TestNormalize_ZScore(t *testing.T) {
	tab, err := dataset.FromRecords(
		[]string{"TEMP"},
		[][]string{{"10"}, {"12"}, {"11"}, {"13"}, {""}, {"12"}, {"11"}},
	)
	require.NoError(t, err)
	class := Classification{"TEMP": Numeric}

	out, result, err := Normalize(tab, class, NormalizeZScore)
	require.NoError(t, err)
	assert.Equal(t, []string{"TEMP"}, result.Normalized)

	col, _ := out.Column("TEMP")
	values := col.NonMissing()
	require.Len(t, values, 6)
	assert.InDelta(t, 0, mean(values), 1e-9, "transformed mean is ~0")
	assert.InDelta(t, 1, sampleStd(values), 1e-9, "transformed sample std is ~1")
	assert.True(t, col.Cells[4].IsMissing(), "missing stays missing")
}

func TestNormalize_MinMax(t *testing.T) {
	tab, err := dataset.FromRecords(
		[]string{"TEMP"},
		[][]string{{"10"}, {"12"}, {""}, {"13"}, {"11"}},
	)
	require.NoError(t, err)
	class := Classification{"TEMP": Numeric}

	out, result, err := Normalize(tab, class, NormalizeMinMax)
	require.NoError(t, err)
	assert.Equal(t, []string{"TEMP"}, result.Normalized)

	col, _ := out.Column("TEMP")
	values := col.NonMissing()
	require.Len(t, values, 4)
	min, max := values[0], values[0]
	for _, v := range values {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	assert.InDelta(t, 0, min, 1e-12, "min maps exactly to 0")
	assert.InDelta(t, 1, max, 1e-12, "max maps exactly to 1")
	assert.True(t, col.Cells[2].IsMissing())
}

func TestNormalize_ZeroSpreadSkipped(t *testing.T) {
	tests := []struct {
		name   string
		method NormalizationMethod
	}{
		{name: "zscore constant column", method: NormalizeZScore},
		{name: "minmax constant column", method: NormalizeMinMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab, err := dataset.FromRecords(
				[]string{"V"},
				[][]string{{"7"}, {"7"}, {"7"}},
			)
			require.NoError(t, err)
			class := Classification{"V": Numeric}

			out, result, err := Normalize(tab, class, tt.method)
			require.NoError(t, err)
			assert.Equal(t, []string{"V"}, result.Skipped)
			assert.Empty(t, result.Normalized)

			col, _ := out.Column("V")
			assert.Equal(t, []float64{7, 7, 7}, col.NonMissing(), "skipped columns keep their values")
		})
	}
}

func TestNormalize_NonNumericUntouched(t *testing.T) {
	tab, class := sensorTable(t)

	out, result, err := Normalize(tab, class, NormalizeZScore)
	require.NoError(t, err)

	date, _ := out.Column("Date")
	orig, _ := tab.Column("Date")
	assert.Equal(t, orig.Cells, date.Cells)
	assert.NotContains(t, result.Normalized, "Date")
}
