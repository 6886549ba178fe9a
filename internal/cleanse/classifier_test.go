package cleanse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsclean/internal/dataset"
)

func TestClassify(t *testing.T) {
	tab, err := dataset.FromRecords(
		[]string{"Date", "TEMP", "LABEL", "EMPTY", "GAPPY"},
		[][]string{
			{"2025-11-27 00:00", "10", "ok", "", "1.5"},
			{"2025-11-27 01:00", "12", "ok", "", ""},
			{"2025-11-27 02:00", "11", "warn", "", "2.5"},
		},
	)
	require.NoError(t, err)

	class := Classify(tab)

	assert.Equal(t, NonNumeric, class["Date"], "date strings are not numbers")
	assert.Equal(t, Numeric, class["TEMP"])
	assert.Equal(t, NonNumeric, class["LABEL"])
	assert.Equal(t, NonNumeric, class["EMPTY"], "all-missing columns are non-numeric")
	assert.Equal(t, Numeric, class["GAPPY"], "missing cells do not disqualify a column")
}

func TestClassify_MixedColumnIsNonNumeric(t *testing.T) {
	tab, err := dataset.FromRecords(
		[]string{"MIXED"},
		[][]string{{"10"}, {"high"}, {"12"}},
	)
	require.NoError(t, err)

	class := Classify(tab)
	assert.Equal(t, NonNumeric, class["MIXED"], "a single text cell routes the column to non-numeric")
}

func TestClassification_NumericColumns_TableOrder(t *testing.T) {
	tab, err := dataset.FromRecords(
		[]string{"B", "LABEL", "A"},
		[][]string{{"1", "x", "2"}},
	)
	require.NoError(t, err)

	class := Classify(tab)
	assert.Equal(t, []string{"B", "A"}, class.NumericColumns(tab))
}

func TestClassify_EmptyTable(t *testing.T) {
	tab, err := dataset.FromRecords([]string{"TEMP"}, nil)
	require.NoError(t, err)

	class := Classify(tab)
	assert.Equal(t, NonNumeric, class["TEMP"])
}
