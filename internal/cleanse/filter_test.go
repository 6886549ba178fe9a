package cleanse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsclean/internal/dataset"
)

func tempTable(t *testing.T) *dataset.Table {
	t.Helper()
	tab, err := dataset.FromRecords(
		[]string{"TEMP"},
		[][]string{{"10"}, {"12"}, {"11"}, {"13"}, {"1000"}, {"12"}, {"11"}},
	)
	require.NoError(t, err)
	return tab
}

func TestFilter_EmptyConditionsKeepAllRows(t *testing.T) {
	tab := tempTable(t)

	out, removed, err := Filter(tab, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Equal(t, tab.RowCount(), out.RowCount())

	col, _ := out.Column("TEMP")
	orig, _ := tab.Column("TEMP")
	assert.Equal(t, orig.NonMissing(), col.NonMissing())
}

func TestFilter_Operators(t *testing.T) {
	tests := []struct {
		name string
		cond FilterCondition
		want []float64
	}{
		{name: "ge", cond: FilterCondition{Column: "TEMP", Op: OpGE, Value: 12}, want: []float64{12, 13, 1000, 12}},
		{name: "le", cond: FilterCondition{Column: "TEMP", Op: OpLE, Value: 11}, want: []float64{10, 11, 11}},
		{name: "gt", cond: FilterCondition{Column: "TEMP", Op: OpGT, Value: 13}, want: []float64{1000}},
		{name: "lt", cond: FilterCondition{Column: "TEMP", Op: OpLT, Value: 11}, want: []float64{10}},
		{name: "eq", cond: FilterCondition{Column: "TEMP", Op: OpEQ, Value: 12}, want: []float64{12, 12}},
		{name: "ne", cond: FilterCondition{Column: "TEMP", Op: OpNE, Value: 12}, want: []float64{10, 11, 13, 1000, 11}},
		{name: "range inclusive both ends", cond: FilterCondition{Column: "TEMP", Op: OpRange, Low: 11, High: 13}, want: []float64{12, 11, 13, 12, 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, removed, err := Filter(tempTable(t), []FilterCondition{tt.cond})
			require.NoError(t, err)
			col, _ := out.Column("TEMP")
			assert.Equal(t, tt.want, col.NonMissing())
			assert.Equal(t, 7-len(tt.want), removed)
		})
	}
}

func TestFilter_ConjunctionPreservesOrder(t *testing.T) {
	// TEMP >= 11 AND TEMP <= 12 over [10,12,11,13,1000,12,11] keeps the
	// values at rows 1, 2, 5, 6 in their original relative order.
	out, removed, err := Filter(tempTable(t), []FilterCondition{
		{Column: "TEMP", Op: OpGE, Value: 11},
		{Column: "TEMP", Op: OpLE, Value: 12},
	})
	require.NoError(t, err)

	col, _ := out.Column("TEMP")
	assert.Equal(t, []float64{12, 11, 12, 11}, col.NonMissing())
	assert.Equal(t, 3, removed)
}

func TestFilter_MissingAndTextCellsFailConditions(t *testing.T) {
	tab, err := dataset.FromRecords(
		[]string{"TEMP"},
		[][]string{{"10"}, {""}, {"offline"}, {"20"}},
	)
	require.NoError(t, err)

	out, removed, err := Filter(tab, []FilterCondition{
		{Column: "TEMP", Op: OpGE, Value: 0},
	})
	require.NoError(t, err)

	col, _ := out.Column("TEMP")
	assert.Equal(t, []float64{10, 20}, col.NonMissing(), "missing and text rows never pass a filter")
	assert.Equal(t, 2, removed)
}

func TestFilter_UnknownColumn(t *testing.T) {
	cond := FilterCondition{Column: "PRESSURE", Op: OpGE, Value: 1}
	_, _, err := Filter(tempTable(t), []FilterCondition{cond})
	require.Error(t, err)

	ce, ok := AsConditionError(err)
	require.True(t, ok)
	assert.Equal(t, ErrKindUnknownColumn, ce.Kind)
	assert.Equal(t, cond, ce.Condition)
	assert.True(t, IsUserInputError(err))
}

func TestFilter_InvalidRange(t *testing.T) {
	cond := FilterCondition{Column: "TEMP", Op: OpRange, Low: 50, High: 10}
	_, _, err := Filter(tempTable(t), []FilterCondition{cond})
	require.Error(t, err)

	ce, ok := AsConditionError(err)
	require.True(t, ok)
	assert.Equal(t, ErrKindInvalidOperand, ce.Kind)
	assert.Contains(t, ce.Reason, "exceeds")
}

func TestFilter_UnknownOperator(t *testing.T) {
	cond := FilterCondition{Column: "TEMP", Op: Operator("~="), Value: 1}
	_, _, err := Filter(tempTable(t), []FilterCondition{cond})
	require.Error(t, err)

	ce, ok := AsConditionError(err)
	require.True(t, ok)
	assert.Equal(t, ErrKindInvalidOperand, ce.Kind)
}

func TestFilter_EqualRangeBoundsAreValid(t *testing.T) {
	out, _, err := Filter(tempTable(t), []FilterCondition{
		{Column: "TEMP", Op: OpRange, Low: 12, High: 12},
	})
	require.NoError(t, err)
	col, _ := out.Column("TEMP")
	assert.Equal(t, []float64{12, 12}, col.NonMissing())
}

func TestFilter_ZeroSurvivingRowsIsSuccess(t *testing.T) {
	out, removed, err := Filter(tempTable(t), []FilterCondition{
		{Column: "TEMP", Op: OpGT, Value: 1e6},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.RowCount())
	assert.Equal(t, 7, removed)
	assert.Equal(t, []string{"TEMP"}, out.ColumnNames(), "column layout survives even with zero rows")
}

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  FilterCondition
	}{
		{"ge spaced", "TEMP >= 15", FilterCondition{Column: "TEMP", Op: OpGE, Value: 15}},
		{"ge compact", "TEMP>=15", FilterCondition{Column: "TEMP", Op: OpGE, Value: 15}},
		{"lt", "Humidity < 80.5", FilterCondition{Column: "Humidity", Op: OpLT, Value: 80.5}},
		{"ne", "STATUS != 0", FilterCondition{Column: "STATUS", Op: OpNE, Value: 0}},
		{"eq", "MODE=2", FilterCondition{Column: "MODE", Op: OpEQ, Value: 2}},
		{"range", "TEMP range 30 60", FilterCondition{Column: "TEMP", Op: OpRange, Low: 30, High: 60}},
		{"negative operand", "DELTA <= -1.5", FilterCondition{Column: "DELTA", Op: OpLE, Value: -1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCondition(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCondition_Errors(t *testing.T) {
	for _, input := range []string{
		"",
		"TEMP",
		"TEMP >= abc",
		"TEMP range 30",
		"TEMP range low high",
		">= 15",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseCondition(input)
			assert.Error(t, err)
		})
	}
}
