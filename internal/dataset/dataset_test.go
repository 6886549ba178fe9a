package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Value
	}{
		{name: "integer", raw: "42", want: NumberValue(42)},
		{name: "float", raw: "3.14", want: NumberValue(3.14)},
		{name: "negative", raw: "-20", want: NumberValue(-20)},
		{name: "scientific", raw: "1e3", want: NumberValue(1000)},
		{name: "padded number", raw: "  11 ", want: NumberValue(11)},
		{name: "empty is missing", raw: "", want: Missing()},
		{name: "whitespace is missing", raw: "   ", want: Missing()},
		{name: "nan is missing", raw: "NaN", want: Missing()},
		{name: "na is missing", raw: "N/A", want: Missing()},
		{name: "null is missing", raw: "null", want: Missing()},
		{name: "text stays text", raw: "sensor-a", want: TextValue("sensor-a")},
		{name: "date stays text", raw: "2025-11-27 00:00:00", want: TextValue("2025-11-27 00:00:00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValue(tt.raw))
		})
	}
}

func TestNew_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		columns []Column
		wantErr string
	}{
		{
			name: "valid table",
			columns: []Column{
				{Name: "a", Cells: []Value{NumberValue(1)}},
				{Name: "b", Cells: []Value{TextValue("x")}},
			},
		},
		{
			name: "duplicate names rejected",
			columns: []Column{
				{Name: "a", Cells: []Value{NumberValue(1)}},
				{Name: "a", Cells: []Value{NumberValue(2)}},
			},
			wantErr: "duplicate column name",
		},
		{
			name: "ragged columns rejected",
			columns: []Column{
				{Name: "a", Cells: []Value{NumberValue(1), NumberValue(2)}},
				{Name: "b", Cells: []Value{NumberValue(1)}},
			},
			wantErr: "expected 2",
		},
		{
			name:    "empty column name rejected",
			columns: []Column{{Name: "", Cells: nil}},
			wantErr: "empty name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab, err := New(tt.columns)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, tab)
		})
	}
}

func TestFromRecords(t *testing.T) {
	tab, err := FromRecords(
		[]string{"Date", "TEMP"},
		[][]string{
			{"2025-11-27 00:00", "10"},
			{"2025-11-27 01:00", ""},
			{"2025-11-27 02:00"}, // short record padded
		},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, tab.RowCount())
	assert.Equal(t, []string{"Date", "TEMP"}, tab.ColumnNames())

	temp, ok := tab.Column("TEMP")
	require.True(t, ok)
	assert.Equal(t, NumberValue(10), temp.Cells[0])
	assert.True(t, temp.Cells[1].IsMissing())
	assert.True(t, temp.Cells[2].IsMissing())
}

func TestTable_Select(t *testing.T) {
	tab, err := FromRecords(
		[]string{"TEMP"},
		[][]string{{"1"}, {"2"}, {"3"}, {"4"}},
	)
	require.NoError(t, err)

	kept, err := tab.Select([]bool{true, false, true, false})
	require.NoError(t, err)
	col, _ := kept.Column("TEMP")
	assert.Equal(t, []float64{1, 3}, col.NonMissing())

	// Original is untouched.
	assert.Equal(t, 4, tab.RowCount())

	_, err = tab.Select([]bool{true})
	assert.Error(t, err)
}

func TestTable_Clone_Independent(t *testing.T) {
	tab, err := FromRecords([]string{"a"}, [][]string{{"1"}})
	require.NoError(t, err)

	clone := tab.Clone()
	col, _ := clone.Column("a")
	col.Cells[0] = Missing()

	orig, _ := tab.Column("a")
	assert.Equal(t, NumberValue(1), orig.Cells[0])
}

func TestTable_Records_RoundTrip(t *testing.T) {
	tab, err := FromRecords(
		[]string{"Date", "TEMP"},
		[][]string{
			{"2025-11-27 00:00", "10.5"},
			{"2025-11-27 01:00", ""},
		},
	)
	require.NoError(t, err)

	headers, records := tab.Records()
	assert.Equal(t, []string{"Date", "TEMP"}, headers)
	assert.Equal(t, [][]string{
		{"2025-11-27 00:00", "10.5"},
		{"2025-11-27 01:00", ""},
	}, records)
}

func TestColumn_NonMissing_SkipsTextAndMissing(t *testing.T) {
	col := Column{Name: "mixed", Cells: []Value{
		NumberValue(1), Missing(), TextValue("x"), NumberValue(2),
	}}
	assert.Equal(t, []float64{1, 2}, col.NonMissing())
}
