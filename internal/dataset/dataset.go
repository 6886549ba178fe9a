// Package dataset provides the in-memory table model shared by the cleaning
// pipeline and the file I/O layers. A table is an ordered set of named
// columns of equal length; cells are numbers, text, or missing. Row order is
// significant (time-series data) and is preserved by every operation.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind discriminates the three cell states.
type ValueKind string

const (
	KindMissing ValueKind = "missing"
	KindNumber  ValueKind = "number"
	KindText    ValueKind = "text"
)

// Value is a single table cell.
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
}

// Missing returns a missing cell.
func Missing() Value {
	return Value{Kind: KindMissing}
}

// NumberValue returns a numeric cell.
func NumberValue(f float64) Value {
	return Value{Kind: KindNumber, Number: f}
}

// TextValue returns a textual cell.
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// ParseValue converts a raw cell string into a Value. Empty strings and the
// usual NaN spellings become missing; anything strconv accepts becomes a
// number; everything else stays text.
func ParseValue(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing()
	}
	switch strings.ToLower(s) {
	case "nan", "na", "n/a", "null":
		return Missing()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Missing()
		}
		return NumberValue(f)
	}
	return TextValue(s)
}

// IsMissing reports whether the cell has no usable value.
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing
}

// AsNumber returns the numeric value and whether the cell is numeric.
func (v Value) AsNumber() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Number, true
}

// String renders the cell the way the exporters write it. Missing cells
// render as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case KindText:
		return v.Text
	default:
		return ""
	}
}

// Column is a named, ordered sequence of cells.
type Column struct {
	Name  string
	Cells []Value
}

// NonMissing returns the column's non-missing numeric values in row order.
// Text cells are excluded as well; statistics are only defined over numbers.
func (c *Column) NonMissing() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, v := range c.Cells {
		if f, ok := v.AsNumber(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Table is an ordered collection of equally sized columns with unique names.
type Table struct {
	Columns []Column

	index map[string]int
}

// New builds a table from columns, enforcing the structural invariants:
// unique column names and identical column lengths.
func New(columns []Column) (*Table, error) {
	t := &Table{Columns: columns, index: make(map[string]int, len(columns))}
	rows := -1
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		t.index[col.Name] = i
		if rows == -1 {
			rows = len(col.Cells)
		} else if len(col.Cells) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Cells), rows)
		}
	}
	return t, nil
}

// FromRecords builds a table from a header row and raw string records, the
// shape both the CSV and Excel loaders produce. Short records are padded
// with missing cells; long records are truncated to the header width.
func FromRecords(headers []string, records [][]string) (*Table, error) {
	columns := make([]Column, len(headers))
	for j, name := range headers {
		columns[j] = Column{
			Name:  strings.TrimSpace(name),
			Cells: make([]Value, len(records)),
		}
	}
	for i, record := range records {
		for j := range headers {
			if j < len(record) {
				columns[j].Cells[i] = ParseValue(record[j])
			} else {
				columns[j].Cells[i] = Missing()
			}
		}
	}
	return New(columns)
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Column returns a pointer to the named column, or false when absent.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.Columns[i], true
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Clone deep-copies the table. The copy shares no cell storage with the
// original, so callers can mutate one side freely.
func (t *Table) Clone() *Table {
	columns := make([]Column, len(t.Columns))
	for i, col := range t.Columns {
		cells := make([]Value, len(col.Cells))
		copy(cells, col.Cells)
		columns[i] = Column{Name: col.Name, Cells: cells}
	}
	out, _ := New(columns)
	return out
}

// Select returns a new table containing only rows where mask[i] is true.
// Relative row order is preserved. The mask length must equal the row count.
func (t *Table) Select(mask []bool) (*Table, error) {
	if len(mask) != t.RowCount() {
		return nil, fmt.Errorf("mask length %d does not match row count %d", len(mask), t.RowCount())
	}
	kept := 0
	for _, keep := range mask {
		if keep {
			kept++
		}
	}
	columns := make([]Column, len(t.Columns))
	for i, col := range t.Columns {
		cells := make([]Value, 0, kept)
		for r, keep := range mask {
			if keep {
				cells = append(cells, col.Cells[r])
			}
		}
		columns[i] = Column{Name: col.Name, Cells: cells}
	}
	return New(columns)
}

// Records renders the table back into a header row plus raw string records,
// the shape the exporters consume. Missing cells become empty strings.
func (t *Table) Records() (headers []string, records [][]string) {
	headers = t.ColumnNames()
	rows := t.RowCount()
	records = make([][]string, rows)
	for r := 0; r < rows; r++ {
		record := make([]string, len(t.Columns))
		for j := range t.Columns {
			record[j] = t.Columns[j].Cells[r].String()
		}
		records[r] = record
	}
	return headers, records
}
