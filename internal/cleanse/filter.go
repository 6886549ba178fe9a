package cleanse

import (
	"fmt"
	"strconv"
	"strings"

	"tsclean/internal/dataset"
)

// Operator is a row-condition comparison operator.
type Operator string

const (
	OpGE    Operator = ">="
	OpLE    Operator = "<="
	OpGT    Operator = ">"
	OpLT    Operator = "<"
	OpEQ    Operator = "="
	OpNE    Operator = "!="
	OpRange Operator = "range"
)

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool {
	switch op {
	case OpGE, OpLE, OpGT, OpLT, OpEQ, OpNE, OpRange:
		return true
	}
	return false
}

// FilterCondition is one row condition: a named column compared against a
// numeric operand, or against an inclusive [Low, High] range. Conditions are
// immutable during evaluation.
type FilterCondition struct {
	Column string   `json:"column"`
	Op     Operator `json:"operator"`
	Value  float64  `json:"value,omitempty"`
	Low    float64  `json:"low,omitempty"`
	High   float64  `json:"high,omitempty"`
}

// String renders the condition the way a user wrote it, for error messages
// and logs.
func (c FilterCondition) String() string {
	if c.Op == OpRange {
		return fmt.Sprintf("%s range [%g, %g]", c.Column, c.Low, c.High)
	}
	return fmt.Sprintf("%s %s %g", c.Column, c.Op, c.Value)
}

// matches evaluates the condition against one cell. Missing cells and text
// cells always fail: data without a comparable value never passes a filter
// silently.
func (c FilterCondition) matches(v dataset.Value) bool {
	f, ok := v.AsNumber()
	if !ok {
		return false
	}
	switch c.Op {
	case OpGE:
		return f >= c.Value
	case OpLE:
		return f <= c.Value
	case OpGT:
		return f > c.Value
	case OpLT:
		return f < c.Value
	case OpEQ:
		return f == c.Value
	case OpNE:
		return f != c.Value
	case OpRange:
		return f >= c.Low && f <= c.High
	}
	return false
}

// ParseCondition parses a condition the way a user types it on the command
// line: "TEMP >= 15", "TEMP>=15", or "TEMP range 30 60". Operators are
// matched longest first so ">=" is never read as ">".
func ParseCondition(s string) (FilterCondition, error) {
	fields := strings.Fields(s)
	if len(fields) == 4 && Operator(fields[1]) == OpRange {
		low, errLow := strconv.ParseFloat(fields[2], 64)
		high, errHigh := strconv.ParseFloat(fields[3], 64)
		if errLow != nil || errHigh != nil {
			return FilterCondition{}, fmt.Errorf("parsing condition %q: range bounds must be numbers", s)
		}
		return FilterCondition{Column: fields[0], Op: OpRange, Low: low, High: high}, nil
	}

	for _, op := range []Operator{OpGE, OpLE, OpNE, OpGT, OpLT, OpEQ} {
		idx := strings.Index(s, string(op))
		if idx <= 0 {
			continue
		}
		column := strings.TrimSpace(s[:idx])
		operand := strings.TrimSpace(s[idx+len(op):])
		value, err := strconv.ParseFloat(operand, 64)
		if err != nil {
			return FilterCondition{}, fmt.Errorf("parsing condition %q: operand %q is not a number", s, operand)
		}
		return FilterCondition{Column: column, Op: op, Value: value}, nil
	}
	return FilterCondition{}, fmt.Errorf("parsing condition %q: expected COLUMN OP VALUE or COLUMN range LOW HIGH", s)
}

// ValidateConditions checks every condition against the table before any
// data is touched: unknown columns and malformed operands abort the whole
// run. The first offending condition is returned.
func ValidateConditions(t *dataset.Table, conditions []FilterCondition) error {
	for _, cond := range conditions {
		if !cond.Op.Valid() {
			return NewInvalidOperandError(cond, fmt.Sprintf("unknown operator %q", cond.Op))
		}
		if !t.HasColumn(cond.Column) {
			return NewUnknownColumnError(cond)
		}
		if cond.Op == OpRange && cond.Low > cond.High {
			return NewInvalidOperandError(cond, fmt.Sprintf("range low %g exceeds high %g", cond.Low, cond.High))
		}
	}
	return nil
}

// Filter applies the conjunction of conditions and returns the surviving
// rows as a new table plus the number of rows removed. An empty condition
// list keeps every row. Row order is preserved.
func Filter(t *dataset.Table, conditions []FilterCondition) (*dataset.Table, int, error) {
	if err := ValidateConditions(t, conditions); err != nil {
		return nil, 0, err
	}
	if len(conditions) == 0 {
		return t.Clone(), 0, nil
	}

	rows := t.RowCount()
	mask := make([]bool, rows)
	for i := range mask {
		mask[i] = true
	}
	for _, cond := range conditions {
		col, _ := t.Column(cond.Column)
		for i := 0; i < rows; i++ {
			if mask[i] && !cond.matches(col.Cells[i]) {
				mask[i] = false
			}
		}
	}

	filtered, err := t.Select(mask)
	if err != nil {
		return nil, 0, fmt.Errorf("applying filter mask: %w", err)
	}
	return filtered, rows - filtered.RowCount(), nil
}
