package cleanse

import (
	"errors"
	"fmt"
)

// ConditionErrorKind classifies user-input errors raised while validating
// filter conditions. These are the only recoverable errors the pipeline
// produces; every statistical edge case is handled by policy instead.
type ConditionErrorKind string

const (
	// ErrKindUnknownColumn means a condition names a column the table does
	// not have.
	ErrKindUnknownColumn ConditionErrorKind = "unknown_column"
	// ErrKindInvalidOperand means a condition's operands are malformed,
	// e.g. a range with low > high or an unrecognized operator.
	ErrKindInvalidOperand ConditionErrorKind = "invalid_operand"
)

// ConditionError reports a malformed filter condition. It carries the
// offending condition so callers can show the user exactly which input to
// fix, not just that processing failed.
type ConditionError struct {
	Kind      ConditionErrorKind `json:"kind"`
	Condition FilterCondition    `json:"condition"`
	Reason    string             `json:"reason"`
}

// Error implements the error interface.
func (e *ConditionError) Error() string {
	if e == nil {
		return "unknown condition error"
	}
	switch e.Kind {
	case ErrKindUnknownColumn:
		return fmt.Sprintf("[%s] condition %s: column %q not found", e.Kind, e.Condition, e.Condition.Column)
	default:
		return fmt.Sprintf("[%s] condition %s: %s", e.Kind, e.Condition, e.Reason)
	}
}

// NewUnknownColumnError reports a condition referencing a missing column.
func NewUnknownColumnError(cond FilterCondition) *ConditionError {
	return &ConditionError{
		Kind:      ErrKindUnknownColumn,
		Condition: cond,
	}
}

// NewInvalidOperandError reports a condition with unusable operands.
func NewInvalidOperandError(cond FilterCondition, reason string) *ConditionError {
	return &ConditionError{
		Kind:      ErrKindInvalidOperand,
		Condition: cond,
		Reason:    reason,
	}
}

// IsUserInputError reports whether err originated from malformed filter
// input, the recoverable error family of the pipeline.
func IsUserInputError(err error) bool {
	var ce *ConditionError
	return errors.As(err, &ce)
}

// AsConditionError extracts a *ConditionError from err when present.
func AsConditionError(err error) (*ConditionError, bool) {
	var ce *ConditionError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
