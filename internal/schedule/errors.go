package schedule

import (
	"errors"
	"fmt"
)

// ErrInvalidSchedule is matched by every ValidationError via errors.Is
var ErrInvalidSchedule = errors.New("invalid competition schedule")

// ValidationError describes a schedule field that could not be parsed
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidSchedule
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidSchedule
}

func newValidationError(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// InvalidField names the schedule field a validation error refers to, or
// "unknown" for any other error.
func InvalidField(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return "unknown"
}

// withField relabels a ValidationError from the civil parsers with the
// schedule field the value was read from.
func withField(err error, field string) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	return newValidationError(field, ve.Value, ve.Reason)
}
