package temporal

import (
	"errors"
	"fmt"
)

// Error conditions raised by the temporal model. Callers match them with
// errors.Is; concrete error values carry the details.
var (
	// ErrDateTimeRange indicates a value outside the valid range of a field.
	ErrDateTimeRange = errors.New("date-time value out of range")

	// ErrNotIntValue indicates a value that cannot be represented as a 32-bit int.
	ErrNotIntValue = errors.New("value does not fit in an int")

	// ErrUnsupportedField indicates a field the temporal value has no meaning for.
	ErrUnsupportedField = errors.New("unsupported field")

	// ErrUnsupportedUnit indicates a unit the temporal value cannot be moved by.
	ErrUnsupportedUnit = errors.New("unsupported unit")

	// ErrArithmeticOverflow indicates that an exact computation exceeded int64.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")

	// ErrInvalidArgument indicates a contract violation by the caller.
	ErrInvalidArgument = errors.New("invalid argument")
)

// RangeError reports a value rejected by a ValueRange check.
type RangeError struct {
	Field string
	Value int64
	Range ValueRange
}

func (e *RangeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid value (valid values %s): %d", e.Range, e.Value)
	}
	return fmt.Sprintf("invalid value for %s (valid values %s): %d", e.Field, e.Range, e.Value)
}

// Unwrap lets errors.Is match ErrDateTimeRange.
func (e *RangeError) Unwrap() error {
	return ErrDateTimeRange
}

// UnsupportedFieldError builds the error returned when an accessor is
// queried for a field it does not support.
func UnsupportedFieldError(field Field) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedField, field)
}

// UnsupportedUnitError builds the error returned when a temporal value is
// asked to move by a unit it does not support.
func UnsupportedUnitError(unit Unit) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedUnit, unit)
}
