// Package temporal defines the ISO calendar units and fields, their valid
// value ranges, and the interfaces date-time values implement so fields
// and units can read and adjust them.
package temporal

// Accessor is the read-only side of a date-time value. Fields call back into
// it (Field.GetFrom, Field.RangeRefinedBy), so the value type decides what a
// field means for it.
type Accessor interface {
	// IsSupported reports whether GetLong and Range can answer for field.
	IsSupported(field Field) bool

	// Range returns the valid values of field for this value, refining the
	// field's static range where the value's own context matters.
	Range(field Field) (ValueRange, error)

	// GetLong returns the value of field, or an ErrUnsupportedField error.
	GetLong(field Field) (int64, error)
}

// Temporal is an Accessor that can also produce adjusted copies of itself.
type Temporal interface {
	Accessor

	// IsSupportedUnit reports whether Plus and Until accept unit.
	IsSupportedUnit(unit Unit) bool

	// With returns a copy with field set to value.
	With(field Field, value int64) (Temporal, error)

	// Plus returns a copy moved by amount of unit.
	Plus(amount int64, unit Unit) (Temporal, error)

	// Until counts whole units between the receiver and end.
	Until(end Temporal, unit Unit) (int64, error)
}

// DefaultRange is the range hook for value types that never refine a field:
// the static range when supported, ErrUnsupportedField otherwise.
func DefaultRange(temporal Accessor, field Field) (ValueRange, error) {
	if !temporal.IsSupported(field) {
		return ValueRange{}, UnsupportedFieldError(field)
	}
	return field.Range(), nil
}

// GetInt reads a field that is known to fit an int32 and validates it.
func GetInt(temporal Accessor, field Field) (int32, error) {
	value, err := temporal.GetLong(field)
	if err != nil {
		return 0, err
	}
	valid, err := temporal.Range(field)
	if err != nil {
		return 0, err
	}
	return valid.CheckValidIntValue(value, field)
}
