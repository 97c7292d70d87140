package temporal

import (
	"fmt"
	"math"
	"strconv"
)

// ValueRange is the closed interval of legal values for a field. The
// minimum and maximum may each vary (day-of-month runs 1 to 28..31), so the
// range keeps the smallest and largest value of both bounds.
type ValueRange struct {
	minSmallest int64
	minLargest  int64
	maxSmallest int64
	maxLargest  int64
}

// ValueRangeOf returns the fixed range [min, max].
func ValueRangeOf(min, max int64) (ValueRange, error) {
	return ValueRangeOfVariable(min, min, max, max)
}

// ValueRangeOfVariableMax returns a range with a fixed minimum and a maximum
// between maxSmallest and maxLargest.
func ValueRangeOfVariableMax(min, maxSmallest, maxLargest int64) (ValueRange, error) {
	return ValueRangeOfVariable(min, min, maxSmallest, maxLargest)
}

// ValueRangeOfVariable returns a range where both bounds may vary. The
// bounds must satisfy minSmallest <= minLargest <= maxSmallest <= maxLargest.
func ValueRangeOfVariable(minSmallest, minLargest, maxSmallest, maxLargest int64) (ValueRange, error) {
	if minSmallest > minLargest {
		return ValueRange{}, fmt.Errorf("%w: smallest minimum %d must be <= largest minimum %d",
			ErrInvalidArgument, minSmallest, minLargest)
	}
	if minLargest > maxSmallest {
		return ValueRange{}, fmt.Errorf("%w: largest minimum %d must be <= smallest maximum %d",
			ErrInvalidArgument, minLargest, maxSmallest)
	}
	if maxSmallest > maxLargest {
		return ValueRange{}, fmt.Errorf("%w: smallest maximum %d must be <= largest maximum %d",
			ErrInvalidArgument, maxSmallest, maxLargest)
	}
	return ValueRange{
		minSmallest: minSmallest,
		minLargest:  minLargest,
		maxSmallest: maxSmallest,
		maxLargest:  maxLargest,
	}, nil
}

// MustValueRange is ValueRangeOf for statically known bounds; it panics on
// malformed input.
func MustValueRange(min, max int64) ValueRange {
	r, err := ValueRangeOf(min, max)
	if err != nil {
		panic(err)
	}
	return r
}

// MustValueRangeVariableMax is ValueRangeOfVariableMax that panics on malformed input.
func MustValueRangeVariableMax(min, maxSmallest, maxLargest int64) ValueRange {
	r, err := ValueRangeOfVariableMax(min, maxSmallest, maxLargest)
	if err != nil {
		panic(err)
	}
	return r
}

// Minimum returns the smallest possible minimum.
func (r ValueRange) Minimum() int64 { return r.minSmallest }

// LargestMinimum returns the largest possible minimum.
func (r ValueRange) LargestMinimum() int64 { return r.minLargest }

// SmallestMaximum returns the smallest possible maximum.
func (r ValueRange) SmallestMaximum() int64 { return r.maxSmallest }

// Maximum returns the largest possible maximum.
func (r ValueRange) Maximum() int64 { return r.maxLargest }

// IsFixed reports whether neither bound varies.
func (r ValueRange) IsFixed() bool {
	return r.minSmallest == r.minLargest && r.maxSmallest == r.maxLargest
}

// IsIntValue reports whether every value in the range fits in an int32.
func (r ValueRange) IsIntValue() bool {
	return r.Minimum() >= math.MinInt32 && r.Maximum() <= math.MaxInt32
}

// IsValidValue reports whether value lies within [Minimum, Maximum].
func (r ValueRange) IsValidValue(value int64) bool {
	return value >= r.Minimum() && value <= r.Maximum()
}

// IsValidIntValue reports whether the range is int-sized and contains value.
func (r ValueRange) IsValidIntValue(value int64) bool {
	return r.IsIntValue() && r.IsValidValue(value)
}

// CheckValidValue returns value unchanged when it lies in the range, or a
// *RangeError naming fieldName otherwise.
func (r ValueRange) CheckValidValue(value int64, fieldName string) (int64, error) {
	if !r.IsValidValue(value) {
		return 0, &RangeError{Field: fieldName, Value: value, Range: r}
	}
	return value, nil
}

// CheckValidIntValue is CheckValidValue for callers that need an int32. It
// succeeds exactly when IsValidIntValue does. A range or value that is not
// int-sized fails with ErrNotIntValue, an int value outside the range with
// ErrDateTimeRange.
func (r ValueRange) CheckValidIntValue(value int64, field Field) (int32, error) {
	if !r.IsIntValue() {
		return 0, fmt.Errorf("%w: %s range %s exceeds int32", ErrNotIntValue, field, r)
	}
	if value < math.MinInt32 || value > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s value %d", ErrNotIntValue, field, value)
	}
	if _, err := r.CheckValidValue(value, field.Name()); err != nil {
		return 0, err
	}
	return int32(value), nil
}

// Equal reports whether both ranges have identical bounds.
func (r ValueRange) Equal(other ValueRange) bool {
	return r == other
}

// String renders the range as "min - max", with "/" separating the
// smallest and largest value of a varying bound, e.g. "1 - 28/31".
func (r ValueRange) String() string {
	s := strconv.FormatInt(r.minSmallest, 10)
	if r.minSmallest != r.minLargest {
		s += "/" + strconv.FormatInt(r.minLargest, 10)
	}
	s += " - " + strconv.FormatInt(r.maxSmallest, 10)
	if r.maxSmallest != r.maxLargest {
		s += "/" + strconv.FormatInt(r.maxLargest, 10)
	}
	return s
}
