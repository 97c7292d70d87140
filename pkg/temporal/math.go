package temporal

import (
	"fmt"
	"math"
)

// AddExact returns a+b or ErrArithmeticOverflow.
func AddExact(a, b int64) (int64, error) {
	sum := a + b
	// Overflow iff both operands share a sign that the result does not.
	if (a^sum)&(b^sum) < 0 {
		return 0, fmt.Errorf("%w: %d + %d", ErrArithmeticOverflow, a, b)
	}
	return sum, nil
}

// SubtractExact returns a-b or ErrArithmeticOverflow.
func SubtractExact(a, b int64) (int64, error) {
	diff := a - b
	if (a^b)&(a^diff) < 0 {
		return 0, fmt.Errorf("%w: %d - %d", ErrArithmeticOverflow, a, b)
	}
	return diff, nil
}

// MultiplyExact returns a*b or ErrArithmeticOverflow.
func MultiplyExact(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, fmt.Errorf("%w: %d * %d", ErrArithmeticOverflow, a, b)
	}
	return product, nil
}

// ToIntExact narrows v to a 32-bit int or reports ErrArithmeticOverflow.
func ToIntExact(v int64) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d does not fit in int32", ErrArithmeticOverflow, v)
	}
	return int32(v), nil
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(x, y int64) int64 {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

// FloorMod is the modulus matching FloorDiv; the result has the sign of y.
func FloorMod(x, y int64) int64 {
	return x - FloorDiv(x, y)*y
}
