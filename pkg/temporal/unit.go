package temporal

import (
	"fmt"
	"math"
)

// Time constants shared by the ISO value types.
const (
	NanosPerSecond   int64 = 1_000_000_000
	NanosPerMinute   int64 = NanosPerSecond * 60
	NanosPerHour     int64 = NanosPerMinute * 60
	NanosPerDay      int64 = NanosPerHour * 24
	SecondsPerMinute int64 = 60
	SecondsPerHour   int64 = 3600
	SecondsPerDay    int64 = 86400
	MinutesPerHour   int64 = 60
	MinutesPerDay    int64 = 1440
	HoursPerDay      int64 = 24
)

// Unit is a granularity of time. The set is closed; values compare by tag.
type Unit int

const (
	Nanos Unit = iota
	Micros
	Millis
	Seconds
	Minutes
	Hours
	HalfDays
	Days
	Weeks
	Months
	Years
	Decades
	Centuries
	Millennia
	Eras
	Forever

	unitCount
)

type unitSpec struct {
	name     string
	duration Duration
}

// Estimated durations use the ISO year of 365.2425 days.
var units = [unitCount]unitSpec{
	Nanos:     {"Nanos", Duration{0, 1}},
	Micros:    {"Micros", Duration{0, 1000}},
	Millis:    {"Millis", Duration{0, 1_000_000}},
	Seconds:   {"Seconds", Duration{1, 0}},
	Minutes:   {"Minutes", Duration{60, 0}},
	Hours:     {"Hours", Duration{3600, 0}},
	HalfDays:  {"HalfDays", Duration{43200, 0}},
	Days:      {"Days", Duration{86400, 0}},
	Weeks:     {"Weeks", Duration{7 * 86400, 0}},
	Months:    {"Months", Duration{31556952 / 12, 0}},
	Years:     {"Years", Duration{31556952, 0}},
	Decades:   {"Decades", Duration{31556952 * 10, 0}},
	Centuries: {"Centuries", Duration{31556952 * 100, 0}},
	Millennia: {"Millennia", Duration{31556952 * 1000, 0}},
	Eras:      {"Eras", Duration{31556952 * 1_000_000_000, 0}},
	Forever:   {"Forever", Duration{math.MaxInt64, 999_999_999}},
}

// Units returns every unit from shortest to longest.
func Units() []Unit {
	all := make([]Unit, 0, unitCount)
	for u := Nanos; u < unitCount; u++ {
		all = append(all, u)
	}
	return all
}

// IsValid reports whether u is one of the declared units.
func (u Unit) IsValid() bool {
	return u >= Nanos && u < unitCount
}

func (u Unit) String() string {
	if !u.IsValid() {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return units[u].name
}

// Duration returns the nominal length of the unit. For Days and longer the
// value is an estimate.
func (u Unit) Duration() Duration {
	if !u.IsValid() {
		return Duration{}
	}
	return units[u].duration
}

// IsDurationEstimated reports whether the unit's length varies in practice
// (daylight saving, month and year lengths).
func (u Unit) IsDurationEstimated() bool {
	return u >= Days
}

// IsDateBased reports whether the unit is a date unit. Forever is neither
// date nor time based.
func (u Unit) IsDateBased() bool {
	switch u {
	case Days, Weeks, Months, Years, Decades, Centuries, Millennia, Eras:
		return true
	}
	return false
}

// IsTimeBased reports whether the unit is shorter than a day.
func (u Unit) IsTimeBased() bool {
	switch u {
	case Nanos, Micros, Millis, Seconds, Minutes, Hours, HalfDays:
		return true
	}
	return false
}

// Compare orders units by their estimated duration.
func (u Unit) Compare(other Unit) int {
	return u.Duration().Compare(other.Duration())
}

// AddTo moves t by amount of this unit.
func (u Unit) AddTo(t Temporal, amount int64) (Temporal, error) {
	return t.Plus(amount, u)
}

// Between counts whole units from start to end.
func (u Unit) Between(start, end Temporal) (int64, error) {
	return start.Until(end, u)
}

// nanosIn returns the exact length of a fixed unit in nanoseconds.
func (u Unit) nanosIn() (int64, bool) {
	switch u {
	case Nanos:
		return 1, true
	case Micros:
		return 1000, true
	case Millis:
		return 1_000_000, true
	case Seconds:
		return NanosPerSecond, true
	case Minutes:
		return NanosPerMinute, true
	case Hours:
		return NanosPerHour, true
	case HalfDays:
		return NanosPerDay / 2, true
	case Days:
		return NanosPerDay, true
	case Weeks:
		return NanosPerDay * 7, true
	}
	return 0, false
}

// Convert expresses amount of from in units of to. Only units with a fixed
// length (Nanos through Weeks, treating a day as 24 hours) convert;
// converting to a larger unit truncates toward zero.
func Convert(amount int64, from, to Unit) (int64, error) {
	fromNanos, ok := from.nanosIn()
	if !ok {
		return 0, UnsupportedUnitError(from)
	}
	toNanos, ok := to.nanosIn()
	if !ok {
		return 0, UnsupportedUnitError(to)
	}
	if fromNanos >= toNanos {
		return MultiplyExact(amount, fromNanos/toNanos)
	}
	return amount / (toNanos / fromNanos), nil
}
