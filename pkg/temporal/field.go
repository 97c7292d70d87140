package temporal

import (
	"fmt"
	"math"
)

// Year bounds of the ISO calendar model.
const (
	MinYear int64 = -999_999_999
	MaxYear int64 = 999_999_999
)

// Field is a named component of a date-time such as day-of-month. The set of
// fields is fixed at compile time; a Field is its own identity, so equality
// is comparison of the tag.
type Field int

const (
	NanoOfSecond Field = iota
	NanoOfDay
	MicroOfSecond
	MicroOfDay
	MilliOfSecond
	MilliOfDay
	SecondOfMinute
	SecondOfDay
	MinuteOfHour
	MinuteOfDay
	HourOfAmPm
	ClockHourOfAmPm
	HourOfDay
	ClockHourOfDay
	AmPmOfDay
	DayOfWeek
	AlignedDayOfWeekInMonth
	AlignedDayOfWeekInYear
	DayOfMonth
	DayOfYear
	EpochDay
	AlignedWeekOfMonth
	AlignedWeekOfYear
	MonthOfYear
	ProlepticMonth
	YearOfEra
	Year
	Era
	InstantSeconds
	OffsetSeconds

	fieldCount
)

type fieldSpec struct {
	name      string
	baseUnit  Unit
	rangeUnit Unit
	valid     ValueRange
}

// fieldTable is the descriptor of every field, indexed by tag. It is a
// package-level literal so it is fully built before any caller can see it.
var fieldTable = [fieldCount]fieldSpec{
	NanoOfSecond:            {"NanoOfSecond", Nanos, Seconds, MustValueRange(0, 999_999_999)},
	NanoOfDay:               {"NanoOfDay", Nanos, Days, MustValueRange(0, NanosPerDay-1)},
	MicroOfSecond:           {"MicroOfSecond", Micros, Seconds, MustValueRange(0, 999_999)},
	MicroOfDay:              {"MicroOfDay", Micros, Days, MustValueRange(0, SecondsPerDay*1_000_000-1)},
	MilliOfSecond:           {"MilliOfSecond", Millis, Seconds, MustValueRange(0, 999)},
	MilliOfDay:              {"MilliOfDay", Millis, Days, MustValueRange(0, SecondsPerDay*1000-1)},
	SecondOfMinute:          {"SecondOfMinute", Seconds, Minutes, MustValueRange(0, 59)},
	SecondOfDay:             {"SecondOfDay", Seconds, Days, MustValueRange(0, SecondsPerDay-1)},
	MinuteOfHour:            {"MinuteOfHour", Minutes, Hours, MustValueRange(0, 59)},
	MinuteOfDay:             {"MinuteOfDay", Minutes, Days, MustValueRange(0, MinutesPerDay-1)},
	HourOfAmPm:              {"HourOfAmPm", Hours, HalfDays, MustValueRange(0, 11)},
	ClockHourOfAmPm:         {"ClockHourOfAmPm", Hours, HalfDays, MustValueRange(1, 12)},
	HourOfDay:               {"HourOfDay", Hours, Days, MustValueRange(0, 23)},
	ClockHourOfDay:          {"ClockHourOfDay", Hours, Days, MustValueRange(1, 24)},
	AmPmOfDay:               {"AmPmOfDay", HalfDays, Days, MustValueRange(0, 1)},
	DayOfWeek:               {"DayOfWeek", Days, Weeks, MustValueRange(1, 7)},
	AlignedDayOfWeekInMonth: {"AlignedDayOfWeekInMonth", Days, Weeks, MustValueRange(1, 7)},
	AlignedDayOfWeekInYear:  {"AlignedDayOfWeekInYear", Days, Weeks, MustValueRange(1, 7)},
	DayOfMonth:              {"DayOfMonth", Days, Months, MustValueRangeVariableMax(1, 28, 31)},
	DayOfYear:               {"DayOfYear", Days, Years, MustValueRangeVariableMax(1, 365, 366)},
	EpochDay:                {"EpochDay", Days, Forever, MustValueRange(-365_249_999_634, 365_249_999_634)},
	AlignedWeekOfMonth:      {"AlignedWeekOfMonth", Weeks, Months, MustValueRangeVariableMax(1, 4, 5)},
	AlignedWeekOfYear:       {"AlignedWeekOfYear", Weeks, Years, MustValueRange(1, 53)},
	MonthOfYear:             {"MonthOfYear", Months, Years, MustValueRange(1, 12)},
	ProlepticMonth:          {"ProlepticMonth", Months, Forever, MustValueRange(MinYear*12, MaxYear*12+11)},
	YearOfEra:               {"YearOfEra", Years, Forever, MustValueRangeVariableMax(1, MaxYear, MaxYear+1)},
	Year:                    {"Year", Years, Forever, MustValueRange(MinYear, MaxYear)},
	Era:                     {"Era", Eras, Forever, MustValueRange(0, 1)},
	InstantSeconds:          {"InstantSeconds", Seconds, Forever, MustValueRange(math.MinInt64, math.MaxInt64)},
	OffsetSeconds:           {"OffsetSeconds", Seconds, Forever, MustValueRange(-18*SecondsPerHour, 18*SecondsPerHour)},
}

// fieldsByName indexes fieldTable for ByName.
var fieldsByName = func() map[string]Field {
	index := make(map[string]Field, fieldCount)
	for f := Field(0); f < fieldCount; f++ {
		index[fieldTable[f].name] = f
	}
	return index
}()

// Fields returns every field in declaration order.
func Fields() []Field {
	all := make([]Field, 0, fieldCount)
	for f := Field(0); f < fieldCount; f++ {
		all = append(all, f)
	}
	return all
}

// ByName looks a field up by its name ("DayOfMonth"). The second result is
// false when no field has that name.
func ByName(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// IsValid reports whether f is one of the declared fields.
func (f Field) IsValid() bool {
	return f >= 0 && f < fieldCount
}

// Name returns the field name, e.g. "DayOfMonth".
func (f Field) Name() string {
	if !f.IsValid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldTable[f].name
}

func (f Field) String() string {
	return f.Name()
}

// BaseUnit is the unit the field is measured in.
func (f Field) BaseUnit() Unit {
	if !f.IsValid() {
		return Forever
	}
	return fieldTable[f].baseUnit
}

// RangeUnit is the unit the field is bounded by.
func (f Field) RangeUnit() Unit {
	if !f.IsValid() {
		return Forever
	}
	return fieldTable[f].rangeUnit
}

// Range returns the field's ISO-calendar range. A temporal value may narrow
// it, see RangeRefinedBy. An invalid field has the zero range, which
// contains only zero.
func (f Field) Range() ValueRange {
	if !f.IsValid() {
		return ValueRange{}
	}
	return fieldTable[f].valid
}

// IsDateBased reports whether the field belongs to the date family.
// ProlepticMonth is a count of months, not a date component, and is
// excluded; date types support it explicitly.
func (f Field) IsDateBased() bool {
	switch f {
	case DayOfWeek, AlignedDayOfWeekInMonth, AlignedDayOfWeekInYear,
		DayOfMonth, DayOfYear, EpochDay, AlignedWeekOfMonth, AlignedWeekOfYear,
		MonthOfYear, YearOfEra, Year, Era:
		return true
	}
	return false
}

// IsTimeBased reports whether the field belongs to the time-of-day family.
func (f Field) IsTimeBased() bool {
	switch f {
	case NanoOfSecond, NanoOfDay, MicroOfSecond, MicroOfDay, MilliOfSecond, MilliOfDay,
		SecondOfMinute, SecondOfDay, MinuteOfHour, MinuteOfDay,
		HourOfAmPm, ClockHourOfAmPm, HourOfDay, ClockHourOfDay, AmPmOfDay:
		return true
	}
	return false
}

// CheckValidValue validates value against the field's static range.
func (f Field) CheckValidValue(value int64) (int64, error) {
	if !f.IsValid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidArgument, f)
	}
	return f.Range().CheckValidValue(value, f.Name())
}

// CheckValidIntValue validates value and narrows it to an int32.
func (f Field) CheckValidIntValue(value int64) (int32, error) {
	if !f.IsValid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidArgument, f)
	}
	return f.Range().CheckValidIntValue(value, f)
}

// RangeRefinedBy asks the temporal value for the range of this field in its
// own calendar context.
func (f Field) RangeRefinedBy(temporal Accessor) (ValueRange, error) {
	return temporal.Range(f)
}

// GetFrom reads this field from the temporal value.
func (f Field) GetFrom(temporal Accessor) (int64, error) {
	return temporal.GetLong(f)
}

// IsSupportedBy reports whether the temporal value can be queried for f.
func (f Field) IsSupportedBy(temporal Accessor) bool {
	return temporal.IsSupported(f)
}

// AdjustInto returns a copy of temporal with this field set to value.
func (f Field) AdjustInto(temporal Temporal, value int64) (Temporal, error) {
	return temporal.With(f, value)
}
