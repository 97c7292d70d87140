package civil

import (
	"fmt"

	"github.com/coolbeans/chronocore/pkg/temporal"
)

// LocalTime is a time of day with nanosecond precision and no date or offset.
type LocalTime struct {
	hour   int8
	minute int8
	second int8
	nano   int32
}

// Midnight is 00:00.
var Midnight = LocalTime{}

// Noon is 12:00.
var Noon = LocalTime{hour: 12}

// OfTime returns hour:minute:second.nano after validating each component.
func OfTime(hour, minute, second, nano int) (LocalTime, error) {
	checks := []struct {
		field temporal.Field
		value int
	}{
		{temporal.HourOfDay, hour},
		{temporal.MinuteOfHour, minute},
		{temporal.SecondOfMinute, second},
		{temporal.NanoOfSecond, nano},
	}
	for _, check := range checks {
		if _, err := check.field.CheckValidValue(int64(check.value)); err != nil {
			return LocalTime{}, err
		}
	}
	return LocalTime{hour: int8(hour), minute: int8(minute), second: int8(second), nano: int32(nano)}, nil
}

// MustTime is OfTime for literals; it panics on invalid input.
func MustTime(hour, minute, second, nano int) LocalTime {
	t, err := OfTime(hour, minute, second, nano)
	if err != nil {
		panic(err)
	}
	return t
}

// OfSecondOfDay returns the time secondOfDay seconds after midnight.
func OfSecondOfDay(secondOfDay int64) (LocalTime, error) {
	if _, err := temporal.SecondOfDay.CheckValidValue(secondOfDay); err != nil {
		return LocalTime{}, err
	}
	return LocalTime{
		hour:   int8(secondOfDay / temporal.SecondsPerHour),
		minute: int8(secondOfDay / temporal.SecondsPerMinute % temporal.MinutesPerHour),
		second: int8(secondOfDay % temporal.SecondsPerMinute),
	}, nil
}

// OfNanoOfDay returns the time nanoOfDay nanoseconds after midnight.
func OfNanoOfDay(nanoOfDay int64) (LocalTime, error) {
	if _, err := temporal.NanoOfDay.CheckValidValue(nanoOfDay); err != nil {
		return LocalTime{}, err
	}
	return timeOfNanoOfDay(nanoOfDay), nil
}

// timeOfNanoOfDay assumes nanoOfDay is already validated.
func timeOfNanoOfDay(nanoOfDay int64) LocalTime {
	hours := nanoOfDay / temporal.NanosPerHour
	nanoOfDay -= hours * temporal.NanosPerHour
	minutes := nanoOfDay / temporal.NanosPerMinute
	nanoOfDay -= minutes * temporal.NanosPerMinute
	seconds := nanoOfDay / temporal.NanosPerSecond
	nanoOfDay -= seconds * temporal.NanosPerSecond
	return LocalTime{hour: int8(hours), minute: int8(minutes), second: int8(seconds), nano: int32(nanoOfDay)}
}

// Hour returns the hour of day.
func (t LocalTime) Hour() int { return int(t.hour) }

// Minute returns the minute of hour.
func (t LocalTime) Minute() int { return int(t.minute) }

// Second returns the second of minute.
func (t LocalTime) Second() int { return int(t.second) }

// Nano returns the nanosecond of second.
func (t LocalTime) Nano() int { return int(t.nano) }

// ToSecondOfDay returns whole seconds since midnight.
func (t LocalTime) ToSecondOfDay() int64 {
	return int64(t.hour)*temporal.SecondsPerHour + int64(t.minute)*temporal.SecondsPerMinute + int64(t.second)
}

// ToNanoOfDay returns nanoseconds since midnight.
func (t LocalTime) ToNanoOfDay() int64 {
	return t.ToSecondOfDay()*temporal.NanosPerSecond + int64(t.nano)
}

// Compare orders times within a day.
func (t LocalTime) Compare(other LocalTime) int {
	return compareInt(t.ToNanoOfDay(), other.ToNanoOfDay())
}

// Before reports whether t is earlier in the day than other.
func (t LocalTime) Before(other LocalTime) bool { return t.Compare(other) < 0 }

// After reports whether t is later in the day than other.
func (t LocalTime) After(other LocalTime) bool { return t.Compare(other) > 0 }

// plusNanos wraps around midnight.
func (t LocalTime) plusNanos(nanos int64) LocalTime {
	if nanos == 0 {
		return t
	}
	nofd := t.ToNanoOfDay()
	newNofd := ((nanos % temporal.NanosPerDay) + nofd + temporal.NanosPerDay) % temporal.NanosPerDay
	return timeOfNanoOfDay(newNofd)
}

// PlusSeconds returns the time seconds later, wrapping around midnight.
func (t LocalTime) PlusSeconds(seconds int64) LocalTime {
	return t.plusNanos((seconds % temporal.SecondsPerDay) * temporal.NanosPerSecond)
}

// PlusHours returns the time hours later, wrapping around midnight.
func (t LocalTime) PlusHours(hours int64) LocalTime {
	return t.plusNanos((hours % temporal.HoursPerDay) * temporal.NanosPerHour)
}

// PlusMinutes returns the time minutes later, wrapping around midnight.
func (t LocalTime) PlusMinutes(minutes int64) LocalTime {
	return t.plusNanos((minutes % temporal.MinutesPerDay) * temporal.NanosPerMinute)
}

func (t LocalTime) String() string {
	s := fmt.Sprintf("%02d:%02d", t.hour, t.minute)
	if t.second == 0 && t.nano == 0 {
		return s
	}
	s += fmt.Sprintf(":%02d", t.second)
	switch {
	case t.nano == 0:
	case t.nano%1_000_000 == 0:
		s += fmt.Sprintf(".%03d", t.nano/1_000_000)
	case t.nano%1000 == 0:
		s += fmt.Sprintf(".%06d", t.nano/1000)
	default:
		s += fmt.Sprintf(".%09d", t.nano)
	}
	return s
}

// IsSupported reports whether field is a time-of-day field.
func (t LocalTime) IsSupported(field temporal.Field) bool {
	return field.IsTimeBased()
}

// IsSupportedUnit reports whether unit is shorter than a day.
func (t LocalTime) IsSupportedUnit(unit temporal.Unit) bool {
	return unit.IsTimeBased()
}

// Range returns the static range of a time field; a time of day never
// narrows it.
func (t LocalTime) Range(field temporal.Field) (temporal.ValueRange, error) {
	return temporal.DefaultRange(t, field)
}

// GetLong returns the value of a time field.
func (t LocalTime) GetLong(field temporal.Field) (int64, error) {
	h := int64(t.hour)
	switch field {
	case temporal.NanoOfSecond:
		return int64(t.nano), nil
	case temporal.NanoOfDay:
		return t.ToNanoOfDay(), nil
	case temporal.MicroOfSecond:
		return int64(t.nano) / 1000, nil
	case temporal.MicroOfDay:
		return t.ToNanoOfDay() / 1000, nil
	case temporal.MilliOfSecond:
		return int64(t.nano) / 1_000_000, nil
	case temporal.MilliOfDay:
		return t.ToNanoOfDay() / 1_000_000, nil
	case temporal.SecondOfMinute:
		return int64(t.second), nil
	case temporal.SecondOfDay:
		return t.ToSecondOfDay(), nil
	case temporal.MinuteOfHour:
		return int64(t.minute), nil
	case temporal.MinuteOfDay:
		return h*60 + int64(t.minute), nil
	case temporal.HourOfAmPm:
		return h % 12, nil
	case temporal.ClockHourOfAmPm:
		if ham := h % 12; ham != 0 {
			return ham, nil
		}
		return 12, nil
	case temporal.HourOfDay:
		return h, nil
	case temporal.ClockHourOfDay:
		if h == 0 {
			return 24, nil
		}
		return h, nil
	case temporal.AmPmOfDay:
		return h / 12, nil
	}
	return 0, temporal.UnsupportedFieldError(field)
}

// With returns a copy of the time with field set to value.
func (t LocalTime) With(field temporal.Field, value int64) (temporal.Temporal, error) {
	return t.with(field, value)
}

func (t LocalTime) with(field temporal.Field, value int64) (LocalTime, error) {
	if !t.IsSupported(field) {
		return LocalTime{}, temporal.UnsupportedFieldError(field)
	}
	if _, err := field.CheckValidValue(value); err != nil {
		return LocalTime{}, err
	}
	h := int64(t.hour)
	switch field {
	case temporal.NanoOfSecond:
		return OfTime(t.Hour(), t.Minute(), t.Second(), int(value))
	case temporal.NanoOfDay:
		return OfNanoOfDay(value)
	case temporal.MicroOfSecond:
		return OfTime(t.Hour(), t.Minute(), t.Second(), int(value*1000))
	case temporal.MicroOfDay:
		return OfNanoOfDay(value * 1000)
	case temporal.MilliOfSecond:
		return OfTime(t.Hour(), t.Minute(), t.Second(), int(value*1_000_000))
	case temporal.MilliOfDay:
		return OfNanoOfDay(value * 1_000_000)
	case temporal.SecondOfMinute:
		return OfTime(t.Hour(), t.Minute(), int(value), t.Nano())
	case temporal.SecondOfDay:
		return t.PlusSeconds(value - t.ToSecondOfDay()), nil
	case temporal.MinuteOfHour:
		return OfTime(t.Hour(), int(value), t.Second(), t.Nano())
	case temporal.MinuteOfDay:
		return t.PlusMinutes(value - (h*60 + int64(t.minute))), nil
	case temporal.HourOfAmPm:
		return t.PlusHours(value - h%12), nil
	case temporal.ClockHourOfAmPm:
		if value == 12 {
			value = 0
		}
		return t.PlusHours(value - h%12), nil
	case temporal.HourOfDay:
		return OfTime(int(value), t.Minute(), t.Second(), t.Nano())
	case temporal.ClockHourOfDay:
		if value == 24 {
			value = 0
		}
		return OfTime(int(value), t.Minute(), t.Second(), t.Nano())
	case temporal.AmPmOfDay:
		return t.PlusHours((value - h/12) * 12), nil
	}
	return LocalTime{}, temporal.UnsupportedFieldError(field)
}

// Plus returns the time moved by amount of a time unit, wrapping around
// midnight.
func (t LocalTime) Plus(amount int64, unit temporal.Unit) (temporal.Temporal, error) {
	return t.plus(amount, unit)
}

func (t LocalTime) plus(amount int64, unit temporal.Unit) (LocalTime, error) {
	switch unit {
	case temporal.Nanos:
		return t.plusNanos(amount), nil
	case temporal.Micros:
		return t.plusNanos((amount % (temporal.NanosPerDay / 1000)) * 1000), nil
	case temporal.Millis:
		return t.plusNanos((amount % (temporal.NanosPerDay / 1_000_000)) * 1_000_000), nil
	case temporal.Seconds:
		return t.PlusSeconds(amount), nil
	case temporal.Minutes:
		return t.PlusMinutes(amount), nil
	case temporal.Hours:
		return t.PlusHours(amount), nil
	case temporal.HalfDays:
		return t.PlusHours((amount % 2) * 12), nil
	}
	return LocalTime{}, temporal.UnsupportedUnitError(unit)
}

// Until counts whole time units from t to end, which must be a LocalTime
// or LocalDateTime.
func (t LocalTime) Until(end temporal.Temporal, unit temporal.Unit) (int64, error) {
	var endTime LocalTime
	switch e := end.(type) {
	case LocalTime:
		endTime = e
	case LocalDateTime:
		endTime = e.time
	default:
		return 0, fmt.Errorf("%w: cannot measure from LocalTime to %T", temporal.ErrInvalidArgument, end)
	}
	if !unit.IsTimeBased() {
		return 0, temporal.UnsupportedUnitError(unit)
	}
	return temporal.Convert(endTime.ToNanoOfDay()-t.ToNanoOfDay(), temporal.Nanos, unit)
}
