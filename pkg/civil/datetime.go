package civil

import (
	"fmt"

	"github.com/coolbeans/chronocore/pkg/temporal"
)

// LocalDateTime is a date and time without offset or zone.
type LocalDateTime struct {
	date LocalDate
	time LocalTime
}

// OfDateTime validates and combines every component.
func OfDateTime(year int64, month, day, hour, minute, second, nano int) (LocalDateTime, error) {
	date, err := OfDate(year, month, day)
	if err != nil {
		return LocalDateTime{}, err
	}
	t, err := OfTime(hour, minute, second, nano)
	if err != nil {
		return LocalDateTime{}, err
	}
	return LocalDateTime{date: date, time: t}, nil
}

// MustDateTime is OfDateTime for literals; it panics on invalid input.
func MustDateTime(year int64, month, day, hour, minute, second int) LocalDateTime {
	dt, err := OfDateTime(year, month, day, hour, minute, second, 0)
	if err != nil {
		panic(err)
	}
	return dt
}

// OfEpochSecond returns the local date-time seen at epochSecond+nano by a
// clock running offsetSeconds ahead of UTC.
func OfEpochSecond(epochSecond int64, nano int, offsetSeconds int) (LocalDateTime, error) {
	if _, err := temporal.NanoOfSecond.CheckValidValue(int64(nano)); err != nil {
		return LocalDateTime{}, err
	}
	localSecond, err := temporal.AddExact(epochSecond, int64(offsetSeconds))
	if err != nil {
		return LocalDateTime{}, err
	}
	localEpochDay := temporal.FloorDiv(localSecond, temporal.SecondsPerDay)
	secsOfDay := temporal.FloorMod(localSecond, temporal.SecondsPerDay)
	date, err := OfEpochDay(localEpochDay)
	if err != nil {
		return LocalDateTime{}, err
	}
	return LocalDateTime{date: date, time: timeOfNanoOfDay(secsOfDay*temporal.NanosPerSecond + int64(nano))}, nil
}

// Date returns the date part.
func (dt LocalDateTime) Date() LocalDate { return dt.date }

// Time returns the time part.
func (dt LocalDateTime) Time() LocalTime { return dt.time }

// Year returns the year.
func (dt LocalDateTime) Year() int64 { return dt.date.Year() }

// ToEpochSecond returns the instant this local date-time denotes under a
// fixed offset.
func (dt LocalDateTime) ToEpochSecond(offsetSeconds int) int64 {
	return dt.date.ToEpochDay()*temporal.SecondsPerDay + dt.time.ToSecondOfDay() - int64(offsetSeconds)
}

// Compare orders date-times on the local time-line.
func (dt LocalDateTime) Compare(other LocalDateTime) int {
	if c := dt.date.Compare(other.date); c != 0 {
		return c
	}
	return dt.time.Compare(other.time)
}

// Before reports whether dt is earlier than other.
func (dt LocalDateTime) Before(other LocalDateTime) bool { return dt.Compare(other) < 0 }

// After reports whether dt is later than other.
func (dt LocalDateTime) After(other LocalDateTime) bool { return dt.Compare(other) > 0 }

// Equal reports whether both values denote the same local date-time.
func (dt LocalDateTime) Equal(other LocalDateTime) bool { return dt.Compare(other) == 0 }

// PlusSeconds returns the date-time seconds later.
func (dt LocalDateTime) PlusSeconds(seconds int64) (LocalDateTime, error) {
	return dt.plusWithOverflow(seconds, 0)
}

// PlusDays returns the date-time days later.
func (dt LocalDateTime) PlusDays(days int64) (LocalDateTime, error) {
	date, err := dt.date.PlusDays(days)
	if err != nil {
		return LocalDateTime{}, err
	}
	return LocalDateTime{date: date, time: dt.time}, nil
}

func (dt LocalDateTime) plusWithOverflow(seconds, nanos int64) (LocalDateTime, error) {
	if seconds == 0 && nanos == 0 {
		return dt, nil
	}
	days := seconds/temporal.SecondsPerDay + nanos/temporal.NanosPerDay
	curNoD := dt.time.ToNanoOfDay()
	totNanos := (seconds%temporal.SecondsPerDay)*temporal.NanosPerSecond + nanos%temporal.NanosPerDay + curNoD
	days += temporal.FloorDiv(totNanos, temporal.NanosPerDay)
	newNoD := temporal.FloorMod(totNanos, temporal.NanosPerDay)
	date, err := dt.date.PlusDays(days)
	if err != nil {
		return LocalDateTime{}, err
	}
	newTime := dt.time
	if newNoD != curNoD {
		newTime = timeOfNanoOfDay(newNoD)
	}
	return LocalDateTime{date: date, time: newTime}, nil
}

func (dt LocalDateTime) String() string {
	return dt.date.String() + "T" + dt.time.String()
}

// IsSupported reports whether field is a date or time field.
func (dt LocalDateTime) IsSupported(field temporal.Field) bool {
	return dt.date.IsSupported(field) || field.IsTimeBased()
}

// IsSupportedUnit accepts every unit except Forever.
func (dt LocalDateTime) IsSupportedUnit(unit temporal.Unit) bool {
	return unit.IsDateBased() || unit.IsTimeBased()
}

// Range delegates to the date or the time part.
func (dt LocalDateTime) Range(field temporal.Field) (temporal.ValueRange, error) {
	if field.IsTimeBased() {
		return dt.time.Range(field)
	}
	return dt.date.Range(field)
}

// GetLong delegates to the date or the time part.
func (dt LocalDateTime) GetLong(field temporal.Field) (int64, error) {
	if field.IsTimeBased() {
		return dt.time.GetLong(field)
	}
	return dt.date.GetLong(field)
}

// With returns a copy with field set to value.
func (dt LocalDateTime) With(field temporal.Field, value int64) (temporal.Temporal, error) {
	if field.IsTimeBased() {
		t, err := dt.time.with(field, value)
		if err != nil {
			return nil, err
		}
		return LocalDateTime{date: dt.date, time: t}, nil
	}
	d, err := dt.date.with(field, value)
	if err != nil {
		return nil, err
	}
	return LocalDateTime{date: d, time: dt.time}, nil
}

// Plus returns a copy moved by amount of unit. Time units carry into the
// date.
func (dt LocalDateTime) Plus(amount int64, unit temporal.Unit) (temporal.Temporal, error) {
	result, err := dt.plus(amount, unit)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (dt LocalDateTime) plus(amount int64, unit temporal.Unit) (LocalDateTime, error) {
	multiplied := func(factor int64) (LocalDateTime, error) {
		seconds, err := temporal.MultiplyExact(amount, factor)
		if err != nil {
			return LocalDateTime{}, err
		}
		return dt.plusWithOverflow(seconds, 0)
	}
	switch unit {
	case temporal.Nanos:
		return dt.plusWithOverflow(0, amount)
	case temporal.Micros:
		return dt.plusWithOverflow(amount/1_000_000, (amount%1_000_000)*1000)
	case temporal.Millis:
		return dt.plusWithOverflow(amount/1000, (amount%1000)*1_000_000)
	case temporal.Seconds:
		return dt.plusWithOverflow(amount, 0)
	case temporal.Minutes:
		return multiplied(temporal.SecondsPerMinute)
	case temporal.Hours:
		return multiplied(temporal.SecondsPerHour)
	case temporal.HalfDays:
		return multiplied(temporal.SecondsPerDay / 2)
	}
	date, err := dt.date.plus(amount, unit)
	if err != nil {
		return LocalDateTime{}, err
	}
	return LocalDateTime{date: date, time: dt.time}, nil
}

// Until counts whole units from dt to end, which must be a LocalDateTime.
func (dt LocalDateTime) Until(end temporal.Temporal, unit temporal.Unit) (int64, error) {
	e, ok := end.(LocalDateTime)
	if !ok {
		return 0, fmt.Errorf("%w: cannot measure from LocalDateTime to %T", temporal.ErrInvalidArgument, end)
	}
	if unit.IsTimeBased() {
		days := e.date.ToEpochDay() - dt.date.ToEpochDay()
		dayNanos, err := temporal.MultiplyExact(days, temporal.NanosPerDay)
		if err != nil {
			return 0, err
		}
		total, err := temporal.AddExact(dayNanos, e.time.ToNanoOfDay()-dt.time.ToNanoOfDay())
		if err != nil {
			return 0, err
		}
		return temporal.Convert(total, temporal.Nanos, unit)
	}
	endDate := e.date
	switch {
	case endDate.After(dt.date) && e.time.Before(dt.time):
		endDate, _ = endDate.PlusDays(-1)
	case endDate.Before(dt.date) && e.time.After(dt.time):
		endDate, _ = endDate.PlusDays(1)
	}
	return dt.date.until(endDate, unit)
}
