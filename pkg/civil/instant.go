package civil

import (
	"fmt"
	"time"

	"github.com/coolbeans/chronocore/pkg/temporal"
)

// Instant bounds: the first and last second of years -1,000,000,000 and
// 1,000,000,000.
const (
	MinInstantSecond int64 = -31557014167219200
	MaxInstantSecond int64 = 31556889864403199
)

// Instant is a point on the UTC time-line, counted from 1970-01-01T00:00Z.
type Instant struct {
	seconds int64
	nanos   int32
}

// EpochInstant is 1970-01-01T00:00Z.
var EpochInstant = Instant{}

// InstantOfEpochSecond returns the instant epochSecond seconds plus
// nanoAdjustment nanoseconds after the epoch. The adjustment may be
// negative or exceed one second.
func InstantOfEpochSecond(epochSecond, nanoAdjustment int64) (Instant, error) {
	secs, err := temporal.AddExact(epochSecond, temporal.FloorDiv(nanoAdjustment, temporal.NanosPerSecond))
	if err != nil {
		return Instant{}, err
	}
	if secs < MinInstantSecond || secs > MaxInstantSecond {
		return Instant{}, fmt.Errorf("%w: instant exceeds minimum or maximum instant", temporal.ErrDateTimeRange)
	}
	return Instant{seconds: secs, nanos: int32(temporal.FloorMod(nanoAdjustment, temporal.NanosPerSecond))}, nil
}

// MustInstant is InstantOfEpochSecond for literals; it panics on invalid input.
func MustInstant(epochSecond int64) Instant {
	i, err := InstantOfEpochSecond(epochSecond, 0)
	if err != nil {
		panic(err)
	}
	return i
}

// InstantFromTime converts a time.Time.
func InstantFromTime(t time.Time) Instant {
	return Instant{seconds: t.Unix(), nanos: int32(t.Nanosecond())}
}

// EpochSecond returns whole seconds since the epoch.
func (i Instant) EpochSecond() int64 { return i.seconds }

// Nano returns the nanosecond within the second.
func (i Instant) Nano() int { return int(i.nanos) }

// Time converts to a time.Time in UTC.
func (i Instant) Time() time.Time {
	return time.Unix(i.seconds, int64(i.nanos)).UTC()
}

// Compare orders instants on the time-line.
func (i Instant) Compare(other Instant) int {
	if c := compareInt(i.seconds, other.seconds); c != 0 {
		return c
	}
	return compareInt(int64(i.nanos), int64(other.nanos))
}

// Before reports whether i is earlier than other.
func (i Instant) Before(other Instant) bool { return i.Compare(other) < 0 }

// After reports whether i is later than other.
func (i Instant) After(other Instant) bool { return i.Compare(other) > 0 }

// PlusSeconds returns the instant seconds later.
func (i Instant) PlusSeconds(seconds int64) (Instant, error) {
	secs, err := temporal.AddExact(i.seconds, seconds)
	if err != nil {
		return Instant{}, err
	}
	return InstantOfEpochSecond(secs, int64(i.nanos))
}

func (i Instant) String() string {
	dt, err := OfEpochSecond(i.seconds, int(i.nanos), 0)
	if err != nil {
		return fmt.Sprintf("Instant(%d.%09d)", i.seconds, i.nanos)
	}
	return dt.String() + "Z"
}

// IsSupported reports whether field is InstantSeconds or a sub-second field.
func (i Instant) IsSupported(field temporal.Field) bool {
	switch field {
	case temporal.InstantSeconds, temporal.NanoOfSecond, temporal.MicroOfSecond, temporal.MilliOfSecond:
		return true
	}
	return false
}

// IsSupportedUnit accepts time units and days of exactly 86400 seconds.
func (i Instant) IsSupportedUnit(unit temporal.Unit) bool {
	return unit.IsTimeBased() || unit == temporal.Days
}

// Range returns the static range of a supported field.
func (i Instant) Range(field temporal.Field) (temporal.ValueRange, error) {
	return temporal.DefaultRange(i, field)
}

// GetLong returns the value of a supported field.
func (i Instant) GetLong(field temporal.Field) (int64, error) {
	switch field {
	case temporal.InstantSeconds:
		return i.seconds, nil
	case temporal.NanoOfSecond:
		return int64(i.nanos), nil
	case temporal.MicroOfSecond:
		return int64(i.nanos) / 1000, nil
	case temporal.MilliOfSecond:
		return int64(i.nanos) / 1_000_000, nil
	}
	return 0, temporal.UnsupportedFieldError(field)
}

// With returns a copy with field set to value.
func (i Instant) With(field temporal.Field, value int64) (temporal.Temporal, error) {
	if !i.IsSupported(field) {
		return nil, temporal.UnsupportedFieldError(field)
	}
	if _, err := field.CheckValidValue(value); err != nil {
		return nil, err
	}
	switch field {
	case temporal.InstantSeconds:
		return InstantOfEpochSecond(value, int64(i.nanos))
	case temporal.MicroOfSecond:
		value *= 1000
	case temporal.MilliOfSecond:
		value *= 1_000_000
	}
	return InstantOfEpochSecond(i.seconds, value)
}

// Plus returns the instant moved by amount of a time unit or days.
func (i Instant) Plus(amount int64, unit temporal.Unit) (temporal.Temporal, error) {
	if !i.IsSupportedUnit(unit) {
		return nil, temporal.UnsupportedUnitError(unit)
	}
	if unit == temporal.Nanos || unit == temporal.Micros || unit == temporal.Millis {
		perSecond, _ := temporal.Convert(1, temporal.Seconds, unit)
		nanosPerUnit := temporal.NanosPerSecond / perSecond
		secs, err := temporal.AddExact(i.seconds, amount/perSecond)
		if err != nil {
			return nil, err
		}
		return InstantOfEpochSecond(secs, int64(i.nanos)+(amount%perSecond)*nanosPerUnit)
	}
	seconds, err := temporal.Convert(amount, unit, temporal.Seconds)
	if err != nil {
		return nil, err
	}
	return i.PlusSeconds(seconds)
}

// Until counts whole units from i to end, which must be an Instant.
func (i Instant) Until(end temporal.Temporal, unit temporal.Unit) (int64, error) {
	e, ok := end.(Instant)
	if !ok {
		return 0, fmt.Errorf("%w: cannot measure from Instant to %T", temporal.ErrInvalidArgument, end)
	}
	if !i.IsSupportedUnit(unit) {
		return 0, temporal.UnsupportedUnitError(unit)
	}
	secs, err := temporal.SubtractExact(e.seconds, i.seconds)
	if err != nil {
		return 0, err
	}
	nanos := int64(e.nanos) - int64(i.nanos)
	if unit == temporal.Nanos || unit == temporal.Micros || unit == temporal.Millis {
		total, err := temporal.MultiplyExact(secs, temporal.NanosPerSecond)
		if err != nil {
			return 0, err
		}
		total, err = temporal.AddExact(total, nanos)
		if err != nil {
			return 0, err
		}
		return temporal.Convert(total, temporal.Nanos, unit)
	}
	// Whole seconds, rounded toward zero.
	if secs > 0 && nanos < 0 {
		secs--
	} else if secs < 0 && nanos > 0 {
		secs++
	}
	return temporal.Convert(secs, temporal.Seconds, unit)
}
