package temporal

import (
	"fmt"
	"math"
	"time"
)

// Duration is a seconds-plus-nanoseconds amount of time. It exists because
// the estimated length of the larger units (millennia, eras, forever) does
// not fit in time.Duration.
type Duration struct {
	Seconds int64
	Nanos   int32 // always in [0, 999_999_999]
}

// DurationOfSeconds builds a Duration from seconds and a nano adjustment
// that may be outside a single second.
func DurationOfSeconds(seconds, nanoAdjustment int64) (Duration, error) {
	secs, err := AddExact(seconds, FloorDiv(nanoAdjustment, NanosPerSecond))
	if err != nil {
		return Duration{}, err
	}
	return Duration{Seconds: secs, Nanos: int32(FloorMod(nanoAdjustment, NanosPerSecond))}, nil
}

// DurationFromStd converts a time.Duration.
func DurationFromStd(d time.Duration) Duration {
	dur, _ := DurationOfSeconds(0, int64(d))
	return dur
}

// Std converts to time.Duration, reporting false when the value does not fit.
func (d Duration) Std() (time.Duration, bool) {
	nanos, err := MultiplyExact(d.Seconds, NanosPerSecond)
	if err != nil {
		return 0, false
	}
	nanos, err = AddExact(nanos, int64(d.Nanos))
	if err != nil {
		return 0, false
	}
	return time.Duration(nanos), true
}

// Compare orders durations by length.
func (d Duration) Compare(other Duration) int {
	switch {
	case d.Seconds < other.Seconds:
		return -1
	case d.Seconds > other.Seconds:
		return 1
	case d.Nanos < other.Nanos:
		return -1
	case d.Nanos > other.Nanos:
		return 1
	}
	return 0
}

// IsZero reports whether the duration is empty.
func (d Duration) IsZero() bool {
	return d.Seconds == 0 && d.Nanos == 0
}

func (d Duration) String() string {
	if d.Seconds == math.MaxInt64 {
		return "forever"
	}
	if std, ok := d.Std(); ok {
		return std.String()
	}
	return fmt.Sprintf("%d.%09ds", d.Seconds, d.Nanos)
}
