package civil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/chronocore/pkg/temporal"
)

func TestInstantOfEpochSecond(t *testing.T) {
	i, err := InstantOfEpochSecond(3, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), i.EpochSecond())
	assert.Equal(t, 999_999_999, i.Nano())

	_, err = InstantOfEpochSecond(MaxInstantSecond+1, 0)
	assert.ErrorIs(t, err, temporal.ErrDateTimeRange)
	_, err = InstantOfEpochSecond(MinInstantSecond, -1)
	assert.ErrorIs(t, err, temporal.ErrDateTimeRange)

	assert.Panics(t, func() { MustInstant(MaxInstantSecond + 1) })
}

func TestInstantString(t *testing.T) {
	tests := []struct {
		name    string
		instant Instant
		want    string
	}{
		{"epoch", EpochInstant, "1970-01-01T00:00Z"},
		{"new_york_overlap", MustInstant(1730615400), "2024-11-03T06:30Z"},
		{"micros", mustInstantNano(t, 0, 1_500_000), "1970-01-01T00:00:00.001500Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.instant.String())
		})
	}
}

func TestInstantTimeConversion(t *testing.T) {
	assert.True(t, EpochInstant.Time().Equal(time.Unix(0, 0)))

	now := time.Date(2024, 11, 3, 6, 30, 0, 42, time.UTC)
	i := InstantFromTime(now)
	assert.Equal(t, int64(1730615400), i.EpochSecond())
	assert.True(t, i.Time().Equal(now))

	assert.True(t, EpochInstant.Before(i))
	assert.True(t, i.After(EpochInstant))
	assert.Equal(t, 0, i.Compare(InstantFromTime(now)))
}

func TestInstantFields(t *testing.T) {
	i := mustInstantNano(t, 10, 123_456_789)

	v, err := i.GetLong(temporal.InstantSeconds)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)
	v, err = i.GetLong(temporal.MicroOfSecond)
	require.NoError(t, err)
	assert.Equal(t, int64(123_456), v)

	_, err = i.GetLong(temporal.HourOfDay)
	assert.ErrorIs(t, err, temporal.ErrUnsupportedField)
	_, err = i.Range(temporal.DayOfMonth)
	assert.ErrorIs(t, err, temporal.ErrUnsupportedField)

	got, err := i.With(temporal.MilliOfSecond, 250)
	require.NoError(t, err)
	assert.Equal(t, mustInstantNano(t, 10, 250_000_000), got)

	got, err = i.With(temporal.InstantSeconds, 99)
	require.NoError(t, err)
	assert.Equal(t, mustInstantNano(t, 99, 123_456_789), got)

	_, err = i.With(temporal.NanoOfSecond, -1)
	assert.ErrorIs(t, err, temporal.ErrDateTimeRange)
}

func TestInstantPlus(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		unit   temporal.Unit
		want   Instant
	}{
		{"millis", 1500, temporal.Millis, mustInstantNano(t, 1, 500_000_000)},
		{"negative_millis", -1, temporal.Millis, mustInstantNano(t, -1, 999_000_000)},
		{"nanos", 1_000_000_001, temporal.Nanos, mustInstantNano(t, 1, 1)},
		{"hours", 2, temporal.Hours, MustInstant(7200)},
		{"days", 1, temporal.Days, MustInstant(86400)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EpochInstant.Plus(tt.amount, tt.unit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := EpochInstant.Plus(1, temporal.Months)
	assert.ErrorIs(t, err, temporal.ErrUnsupportedUnit)
	_, err = MustInstant(MaxInstantSecond).PlusSeconds(1)
	assert.ErrorIs(t, err, temporal.ErrDateTimeRange)
}

func TestInstantUntil(t *testing.T) {
	start := mustInstantNano(t, 0, 500_000_000)
	end := MustInstant(2)

	tests := []struct {
		name string
		unit temporal.Unit
		want int64
	}{
		{"seconds_truncate", temporal.Seconds, 1},
		{"millis", temporal.Millis, 1500},
		{"minutes", temporal.Minutes, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := start.Until(end, tt.unit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	back, err := end.Until(start, temporal.Seconds)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), back)

	_, err = start.Until(MustDate(1970, 1, 1), temporal.Seconds)
	assert.ErrorIs(t, err, temporal.ErrInvalidArgument)
	_, err = start.Until(end, temporal.Years)
	assert.ErrorIs(t, err, temporal.ErrUnsupportedUnit)
}

func mustInstantNano(t *testing.T, epochSecond, nano int64) Instant {
	t.Helper()
	i, err := InstantOfEpochSecond(epochSecond, nano)
	require.NoError(t, err)
	return i
}
