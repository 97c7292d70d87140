package zone

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/chronocore/pkg/civil"
	"github.com/coolbeans/chronocore/pkg/temporal"
)

func TestParseOffset(t *testing.T) {
	tests := []struct {
		id      string
		seconds int
		wantErr bool
	}{
		{"Z", 0, false},
		{"+05:30", 19800, false},
		{"-04:00", -14400, false},
		{"+5", 18000, false},
		{"-0930", -34200, false},
		{"+01:02:03", 3723, false},
		{"+010203", 3723, false},
		{"+18:00", 64800, false},
		{"+18:01", 0, true},
		{"05:30", 0, true},
		{"+5:30", 0, true},
		{"+05:3", 0, true},
		{"+ab", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := ParseOffset(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseOffset(%q) = %s, want error", tt.id, got)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.seconds, got.TotalSeconds())
		})
	}
}

func TestOffsetID(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "Z"},
		{19800, "+05:30"},
		{-14400, "-04:00"},
		{-17762, "-04:56:02"},
	}
	for _, tt := range tests {
		o, err := OffsetOfTotalSeconds(tt.seconds)
		require.NoError(t, err)
		if got := o.ID(); got != tt.want {
			t.Errorf("ID() = %q, want %q", got, tt.want)
		}
	}
}

func TestOffsetComponents(t *testing.T) {
	_, err := OffsetOfHoursMinutesSeconds(5, -30, 0)
	assert.ErrorIs(t, err, temporal.ErrInvalidArgument)

	_, err = OffsetOfTotalSeconds(MaxOffsetSeconds + 1)
	assert.ErrorIs(t, err, temporal.ErrDateTimeRange)

	o := MustOffset(-3, -30)
	assert.Equal(t, -12600, o.TotalSeconds())
	assert.Equal(t, -1, o.Compare(UTC))
	assert.Equal(t, 1, UTC.Compare(o))
	assert.Equal(t, 0, o.Compare(MustOffset(-3, -30)))
}

func TestOffsetAccessor(t *testing.T) {
	o := MustOffset(5, 30)
	assert.True(t, o.IsSupported(temporal.OffsetSeconds))
	assert.False(t, o.IsSupported(temporal.HourOfDay))

	v, err := o.GetLong(temporal.OffsetSeconds)
	require.NoError(t, err)
	assert.Equal(t, int64(19800), v)

	_, err = o.GetLong(temporal.HourOfDay)
	assert.ErrorIs(t, err, temporal.ErrUnsupportedField)

	r, err := o.Range(temporal.OffsetSeconds)
	require.NoError(t, err)
	assert.Equal(t, int64(-64800), r.Minimum())
}

func TestNewTransition(t *testing.T) {
	t.Run("gap", func(t *testing.T) {
		tr, err := NewTransition(civil.MustDateTime(2024, 3, 10, 2, 0, 0), est, edt)
		require.NoError(t, err)
		assert.True(t, tr.IsGap())
		assert.False(t, tr.IsOverlap())
		assert.Equal(t, civil.MustDateTime(2024, 3, 10, 3, 0, 0), tr.DateTimeAfter())
		assert.Empty(t, tr.ValidOffsets())
		assert.False(t, tr.IsValidOffset(est))
		assert.Equal(t, int64(1710054000), tr.Instant().EpochSecond())
		assert.Equal(t, "Transition[Gap at 2024-03-10T02:00-05:00 to -04:00]", tr.String())
	})

	t.Run("overlap", func(t *testing.T) {
		tr, err := NewTransition(civil.MustDateTime(2024, 11, 3, 2, 0, 0), edt, est)
		require.NoError(t, err)
		assert.True(t, tr.IsOverlap())
		assert.Equal(t, civil.MustDateTime(2024, 11, 3, 1, 0, 0), tr.DateTimeAfter())
		assert.Equal(t, []ZoneOffset{est, edt}, tr.ValidOffsets())
		assert.True(t, tr.IsValidOffset(est))
		assert.True(t, tr.IsValidOffset(edt))
		assert.Equal(t, int64(3600), tr.Duration().Seconds, "duration is the absolute offset change")
	})

	t.Run("equal_offsets_rejected", func(t *testing.T) {
		_, err := NewTransition(civil.MustDateTime(2024, 3, 10, 2, 0, 0), est, est)
		assert.ErrorIs(t, err, temporal.ErrInvalidArgument)
	})

	t.Run("fractional_second_rejected", func(t *testing.T) {
		ldt, err := civil.OfDateTime(2024, 3, 10, 2, 0, 0, 5)
		require.NoError(t, err)
		_, err = NewTransition(ldt, est, edt)
		assert.ErrorIs(t, err, temporal.ErrInvalidArgument)
	})

	t.Run("at_epoch_second", func(t *testing.T) {
		tr, err := NewTransitionAt(1730613600, edt, est)
		require.NoError(t, err)
		assert.Equal(t, civil.MustDateTime(2024, 11, 3, 2, 0, 0), tr.DateTimeBefore())
	})
}

func TestTransitionCompareAndEqual(t *testing.T) {
	a, err := NewTransitionAt(1710054000, est, edt)
	require.NoError(t, err)
	b, err := NewTransitionAt(1730613600, edt, est)
	require.NoError(t, err)
	same, err := NewTransition(civil.MustDateTime(2024, 3, 10, 2, 0, 0), est, edt)
	require.NoError(t, err)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(same))
	assert.True(t, a.Equal(same))
	assert.False(t, a.Equal(b))
}

func TestTransitionRuleCreateTransition(t *testing.T) {
	two := civil.MustTime(2, 0, 0, 0)
	tests := []struct {
		name string
		rule TransitionRule
		year int64
		want civil.LocalDateTime
	}{
		{
			name: "second_sunday_in_march",
			rule: TransitionRule{Month: 3, DayOfMonthIndicator: 8, DayOfWeek: civil.Sunday, Time: two,
				TimeDefinition: WallTime, StandardOffset: est, OffsetBefore: est, OffsetAfter: edt},
			year: 2024,
			want: civil.MustDateTime(2024, 3, 10, 2, 0, 0),
		},
		{
			name: "last_sunday_utc",
			rule: TransitionRule{Month: 10, DayOfMonthIndicator: -1, DayOfWeek: civil.Sunday, Time: civil.MustTime(1, 0, 0, 0),
				TimeDefinition: UTCTime, StandardOffset: UTC, OffsetBefore: MustOffset(1, 0), OffsetAfter: UTC},
			year: 2023,
			want: civil.MustDateTime(2023, 10, 29, 2, 0, 0),
		},
		{
			name: "standard_time_definition",
			rule: TransitionRule{Month: 4, DayOfMonthIndicator: 1, DayOfWeek: civil.Sunday, Time: two,
				TimeDefinition: StandardTime, StandardOffset: MustOffset(10, 0), OffsetBefore: MustOffset(11, 0), OffsetAfter: MustOffset(10, 0)},
			year: 2023,
			want: civil.MustDateTime(2023, 4, 2, 3, 0, 0),
		},
		{
			name: "exact_day_end_of_day",
			rule: TransitionRule{Month: 2, DayOfMonthIndicator: -1, Time: civil.Midnight, TimeEndOfDay: true,
				TimeDefinition: WallTime, StandardOffset: est, OffsetBefore: est, OffsetAfter: edt},
			year: 2024,
			want: civil.MustDateTime(2024, 3, 1, 0, 0, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.rule.Validate())
			tr, err := tt.rule.CreateTransition(tt.year)
			require.NoError(t, err)
			if !tr.DateTimeBefore().Equal(tt.want) {
				t.Errorf("CreateTransition(%d) = %s, want %s", tt.year, tr.DateTimeBefore(), tt.want)
			}
		})
	}
}

func TestTransitionRuleValidate(t *testing.T) {
	base := TransitionRule{Month: 3, DayOfMonthIndicator: 8, DayOfWeek: civil.Sunday, Time: civil.MustTime(2, 0, 0, 0),
		TimeDefinition: WallTime, StandardOffset: est, OffsetBefore: est, OffsetAfter: edt}
	require.NoError(t, base.Validate())
	for _, ok := range []struct{ month, day int }{{1, 31}, {2, 28}, {4, 30}, {2, -28}} {
		rule := base
		rule.Month, rule.DayOfMonthIndicator = ok.month, ok.day
		assert.NoError(t, rule.Validate(), "month %d day %d", ok.month, ok.day)
	}

	tests := []struct {
		name   string
		mutate func(r *TransitionRule)
	}{
		{"zero_indicator", func(r *TransitionRule) { r.DayOfMonthIndicator = 0 }},
		{"indicator_too_small", func(r *TransitionRule) { r.DayOfMonthIndicator = -29 }},
		{"bad_month", func(r *TransitionRule) { r.Month = 0 }},
		{"april_31", func(r *TransitionRule) { r.Month, r.DayOfMonthIndicator = 4, 31 }},
		{"february_29", func(r *TransitionRule) { r.Month, r.DayOfMonthIndicator = 2, 29 }},
		{"bad_weekday", func(r *TransitionRule) { r.DayOfWeek = 9 }},
		{"end_of_day_not_midnight", func(r *TransitionRule) { r.TimeEndOfDay = true }},
		{"equal_offsets", func(r *TransitionRule) { r.OffsetAfter = est }},
		{"bad_time_definition", func(r *TransitionRule) { r.TimeDefinition = 7 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := base
			tt.mutate(&rule)
			if err := rule.Validate(); !errors.Is(err, temporal.ErrInvalidArgument) {
				t.Errorf("Validate() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestParseTimeDefinition(t *testing.T) {
	for _, name := range []string{"utc", "Wall", "STANDARD"} {
		d, err := ParseTimeDefinition(name)
		require.NoError(t, err)
		assert.Equal(t, strings.ToLower(name), d.String())
	}
	_, err := ParseTimeDefinition("local")
	assert.Error(t, err)
}
