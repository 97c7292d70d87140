package zone

import (
	"fmt"
	"strings"

	"github.com/coolbeans/chronocore/pkg/civil"
	"github.com/coolbeans/chronocore/pkg/temporal"
)

// TimeDefinition says which clock a TransitionRule's local time is read on.
type TimeDefinition int

const (
	// UTCTime reads the rule time as UTC.
	UTCTime TimeDefinition = iota
	// WallTime reads the rule time on the wall clock in force before the
	// transition.
	WallTime
	// StandardTime reads the rule time on the standard-offset clock.
	StandardTime
)

var timeDefinitionNames = map[TimeDefinition]string{
	UTCTime:      "utc",
	WallTime:     "wall",
	StandardTime: "standard",
}

func (d TimeDefinition) String() string {
	if name, ok := timeDefinitionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("TimeDefinition(%d)", int(d))
}

// ParseTimeDefinition reads "utc", "wall" or "standard", ignoring case.
func ParseTimeDefinition(name string) (TimeDefinition, error) {
	for d, n := range timeDefinitionNames {
		if strings.EqualFold(name, n) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown time definition %q", temporal.ErrInvalidArgument, name)
}

// CreateDateTime converts dateTime read on this clock to wall-clock time
// under wallOffset.
func (d TimeDefinition) CreateDateTime(dateTime civil.LocalDateTime, standardOffset, wallOffset ZoneOffset) (civil.LocalDateTime, error) {
	switch d {
	case UTCTime:
		return dateTime.PlusSeconds(int64(wallOffset.TotalSeconds()))
	case StandardTime:
		return dateTime.PlusSeconds(int64(wallOffset.TotalSeconds() - standardOffset.TotalSeconds()))
	}
	return dateTime, nil
}

// TransitionRule describes a transition that recurs every year, such as
// "last Sunday in March at 01:00 UTC".
//
// A positive DayOfMonthIndicator picks a day counted from the start of the
// month; a negative one counts back from the end, -1 being the last day.
// With a DayOfWeek set, the date moves forward (positive indicator) or back
// (negative indicator) to the nearest matching weekday.
type TransitionRule struct {
	Month               int
	DayOfMonthIndicator int
	DayOfWeek           civil.Weekday // zero for an exact day of month
	Time                civil.LocalTime
	TimeEndOfDay        bool
	TimeDefinition      TimeDefinition
	StandardOffset      ZoneOffset
	OffsetBefore        ZoneOffset
	OffsetAfter         ZoneOffset
}

// Validate checks the rule's invariants.
func (r TransitionRule) Validate() error {
	if r.Month < 1 || r.Month > 12 {
		return fmt.Errorf("%w: rule month %d not in range 1 - 12", temporal.ErrInvalidArgument, r.Month)
	}
	if r.DayOfMonthIndicator < -28 || r.DayOfMonthIndicator > 31 || r.DayOfMonthIndicator == 0 {
		return fmt.Errorf("%w: day of month indicator %d must be between -28 and 31 excluding zero",
			temporal.ErrInvalidArgument, r.DayOfMonthIndicator)
	}
	// 2023 is a common year, so this is the shortest length of the month.
	if shortest := civil.LengthOfMonth(2023, r.Month); r.DayOfMonthIndicator > shortest {
		return fmt.Errorf("%w: day of month indicator %d does not exist in every year for month %d (max %d)",
			temporal.ErrInvalidArgument, r.DayOfMonthIndicator, r.Month, shortest)
	}
	if r.DayOfWeek != 0 && !r.DayOfWeek.IsValid() {
		return fmt.Errorf("%w: invalid rule day of week %d", temporal.ErrInvalidArgument, int(r.DayOfWeek))
	}
	if r.TimeEndOfDay && r.Time != civil.Midnight {
		return fmt.Errorf("%w: end of day flag requires midnight", temporal.ErrInvalidArgument)
	}
	if r.Time.Nano() != 0 {
		return fmt.Errorf("%w: rule time %s has a fractional second", temporal.ErrInvalidArgument, r.Time)
	}
	if _, ok := timeDefinitionNames[r.TimeDefinition]; !ok {
		return fmt.Errorf("%w: invalid %s", temporal.ErrInvalidArgument, r.TimeDefinition)
	}
	if r.OffsetBefore == r.OffsetAfter {
		return fmt.Errorf("%w: rule offsets must not be equal (%s)", temporal.ErrInvalidArgument, r.OffsetBefore)
	}
	return nil
}

// CreateTransition builds the concrete transition of year.
func (r TransitionRule) CreateTransition(year int64) (ZoneOffsetTransition, error) {
	var date civil.LocalDate
	var err error
	if r.DayOfMonthIndicator < 0 {
		day := civil.LengthOfMonth(year, r.Month) + 1 + r.DayOfMonthIndicator
		date, err = civil.OfDate(year, r.Month, day)
		if err != nil {
			return ZoneOffsetTransition{}, err
		}
		if r.DayOfWeek != 0 {
			back := int64(date.DayOfWeek()) - int64(r.DayOfWeek)
			if back < 0 {
				back += 7
			}
			date, err = date.PlusDays(-back)
		}
	} else {
		date, err = civil.OfDate(year, r.Month, r.DayOfMonthIndicator)
		if err != nil {
			return ZoneOffsetTransition{}, err
		}
		if r.DayOfWeek != 0 {
			forward := int64(r.DayOfWeek) - int64(date.DayOfWeek())
			if forward < 0 {
				forward += 7
			}
			date, err = date.PlusDays(forward)
		}
	}
	if err != nil {
		return ZoneOffsetTransition{}, err
	}
	if r.TimeEndOfDay {
		if date, err = date.PlusDays(1); err != nil {
			return ZoneOffsetTransition{}, err
		}
	}
	local, err := r.TimeDefinition.CreateDateTime(date.AtTime(r.Time), r.StandardOffset, r.OffsetBefore)
	if err != nil {
		return ZoneOffsetTransition{}, err
	}
	return NewTransition(local, r.OffsetBefore, r.OffsetAfter)
}

func (r TransitionRule) String() string {
	var b strings.Builder
	b.WriteString("TransitionRule[")
	if r.OffsetAfter.TotalSeconds() > r.OffsetBefore.TotalSeconds() {
		b.WriteString("Gap ")
	} else {
		b.WriteString("Overlap ")
	}
	fmt.Fprintf(&b, "%s to %s, ", r.OffsetBefore, r.OffsetAfter)
	month := fmt.Sprintf("month %d", r.Month)
	switch {
	case r.DayOfWeek == 0:
		fmt.Fprintf(&b, "%s day %d", month, r.DayOfMonthIndicator)
	case r.DayOfMonthIndicator == -1:
		fmt.Fprintf(&b, "%s on or before last day of %s", r.DayOfWeek, month)
	case r.DayOfMonthIndicator < 0:
		fmt.Fprintf(&b, "%s on or before last day minus %d of %s", r.DayOfWeek, -r.DayOfMonthIndicator-1, month)
	default:
		fmt.Fprintf(&b, "%s on or after %s day %d", r.DayOfWeek, month, r.DayOfMonthIndicator)
	}
	if r.TimeEndOfDay {
		b.WriteString(" at 24:00")
	} else {
		fmt.Fprintf(&b, " at %s", r.Time)
	}
	fmt.Fprintf(&b, " %s, standard offset %s]", r.TimeDefinition, r.StandardOffset)
	return b.String()
}
