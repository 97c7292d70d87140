package zone

import (
	"fmt"

	"github.com/coolbeans/chronocore/pkg/civil"
	"github.com/coolbeans/chronocore/pkg/temporal"
)

// ZoneOffsetTransition is a change of offset at an instant: the local
// time-line either jumps forward, leaving a gap, or back, leaving an
// overlap.
type ZoneOffsetTransition struct {
	epochSecond    int64
	dateTimeBefore civil.LocalDateTime
	dateTimeAfter  civil.LocalDateTime
	offsetBefore   ZoneOffset
	offsetAfter    ZoneOffset
}

// NewTransition builds the transition that happens when the clock, running
// at offsetBefore, reads localBefore. The local date-time must have no
// sub-second part and the offsets must differ.
func NewTransition(localBefore civil.LocalDateTime, offsetBefore, offsetAfter ZoneOffset) (ZoneOffsetTransition, error) {
	if offsetBefore == offsetAfter {
		return ZoneOffsetTransition{}, fmt.Errorf("%w: offsets must not be equal (%s)",
			temporal.ErrInvalidArgument, offsetBefore)
	}
	if localBefore.Time().Nano() != 0 {
		return ZoneOffsetTransition{}, fmt.Errorf("%w: transition local date-time %s has a fractional second",
			temporal.ErrInvalidArgument, localBefore)
	}
	localAfter, err := localBefore.PlusSeconds(int64(offsetAfter.TotalSeconds() - offsetBefore.TotalSeconds()))
	if err != nil {
		return ZoneOffsetTransition{}, err
	}
	return ZoneOffsetTransition{
		epochSecond:    localBefore.ToEpochSecond(offsetBefore.TotalSeconds()),
		dateTimeBefore: localBefore,
		dateTimeAfter:  localAfter,
		offsetBefore:   offsetBefore,
		offsetAfter:    offsetAfter,
	}, nil
}

// NewTransitionAt builds the transition that happens at epochSecond.
func NewTransitionAt(epochSecond int64, offsetBefore, offsetAfter ZoneOffset) (ZoneOffsetTransition, error) {
	localBefore, err := civil.OfEpochSecond(epochSecond, 0, offsetBefore.TotalSeconds())
	if err != nil {
		return ZoneOffsetTransition{}, err
	}
	return NewTransition(localBefore, offsetBefore, offsetAfter)
}

// Instant returns the instant of the transition.
func (t ZoneOffsetTransition) Instant() civil.Instant {
	instant, _ := civil.InstantOfEpochSecond(t.epochSecond, 0)
	return instant
}

// EpochSecond returns the instant of the transition in epoch seconds.
func (t ZoneOffsetTransition) EpochSecond() int64 {
	return t.epochSecond
}

// DateTimeBefore is the local date-time at the transition under the old
// offset. It is the first local time of a gap, or the end of an overlap.
func (t ZoneOffsetTransition) DateTimeBefore() civil.LocalDateTime {
	return t.dateTimeBefore
}

// DateTimeAfter is the local date-time at the transition under the new
// offset. It is the end of a gap, or the first local time of an overlap.
func (t ZoneOffsetTransition) DateTimeAfter() civil.LocalDateTime {
	return t.dateTimeAfter
}

// OffsetBefore is the offset in force before the transition.
func (t ZoneOffsetTransition) OffsetBefore() ZoneOffset {
	return t.offsetBefore
}

// OffsetAfter is the offset in force from the transition on.
func (t ZoneOffsetTransition) OffsetAfter() ZoneOffset {
	return t.offsetAfter
}

// IsGap reports whether the clocks jump forward.
func (t ZoneOffsetTransition) IsGap() bool {
	return t.offsetAfter.TotalSeconds() > t.offsetBefore.TotalSeconds()
}

// IsOverlap reports whether the clocks jump back.
func (t ZoneOffsetTransition) IsOverlap() bool {
	return t.offsetAfter.TotalSeconds() < t.offsetBefore.TotalSeconds()
}

// Duration is the length of the gap or overlap.
func (t ZoneOffsetTransition) Duration() temporal.Duration {
	diff := t.offsetAfter.TotalSeconds() - t.offsetBefore.TotalSeconds()
	if diff < 0 {
		diff = -diff
	}
	return temporal.Duration{Seconds: int64(diff)}
}

// ValidOffsets lists the offsets a local date-time inside the transition
// window may carry: none for a gap, offsetAfter then offsetBefore for an
// overlap.
func (t ZoneOffsetTransition) ValidOffsets() []ZoneOffset {
	if t.IsGap() {
		return []ZoneOffset{}
	}
	return []ZoneOffset{t.offsetAfter, t.offsetBefore}
}

// IsValidOffset reports whether offset is legal inside the transition
// window. A gap accepts no offset.
func (t ZoneOffsetTransition) IsValidOffset(offset ZoneOffset) bool {
	if t.IsGap() {
		return false
	}
	return offset == t.offsetBefore || offset == t.offsetAfter
}

// Compare orders transitions by instant.
func (t ZoneOffsetTransition) Compare(other ZoneOffsetTransition) int {
	switch {
	case t.epochSecond < other.epochSecond:
		return -1
	case t.epochSecond > other.epochSecond:
		return 1
	}
	return 0
}

// Equal reports whether both transitions share instant and offsets.
func (t ZoneOffsetTransition) Equal(other ZoneOffsetTransition) bool {
	return t.epochSecond == other.epochSecond &&
		t.offsetBefore == other.offsetBefore &&
		t.offsetAfter == other.offsetAfter
}

func (t ZoneOffsetTransition) String() string {
	kind := "Overlap"
	if t.IsGap() {
		kind = "Gap"
	}
	return fmt.Sprintf("Transition[%s at %s%s to %s]", kind, t.dateTimeBefore, t.offsetBefore, t.offsetAfter)
}
