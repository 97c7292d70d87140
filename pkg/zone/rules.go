package zone

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/coolbeans/chronocore/pkg/civil"
	"github.com/coolbeans/chronocore/pkg/temporal"
)

const (
	// maxTransitionRules caps the recurring rules of one zone.
	maxTransitionRules = 16

	// lastCachedYear is the last year whose projected transitions are kept.
	lastCachedYear = 2100
)

// ZoneRules answers offset questions for one zone: which offset applies at
// an instant, which offsets are valid at a local date-time, and where the
// neighbouring transitions lie. Historic transitions are searched in
// memory; beyond the last of them the recurring rules project transitions
// forward.
//
// A ZoneRules is immutable and safe for concurrent use.
type ZoneRules struct {
	standardTransitions []int64
	standardOffsets     []ZoneOffset

	savingsInstantTransitions []int64
	wallOffsets               []ZoneOffset
	// Two local date-times per transition: for a gap the start and end of
	// the gap, for an overlap the start and end of the overlap.
	savingsLocalTransitions []civil.LocalDateTime
	transitions             []ZoneOffsetTransition

	lastRules []TransitionRule

	// year -> []ZoneOffsetTransition projected from lastRules
	yearCache sync.Map
}

// FixedRules returns rules that always answer offset.
func FixedRules(offset ZoneOffset) *ZoneRules {
	return &ZoneRules{
		standardOffsets: []ZoneOffset{offset},
		wallOffsets:     []ZoneOffset{offset},
	}
}

// NewRules builds rules from historic data. Each transition list must be
// strictly increasing by instant, and every transition must start at the
// offset the previous one (or the base offset) ended with. lastRules, in
// order of occurrence within a year, project transitions after the last
// historic one.
func NewRules(baseStandardOffset, baseWallOffset ZoneOffset, standardTransitions, transitions []ZoneOffsetTransition, lastRules []TransitionRule) (*ZoneRules, error) {
	if err := checkTransitions("standard", baseStandardOffset, standardTransitions); err != nil {
		return nil, err
	}
	if err := checkTransitions("wall", baseWallOffset, transitions); err != nil {
		return nil, err
	}
	if len(lastRules) > maxTransitionRules {
		return nil, fmt.Errorf("%w: too many transition rules (%d, max %d)", ErrInvalidRules, len(lastRules), maxTransitionRules)
	}
	for i, rule := range lastRules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("%w: rule %d: %w", ErrInvalidRules, i, err)
		}
	}

	r := &ZoneRules{
		standardTransitions:       make([]int64, 0, len(standardTransitions)),
		standardOffsets:           make([]ZoneOffset, 0, len(standardTransitions)+1),
		savingsInstantTransitions: make([]int64, 0, len(transitions)),
		wallOffsets:               make([]ZoneOffset, 0, len(transitions)+1),
		savingsLocalTransitions:   make([]civil.LocalDateTime, 0, 2*len(transitions)),
		transitions:               slices.Clone(transitions),
		lastRules:                 slices.Clone(lastRules),
	}

	r.standardOffsets = append(r.standardOffsets, baseStandardOffset)
	for _, t := range standardTransitions {
		r.standardTransitions = append(r.standardTransitions, t.EpochSecond())
		r.standardOffsets = append(r.standardOffsets, t.OffsetAfter())
	}

	r.wallOffsets = append(r.wallOffsets, baseWallOffset)
	for _, t := range transitions {
		if t.IsGap() {
			r.savingsLocalTransitions = append(r.savingsLocalTransitions, t.DateTimeBefore(), t.DateTimeAfter())
		} else {
			r.savingsLocalTransitions = append(r.savingsLocalTransitions, t.DateTimeAfter(), t.DateTimeBefore())
		}
		r.savingsInstantTransitions = append(r.savingsInstantTransitions, t.EpochSecond())
		r.wallOffsets = append(r.wallOffsets, t.OffsetAfter())
	}
	for i := 1; i < len(r.savingsLocalTransitions); i++ {
		if r.savingsLocalTransitions[i].Before(r.savingsLocalTransitions[i-1]) {
			return nil, fmt.Errorf("%w: local transition windows overlap near %s",
				ErrInvalidRules, r.savingsLocalTransitions[i])
		}
	}
	return r, nil
}

func checkTransitions(kind string, base ZoneOffset, list []ZoneOffsetTransition) error {
	prev := base
	for i, t := range list {
		if i > 0 && t.EpochSecond() <= list[i-1].EpochSecond() {
			return fmt.Errorf("%w: %s transitions not strictly increasing at %s", ErrInvalidRules, kind, t)
		}
		if t.OffsetBefore() != prev {
			return fmt.Errorf("%w: %s transition %s starts at %s, previous offset was %s",
				ErrInvalidRules, kind, t, t.OffsetBefore(), prev)
		}
		prev = t.OffsetAfter()
	}
	return nil
}

// IsFixedOffset reports whether the zone never changes offset.
func (r *ZoneRules) IsFixedOffset() bool {
	return len(r.savingsInstantTransitions) == 0 && len(r.lastRules) == 0
}

// usesLastRules reports whether the recurring rules govern epochSecond.
func (r *ZoneRules) usesLastRules(epochSecond int64) bool {
	if len(r.lastRules) == 0 {
		return false
	}
	n := len(r.savingsInstantTransitions)
	return n == 0 || epochSecond > r.savingsInstantTransitions[n-1]
}

func (r *ZoneRules) lastWallOffset() ZoneOffset {
	return r.wallOffsets[len(r.wallOffsets)-1]
}

// Offset returns the offset in force at instant.
func (r *ZoneRules) Offset(instant civil.Instant) ZoneOffset {
	if r.IsFixedOffset() {
		return r.wallOffsets[0]
	}
	epochSecond := instant.EpochSecond()
	if r.usesLastRules(epochSecond) {
		year := findYear(epochSecond, r.lastWallOffset())
		projected := r.transitionsForYear(year)
		if len(projected) == 0 {
			return r.lastWallOffset()
		}
		for _, t := range projected {
			if epochSecond < t.EpochSecond() {
				return t.OffsetBefore()
			}
		}
		return projected[len(projected)-1].OffsetAfter()
	}
	index := sort.Search(len(r.savingsInstantTransitions), func(i int) bool {
		return r.savingsInstantTransitions[i] > epochSecond
	})
	return r.wallOffsets[index]
}

// OffsetInfo classifies localDateTime: a single offset normally, or the
// transition whose gap or overlap it falls in.
func (r *ZoneRules) OffsetInfo(localDateTime civil.LocalDateTime) OffsetInfo {
	if r.IsFixedOffset() {
		return offsetInfoOf(r.wallOffsets[0])
	}
	n := len(r.savingsLocalTransitions)
	if len(r.lastRules) > 0 && (n == 0 || localDateTime.After(r.savingsLocalTransitions[n-1])) {
		projected := r.transitionsForYear(localDateTime.Year())
		info := offsetInfoOf(r.lastWallOffset())
		for _, t := range projected {
			info = findOffsetInfo(localDateTime, t)
			if info.IsTransition() || info.offset == t.OffsetBefore() {
				return info
			}
		}
		return info
	}

	// index of the last local transition at or before localDateTime
	index := sort.Search(n, func(i int) bool {
		return !r.savingsLocalTransitions[i].Before(localDateTime)
	})
	if index < n && r.savingsLocalTransitions[index].Equal(localDateTime) {
		if index < n-1 && r.savingsLocalTransitions[index+1].Equal(localDateTime) {
			index++
		}
	} else {
		index--
	}
	if index < 0 {
		return offsetInfoOf(r.wallOffsets[0])
	}
	if index%2 == 0 {
		return offsetInfoInTransition(r.transitions[index/2])
	}
	return offsetInfoOf(r.wallOffsets[index/2+1])
}

func findOffsetInfo(localDateTime civil.LocalDateTime, t ZoneOffsetTransition) OffsetInfo {
	if t.IsGap() {
		switch {
		case localDateTime.Before(t.DateTimeBefore()):
			return offsetInfoOf(t.OffsetBefore())
		case localDateTime.Before(t.DateTimeAfter()):
			return offsetInfoInTransition(t)
		}
		return offsetInfoOf(t.OffsetAfter())
	}
	switch {
	case !localDateTime.Before(t.DateTimeBefore()):
		return offsetInfoOf(t.OffsetAfter())
	case localDateTime.Before(t.DateTimeAfter()):
		return offsetInfoOf(t.OffsetBefore())
	}
	return offsetInfoInTransition(t)
}

// ValidOffsets lists the offsets legal at localDateTime: one normally,
// none in a gap, offsetAfter then offsetBefore in an overlap.
func (r *ZoneRules) ValidOffsets(localDateTime civil.LocalDateTime) []ZoneOffset {
	return r.OffsetInfo(localDateTime).ValidOffsets()
}

// Transition returns the transition whose gap or overlap contains
// localDateTime.
func (r *ZoneRules) Transition(localDateTime civil.LocalDateTime) (ZoneOffsetTransition, bool) {
	return r.OffsetInfo(localDateTime).Transition()
}

// IsValidOffset reports whether offset is legal at localDateTime.
func (r *ZoneRules) IsValidOffset(localDateTime civil.LocalDateTime, offset ZoneOffset) bool {
	return slices.Contains(r.ValidOffsets(localDateTime), offset)
}

// StandardOffset returns the offset the zone would have at instant
// without daylight saving.
func (r *ZoneRules) StandardOffset(instant civil.Instant) ZoneOffset {
	epochSecond := instant.EpochSecond()
	index := sort.Search(len(r.standardTransitions), func(i int) bool {
		return r.standardTransitions[i] > epochSecond
	})
	return r.standardOffsets[index]
}

// DaylightSavings returns how far the actual offset is ahead of the
// standard offset at instant.
func (r *ZoneRules) DaylightSavings(instant civil.Instant) temporal.Duration {
	if r.IsFixedOffset() {
		return temporal.Duration{}
	}
	diff := r.Offset(instant).TotalSeconds() - r.StandardOffset(instant).TotalSeconds()
	return temporal.Duration{Seconds: int64(diff)}
}

// IsDaylightSavings reports whether daylight saving is in force at instant.
func (r *ZoneRules) IsDaylightSavings(instant civil.Instant) bool {
	return r.StandardOffset(instant) != r.Offset(instant)
}

// NextTransition returns the first transition strictly after instant.
// ok is false when there is none.
func (r *ZoneRules) NextTransition(instant civil.Instant) (ZoneOffsetTransition, bool) {
	if r.IsFixedOffset() {
		return ZoneOffsetTransition{}, false
	}
	epochSecond := instant.EpochSecond()
	n := len(r.savingsInstantTransitions)
	if n == 0 || epochSecond >= r.savingsInstantTransitions[n-1] {
		if len(r.lastRules) == 0 {
			return ZoneOffsetTransition{}, false
		}
		year := findYear(epochSecond, r.lastWallOffset())
		for y := year; y <= year+1 && y <= temporal.MaxYear; y++ {
			for _, t := range r.transitionsForYear(y) {
				if epochSecond < t.EpochSecond() {
					return t, true
				}
			}
		}
		return ZoneOffsetTransition{}, false
	}
	index := sort.Search(n, func(i int) bool {
		return r.savingsInstantTransitions[i] > epochSecond
	})
	return r.transitions[index], true
}

// PreviousTransition returns the last transition strictly before instant.
// ok is false when there is none.
func (r *ZoneRules) PreviousTransition(instant civil.Instant) (ZoneOffsetTransition, bool) {
	if r.IsFixedOffset() {
		return ZoneOffsetTransition{}, false
	}
	epochSecond := instant.EpochSecond()
	if instant.Nano() > 0 {
		// a transition at the same whole second still precedes instant
		epochSecond++
	}
	n := len(r.savingsInstantTransitions)
	if r.usesLastRules(epochSecond) {
		year := findYear(epochSecond, r.lastWallOffset())
		for y := year; y >= year-1 && y >= temporal.MinYear; y-- {
			projected := r.transitionsForYear(y)
			for i := len(projected) - 1; i >= 0; i-- {
				t := projected[i]
				if epochSecond > t.EpochSecond() && (n == 0 || t.EpochSecond() > r.savingsInstantTransitions[n-1]) {
					return t, true
				}
			}
		}
	}
	index := sort.Search(n, func(i int) bool {
		return r.savingsInstantTransitions[i] >= epochSecond
	})
	if index == 0 {
		return ZoneOffsetTransition{}, false
	}
	return r.transitions[index-1], true
}

// transitionsForYear projects the recurring rules onto year, in instant
// order. Years up to lastCachedYear are memoized.
func (r *ZoneRules) transitionsForYear(year int64) []ZoneOffsetTransition {
	if cached, ok := r.yearCache.Load(year); ok {
		return cached.([]ZoneOffsetTransition)
	}
	projected := make([]ZoneOffsetTransition, 0, len(r.lastRules))
	for _, rule := range r.lastRules {
		t, err := rule.CreateTransition(year)
		if err != nil {
			// the date-time of the transition can leave the supported range
			// in the first and last year only
			if year == temporal.MinYear || year == temporal.MaxYear {
				continue
			}
			panic(fmt.Sprintf("zone: validated rule %s failed for year %d: %v", rule, year, err))
		}
		projected = append(projected, t)
	}
	slices.SortStableFunc(projected, ZoneOffsetTransition.Compare)
	if year <= lastCachedYear {
		actual, _ := r.yearCache.LoadOrStore(year, projected)
		return actual.([]ZoneOffsetTransition)
	}
	return projected
}

func findYear(epochSecond int64, offset ZoneOffset) int64 {
	localSecond := epochSecond + int64(offset.TotalSeconds())
	date, err := civil.OfEpochDay(temporal.FloorDiv(localSecond, temporal.SecondsPerDay))
	if err != nil {
		if localSecond < 0 {
			return temporal.MinYear
		}
		return temporal.MaxYear
	}
	return date.Year()
}

// Transitions returns a copy of the historic transitions.
func (r *ZoneRules) Transitions() []ZoneOffsetTransition {
	return slices.Clone(r.transitions)
}

// TransitionRules returns a copy of the recurring rules.
func (r *ZoneRules) TransitionRules() []TransitionRule {
	return slices.Clone(r.lastRules)
}

// Equal reports whether both rules hold the same data.
func (r *ZoneRules) Equal(other *ZoneRules) bool {
	if r == other {
		return true
	}
	if other == nil {
		return false
	}
	return slices.Equal(r.standardTransitions, other.standardTransitions) &&
		slices.Equal(r.standardOffsets, other.standardOffsets) &&
		slices.Equal(r.savingsInstantTransitions, other.savingsInstantTransitions) &&
		slices.Equal(r.wallOffsets, other.wallOffsets) &&
		slices.Equal(r.lastRules, other.lastRules)
}

func (r *ZoneRules) String() string {
	if r.IsFixedOffset() {
		return fmt.Sprintf("ZoneRules[fixed=%s]", r.wallOffsets[0])
	}
	return fmt.Sprintf("ZoneRules[currentStandardOffset=%s]", r.standardOffsets[len(r.standardOffsets)-1])
}
