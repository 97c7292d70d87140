package zone

import (
	"fmt"

	"github.com/coolbeans/chronocore/pkg/civil"
	"github.com/coolbeans/chronocore/pkg/temporal"
)

// Resolved is a local date-time paired with the offset chosen for it.
type Resolved struct {
	DateTime civil.LocalDateTime
	Offset   ZoneOffset
}

// EpochSecond returns the instant the resolved date-time denotes.
func (r Resolved) EpochSecond() int64 {
	return r.DateTime.ToEpochSecond(r.Offset.TotalSeconds())
}

// Instant returns the instant the resolved date-time denotes.
func (r Resolved) Instant() (civil.Instant, error) {
	return civil.InstantOfEpochSecond(r.EpochSecond(), int64(r.DateTime.Time().Nano()))
}

func (r Resolved) String() string {
	return r.DateTime.String() + r.Offset.String()
}

// Policy decides how a local date-time inside a gap or overlap is mapped
// onto the time-line.
type Policy interface {
	resolve(localDateTime civil.LocalDateTime, t ZoneOffsetTransition) (Resolved, error)
}

type policyFunc func(civil.LocalDateTime, ZoneOffsetTransition) (Resolved, error)

func (f policyFunc) resolve(localDateTime civil.LocalDateTime, t ZoneOffsetTransition) (Resolved, error) {
	return f(localDateTime, t)
}

var (
	// ResolveStrict refuses gaps and overlaps with a *TransitionError.
	ResolveStrict Policy = policyFunc(func(ldt civil.LocalDateTime, t ZoneOffsetTransition) (Resolved, error) {
		return Resolved{}, &TransitionError{LocalDateTime: ldt, Transition: t}
	})

	// ResolveEarlier shifts a gap forward by its length and picks the
	// earlier instant, offsetBefore, in an overlap.
	ResolveEarlier Policy = policyFunc(func(ldt civil.LocalDateTime, t ZoneOffsetTransition) (Resolved, error) {
		if t.IsGap() {
			return shiftOverGap(ldt, t)
		}
		return Resolved{DateTime: ldt, Offset: t.OffsetBefore()}, nil
	})

	// ResolveLater shifts a gap forward by its length and picks the later
	// instant, offsetAfter, in an overlap.
	ResolveLater Policy = policyFunc(func(ldt civil.LocalDateTime, t ZoneOffsetTransition) (Resolved, error) {
		if t.IsGap() {
			return shiftOverGap(ldt, t)
		}
		return Resolved{DateTime: ldt, Offset: t.OffsetAfter()}, nil
	})
)

// ResolvePreferring keeps preferred when it is one of the overlap's
// offsets and otherwise behaves like ResolveEarlier.
func ResolvePreferring(preferred ZoneOffset) Policy {
	return policyFunc(func(ldt civil.LocalDateTime, t ZoneOffsetTransition) (Resolved, error) {
		if t.IsValidOffset(preferred) {
			return Resolved{DateTime: ldt, Offset: preferred}, nil
		}
		return ResolveEarlier.resolve(ldt, t)
	})
}

func shiftOverGap(ldt civil.LocalDateTime, t ZoneOffsetTransition) (Resolved, error) {
	shifted, err := ldt.PlusSeconds(t.Duration().Seconds)
	if err != nil {
		return Resolved{}, fmt.Errorf("shifting %s over gap: %w", ldt, err)
	}
	return Resolved{DateTime: shifted, Offset: t.OffsetAfter()}, nil
}

// Resolve maps localDateTime onto the time-line using rules. Date-times
// with a single valid offset resolve to it; gaps and overlaps are handed
// to policy.
func Resolve(rules *ZoneRules, localDateTime civil.LocalDateTime, policy Policy) (Resolved, error) {
	if rules == nil || policy == nil {
		return Resolved{}, fmt.Errorf("%w: rules and policy are required", temporal.ErrInvalidArgument)
	}
	info := rules.OffsetInfo(localDateTime)
	if offset, ok := info.Offset(); ok {
		return Resolved{DateTime: localDateTime, Offset: offset}, nil
	}
	t, _ := info.Transition()
	return policy.resolve(localDateTime, t)
}

// ParsePolicy maps a policy name used on the command line and in
// configuration: "strict", "earlier" or "later".
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "strict":
		return ResolveStrict, nil
	case "earlier", "":
		return ResolveEarlier, nil
	case "later":
		return ResolveLater, nil
	}
	return nil, fmt.Errorf("%w: unknown resolution policy %q", temporal.ErrInvalidArgument, name)
}
