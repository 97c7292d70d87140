package zone

import (
	"errors"
	"fmt"

	"github.com/coolbeans/chronocore/pkg/civil"
)

var (
	// ErrZoneNotFound is returned for a zone id no registered provider supplies.
	ErrZoneNotFound = errors.New("unknown time-zone id")

	// ErrProviderConflict is returned when a provider claims a zone id that is
	// already registered, or the provider itself is already registered.
	ErrProviderConflict = errors.New("zone rules provider conflict")

	// ErrInvalidRules is returned when transition data breaks the ordering or
	// adjacency invariants.
	ErrInvalidRules = errors.New("invalid zone rules")

	// ErrGap is returned by strict resolution for a local date-time skipped
	// by a forward transition.
	ErrGap = errors.New("local date-time falls in a gap")

	// ErrOverlap is returned by strict resolution for a local date-time that
	// occurs twice.
	ErrOverlap = errors.New("local date-time falls in an overlap")
)

// ConflictError describes a rejected provider registration.
type ConflictError struct {
	Provider string
	ZoneID   string // empty when the provider name itself collides
	Owner    string
}

func (e *ConflictError) Error() string {
	if e.ZoneID == "" {
		return fmt.Sprintf("zone rules provider %q already registered", e.Provider)
	}
	return fmt.Sprintf("zone id %q from provider %q already registered by %q", e.ZoneID, e.Provider, e.Owner)
}

// Unwrap lets errors.Is match ErrProviderConflict.
func (e *ConflictError) Unwrap() error {
	return ErrProviderConflict
}

// TransitionError reports a local date-time that strict resolution refused
// because it lies in a gap or an overlap.
type TransitionError struct {
	LocalDateTime civil.LocalDateTime
	Transition    ZoneOffsetTransition
}

func (e *TransitionError) Error() string {
	kind := "overlap"
	if e.Transition.IsGap() {
		kind = "gap"
	}
	return fmt.Sprintf("local date-time %s falls in %s %s", e.LocalDateTime, kind, e.Transition)
}

// Unwrap lets errors.Is match ErrGap or ErrOverlap.
func (e *TransitionError) Unwrap() error {
	if e.Transition.IsGap() {
		return ErrGap
	}
	return ErrOverlap
}
