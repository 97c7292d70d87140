package zone

import "time"

// LookupOutcome classifies a Registry.Rules call.
type LookupOutcome string

const (
	LookupHit      LookupOutcome = "hit"
	LookupLoaded   LookupOutcome = "loaded"
	LookupNotFound LookupOutcome = "not_found"
	LookupFailed   LookupOutcome = "failed"
)

// Observer receives registry events. Implementations must be safe for
// concurrent use.
type Observer interface {
	RulesLookup(zoneID string, outcome LookupOutcome)
	RulesBuilt(zoneID string, elapsed time.Duration)
	ProviderRegistered(provider string, zoneCount int)
	ProviderRejected(provider string, err error)
	ProviderRefreshed(provider string, changed bool)
}

type nopObserver struct{}

func (nopObserver) RulesLookup(string, LookupOutcome) {}
func (nopObserver) RulesBuilt(string, time.Duration) {}
func (nopObserver) ProviderRegistered(string, int) {}
func (nopObserver) ProviderRejected(string, error) {}
func (nopObserver) ProviderRefreshed(string, bool) {}
