package zone

import (
	"fmt"
	"maps"
	"slices"
)

// Provider supplies zone rules for a fixed set of zone ids.
type Provider interface {
	// Name identifies the provider in errors and logs
	Name() string

	// ZoneIDs lists the zone ids the provider supplies
	ZoneIDs() []string

	// Rules builds the rules of one of the provider's zones
	Rules(zoneID string) (*ZoneRules, error)
}

// Refresher is implemented by providers whose data can change at runtime.
// Refresh reports whether anything changed.
type Refresher interface {
	Refresh() (bool, error)
}

// FixedProvider supplies zones that never change offset.
type FixedProvider struct {
	name    string
	offsets map[string]ZoneOffset
	ids     []string
}

// NewFixedProvider returns a provider of fixed-offset zones keyed by id.
func NewFixedProvider(name string, offsets map[string]ZoneOffset) *FixedProvider {
	copied := maps.Clone(offsets)
	if copied == nil {
		copied = make(map[string]ZoneOffset)
	}
	return &FixedProvider{
		name:    name,
		offsets: copied,
		ids:     slices.Sorted(maps.Keys(copied)),
	}
}

// EtcProvider returns the POSIX-style Etc/GMT zones, Etc/GMT-14 through
// Etc/GMT+12, plus Etc/UTC. The sign of an Etc/GMT id is inverted:
// Etc/GMT+5 is five hours behind UTC.
func EtcProvider() *FixedProvider {
	offsets := map[string]ZoneOffset{"Etc/UTC": UTC, "Etc/GMT": UTC}
	for hours := -14; hours <= 12; hours++ {
		if hours == 0 {
			continue
		}
		offsets[fmt.Sprintf("Etc/GMT%+d", hours)] = ZoneOffset{totalSeconds: int32(-hours * 3600)}
	}
	return NewFixedProvider("etc", offsets)
}

// Name returns the provider name.
func (p *FixedProvider) Name() string { return p.name }

// ZoneIDs returns the sorted zone ids.
func (p *FixedProvider) ZoneIDs() []string { return slices.Clone(p.ids) }

// Rules returns fixed rules for zoneID.
func (p *FixedProvider) Rules(zoneID string) (*ZoneRules, error) {
	offset, ok := p.offsets[zoneID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrZoneNotFound, zoneID)
	}
	return FixedRules(offset), nil
}
