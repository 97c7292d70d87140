package zone

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry behind RulesFor.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// RegisterProvider adds provider to the process-wide registry.
func RegisterProvider(provider Provider) error {
	return defaultRegistry.RegisterProvider(provider)
}

// RulesFor returns the rules of zoneID from the process-wide registry.
func RulesFor(zoneID string) (*ZoneRules, error) {
	return defaultRegistry.Rules(zoneID)
}

// AvailableZoneIDs lists the zone ids of the process-wide registry.
func AvailableZoneIDs() []string {
	return defaultRegistry.AvailableZoneIDs()
}
