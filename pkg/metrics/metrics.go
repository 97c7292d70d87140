// Package metrics exposes zone registry activity as Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coolbeans/chronocore/pkg/zone"
)

// Metrics implements zone.Observer.
type Metrics struct {
	RulesLookups       *prometheus.CounterVec
	RulesBuildDuration prometheus.Histogram
	ProviderZones      *prometheus.GaugeVec
	ProviderRejections *prometheus.CounterVec
	ProviderRefreshes  *prometheus.CounterVec
}

var _ zone.Observer = (*Metrics)(nil)

// New registers the zone metrics on reg. A nil reg uses the default
// Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		RulesLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chrono_zone_rules_lookups_total",
			Help: "Zone rules lookups by outcome (hit, loaded, not_found, failed)",
		}, []string{"outcome"}),
		RulesBuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "chrono_zone_rules_build_duration_seconds",
			Help:    "Time taken by providers to build zone rules",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		ProviderZones: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chrono_zone_provider_zones",
			Help: "Number of zone ids supplied by each registered provider",
		}, []string{"provider"}),
		ProviderRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chrono_zone_provider_rejections_total",
			Help: "Provider registrations rejected by the registry",
		}, []string{"provider"}),
		ProviderRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chrono_zone_provider_refreshes_total",
			Help: "Provider refreshes, labelled by whether the data changed",
		}, []string{"provider", "changed"}),
	}
}

// RulesLookup counts a registry lookup.
func (m *Metrics) RulesLookup(_ string, outcome zone.LookupOutcome) {
	m.RulesLookups.WithLabelValues(string(outcome)).Inc()
}

// RulesBuilt records how long a provider took to build rules.
func (m *Metrics) RulesBuilt(_ string, elapsed time.Duration) {
	m.RulesBuildDuration.Observe(elapsed.Seconds())
}

// ProviderRegistered records the size of a newly registered provider.
func (m *Metrics) ProviderRegistered(provider string, zoneCount int) {
	m.ProviderZones.WithLabelValues(provider).Set(float64(zoneCount))
}

// ProviderRejected counts a rejected registration.
func (m *Metrics) ProviderRejected(provider string, _ error) {
	m.ProviderRejections.WithLabelValues(provider).Inc()
}

// ProviderRefreshed counts a provider refresh.
func (m *Metrics) ProviderRefreshed(provider string, changed bool) {
	m.ProviderRefreshes.WithLabelValues(provider, strconv.FormatBool(changed)).Inc()
}
