package zone

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/coolbeans/chronocore/pkg/temporal"
)

// Registry maps zone ids to the provider that supplies them and caches the
// rules each provider builds. Lookups never block on registration: they
// read an immutable index that writers swap atomically.
type Registry struct {
	mu    sync.Mutex // serializes writers
	index atomic.Pointer[registryIndex]

	// zoneID -> cacheEntry; entries of an older generation are misses
	cache      sync.Map
	generation atomic.Uint64
	group      singleflight.Group // keyed by zone id and generation

	logger   *slog.Logger
	observer Observer
}

// cacheEntry is rules built while generation was current.
type cacheEntry struct {
	rules      *ZoneRules
	generation uint64
}

type registryIndex struct {
	providers []Provider
	owners    map[string]Provider
	ids       []string // sorted
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver sets the event observer, typically a metrics collector.
func WithObserver(observer Observer) Option {
	return func(r *Registry) {
		if observer != nil {
			r.observer = observer
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.index.Store(&registryIndex{owners: map[string]Provider{}})
	return r
}

// RegisterProvider adds provider and all of its zone ids. Registration is
// all or nothing: if any id is already owned, or a provider of the same
// name is registered, nothing changes and a *ConflictError is returned.
func (r *Registry) RegisterProvider(provider Provider) error {
	if provider == nil {
		return fmt.Errorf("%w: provider cannot be nil", temporal.ErrInvalidArgument)
	}
	name := provider.Name()
	if name == "" {
		return fmt.Errorf("%w: provider name cannot be empty", temporal.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.index.Load()
	for _, existing := range current.providers {
		if existing.Name() == name {
			return r.reject(name, &ConflictError{Provider: name})
		}
	}

	ids := provider.ZoneIDs()
	for _, id := range ids {
		if id == "" {
			return r.reject(name, fmt.Errorf("%w: provider %q lists an empty zone id", temporal.ErrInvalidArgument, name))
		}
		if owner, ok := current.owners[id]; ok {
			return r.reject(name, &ConflictError{Provider: name, ZoneID: id, Owner: owner.Name()})
		}
	}

	owners := maps.Clone(current.owners)
	for _, id := range ids {
		owners[id] = provider
	}
	r.index.Store(newRegistryIndex(append(slices.Clone(current.providers), provider), owners))

	r.logger.Info("registered zone rules provider", "provider", name, "zones", len(ids))
	r.observer.ProviderRegistered(name, len(ids))
	return nil
}

func (r *Registry) reject(name string, err error) error {
	r.logger.Warn("rejected zone rules provider", "provider", name, "error", err)
	r.observer.ProviderRejected(name, err)
	return err
}

func newRegistryIndex(providers []Provider, owners map[string]Provider) *registryIndex {
	return &registryIndex{
		providers: providers,
		owners:    owners,
		ids:       slices.Sorted(maps.Keys(owners)),
	}
}

// Rules returns the rules of zoneID, building them on first use. Concurrent
// first lookups of one id share a single build. Rules built before a
// Refresh are never served to lookups that start after it.
func (r *Registry) Rules(zoneID string) (*ZoneRules, error) {
	// the generation is read before the index; Refresh publishes in the
	// opposite order, so a current generation implies a current index
	generation := r.generation.Load()
	provider, ok := r.index.Load().owners[zoneID]
	if !ok {
		r.observer.RulesLookup(zoneID, LookupNotFound)
		return nil, fmt.Errorf("%w: %s", ErrZoneNotFound, zoneID)
	}
	if rules, ok := r.cached(zoneID, generation); ok {
		r.observer.RulesLookup(zoneID, LookupHit)
		return rules, nil
	}

	key := zoneID + "@" + strconv.FormatUint(generation, 10)
	v, err, _ := r.group.Do(key, func() (any, error) {
		if rules, ok := r.cached(zoneID, generation); ok {
			return rules, nil
		}
		start := time.Now()
		rules, err := provider.Rules(zoneID)
		if err != nil {
			return nil, fmt.Errorf("loading rules for %s from provider %q: %w", zoneID, provider.Name(), err)
		}
		if rules == nil {
			return nil, fmt.Errorf("%w: provider %q returned no rules for %s", ErrInvalidRules, provider.Name(), zoneID)
		}
		elapsed := time.Since(start)
		r.store(zoneID, cacheEntry{rules: rules, generation: generation})
		r.logger.Debug("built zone rules", "zone", zoneID, "provider", provider.Name(), "elapsed", elapsed)
		r.observer.RulesBuilt(zoneID, elapsed)
		return rules, nil
	})
	if err != nil {
		r.observer.RulesLookup(zoneID, LookupFailed)
		r.logger.Error("zone rules lookup failed", "zone", zoneID, "error", err)
		return nil, err
	}
	r.observer.RulesLookup(zoneID, LookupLoaded)
	return v.(*ZoneRules), nil
}

func (r *Registry) cached(zoneID string, generation uint64) (*ZoneRules, bool) {
	v, ok := r.cache.Load(zoneID)
	if !ok {
		return nil, false
	}
	entry := v.(cacheEntry)
	return entry.rules, entry.generation == generation
}

// store caches entry unless a newer generation is already cached.
func (r *Registry) store(zoneID string, entry cacheEntry) {
	for {
		v, loaded := r.cache.LoadOrStore(zoneID, entry)
		if !loaded {
			return
		}
		old := v.(cacheEntry)
		if old.generation >= entry.generation || r.cache.CompareAndSwap(zoneID, old, entry) {
			return
		}
	}
}

// AvailableZoneIDs returns the registered zone ids in sorted order. The
// slice is a snapshot and does not change with later registrations.
func (r *Registry) AvailableZoneIDs() []string {
	return slices.Clone(r.index.Load().ids)
}

// Providers returns the names of the registered providers in registration
// order.
func (r *Registry) Providers() []string {
	providers := r.index.Load().providers
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	return names
}

// Refresh asks every provider that implements Refresher to reload. Cached
// rules of providers that changed are dropped, so later lookups see newly
// built rules while callers holding older rules keep them. Zone ids a
// provider gains or loses are applied to the index; a gained id owned by
// another provider is skipped and reported.
func (r *Registry) Refresh() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.index.Load()
	owners := maps.Clone(current.owners)
	var errs []error
	var stale []string
	changed := false

	for _, provider := range current.providers {
		refresher, ok := provider.(Refresher)
		if !ok {
			continue
		}
		name := provider.Name()
		providerChanged, err := refresher.Refresh()
		if err != nil {
			r.logger.Warn("zone rules provider refresh failed", "provider", name, "error", err)
			errs = append(errs, fmt.Errorf("refreshing provider %q: %w", name, err))
		}
		r.observer.ProviderRefreshed(name, providerChanged)
		if !providerChanged {
			continue
		}
		changed = true

		for id, owner := range owners {
			if owner.Name() == name {
				delete(owners, id)
				stale = append(stale, id)
			}
		}
		for _, id := range provider.ZoneIDs() {
			if owner, ok := owners[id]; ok {
				errs = append(errs, &ConflictError{Provider: name, ZoneID: id, Owner: owner.Name()})
				continue
			}
			owners[id] = provider
		}
		r.logger.Info("refreshed zone rules provider", "provider", name)
	}

	if changed {
		r.index.Store(newRegistryIndex(current.providers, owners))
		next := r.generation.Add(1)
		for _, id := range stale {
			r.cache.Delete(id)
		}
		// rules of unchanged providers carry over to the new generation
		r.cache.Range(func(k, v any) bool {
			entry := v.(cacheEntry)
			if entry.generation == next-1 && !slices.Contains(stale, k.(string)) {
				r.cache.CompareAndSwap(k, entry, cacheEntry{rules: entry.rules, generation: next})
			}
			return true
		})
	}
	return changed, errors.Join(errs...)
}
