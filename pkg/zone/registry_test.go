package zone

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/chronocore/pkg/civil"
)

// mockProvider is a test double implementing Provider and Refresher.
type mockProvider struct {
	name    string
	mu      sync.Mutex
	offsets map[string]ZoneOffset
	builds  atomic.Int32
	delay   time.Duration
	err     error

	refreshed  bool
	refreshErr error
}

func newMockProvider(name string, ids ...string) *mockProvider {
	offsets := make(map[string]ZoneOffset, len(ids))
	for i, id := range ids {
		offsets[id] = ZoneOffset{totalSeconds: int32(i * 3600)}
	}
	return &mockProvider{name: name, offsets: offsets}
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) ZoneIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.offsets))
	for id := range m.offsets {
		ids = append(ids, id)
	}
	return ids
}

func (m *mockProvider) Rules(zoneID string) (*ZoneRules, error) {
	m.builds.Add(1)
	time.Sleep(m.delay)
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	offset, ok := m.offsets[zoneID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrZoneNotFound, zoneID)
	}
	return FixedRules(offset), nil
}

func (m *mockProvider) Refresh() (bool, error) {
	return m.refreshed, m.refreshErr
}

func (m *mockProvider) set(id string, offset ZoneOffset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offsets[id] = offset
}

// recordingObserver counts registry events.
type recordingObserver struct {
	mu       sync.Mutex
	lookups  map[LookupOutcome]int
	built    int
	rejected []string
	added    []string
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{lookups: make(map[LookupOutcome]int)}
}

func (o *recordingObserver) RulesLookup(_ string, outcome LookupOutcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lookups[outcome]++
}

func (o *recordingObserver) RulesBuilt(string, time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.built++
}

func (o *recordingObserver) ProviderRegistered(provider string, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.added = append(o.added, provider)
}

func (o *recordingObserver) ProviderRejected(provider string, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejected = append(o.rejected, provider)
}

func (o *recordingObserver) ProviderRefreshed(string, bool) {}

func TestRegistryRegisterProvider(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.RegisterProvider(newMockProvider("a", "Zone/B", "Zone/A")))
		assert.Equal(t, []string{"Zone/A", "Zone/B"}, r.AvailableZoneIDs())
		assert.Equal(t, []string{"a"}, r.Providers())
	})

	t.Run("conflict_is_atomic", func(t *testing.T) {
		obs := newRecordingObserver()
		r := NewRegistry(WithObserver(obs))
		require.NoError(t, r.RegisterProvider(newMockProvider("p1", "X")))

		err := r.RegisterProvider(newMockProvider("p2", "Y", "X"))
		require.ErrorIs(t, err, ErrProviderConflict)

		var conflict *ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "X", conflict.ZoneID)
		assert.Equal(t, "p1", conflict.Owner)

		assert.Equal(t, []string{"X"}, r.AvailableZoneIDs(), "Y must not be registered")
		_, err = r.Rules("Y")
		assert.ErrorIs(t, err, ErrZoneNotFound)
		assert.Equal(t, []string{"p2"}, obs.rejected)
	})

	t.Run("duplicate_provider_rejected", func(t *testing.T) {
		r := NewRegistry()
		p := newMockProvider("p1", "X")
		require.NoError(t, r.RegisterProvider(p))
		assert.ErrorIs(t, r.RegisterProvider(p), ErrProviderConflict)
		assert.ErrorIs(t, r.RegisterProvider(newMockProvider("p1", "Other")), ErrProviderConflict)
	})

	t.Run("nil_rejected", func(t *testing.T) {
		assert.Error(t, NewRegistry().RegisterProvider(nil))
	})

	t.Run("empty_name_rejected", func(t *testing.T) {
		assert.Error(t, NewRegistry().RegisterProvider(newMockProvider("", "X")))
	})

	t.Run("empty_zone_id_rejected", func(t *testing.T) {
		r := NewRegistry()
		assert.Error(t, r.RegisterProvider(newMockProvider("p", "")))
		assert.Empty(t, r.AvailableZoneIDs())
	})
}

func TestRegistryRules(t *testing.T) {
	obs := newRecordingObserver()
	r := NewRegistry(WithObserver(obs))
	p := newMockProvider("p", "Zone/A", "Zone/B")
	require.NoError(t, r.RegisterProvider(p))

	first, err := r.Rules("Zone/B")
	require.NoError(t, err)
	assert.Equal(t, MustOffset(1, 0), first.Offset(civil.EpochInstant))

	second, err := r.Rules("Zone/B")
	require.NoError(t, err)
	assert.Same(t, first, second, "rules are cached")
	assert.Equal(t, int32(1), p.builds.Load())

	_, err = r.Rules("Nowhere")
	assert.ErrorIs(t, err, ErrZoneNotFound)

	assert.Equal(t, 1, obs.lookups[LookupLoaded])
	assert.Equal(t, 1, obs.lookups[LookupHit])
	assert.Equal(t, 1, obs.lookups[LookupNotFound])
	assert.Equal(t, 1, obs.built)
}

func TestRegistryRulesProviderError(t *testing.T) {
	obs := newRecordingObserver()
	r := NewRegistry(WithObserver(obs))
	p := newMockProvider("p", "Zone/A")
	p.err = errors.New("corrupt data")
	require.NoError(t, r.RegisterProvider(p))

	_, err := r.Rules("Zone/A")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt data")
	assert.Equal(t, 1, obs.lookups[LookupFailed])

	p.err = nil
	_, err = r.Rules("Zone/A")
	assert.NoError(t, err, "failures are not cached")
}

func TestRegistryConcurrentFirstLookup(t *testing.T) {
	r := NewRegistry()
	p := newMockProvider("p", "Zone/A")
	p.delay = 20 * time.Millisecond
	require.NoError(t, r.RegisterProvider(p))

	var wg sync.WaitGroup
	results := make([]*ZoneRules, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rules, err := r.Rules("Zone/A")
			if err != nil {
				t.Errorf("Rules() error = %v", err)
				return
			}
			results[i] = rules
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), p.builds.Load(), "rules built once")
	for _, rules := range results {
		assert.Same(t, results[0], rules)
	}
}

func TestRegistryConcurrentRegistration(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.RegisterProvider(newMockProvider(fmt.Sprintf("p%d", i), fmt.Sprintf("Zone/%d", i), "Shared"))
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.AvailableZoneIDs()
			_, _ = r.Rules("Shared")
		}()
	}
	wg.Wait()

	assert.Len(t, r.Providers(), 1, "only one provider can own Shared")
	assert.Len(t, r.AvailableZoneIDs(), 2)
}

func TestRegistryRefresh(t *testing.T) {
	r := NewRegistry()
	p := newMockProvider("p", "Zone/A")
	require.NoError(t, r.RegisterProvider(p))
	require.NoError(t, r.RegisterProvider(newMockProvider("q", "Zone/Q")))

	before, err := r.Rules("Zone/A")
	require.NoError(t, err)
	snapshot := r.AvailableZoneIDs()

	t.Run("unchanged_keeps_cache", func(t *testing.T) {
		changed, err := r.Refresh()
		require.NoError(t, err)
		assert.False(t, changed)
		again, err := r.Rules("Zone/A")
		require.NoError(t, err)
		assert.Same(t, before, again)
	})

	t.Run("changed_rebuilds", func(t *testing.T) {
		p.set("Zone/A", MustOffset(2, 0))
		p.set("Zone/New", MustOffset(3, 0))
		p.refreshed = true

		changed, err := r.Refresh()
		require.NoError(t, err)
		assert.True(t, changed)

		after, err := r.Rules("Zone/A")
		require.NoError(t, err)
		assert.NotSame(t, before, after)
		assert.Equal(t, MustOffset(2, 0), after.Offset(civil.EpochInstant))
		assert.Equal(t, UTC, before.Offset(civil.EpochInstant), "old rules are untouched")

		assert.Contains(t, r.AvailableZoneIDs(), "Zone/New")
		assert.NotContains(t, snapshot, "Zone/New", "earlier snapshots do not change")
	})

	t.Run("conflicting_new_id", func(t *testing.T) {
		p.set("Zone/Q", UTC)
		changed, err := r.Refresh()
		assert.True(t, changed)
		assert.ErrorIs(t, err, ErrProviderConflict)
		assert.Contains(t, r.AvailableZoneIDs(), "Zone/Q")
	})

	t.Run("refresh_error", func(t *testing.T) {
		p.refreshed = false
		p.refreshErr = errors.New("disk gone")
		_, err := r.Refresh()
		assert.ErrorContains(t, err, "disk gone")
	})
}

func TestFixedProviders(t *testing.T) {
	p := NewFixedProvider("fixed", map[string]ZoneOffset{"Asia/Tokyo": MustOffset(9, 0)})
	assert.Equal(t, []string{"Asia/Tokyo"}, p.ZoneIDs())
	rules, err := p.Rules("Asia/Tokyo")
	require.NoError(t, err)
	assert.True(t, rules.IsFixedOffset())
	_, err = p.Rules("Asia/Seoul")
	assert.ErrorIs(t, err, ErrZoneNotFound)

	etc := EtcProvider()
	plus5, err := etc.Rules("Etc/GMT+5")
	require.NoError(t, err)
	assert.Equal(t, MustOffset(-5, 0), plus5.Offset(civil.EpochInstant))
	minus14, err := etc.Rules("Etc/GMT-14")
	require.NoError(t, err)
	assert.Equal(t, MustOffset(14, 0), minus14.Offset(civil.EpochInstant))
	assert.Len(t, etc.ZoneIDs(), 28)
}

func TestDefaultRegistry(t *testing.T) {
	p := newMockProvider("default-test", "Test/Default")
	require.NoError(t, RegisterProvider(p))
	assert.Contains(t, AvailableZoneIDs(), "Test/Default")
	rules, err := RulesFor("Test/Default")
	require.NoError(t, err)
	assert.True(t, rules.IsFixedOffset())
	assert.Same(t, DefaultRegistry(), defaultRegistry)
}

// gatedProvider blocks its first Rules call until release is closed. Each
// Refresh moves every zone one hour east.
type gatedProvider struct {
	mu      sync.Mutex
	hours   int
	calls   int
	started chan struct{}
	release chan struct{}
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedProvider) Name() string      { return "gated" }
func (g *gatedProvider) ZoneIDs() []string { return []string{"Zone/Gated"} }

func (g *gatedProvider) Rules(string) (*ZoneRules, error) {
	g.mu.Lock()
	hours := g.hours
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()
	if first {
		close(g.started)
		<-g.release
	}
	return FixedRules(MustOffset(hours, 0)), nil
}

func (g *gatedProvider) Refresh() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hours++
	return true, nil
}

func TestRegistryRefreshDuringBuild(t *testing.T) {
	r := NewRegistry()
	g := newGatedProvider()
	require.NoError(t, r.RegisterProvider(g))

	type result struct {
		rules *ZoneRules
		err   error
	}
	first := make(chan result, 1)
	go func() {
		rules, err := r.Rules("Zone/Gated")
		first <- result{rules, err}
	}()

	select {
	case <-g.started:
	case <-time.After(5 * time.Second):
		t.Fatal("build did not start")
	}
	changed, err := r.Refresh()
	require.NoError(t, err)
	require.True(t, changed)

	// a lookup after the refresh must not join the build that began before it
	after, err := r.Rules("Zone/Gated")
	require.NoError(t, err)
	assert.Equal(t, MustOffset(1, 0), after.Offset(civil.EpochInstant))

	close(g.release)
	var res result
	select {
	case res = <-first:
	case <-time.After(5 * time.Second):
		t.Fatal("first lookup did not finish")
	}
	require.NoError(t, res.err)
	assert.Equal(t, UTC, res.rules.Offset(civil.EpochInstant), "in-flight lookup keeps the rules it built")

	again, err := r.Rules("Zone/Gated")
	require.NoError(t, err)
	assert.Same(t, after, again, "the pre-refresh build is not served from the cache")
}

func TestRegistryIgnoresEntriesOfOlderGenerations(t *testing.T) {
	r := NewRegistry()
	p := newMockProvider("p", "Zone/A")
	require.NoError(t, r.RegisterProvider(p))

	stale := FixedRules(MustOffset(7, 0))
	r.store("Zone/A", cacheEntry{rules: stale, generation: 0})
	got, err := r.Rules("Zone/A")
	require.NoError(t, err)
	assert.Same(t, stale, got)

	// an entry written late by a build from before a refresh
	r.generation.Add(1)
	r.store("Zone/A", cacheEntry{rules: stale, generation: 0})
	got, err = r.Rules("Zone/A")
	require.NoError(t, err)
	assert.NotSame(t, stale, got)
	assert.Equal(t, UTC, got.Offset(civil.EpochInstant))

	// a late older entry does not replace a newer one
	r.store("Zone/A", cacheEntry{rules: stale, generation: 0})
	again, err := r.Rules("Zone/A")
	require.NoError(t, err)
	assert.Same(t, got, again)
}

func TestRegistryRefreshKeepsUnchangedProviders(t *testing.T) {
	r := NewRegistry()
	p := newMockProvider("p", "Zone/A")
	q := newMockProvider("q", "Zone/Q")
	require.NoError(t, r.RegisterProvider(p))
	require.NoError(t, r.RegisterProvider(q))

	a, err := r.Rules("Zone/A")
	require.NoError(t, err)
	qRules, err := r.Rules("Zone/Q")
	require.NoError(t, err)

	p.refreshed = true
	changed, err := r.Refresh()
	require.NoError(t, err)
	require.True(t, changed)

	a2, err := r.Rules("Zone/A")
	require.NoError(t, err)
	assert.NotSame(t, a, a2)
	q2, err := r.Rules("Zone/Q")
	require.NoError(t, err)
	assert.Same(t, qRules, q2)
	assert.Equal(t, int32(1), q.builds.Load())
}
