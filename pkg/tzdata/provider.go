// Package tzdata supplies zone rules from YAML zone files, either from a
// directory on disk or from the data set compiled into the binary. A
// Provider plugs into a zone.Registry; directory providers can be
// refreshed and watched for edits.
package tzdata

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path"
	"slices"
	"sync"

	"github.com/coolbeans/chronocore/pkg/zone"
)

// ErrInvalidZoneFile reports a zone file that cannot be decoded or
// validated.
var ErrInvalidZoneFile = errors.New("invalid zone file")

// Provider is a zone.Provider backed by a set of YAML zone files.
type Provider struct {
	name     string
	fsys     fs.FS
	dir      string // set for directory providers only
	logger   *slog.Logger
	onChange func(Event)

	mu      sync.RWMutex
	zones   map[string]*ZoneFile
	ids     []string
	digests map[string][sha256.Size]byte // file name -> content hash
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithOnChange sets the callback Watch invokes for every zone file event.
// Without one, Watch refreshes the provider itself.
func WithOnChange(fn func(Event)) Option {
	return func(p *Provider) {
		p.onChange = fn
	}
}

// NewProvider loads every *.yaml and *.yml file at the root of fsys.
func NewProvider(name string, fsys fs.FS, opts ...Option) (*Provider, error) {
	if name == "" {
		return nil, fmt.Errorf("provider name cannot be empty")
	}
	if fsys == nil {
		return nil, fmt.Errorf("provider %q: file system cannot be nil", name)
	}
	p := &Provider{
		name:   name,
		fsys:   fsys,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}

	zones, digests, err := p.load()
	if err != nil {
		return nil, err
	}
	p.swap(zones, digests)
	p.logger.Debug("loaded zone files", "provider", name, "zones", len(zones))
	return p, nil
}

// NewDirectoryProvider loads the zone files in dir. The provider can be
// refreshed and watched.
func NewDirectoryProvider(name, dir string, opts ...Option) (*Provider, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	p, err := NewProvider(name, os.DirFS(dir), opts...)
	if err != nil {
		return nil, err
	}
	p.dir = dir
	return p, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return p.name }

// Dir returns the watched directory, or "" for providers not backed by one.
func (p *Provider) Dir() string { return p.dir }

// ZoneIDs returns the sorted ids of the loaded zones.
func (p *Provider) ZoneIDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.ids)
}

// Zone returns the decoded file of zoneID.
func (p *Provider) Zone(zoneID string) (*ZoneFile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	zf, ok := p.zones[zoneID]
	return zf, ok
}

// Rules builds the rules of zoneID from its file.
func (p *Provider) Rules(zoneID string) (*zone.ZoneRules, error) {
	zf, ok := p.Zone(zoneID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", zone.ErrZoneNotFound, zoneID)
	}
	return zf.BuildRules()
}

// Refresh re-reads the zone files and reports whether any file was added,
// removed or edited. On error the previously loaded zones stay in place.
func (p *Provider) Refresh() (bool, error) {
	zones, digests, err := p.load()
	if err != nil {
		return false, err
	}

	p.mu.RLock()
	unchanged := maps.Equal(p.digests, digests)
	p.mu.RUnlock()
	if unchanged {
		return false, nil
	}

	p.swap(zones, digests)
	p.logger.Info("reloaded zone files", "provider", p.name, "zones", len(zones))
	return true, nil
}

func (p *Provider) swap(zones map[string]*ZoneFile, digests map[string][sha256.Size]byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.zones = zones
	p.digests = digests
	p.ids = slices.Sorted(maps.Keys(zones))
}

// load reads and validates every zone file. Zone ids must be unique
// across files.
func (p *Provider) load() (map[string]*ZoneFile, map[string][sha256.Size]byte, error) {
	entries, err := fs.ReadDir(p.fsys, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("reading zone files of provider %q: %w", p.name, err)
	}

	zones := make(map[string]*ZoneFile)
	sources := make(map[string]string)
	digests := make(map[string][sha256.Size]byte)
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !isZoneFile(entry.Name()) {
			continue
		}
		name := entry.Name()
		data, err := fs.ReadFile(p.fsys, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		digests[name] = sha256.Sum256(data)

		zf, err := parseZoneFile(name, data)
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				err = fmt.Errorf("%s: %w", name, err)
			}
			errs = append(errs, err)
			continue
		}
		if other, ok := sources[zf.ID]; ok {
			errs = append(errs, fmt.Errorf("%s: zone %s already defined in %s", name, zf.ID, other))
			continue
		}
		zones[zf.ID] = zf
		sources[zf.ID] = name
	}

	if len(errs) > 0 {
		return nil, nil, fmt.Errorf("%w: provider %q: %w", ErrInvalidZoneFile, p.name, errors.Join(errs...))
	}
	return zones, digests, nil
}

func isZoneFile(name string) bool {
	ext := path.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}
