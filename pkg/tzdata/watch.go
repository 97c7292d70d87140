package tzdata

import (
	"context"
	"fmt"

	"gopkg.in/fsnotify.v1"
)

// Event describes a change to a zone file seen by Watch.
type Event struct {
	Path string
	Op   string // "create", "modify" or "remove"
}

// Watch starts watching the provider's directory and returns once the
// watch is in place. Each zone file event goes to the OnChange callback,
// or refreshes the provider when none is set. Watching stops when ctx is
// done.
//
// When the provider is registered with a zone.Registry, set OnChange to
// call the registry's Refresh so cached rules are dropped along with the
// reload.
func (p *Provider) Watch(ctx context.Context) error {
	if p.dir == "" {
		return fmt.Errorf("provider %q has no directory to watch", p.name)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(p.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching directory %s: %w", p.dir, err)
	}

	go p.watchLoop(ctx, watcher)
	p.logger.Info("watching zone files", "provider", p.name, "dir", p.dir)
	return nil
}

func (p *Provider) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("stopped watching zone files", "provider", p.name)
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isZoneFile(event.Name) {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				p.handle(Event{Path: event.Name, Op: "create"})
			case event.Op&fsnotify.Write == fsnotify.Write:
				p.handle(Event{Path: event.Name, Op: "modify"})
			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				p.handle(Event{Path: event.Name, Op: "remove"})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Warn("zone file watcher error", "provider", p.name, "error", err)
		}
	}
}

func (p *Provider) handle(event Event) {
	p.logger.Debug("zone file event", "provider", p.name, "path", event.Path, "op", event.Op)
	if p.onChange != nil {
		p.onChange(event)
		return
	}
	if _, err := p.Refresh(); err != nil {
		p.logger.Warn("zone file reload failed", "provider", p.name, "path", event.Path, "error", err)
	}
}
