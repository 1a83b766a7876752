package plugins

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/forgelabs/forge/internal/logging"
)

// Watcher re-discovers plugins when files under the discovery paths change.
type Watcher struct {
	registry *Registry
	watcher  *fsnotify.Watcher
	logger   logging.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher over the registry's discovery paths.
// Directories that do not exist yet are skipped.
func NewWatcher(registry *Registry, logger logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range registry.paths {
		// Missing directories are fine; they just never fire events.
		_ = fsw.Add(dir)
	}
	return &Watcher{
		registry: registry,
		watcher:  fsw,
		logger:   logger.WithComponent("plugins"),
		debounce: 200 * time.Millisecond,
	}, nil
}

// Watch blocks until ctx is done, invoking onReload with a fresh discovery
// result after each burst of file changes. Rapid events are coalesced.
func (w *Watcher) Watch(ctx context.Context, onReload func([]*Plugin)) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !isPluginFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug(ctx, "plugin file changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onReload(w.registry.Discover(ctx))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, err, "watcher error")
		}
	}
}

func isPluginFile(path string) bool {
	if strings.HasSuffix(path, "_test.go") {
		return false
	}
	switch filepath.Ext(path) {
	case ".yml", ".yaml", ".go":
		return true
	}
	return false
}
