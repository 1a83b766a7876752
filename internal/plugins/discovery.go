package plugins

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/forgelabs/forge/internal/logging"
)

// Registry discovers plugins across a set of directories.
type Registry struct {
	paths  []string
	logger logging.Logger
}

// NewRegistry creates a registry scanning the given directories.
func NewRegistry(paths []string, logger logging.Logger) *Registry {
	return &Registry{paths: paths, logger: logger.WithComponent("plugins")}
}

// Discover loads every plugin found under the registry's paths. Missing
// directories are skipped, and a plugin that fails to load is reported and
// skipped so one broken file cannot take down the CLI. When two plugins
// declare the same command the first keeps it.
func (r *Registry) Discover(ctx context.Context) []*Plugin {
	var loaded []*Plugin
	seen := make(map[string]string) // command name -> owning plugin

	for _, dir := range r.paths {
		for _, path := range r.candidateFiles(ctx, dir) {
			plugin, err := loadFile(path)
			if err != nil {
				r.logger.Warn(ctx, err, "skipping plugin", "path", path)
				continue
			}

			kept := plugin.Commands[:0]
			for _, cmd := range plugin.Commands {
				if owner, dup := seen[cmd.Name]; dup {
					r.logger.Warn(ctx, nil, "duplicate plugin command",
						"command", cmd.Name, "plugin", plugin.Name, "kept_from", owner)
					continue
				}
				seen[cmd.Name] = plugin.Name
				kept = append(kept, cmd)
			}
			plugin.Commands = kept

			loaded = append(loaded, plugin)
			r.logger.Debug(ctx, "loaded plugin",
				"plugin", plugin.Name, "kind", string(plugin.Kind), "commands", len(plugin.Commands))
		}
	}
	return loaded
}

// candidateFiles lists plugin files in dir in name order.
func (r *Registry) candidateFiles(ctx context.Context, dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn(ctx, err, "failed to read plugin directory", "dir", dir)
		}
		return nil
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		switch filepath.Ext(name) {
		case ".yml", ".yaml", ".go":
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths
}

// loadFile picks the loader by extension.
func loadFile(path string) (*Plugin, error) {
	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		return LoadManifest(path)
	case ".go":
		return LoadStub(path)
	default:
		return nil, fmt.Errorf("unsupported plugin file %s", path)
	}
}
