package plugins

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// manifest is the on-disk shape of a declarative plugin.
type manifest struct {
	Name     string        `yaml:"name"`
	Version  string        `yaml:"version"`
	Commands []CommandSpec `yaml:"commands"`
}

// LoadManifest reads a YAML plugin manifest.
func LoadManifest(path string) (*Plugin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin manifest %s: %w", path, err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse plugin manifest %s: %w", path, err)
	}

	plugin := &Plugin{
		Name:     m.Name,
		Version:  m.Version,
		Source:   path,
		Kind:     KindManifest,
		Commands: m.Commands,
	}
	if err := plugin.validate(); err != nil {
		return nil, err
	}
	return plugin, nil
}
