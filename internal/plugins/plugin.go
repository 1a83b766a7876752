// Package plugins discovers and loads forge plugins. A plugin is either a
// declarative YAML manifest or a Go stub evaluated with yaegi; both
// contribute extra commands to the CLI.
package plugins

import (
	"fmt"
	"regexp"
)

// Kind distinguishes how a plugin was loaded.
type Kind string

const (
	KindManifest Kind = "manifest" // declarative .yml file
	KindStub     Kind = "stub"     // yaegi-evaluated .go file
)

// Plugin is one discovered plugin and the commands it contributes.
type Plugin struct {
	Name     string
	Version  string
	Source   string // path the plugin was loaded from
	Kind     Kind
	Commands []CommandSpec
}

// CommandSpec is one command a plugin adds to forge.
type CommandSpec struct {
	Name   string `yaml:"name"`
	Short  string `yaml:"short"`
	Output string `yaml:"output"`
}

var commandNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// Validate checks that the command can be mounted on the CLI.
func (c CommandSpec) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("plugin command is missing a name")
	}
	if !commandNamePattern.MatchString(c.Name) {
		return fmt.Errorf("invalid plugin command name %q: use lowercase words separated by hyphens", c.Name)
	}
	if c.Output == "" {
		return fmt.Errorf("plugin command %q is missing an output", c.Name)
	}
	return nil
}

// validate checks the plugin and all of its commands.
func (p *Plugin) validate() error {
	if p.Name == "" {
		return fmt.Errorf("plugin %s is missing a name", p.Source)
	}
	seen := make(map[string]bool, len(p.Commands))
	for _, cmd := range p.Commands {
		if err := cmd.Validate(); err != nil {
			return fmt.Errorf("plugin %s: %w", p.Name, err)
		}
		if seen[cmd.Name] {
			return fmt.Errorf("plugin %s declares command %q twice", p.Name, cmd.Name)
		}
		seen[cmd.Name] = true
	}
	return nil
}
