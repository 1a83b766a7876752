package plugins

import (
	"fmt"
	"os"
	"path/filepath"
)

// stubTemplate is the Go stub written by forge make-plugin. The %s verbs
// are the plugin name.
const stubTemplate = `//go:build ignore

package main

// Commands declares the commands this plugin adds to forge.
// Edit the entries or add more; forge reloads stubs on every run.
func Commands() []map[string]string {
	return []map[string]string{
		{
			"name":   "%s-hello",
			"short":  "Say hello from the %s plugin",
			"output": "Hello from plugin %s!",
		},
	}
}
`

// WriteStub creates a starter plugin stub in dir, named after the plugin.
// Returns the path written, or an error if the stub already exists.
func WriteStub(dir, name string) (string, error) {
	path := filepath.Join(dir, name+"_plugin.go")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("plugin %s already exists at %s", name, path)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create plugin directory %s: %w", dir, err)
	}
	content := fmt.Sprintf(stubTemplate, name, name, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write plugin stub: %w", err)
	}
	return path, nil
}
