// Package scaffold materializes project trees, vertical-slice modules, and
// CRUD skeletons from embedded templates with placeholder substitution.
package scaffold

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/forgelabs/forge/internal/logging"
	"github.com/forgelabs/forge/internal/version"
)

// Context carries the substitution values rendered into every template.
type Context struct {
	ProjectName  string
	ModulePath   string
	SecretKey    string
	ProjectID    string
	CreatedAt    string
	ForgeVersion string
	Author       string
}

// NewContext builds a substitution context for a fresh project. The module
// path defaults to a cleaned-up form of the project name.
func NewContext(projectName, author string) (Context, error) {
	secret, err := generateSecret()
	if err != nil {
		return Context{}, fmt.Errorf("failed to generate secret key: %w", err)
	}
	return Context{
		ProjectName:  projectName,
		ModulePath:   ModulePathFor(projectName),
		SecretKey:    secret,
		ProjectID:    uuid.NewString(),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		ForgeVersion: version.Version,
		Author:       author,
	}, nil
}

// ModulePathFor derives a Go module path from a project directory name.
func ModulePathFor(projectName string) string {
	name := filepath.Base(filepath.Clean(projectName))
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "_", "-")
	return name
}

// generateSecret returns 32 random bytes as URL-safe base64.
func generateSecret() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Generator renders template sets into target directories.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{logger: logger.WithComponent("scaffold")}
}

// Render executes a single template body against ctx.
func (g *Generator) Render(name, body string, ctx any) ([]byte, error) {
	tmpl, err := template.New(name).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// MaterializeTree renders every file of a template set under targetDir,
// creating parent directories as needed. Files render in path order so
// failures are deterministic.
func (g *Generator) MaterializeTree(targetDir string, files map[string]string, ctx Context) error {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, relPath := range paths {
		content, err := g.Render(relPath, files[relPath], ctx)
		if err != nil {
			return err
		}
		if err := g.WriteFile(filepath.Join(targetDir, relPath), content); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes content, creating parent directories.
func (g *Generator) WriteFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteFileIfMissing writes content unless the file already exists.
// Returns true when the file was written.
func (g *Generator) WriteFileIfMissing(path string, content []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := g.WriteFile(path, content); err != nil {
		return false, err
	}
	return true, nil
}

// ResolveModulePath reads the module path from the go.mod closest to dir,
// walking up parent directories.
func ResolveModulePath(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	for {
		data, err := os.ReadFile(filepath.Join(current, "go.mod"))
		if err == nil {
			for _, line := range strings.Split(string(data), "\n") {
				line = strings.TrimSpace(line)
				if after, ok := strings.CutPrefix(line, "module "); ok {
					return strings.TrimSpace(after), nil
				}
			}
			return "", fmt.Errorf("no module directive in %s", filepath.Join(current, "go.mod"))
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no go.mod found above %s", dir)
		}
		current = parent
	}
}
