// Package validation provides input validation for names and paths supplied
// to forge commands, rejecting path traversal and values that could not be
// used as Go identifiers in generated code.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateProjectName checks a project directory name given to `forge new`.
func ValidateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("project name contains path traversal: %s", name)
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("project name must be a relative path: %s", name)
	}
	if strings.ContainsRune(name, '/') {
		return fmt.Errorf("project name must be a plain directory name, not a path: %s", name)
	}
	for _, char := range []string{";", "&", "|", "$", "`", "<", ">", "\"", "'", "\\", "\n", "\x00"} {
		if strings.Contains(name, char) {
			return fmt.Errorf("project name contains invalid character %q", char)
		}
	}
	return nil
}

// ValidateModuleName checks a vertical-slice module name. Module names
// become directory names and Go package names in the generated project.
func ValidateModuleName(name string) error {
	if name == "" {
		return fmt.Errorf("module name cannot be empty")
	}
	for i, r := range name {
		switch {
		case unicode.IsLower(r):
		case r == '_' && i > 0:
		case unicode.IsDigit(r) && i > 0:
		default:
			return fmt.Errorf("module name %q must be a lowercase identifier (letters, digits, underscores)", name)
		}
	}
	return nil
}

// ValidateEntityName checks an entity name given to `forge generate-crud`.
// Entity names become exported Go type names in the generated project.
func ValidateEntityName(name string) error {
	if name == "" {
		return fmt.Errorf("entity name cannot be empty")
	}
	for i, r := range name {
		if i == 0 {
			if !unicode.IsUpper(r) {
				return fmt.Errorf("entity name %q must start with an uppercase letter (exported)", name)
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("entity name %q must be a valid Go identifier", name)
		}
	}
	return nil
}

// ValidatePath checks a user-supplied project path for traversal outside
// the working tree.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	cleaned := filepath.Clean(path)
	if strings.HasPrefix(cleaned, "..") {
		return fmt.Errorf("path escapes the working directory: %s", path)
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("path contains NUL byte")
	}
	return nil
}

// ValidatePluginName checks a plugin stub name. Plugin names become file
// names and command prefixes.
func ValidatePluginName(name string) error {
	if err := ValidateModuleName(strings.ReplaceAll(name, "-", "_")); err != nil {
		return fmt.Errorf("plugin name %q must be lowercase letters, digits, hyphens or underscores", name)
	}
	return nil
}
