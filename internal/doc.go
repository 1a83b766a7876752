// Package internal contains the core implementation packages for forge.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the forge CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - config: Configuration management with validation
//   - errors: Error messages with did-you-mean suggestions
//   - logging: Structured logging with component scoping
//   - plugins: Plugin discovery, loading, and file watching
//   - scaffold: Project, module, and CRUD generation from templates
//   - validation: Input validation for names and paths
//   - version: Build identification
//
// The mediator package at the repository root is deliberately not internal:
// generated projects import it as a library.
//
// # Security Considerations
//
// All user-supplied names and paths pass through the validation package
// before touching the filesystem, preventing traversal and shell
// metacharacter injection in generated trees.
package internal
