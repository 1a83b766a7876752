package scaffold

// Template sets for the two project flavors. Each map key is a path
// relative to the project root; each value is a text/template body rendered
// against a Context.

// LayeredTemplate returns the file set for a layered project: a single
// service with domain, application, infrastructure and presentation layers,
// dispatching through the forge mediator.
func LayeredTemplate() map[string]string {
	return map[string]string{
		"go.mod":     layeredGoMod,
		".gitignore": projectGitignore,
		"README.md":  layeredReadme,
		"main.go":    layeredMain,

		"internal/config/config.go":              projectConfig,
		"internal/domain/user.go":                domainUser,
		"internal/repository/user_repository.go": userRepository,
		"internal/auth/service.go":               authService,
		"internal/auth/handlers.go":              authHandlers,
		"internal/httpapi/respond.go":            httpapiRespond,
		"internal/httpapi/routes.go":             layeredRoutes,
		"internal/httpapi/auth_routes.go":        authRoutes,
	}
}

// ModularTemplate returns the base file set for a modular project. Module
// slices are scaffolded separately and hook themselves into
// internal/modules/modules.go.
func ModularTemplate() map[string]string {
	return map[string]string{
		"go.mod":     modularGoMod,
		".gitignore": projectGitignore,
		"README.md":  modularReadme,
		"main.go":    modularMain,

		"internal/config/config.go":    projectConfig,
		"internal/platform/respond.go": platformRespond,
		"internal/modules/modules.go":  modulesRegistry,
	}
}

// RouteMarker anchors route registrations inserted by generate-crud.
const RouteMarker = "// forge:routes"

// ModuleImportMarker anchors module import lines inserted by add-module.
const ModuleImportMarker = "// forge:module-imports"

// ModuleMountMarker anchors module mount calls inserted by add-module.
const ModuleMountMarker = "// forge:module-mounts"

const layeredGoMod = `module {{.ModulePath}}

go 1.24

require github.com/forgelabs/forge v{{.ForgeVersion}}
`

const modularGoMod = `module {{.ModulePath}}

go 1.24

require github.com/forgelabs/forge v{{.ForgeVersion}}
`

const projectGitignore = `bin/
*.log
.env
`

const layeredReadme = `# {{.ProjectName}}

Layered backend service scaffolded by forge {{.ForgeVersion}} on {{.CreatedAt}}.

Layout:

- ` + "`internal/domain`" + ` — entities
- ` + "`internal/repository`" + ` — persistence
- ` + "`internal/auth`" + ` and sibling packages — application services and
  their commands/queries, registered against the mediator
- ` + "`internal/httpapi`" + ` — HTTP routes translating mediator Results
  into responses

Run it:

    go run .

Then:

    curl localhost:8080/health
`

const modularReadme = `# {{.ProjectName}}

Modular (vertical slice) backend service scaffolded by forge {{.ForgeVersion}}
on {{.CreatedAt}}.

Each module under ` + "`internal/`" + ` owns its domain, services and routes, and
mounts itself through ` + "`internal/modules`" + `. Add more with:

    forge add-module payments

Run it:

    go run .
`

const layeredMain = `package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/forgelabs/forge/mediator"

	"{{.ModulePath}}/internal/config"
	"{{.ModulePath}}/internal/httpapi"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	m := mediator.New(mediator.WithLogger(logger))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(` + "`" + `{"status":"ok"}` + "`" + `))
	})
	httpapi.RegisterRoutes(mux, m)

	logger.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
`

const modularMain = `package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/forgelabs/forge/mediator"

	"{{.ModulePath}}/internal/config"
	"{{.ModulePath}}/internal/modules"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	m := mediator.New(mediator.WithLogger(logger))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(` + "`" + `{"status":"ok"}` + "`" + `))
	})
	modules.Mount(mux, m)

	logger.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
`

const projectConfig = `// Package config loads service settings from the environment.
package config

import "os"

// Config holds runtime settings.
type Config struct {
	Addr      string
	SecretKey string
}

// Load reads configuration from the environment, falling back to the
// values stamped at scaffold time.
func Load() Config {
	cfg := Config{
		Addr:      ":8080",
		SecretKey: "{{.SecretKey}}",
	}
	if addr := os.Getenv("ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if key := os.Getenv("SECRET_KEY"); key != "" {
		cfg.SecretKey = key
	}
	return cfg
}
`

const domainUser = `// Package domain holds the service's entities.
package domain

// User is a registered account.
type User struct {
	ID           int
	Username     string
	PasswordHash string
	Roles        []string
}
`

const userRepository = `// Package repository provides persistence for domain entities.
package repository

import (
	"sync"

	"{{.ModulePath}}/internal/domain"
)

// UserRepository stores users.
type UserRepository interface {
	Create(username, passwordHash string, roles []string) domain.User
	GetByUsername(username string) (domain.User, bool)
	GetByID(id int) (domain.User, bool)
}

// InMemoryUserRepository is the default repository used until a real
// database is wired in.
type InMemoryUserRepository struct {
	mu         sync.RWMutex
	byID       map[int]domain.User
	byUsername map[string]int
	nextID     int
}

// NewInMemoryUserRepository creates an empty repository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:       make(map[int]domain.User),
		byUsername: make(map[string]int),
		nextID:     1,
	}
}

func (r *InMemoryUserRepository) Create(username, passwordHash string, roles []string) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := domain.User{ID: r.nextID, Username: username, PasswordHash: passwordHash, Roles: roles}
	r.byID[user.ID] = user
	r.byUsername[username] = user.ID
	r.nextID++
	return user
}

func (r *InMemoryUserRepository) GetByUsername(username string) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[username]
	if !ok {
		return domain.User{}, false
	}
	user, ok := r.byID[id]
	return user, ok
}

func (r *InMemoryUserRepository) GetByID(id int) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	return user, ok
}
`

const authService = `// Package auth implements registration and login.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"{{.ModulePath}}/internal/domain"
	"{{.ModulePath}}/internal/repository"
)

// ErrUserExists is returned when registering a taken username.
var ErrUserExists = errors.New("user already exists")

// Service handles account registration and authentication.
type Service struct {
	repo repository.UserRepository
}

// NewService creates an auth service backed by repo.
func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

// Register creates a new user account.
func (s *Service) Register(username, password string) (domain.User, error) {
	if _, exists := s.repo.GetByUsername(username); exists {
		return domain.User{}, ErrUserExists
	}
	return s.repo.Create(username, hashPassword(password), []string{"user"}), nil
}

// Authenticate checks a username/password pair.
func (s *Service) Authenticate(username, password string) bool {
	user, ok := s.repo.GetByUsername(username)
	if !ok {
		return false
	}
	expected := hashPassword(password)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(user.PasswordHash)) == 1
}

// hashPassword is a placeholder; swap in a real KDF (bcrypt, argon2)
// before going to production.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
`

const authHandlers = `package auth

import (
	"context"

	"github.com/forgelabs/forge/mediator"
)

// RegisterUserCommand creates an account.
type RegisterUserCommand struct {
	Username string
	Password string
}

func (RegisterUserCommand) CommandName() string { return "RegisterUser" }

// LoginQuery checks credentials.
type LoginQuery struct {
	Username string
	Password string
}

func (LoginQuery) QueryName() string { return "Login" }

// Register binds the auth handlers to the mediator.
func Register(m *mediator.Mediator, svc *Service) {
	m.RegisterCommand("RegisterUser", func(ctx context.Context, msg mediator.Message) (any, error) {
		cmd := msg.(RegisterUserCommand)
		user, err := svc.Register(cmd.Username, cmd.Password)
		if err == ErrUserExists {
			return mediator.Fail("VALIDATION_ERROR"), nil
		}
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": user.ID, "username": user.Username}, nil
	})

	m.RegisterQuery("Login", func(ctx context.Context, msg mediator.Message) (any, error) {
		q := msg.(LoginQuery)
		if !svc.Authenticate(q.Username, q.Password) {
			return mediator.Fail("UNAUTHORIZED"), nil
		}
		return map[string]any{"status": "ok"}, nil
	})
}
`

const httpapiRespond = `// Package httpapi mounts HTTP routes and adapts mediator Results into
// transport responses.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/forgelabs/forge/mediator"
)

// errorStatus maps known failure reasons to HTTP status codes; anything
// else becomes a generic client error.
var errorStatus = map[string]int{
	"NOT_FOUND":        http.StatusNotFound,
	"VALIDATION_ERROR": http.StatusUnprocessableEntity,
	"UNAUTHORIZED":     http.StatusUnauthorized,
	"FORBIDDEN":        http.StatusForbidden,
}

// WriteResult writes a mediator Result as a JSON response.
func WriteResult(w http.ResponseWriter, res mediator.Result) {
	w.Header().Set("Content-Type", "application/json")
	if !res.OK() {
		status, ok := errorStatus[res.Err()]
		if !ok {
			status = http.StatusBadRequest
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": res.Err()})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"data": res.Value()})
}

// DecodeJSON parses a request body into dst, reporting a client error on
// malformed input.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
`

const layeredRoutes = `package httpapi

import (
	"net/http"

	"github.com/forgelabs/forge/mediator"
)

// RegisterRoutes mounts every route group on mux. Lines below the marker
// are maintained by forge generate-crud.
func RegisterRoutes(mux *http.ServeMux, m *mediator.Mediator) {
	registerAuthRoutes(mux, m)
	` + RouteMarker + `
}
`

const authRoutes = `package httpapi

import (
	"net/http"

	"github.com/forgelabs/forge/mediator"

	"{{.ModulePath}}/internal/auth"
	"{{.ModulePath}}/internal/repository"
)

func registerAuthRoutes(mux *http.ServeMux, m *mediator.Mediator) {
	svc := auth.NewService(repository.NewInMemoryUserRepository())
	auth.Register(m, svc)

	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string ` + "`json:\"username\"`" + `
			Password string ` + "`json:\"password\"`" + `
		}
		if !DecodeJSON(w, r, &body) {
			return
		}
		res := m.Send(r.Context(), auth.RegisterUserCommand{Username: body.Username, Password: body.Password})
		WriteResult(w, res)
	})

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string ` + "`json:\"username\"`" + `
			Password string ` + "`json:\"password\"`" + `
		}
		if !DecodeJSON(w, r, &body) {
			return
		}
		res := m.Ask(r.Context(), auth.LoginQuery{Username: body.Username, Password: body.Password})
		WriteResult(w, res)
	})
}
`

const platformRespond = `// Package platform holds shared transport helpers for modules.
package platform

import (
	"encoding/json"
	"net/http"

	"github.com/forgelabs/forge/mediator"
)

// errorStatus maps known failure reasons to HTTP status codes; anything
// else becomes a generic client error.
var errorStatus = map[string]int{
	"NOT_FOUND":        http.StatusNotFound,
	"VALIDATION_ERROR": http.StatusUnprocessableEntity,
	"UNAUTHORIZED":     http.StatusUnauthorized,
	"FORBIDDEN":        http.StatusForbidden,
}

// WriteResult writes a mediator Result as a JSON response.
func WriteResult(w http.ResponseWriter, res mediator.Result) {
	w.Header().Set("Content-Type", "application/json")
	if !res.OK() {
		status, ok := errorStatus[res.Err()]
		if !ok {
			status = http.StatusBadRequest
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": res.Err()})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"data": res.Value()})
}

// DecodeJSON parses a request body into dst, reporting a client error on
// malformed input.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
`

const modulesRegistry = `// Package modules wires every vertical-slice module into the service.
// The marker lines below are maintained by forge add-module.
package modules

import (
	"net/http"

	"github.com/forgelabs/forge/mediator"
	` + ModuleImportMarker + `
)

// Mount registers every module's handlers and routes.
func Mount(mux *http.ServeMux, m *mediator.Mediator) {
	` + ModuleMountMarker + `
}
`
