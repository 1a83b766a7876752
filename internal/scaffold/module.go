package scaffold

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// moduleContext extends the project context with per-module values.
type moduleContext struct {
	Context
	ModuleName string
}

// ScaffoldModule creates a vertical-slice module under
// projectDir/internal/<name> and hooks it into the module registry.
// Returns false without touching anything when the module already exists.
func (g *Generator) ScaffoldModule(projectDir, moduleName string, ctx Context) (bool, error) {
	moduleDir := filepath.Join(projectDir, "internal", moduleName)
	if _, err := os.Stat(moduleDir); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat %s: %w", moduleDir, err)
	}

	files := moduleTemplate(moduleName)
	mctx := moduleContext{Context: ctx, ModuleName: moduleName}
	for relPath, body := range files {
		content, err := g.Render(relPath, body, mctx)
		if err != nil {
			return false, err
		}
		if err := g.WriteFile(filepath.Join(moduleDir, relPath), content); err != nil {
			return false, err
		}
	}

	if err := g.registerModule(projectDir, moduleName, ctx.ModulePath); err != nil {
		return false, err
	}

	g.logger.Info(context.Background(), "scaffolded module", "module", moduleName)
	return true, nil
}

// registerModule inserts the module's import and mount lines into
// internal/modules/modules.go.
func (g *Generator) registerModule(projectDir, moduleName, modulePath string) error {
	registryPath := filepath.Join(projectDir, "internal", "modules", "modules.go")

	importLine := fmt.Sprintf("%q", modulePath+"/internal/"+moduleName)
	if err := InsertAtMarker(registryPath, ModuleImportMarker, importLine); err != nil {
		return err
	}
	mountLine := fmt.Sprintf("%s.Mount(mux, m)", moduleName)
	return InsertAtMarker(registryPath, ModuleMountMarker, mountLine)
}

// InsertAtMarker inserts line directly above the first occurrence of marker
// in the file at path, matching the marker's indentation. Inserting an
// already-present line is a no-op.
func InsertAtMarker(path, marker, line string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(data)

	if strings.Contains(content, line) {
		return nil
	}

	lines := strings.Split(content, "\n")
	for i, existing := range lines {
		if strings.TrimSpace(existing) != marker {
			continue
		}
		indent := existing[:len(existing)-len(strings.TrimLeft(existing, " \t"))]
		updated := append(lines[:i:i], indent+line)
		updated = append(updated, lines[i:]...)
		return os.WriteFile(path, []byte(strings.Join(updated, "\n")), 0644)
	}
	return fmt.Errorf("marker %q not found in %s", marker, path)
}

// moduleTemplate returns the file set for one module, relative to the
// module directory. The auth module gets a working registration and login
// slice; everything else gets a ping route and layer placeholders.
func moduleTemplate(moduleName string) map[string]string {
	if moduleName == "auth" {
		return map[string]string{
			"module.go":   authModuleMount,
			"user.go":     authModuleUser,
			"service.go":  authModuleService,
			"handlers.go": authModuleHandlers,
		}
	}
	return map[string]string{
		"module.go":         genericModuleMount,
		"domain/doc.go":     genericModuleDomainDoc,
		"service/doc.go":    genericModuleServiceDoc,
		"repository/doc.go": genericModuleRepositoryDoc,
	}
}

const genericModuleMount = `// Package {{.ModuleName}} is a vertical-slice module. Its routes, handlers
// and services live together under this directory.
package {{.ModuleName}}

import (
	"net/http"

	"github.com/forgelabs/forge/mediator"
)

// Mount registers the module's handlers and routes. Lines below the marker
// are maintained by forge generate-crud.
func Mount(mux *http.ServeMux, m *mediator.Mediator) {
	mux.HandleFunc("GET /{{.ModuleName}}/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(` + "`" + `{"module":"{{.ModuleName}}","status":"ok"}` + "`" + `))
	})
	` + RouteMarker + `
}
`

const genericModuleDomainDoc = `// Package domain holds the {{.ModuleName}} module's entities.
package domain
`

const genericModuleServiceDoc = `// Package service holds the {{.ModuleName}} module's application services.
package service
`

const genericModuleRepositoryDoc = `// Package repository holds the {{.ModuleName}} module's persistence.
package repository
`

const authModuleMount = `// Package auth is the authentication module: user accounts, registration
// and login.
package auth

import (
	"net/http"

	"github.com/forgelabs/forge/mediator"

	"{{.ModulePath}}/internal/platform"
)

// Mount registers the module's handlers and routes. Lines below the marker
// are maintained by forge generate-crud.
func Mount(mux *http.ServeMux, m *mediator.Mediator) {
	svc := NewService(NewInMemoryUserRepository())
	Register(m, svc)

	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string ` + "`json:\"username\"`" + `
			Password string ` + "`json:\"password\"`" + `
		}
		if !platform.DecodeJSON(w, r, &body) {
			return
		}
		res := m.Send(r.Context(), RegisterUserCommand{Username: body.Username, Password: body.Password})
		platform.WriteResult(w, res)
	})

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string ` + "`json:\"username\"`" + `
			Password string ` + "`json:\"password\"`" + `
		}
		if !platform.DecodeJSON(w, r, &body) {
			return
		}
		res := m.Ask(r.Context(), LoginQuery{Username: body.Username, Password: body.Password})
		platform.WriteResult(w, res)
	})
	` + RouteMarker + `
}
`

const authModuleUser = `package auth

import "sync"

// User is a registered account.
type User struct {
	ID           int
	Username     string
	PasswordHash string
	Roles        []string
}

// UserRepository stores users.
type UserRepository interface {
	Create(username, passwordHash string, roles []string) User
	GetByUsername(username string) (User, bool)
}

// InMemoryUserRepository is the default repository used until a real
// database is wired in.
type InMemoryUserRepository struct {
	mu         sync.RWMutex
	byUsername map[string]User
	nextID     int
}

// NewInMemoryUserRepository creates an empty repository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{byUsername: make(map[string]User), nextID: 1}
}

func (r *InMemoryUserRepository) Create(username, passwordHash string, roles []string) User {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := User{ID: r.nextID, Username: username, PasswordHash: passwordHash, Roles: roles}
	r.byUsername[username] = user
	r.nextID++
	return user
}

func (r *InMemoryUserRepository) GetByUsername(username string) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byUsername[username]
	return user, ok
}
`

const authModuleService = `package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

// ErrUserExists is returned when registering a taken username.
var ErrUserExists = errors.New("user already exists")

// Service handles account registration and authentication.
type Service struct {
	repo UserRepository
}

// NewService creates an auth service backed by repo.
func NewService(repo UserRepository) *Service {
	return &Service{repo: repo}
}

// Register creates a new user account.
func (s *Service) Register(username, password string) (User, error) {
	if _, exists := s.repo.GetByUsername(username); exists {
		return User{}, ErrUserExists
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

const authModuleHandlers = `package auth

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
