package scaffold

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// CrudOptions selects what GenerateCRUD emits.
type CrudOptions struct {
	Entity string  // exported entity name, e.g. "Book"
	Fields []Field // parsed --fields spec
	Module string  // target module for modular projects; empty for layered
	Full   bool    // also generate update, delete and list
	Async  bool    // routes dispatch through the async mediator API
	Gorm   bool    // also emit a gorm repository skeleton
}

// crudContext carries the values rendered into the CRUD templates.
type crudContext struct {
	Entity      string
	EntityLower string
	Package     string // plural package name, e.g. "books"
	Route       string // URL path segment, e.g. "books"
	Fields      []Field
	Full        bool
	Async       bool
	NeedsTime   bool
	Modular     bool
	RoutesPkg   string // "httpapi" for layered, module name for modular
	ModulePath  string
	CrudImport  string // import path of the entity package
}

// GenerateCRUD writes the command/query/service skeleton for one entity and
// wires its routes into the project. The service file is never overwritten
// so hand-edited business logic survives regeneration.
func (g *Generator) GenerateCRUD(projectDir string, opts CrudOptions) error {
	modulePath, err := ResolveModulePath(projectDir)
	if err != nil {
		return err
	}

	plural := Pluralize(opts.Entity)
	ctx := crudContext{
		Entity:      opts.Entity,
		EntityLower: strings.ToLower(opts.Entity),
		Package:     plural,
		Route:       plural,
		Fields:      opts.Fields,
		Full:        opts.Full,
		Async:       opts.Async,
		NeedsTime:   NeedsTimeImport(opts.Fields),
		Modular:     opts.Module != "",
		RoutesPkg:   "httpapi",
		ModulePath:  modulePath,
	}

	// Layered projects keep entity packages under internal/ and routes in
	// internal/httpapi; modular projects nest both inside the module.
	entityDir := filepath.Join(projectDir, "internal", plural)
	routesDir := filepath.Join(projectDir, "internal", "httpapi")
	registryFile := filepath.Join(routesDir, "routes.go")
	ctx.CrudImport = modulePath + "/internal/" + plural
	if ctx.Modular {
		moduleDir := filepath.Join(projectDir, "internal", opts.Module)
		entityDir = filepath.Join(moduleDir, plural)
		routesDir = moduleDir
		registryFile = filepath.Join(moduleDir, "module.go")
		ctx.RoutesPkg = opts.Module
		ctx.CrudImport = modulePath + "/internal/" + opts.Module + "/" + plural
	}

	files := map[string]string{
		filepath.Join(entityDir, "commands.go"): crudCommands,
		filepath.Join(entityDir, "queries.go"):  crudQueries,
		filepath.Join(entityDir, "handlers.go"): crudHandlers,
	}
	for path, body := range files {
		content, err := g.Render(filepath.Base(path), body, ctx)
		if err != nil {
			return err
		}
		if err := g.WriteFile(path, content); err != nil {
			return err
		}
	}

	serviceContent, err := g.Render("service.go", crudService, ctx)
	if err != nil {
		return err
	}
	written, err := g.WriteFileIfMissing(filepath.Join(entityDir, "service.go"), serviceContent)
	if err != nil {
		return err
	}
	if !written {
		g.logger.Info(context.Background(), "kept existing service",
			"path", filepath.Join(entityDir, "service.go"))
	}

	if opts.Gorm {
		gormContent, err := g.Render("gorm_repository.go", crudGormRepository, ctx)
		if err != nil {
			return err
		}
		if err := g.WriteFile(filepath.Join(entityDir, "gorm_repository.go"), gormContent); err != nil {
			return err
		}
	}

	routesContent, err := g.Render("routes.go", crudRoutes, ctx)
	if err != nil {
		return err
	}
	routesFile := filepath.Join(routesDir, ctx.EntityLower+"_routes.go")
	if err := g.WriteFile(routesFile, routesContent); err != nil {
		return err
	}

	registration := fmt.Sprintf("register%sRoutes(mux, m)", opts.Entity)
	if err := InsertAtMarker(registryFile, RouteMarker, registration); err != nil {
		return fmt.Errorf("failed to register routes: %w", err)
	}

	g.logger.Info(context.Background(), "generated crud",
		"entity", opts.Entity, "package", plural, "full", opts.Full, "async", opts.Async)
	return nil
}

const crudCommands = `package {{.Package}}
{{- if .NeedsTime}}

import "time"
{{- end}}

// Create{{.Entity}}Command creates a {{.EntityLower}}.
type Create{{.Entity}}Command struct {
{{- range .Fields}}
	{{.GoName}} {{.Type}}
{{- end}}
}

func (Create{{.Entity}}Command) CommandName() string { return "Create{{.Entity}}" }
{{- if .Full}}

// Update{{.Entity}}Command replaces an existing {{.EntityLower}}.
type Update{{.Entity}}Command struct {
	ID int
{{- range .Fields}}
	{{.GoName}} {{.Type}}
{{- end}}
}

func (Update{{.Entity}}Command) CommandName() string { return "Update{{.Entity}}" }

// Delete{{.Entity}}Command removes a {{.EntityLower}}.
type Delete{{.Entity}}Command struct {
	ID int
}

func (Delete{{.Entity}}Command) CommandName() string { return "Delete{{.Entity}}" }
{{- end}}
`

const crudQueries = `package {{.Package}}

// Get{{.Entity}}Query fetches one {{.EntityLower}} by id.
type Get{{.Entity}}Query struct {
	ID int
}

func (Get{{.Entity}}Query) QueryName() string { return "Get{{.Entity}}" }
{{- if .Full}}

// List{{.Entity}}Query lists every {{.EntityLower}}.
type List{{.Entity}}Query struct{}

func (List{{.Entity}}Query) QueryName() string { return "List{{.Entity}}" }
{{- end}}
`

const crudHandlers = `package {{.Package}}

import (
	"context"

	"github.com/forgelabs/forge/mediator"
)

// Register binds the {{.Package}} handlers to the mediator.
func Register(m *mediator.Mediator, svc *Service) {
	m.RegisterCommand("Create{{.Entity}}", func(ctx context.Context, msg mediator.Message) (any, error) {
		cmd := msg.(Create{{.Entity}}Command)
		return svc.Create({{.Entity}}{
{{- range .Fields}}
			{{.GoName}}: cmd.{{.GoName}},
{{- end}}
		}), nil
	})

	m.RegisterQuery("Get{{.Entity}}", func(ctx context.Context, msg mediator.Message) (any, error) {
		q := msg.(Get{{.Entity}}Query)
		item, ok := svc.Get(q.ID)
		if !ok {
			return mediator.Fail("NOT_FOUND"), nil
		}
		return item, nil
	})
{{- if .Full}}

	m.RegisterCommand("Update{{.Entity}}", func(ctx context.Context, msg mediator.Message) (any, error) {
		cmd := msg.(Update{{.Entity}}Command)
		item, ok := svc.Update(cmd.ID, {{.Entity}}{
{{- range .Fields}}
			{{.GoName}}: cmd.{{.GoName}},
{{- end}}
		})
		if !ok {
			return mediator.Fail("NOT_FOUND"), nil
		}
		return item, nil
	})

	m.RegisterCommand("Delete{{.Entity}}", func(ctx context.Context, msg mediator.Message) (any, error) {
		cmd := msg.(Delete{{.Entity}}Command)
		if !svc.Delete(cmd.ID) {
			return mediator.Fail("NOT_FOUND"), nil
		}
		return map[string]any{"deleted": cmd.ID}, nil
	})

	m.RegisterQuery("List{{.Entity}}", func(ctx context.Context, msg mediator.Message) (any, error) {
		return svc.List(), nil
	})
{{- end}}
}
`

const crudService = `package {{.Package}}

import (
	"sort"
	"sync"
{{- if .NeedsTime}}
	"time"
{{- end}}
)

// {{.Entity}} is the {{.Package}} entity.
type {{.Entity}} struct {
	ID int
{{- range .Fields}}
	{{.GoName}} {{.Type}}
{{- end}}
}

// Service stores {{.Package}} in memory. Replace the map with a real
// repository when persistence is needed.
type Service struct {
	mu     sync.RWMutex
	items  map[int]{{.Entity}}
	nextID int
}

// NewService creates an empty service.
func NewService() *Service {
	return &Service{items: make(map[int]{{.Entity}}), nextID: 1}
}

// Create stores a new {{.EntityLower}} and returns it with its id.
func (s *Service) Create(item {{.Entity}}) {{.Entity}} {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.nextID
	s.items[item.ID] = item
	s.nextID++
	return item
}

// Get fetches a {{.EntityLower}} by id.
func (s *Service) Get(id int) ({{.Entity}}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// Update replaces the {{.EntityLower}} with the given id.
func (s *Service) Update(id int, item {{.Entity}}) ({{.Entity}}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return {{.Entity}}{}, false
	}
	item.ID = id
	s.items[id] = item
	return item, true
}

// Delete removes a {{.EntityLower}}, reporting whether it existed.
func (s *Service) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	return true
}

// List returns every {{.EntityLower}} ordered by id.
func (s *Service) List() []{{.Entity}} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]{{.Entity}}, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
`

const crudGormRepository = `package {{.Package}}

// GormRepository persists {{.Package}} with gorm. Wire it up by adding
// gorm.io/gorm (and a driver) to go.mod, then swap it in for the in-memory
// Service.

import (
{{- if .NeedsTime}}
	"time"
{{- end}}

	"gorm.io/gorm"
)

// {{.Entity}}Model is the database row for a {{.EntityLower}}.
type {{.Entity}}Model struct {
	ID int ` + "`gorm:\"primaryKey\"`" + `
{{- range .Fields}}
	{{.GoName}} {{.Type}}
{{- end}}
}

// TableName pins the table name to the route segment.
func ({{.Entity}}Model) TableName() string { return "{{.Route}}" }

// GormRepository stores {{.Package}} in a database.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a repository and migrates the table.
func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if err := db.AutoMigrate(&{{.Entity}}Model{}); err != nil {
		return nil, err
	}
	return &GormRepository{db: db}, nil
}

// Create inserts a {{.EntityLower}}.
func (r *GormRepository) Create(item {{.Entity}}) ({{.Entity}}, error) {
	model := toModel(item)
	if err := r.db.Create(&model).Error; err != nil {
		return {{.Entity}}{}, err
	}
	return fromModel(model), nil
}

// Get fetches a {{.EntityLower}} by id.
func (r *GormRepository) Get(id int) ({{.Entity}}, bool, error) {
	var model {{.Entity}}Model
	err := r.db.First(&model, id).Error
	if err == gorm.ErrRecordNotFound {
		return {{.Entity}}{}, false, nil
	}
	if err != nil {
		return {{.Entity}}{}, false, err
	}
	return fromModel(model), true, nil
}

func toModel(item {{.Entity}}) {{.Entity}}Model {
	return {{.Entity}}Model{
		ID: item.ID,
{{- range .Fields}}
		{{.GoName}}: item.{{.GoName}},
{{- end}}
	}
}

func fromModel(model {{.Entity}}Model) {{.Entity}} {
	return {{.Entity}}{
		ID: model.ID,
{{- range .Fields}}
		{{.GoName}}: model.{{.GoName}},
{{- end}}
	}
}
`

const crudRoutes = `package {{.RoutesPkg}}

import (
	"net/http"
	"strconv"
{{- if .NeedsTime}}
	"time"
{{- end}}

	"github.com/forgelabs/forge/mediator"

	"{{.CrudImport}}"
{{- if .Modular}}
	"{{.ModulePath}}/internal/platform"
{{- end}}
)

func register{{.Entity}}Routes(mux *http.ServeMux, m *mediator.Mediator) {
	svc := {{.Package}}.NewService()
	{{.Package}}.Register(m, svc)

	mux.HandleFunc("POST /{{.Route}}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
{{- range .Fields}}
			{{.GoName}} {{.Type}} ` + "`" + `json:"{{.Name}}"` + "`" + `
{{- end}}
		}
		if !{{if .Modular}}platform.{{end}}DecodeJSON(w, r, &body) {
			return
		}
		cmd := {{.Package}}.Create{{.Entity}}Command{
{{- range .Fields}}
			{{.GoName}}: body.{{.GoName}},
{{- end}}
		}
{{- if .Async}}
		res := <-m.SendAsync(r.Context(), cmd)
{{- else}}
		res := m.Send(r.Context(), cmd)
{{- end}}
		{{if .Modular}}platform.{{end}}WriteResult(w, res)
	})

	mux.HandleFunc("GET /{{.Route}}/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
{{- if .Async}}
		res := <-m.AskAsync(r.Context(), {{.Package}}.Get{{.Entity}}Query{ID: id})
{{- else}}
		res := m.Ask(r.Context(), {{.Package}}.Get{{.Entity}}Query{ID: id})
{{- end}}
		{{if .Modular}}platform.{{end}}WriteResult(w, res)
	})
{{- if .Full}}

	mux.HandleFunc("PUT /{{.Route}}/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		var body struct {
{{- range .Fields}}
			{{.GoName}} {{.Type}} ` + "`" + `json:"{{.Name}}"` + "`" + `
{{- end}}
		}
		if !{{if .Modular}}platform.{{end}}DecodeJSON(w, r, &body) {
			return
		}
		cmd := {{.Package}}.Update{{.Entity}}Command{
			ID: id,
{{- range .Fields}}
			{{.GoName}}: body.{{.GoName}},
{{- end}}
		}
{{- if .Async}}
		res := <-m.SendAsync(r.Context(), cmd)
{{- else}}
		res := m.Send(r.Context(), cmd)
{{- end}}
		{{if .Modular}}platform.{{end}}WriteResult(w, res)
	})

	mux.HandleFunc("DELETE /{{.Route}}/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
{{- if .Async}}
		res := <-m.SendAsync(r.Context(), {{.Package}}.Delete{{.Entity}}Command{ID: id})
{{- else}}
		res := m.Send(r.Context(), {{.Package}}.Delete{{.Entity}}Command{ID: id})
{{- end}}
		{{if .Modular}}platform.{{end}}WriteResult(w, res)
	})

	mux.HandleFunc("GET /{{.Route}}", func(w http.ResponseWriter, r *http.Request) {
{{- if .Async}}
		res := <-m.AskAsync(r.Context(), {{.Package}}.List{{.Entity}}Query{})
{{- else}}
		res := m.Ask(r.Context(), {{.Package}}.List{{.Entity}}Query{})
{{- end}}
		{{if .Modular}}platform.{{end}}WriteResult(w, res)
	})
{{- end}}
}
`
