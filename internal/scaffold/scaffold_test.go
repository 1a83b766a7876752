package scaffold

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelabs/forge/internal/logging"
)

func newTestGenerator() *Generator {
	return NewGenerator(logging.NewLogger(&logging.Config{Level: "error", Output: io.Discard}))
}

func TestNewContext(t *testing.T) {
	ctx, err := NewContext("My Shop", "dev@example.com")
	require.NoError(t, err)

	assert.Equal(t, "My Shop", ctx.ProjectName)
	assert.Equal(t, "my-shop", ctx.ModulePath)
	assert.NotEmpty(t, ctx.SecretKey)
	assert.NotEmpty(t, ctx.ProjectID)
	assert.NotEmpty(t, ctx.CreatedAt)
	assert.Equal(t, "dev@example.com", ctx.Author)

	other, err := NewContext("My Shop", "")
	require.NoError(t, err)
	assert.NotEqual(t, ctx.SecretKey, other.SecretKey)
	assert.NotEqual(t, ctx.ProjectID, other.ProjectID)
}

func TestModulePathFor(t *testing.T) {
	assert.Equal(t, "my-shop", ModulePathFor("My Shop"))
	assert.Equal(t, "order-service", ModulePathFor("order_service"))
	assert.Equal(t, "shop", ModulePathFor("./nested/Shop"))
}

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	g := newTestGenerator()
	out, err := g.Render("t", "module {{.ModulePath}} by {{.Author}}", Context{
		ModulePath: "shop", Author: "dev",
	})
	require.NoError(t, err)
	assert.Equal(t, "module shop by dev", string(out))
}

func TestRenderRejectsBadTemplate(t *testing.T) {
	g := newTestGenerator()
	_, err := g.Render("t", "{{.Unclosed", Context{})
	assert.Error(t, err)
}

func TestMaterializeTree(t *testing.T) {
	g := newTestGenerator()
	dir := t.TempDir()

	err := g.MaterializeTree(dir, map[string]string{
		"go.mod":         "module {{.ModulePath}}\n",
		"internal/a.txt": "{{.ProjectName}}",
	}, Context{ProjectName: "shop", ModulePath: "shop"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	require.NoError(t, err)
	assert.Equal(t, "module shop\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "internal", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "shop", string(data))
}

func TestWriteFileIfMissing(t *testing.T) {
	g := newTestGenerator()
	path := filepath.Join(t.TempDir(), "service.go")

	written, err := g.WriteFileIfMissing(path, []byte("original"))
	require.NoError(t, err)
	assert.True(t, written)

	written, err = g.WriteFileIfMissing(path, []byte("replacement"))
	require.NoError(t, err)
	assert.False(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestResolveModulePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/shop\n\ngo 1.24\n"), 0644))
	nested := filepath.Join(dir, "internal", "httpapi")
	require.NoError(t, os.MkdirAll(nested, 0755))

	path, err := ResolveModulePath(nested)
	require.NoError(t, err)
	assert.Equal(t, "example.com/shop", path)
}

func TestResolveModulePathMissing(t *testing.T) {
	_, err := ResolveModulePath(filepath.Join(t.TempDir(), "nowhere"))
	assert.Error(t, err)
}

func TestInsertAtMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.go")
	content := "func RegisterRoutes() {\n\tregisterAuthRoutes(mux, m)\n\t" + RouteMarker + "\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	require.NoError(t, InsertAtMarker(path, RouteMarker, "registerBookRoutes(mux, m)"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"func RegisterRoutes() {\n\tregisterAuthRoutes(mux, m)\n\tregisterBookRoutes(mux, m)\n\t"+RouteMarker+"\n}\n",
		string(data))

	// Inserting the same line twice is a no-op.
	require.NoError(t, InsertAtMarker(path, RouteMarker, "registerBookRoutes(mux, m)"))
	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestInsertAtMarkerMissingMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.go")
	require.NoError(t, os.WriteFile(path, []byte("func RegisterRoutes() {}\n"), 0644))

	err := InsertAtMarker(path, RouteMarker, "registerBookRoutes(mux, m)")
	assert.Error(t, err)
}
