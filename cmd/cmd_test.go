package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chtemp moves the test into a fresh directory and restores the old one.
func chtemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	oldDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(oldDir) })

	require.NoError(t, os.Chdir(tempDir))
	viper.Reset()
	t.Cleanup(viper.Reset)
	return tempDir
}

func resetNewFlags() {
	newModular = false
	newFlavor = ""
	newModules = nil
	newModule = ""
	newForce = false
}

func resetCrudFlags() {
	crudFields = ""
	crudModule = ""
	crudPath = "."
	crudFull = false
	crudAsync = false
	crudGorm = false
}

func TestNewCommandLayered(t *testing.T) {
	chtemp(t)
	resetNewFlags()

	err := runNewCommand(&cobra.Command{}, []string{"shop"})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join("shop", "go.mod"))
	assert.FileExists(t, filepath.Join("shop", "main.go"))
	assert.FileExists(t, filepath.Join("shop", "internal", "httpapi", "routes.go"))
	assert.NoDirExists(t, filepath.Join("shop", "internal", "modules"))
}

func TestNewCommandModular(t *testing.T) {
	chtemp(t)
	resetNewFlags()
	newModular = true
	newModules = []string{"auth", "billing"}

	err := runNewCommand(&cobra.Command{}, []string{"shop"})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join("shop", "internal", "modules", "modules.go"))
	assert.DirExists(t, filepath.Join("shop", "internal", "auth"))
	assert.DirExists(t, filepath.Join("shop", "internal", "billing"))
}

func TestNewCommandModularAlwaysIncludesAuth(t *testing.T) {
	chtemp(t)
	resetNewFlags()
	newModular = true
	newModules = []string{"billing"}

	err := runNewCommand(&cobra.Command{}, []string{"shop"})
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join("shop", "internal", "auth"))
	assert.DirExists(t, filepath.Join("shop", "internal", "billing"))
}

func TestNewCommandModularPromptsForModules(t *testing.T) {
	chtemp(t)
	resetNewFlags()
	newModular = true

	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("billing, payments\n"))

	err := runNewCommand(cmd, []string{"shop"})
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join("shop", "internal", "auth"))
	assert.DirExists(t, filepath.Join("shop", "internal", "billing"))
	assert.DirExists(t, filepath.Join("shop", "internal", "payments"))
}

func TestNewCommandForce(t *testing.T) {
	chtemp(t)
	resetNewFlags()
	require.NoError(t, os.Mkdir("shop", 0755))
	newForce = true

	err := runNewCommand(&cobra.Command{}, []string{"shop"})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("shop", "go.mod"))
}

func TestNewCommandModulePathOverride(t *testing.T) {
	chtemp(t)
	resetNewFlags()
	newModule = "github.com/acme/shop"

	err := runNewCommand(&cobra.Command{}, []string{"shop"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join("shop", "go.mod"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "module github.com/acme/shop")
}

func TestNewCommandRejectsBadName(t *testing.T) {
	chtemp(t)
	resetNewFlags()

	for _, name := range []string{"../escape", "bad;rm", "a b/c"} {
		err := runNewCommand(&cobra.Command{}, []string{name})
		assert.Error(t, err, "name %q", name)
	}
}

func TestNewCommandRejectsExistingDirectory(t *testing.T) {
	chtemp(t)
	resetNewFlags()
	require.NoError(t, os.Mkdir("shop", 0755))

	err := runNewCommand(&cobra.Command{}, []string{"shop"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddModuleCommand(t *testing.T) {
	chtemp(t)
	resetNewFlags()
	newModular = true
	newModules = []string{"auth"}
	require.NoError(t, runNewCommand(&cobra.Command{}, []string{"shop"}))

	addModulePath = "shop"
	err := runAddModuleCommand(&cobra.Command{}, []string{"billing"})
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join("shop", "internal", "billing"))

	data, err := os.ReadFile(filepath.Join("shop", "internal", "modules", "modules.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "billing.Mount(mux, m)")
}

func TestAddModuleCommandRejectsLayeredProject(t *testing.T) {
	chtemp(t)
	resetNewFlags()
	require.NoError(t, runNewCommand(&cobra.Command{}, []string{"shop"}))

	addModulePath = "shop"
	err := runAddModuleCommand(&cobra.Command{}, []string{"billing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a modular forge project")
}

func TestGenerateCrudCommand(t *testing.T) {
	chtemp(t)
	resetNewFlags()
	require.NoError(t, runNewCommand(&cobra.Command{}, []string{"shop"}))

	resetCrudFlags()
	crudPath = "shop"
	crudFields = "title:string,pages:int"

	err := runGenerateCrudCommand(&cobra.Command{}, []string{"Book"})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join("shop", "internal", "books", "commands.go"))
	assert.FileExists(t, filepath.Join("shop", "internal", "httpapi", "book_routes.go"))
}

func TestGenerateCrudCommandAsyncGormFallsBackToSync(t *testing.T) {
	chtemp(t)
	resetNewFlags()
	require.NoError(t, runNewCommand(&cobra.Command{}, []string{"shop"}))

	resetCrudFlags()
	crudPath = "shop"
	crudFields = "title"
	crudAsync = true
	crudGorm = true

	err := runGenerateCrudCommand(&cobra.Command{}, []string{"Book"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join("shop", "internal", "httpapi", "book_routes.go"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "SendAsync")
	assert.FileExists(t, filepath.Join("shop", "internal", "books", "gorm_repository.go"))
}

func TestGenerateCrudCommandRejectsBadEntity(t *testing.T) {
	chtemp(t)
	resetCrudFlags()

	err := runGenerateCrudCommand(&cobra.Command{}, []string{"book"})
	assert.Error(t, err)
}

func TestMakePluginCommand(t *testing.T) {
	chtemp(t)
	makePluginDir = "./plugins"

	err := runMakePluginCommand(&cobra.Command{}, []string{"greeter"})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("plugins", "greeter_plugin.go"))

	// Second run refuses to clobber the stub.
	err = runMakePluginCommand(&cobra.Command{}, []string{"greeter"})
	assert.Error(t, err)
}

func TestListRoutersCommand(t *testing.T) {
	chtemp(t)
	resetNewFlags()
	require.NoError(t, runNewCommand(&cobra.Command{}, []string{"shop"}))

	resetCrudFlags()
	crudPath = "shop"
	crudFields = "title"
	crudFull = true
	require.NoError(t, runGenerateCrudCommand(&cobra.Command{}, []string{"Book"}))

	listRoutersPath = "shop"
	listRoutersFormat = "text"
	err := runListRoutersCommand(&cobra.Command{}, nil)
	require.NoError(t, err)

	listRoutersFormat = "json"
	err = runListRoutersCommand(&cobra.Command{}, nil)
	require.NoError(t, err)

	listRoutersFormat = "xml"
	err = runListRoutersCommand(&cobra.Command{}, nil)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	versionFormat = "text"
	versionShort = false
	require.NoError(t, runVersionCommand(&cobra.Command{}, nil))

	versionFormat = "json"
	require.NoError(t, runVersionCommand(&cobra.Command{}, nil))

	versionFormat = "yaml"
	assert.Error(t, runVersionCommand(&cobra.Command{}, nil))
}

func TestPluginCommandsMount(t *testing.T) {
	chtemp(t)
	makePluginDir = "./plugins"
	require.NoError(t, runMakePluginCommand(&cobra.Command{}, []string{"greeter"}))

	mountPluginCommands()

	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "greeter-hello" {
			found = true
		}
	}
	assert.True(t, found)
}
