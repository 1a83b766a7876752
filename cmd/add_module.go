package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forgelabs/forge/internal/scaffold"
	"github.com/forgelabs/forge/internal/validation"
)

var addModulePath string

// addModuleCmd represents the add-module command
var addModuleCmd = &cobra.Command{
	Use:   "add-module [module-name]",
	Short: "Add a vertical-slice module to a modular project",
	Long: `Scaffold a new module under internal/ and register it in the
module registry so its routes mount on startup.

The auth module gets a working registration/login slice; any other name
gets a ping route plus domain, service and repository layers to fill in.

Examples:
  forge add-module billing
  forge add-module payments --path ./myshop`,
	Args: cobra.ExactArgs(1),
	RunE: runAddModuleCommand,
}

func init() {
	rootCmd.AddCommand(addModuleCmd)

	addModuleCmd.Flags().StringVar(&addModulePath, "path", ".", "Project root directory")
}

func runAddModuleCommand(cmd *cobra.Command, args []string) error {
	moduleName := args[0]
	if err := validation.ValidateModuleName(moduleName); err != nil {
		return err
	}
	if err := validation.ValidatePath(addModulePath); err != nil {
		return err
	}

	// The registry file marks a modular project root.
	registry := filepath.Join(addModulePath, "internal", "modules", "modules.go")
	if _, err := os.Stat(registry); err != nil {
		return fmt.Errorf("%s is not a modular forge project (missing internal/modules/modules.go)", addModulePath)
	}

	modulePath, err := scaffold.ResolveModulePath(addModulePath)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	generator := scaffold.NewGenerator(newLogger(cfg))
	created, err := generator.ScaffoldModule(addModulePath, moduleName, scaffold.Context{
		ModulePath: modulePath,
		Author:     cfg.Author,
	})
	if err != nil {
		return err
	}
	if !created {
		fmt.Printf("⚠ Module %s already exists, nothing to do\n", moduleName)
		return nil
	}

	fmt.Printf("✓ Added module %s\n", moduleName)
	return nil
}
