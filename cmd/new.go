package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgelabs/forge/internal/scaffold"
	"github.com/forgelabs/forge/internal/validation"
)

var (
	newModular bool
	newFlavor  string
	newModules []string
	newModule  string
	newForce   bool
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new [project-name]",
	Short: "Create a new mediator-based backend project",
	Long: `Create a new backend project wired around the forge mediator.

Two flavors are supported:
  layered   domain/repository/service/httpapi layers (default)
  modular   vertical slices, each module owning its own stack

Modular projects always include the auth module. Without --modules the
command asks which modules to create.

Examples:
  forge new myshop
  forge new myshop --modular
  forge new myshop --modular --modules auth,billing
  forge new myshop --module-path github.com/acme/myshop`,
	Args: cobra.ExactArgs(1),
	RunE: runNewCommand,
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().BoolVar(&newModular, "modular", false, "Use the modular (vertical slice) layout")
	newCmd.Flags().StringVar(&newFlavor, "flavor", "", "Project flavor (layered, modular); overrides config")
	newCmd.Flags().StringSliceVar(&newModules, "modules", nil, "Initial modules for modular projects")
	newCmd.Flags().StringVar(&newModule, "module-path", "", "Go module path for the generated go.mod")
	newCmd.Flags().BoolVar(&newForce, "force", false, "Scaffold into an existing directory")
}

func runNewCommand(cmd *cobra.Command, args []string) error {
	projectName := args[0]
	if err := validation.ValidateProjectName(projectName); err != nil {
		return err
	}

	cfg := loadConfig()
	logger := newLogger(cfg)

	flavor := cfg.Flavor
	if newFlavor != "" {
		flavor = newFlavor
	}
	if newModular {
		flavor = "modular"
	}

	modules := cfg.Modules
	if len(newModules) > 0 {
		modules = newModules
	}
	if flavor == "modular" {
		if len(modules) == 0 {
			modules = promptModules(cmd.InOrStdin())
		}
		modules = ensureAuth(modules)
	}
	for _, module := range modules {
		if err := validation.ValidateModuleName(module); err != nil {
			return err
		}
	}

	ctx, err := scaffold.NewContext(projectName, cfg.Author)
	if err != nil {
		return err
	}
	if newModule != "" {
		ctx.ModulePath = newModule
	}

	generator := scaffold.NewGenerator(logger)
	err = generator.NewProject(projectName, scaffold.ProjectOptions{
		Flavor:  flavor,
		Modules: modules,
		Force:   newForce,
	}, ctx)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Created %s project %s\n", flavor, projectName)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  cd %s\n", projectName)
	fmt.Printf("  go mod tidy\n")
	fmt.Printf("  go run .\n")
	return nil
}

// promptModules asks for a comma-separated module list. Empty input (or a
// closed stdin, as in scripts) falls back to just auth.
func promptModules(in io.Reader) []string {
	fmt.Print("Modules (comma separated) [auth]: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return nil
	}

	var modules []string
	for _, part := range strings.Split(line, ",") {
		if part = strings.TrimSpace(part); part != "" {
			modules = append(modules, part)
		}
	}
	return modules
}

// ensureAuth guarantees the auth module is scaffolded first.
func ensureAuth(modules []string) []string {
	for _, module := range modules {
		if module == "auth" {
			return modules
		}
	}
	return append([]string{"auth"}, modules...)
}
