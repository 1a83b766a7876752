package scaffold

import (
	"context"
	"fmt"
	"os"

	forgeerrors "github.com/forgelabs/forge/internal/errors"
)

// Flavors are the supported project layouts.
var Flavors = []string{"layered", "modular"}

// ProjectOptions selects what NewProject materializes.
type ProjectOptions struct {
	Flavor  string
	Modules []string // initial modules for modular projects
	Force   bool     // write into an existing directory
}

// NewProject materializes a fresh project at targetDir. For modular
// projects each initial module is scaffolded after the base tree; layered
// projects ignore the module list.
func (g *Generator) NewProject(targetDir string, opts ProjectOptions, ctx Context) error {
	if _, err := os.Stat(targetDir); err == nil {
		if !opts.Force {
			return fmt.Errorf("directory %s already exists (use --force to scaffold into it)", targetDir)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", targetDir, err)
	}

	var files map[string]string
	switch opts.Flavor {
	case "layered":
		files = LayeredTemplate()
	case "modular":
		files = ModularTemplate()
	default:
		return forgeerrors.UnknownValueError("flavor", opts.Flavor, Flavors)
	}

	if err := g.MaterializeTree(targetDir, files, ctx); err != nil {
		return err
	}

	if opts.Flavor == "modular" {
		modules := opts.Modules
		if len(modules) == 0 {
			modules = []string{"auth"}
		}
		for _, module := range modules {
			if _, err := g.ScaffoldModule(targetDir, module, ctx); err != nil {
				return err
			}
		}
	}

	g.logger.Info(context.Background(), "created project",
		"project", ctx.ProjectName, "flavor", opts.Flavor, "path", targetDir)
	return nil
}
