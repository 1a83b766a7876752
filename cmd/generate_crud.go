package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgelabs/forge/internal/scaffold"
	"github.com/forgelabs/forge/internal/validation"
)

var (
	crudFields string
	crudModule string
	crudPath   string
	crudFull   bool
	crudAsync  bool
	crudGorm   bool
)

// generateCrudCmd represents the generate-crud command
var generateCrudCmd = &cobra.Command{
	Use:   "generate-crud [entity]",
	Short: "Generate CRUD commands, queries and routes for an entity",
	Long: `Generate a mediator-backed CRUD skeleton for an entity: commands,
queries, an in-memory service and HTTP routes registered in the project's
route registry.

By default only create and get are generated; --full adds update, delete
and list. The service file is never overwritten, so business logic you
add by hand survives regeneration.

Field specs are comma separated name:type pairs. Supported types:
string, int, int64, float64, bool, time.Time (aliases: str, float,
double, long, time). A bare name defaults to string.

Examples:
  forge generate-crud Book --fields "title:string,pages:int"
  forge generate-crud Order --fields "total:float" --full --async
  forge generate-crud Invoice --module billing --path ./myshop
  forge generate-crud Book --fields title --gorm`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerateCrudCommand,
}

func init() {
	rootCmd.AddCommand(generateCrudCmd)

	generateCrudCmd.Flags().StringVar(&crudFields, "fields", "", "Entity fields as name:type pairs")
	generateCrudCmd.Flags().StringVar(&crudModule, "module", "", "Target module (modular projects)")
	generateCrudCmd.Flags().StringVar(&crudPath, "path", ".", "Project root directory")
	generateCrudCmd.Flags().BoolVar(&crudFull, "full", false, "Also generate update, delete and list")
	generateCrudCmd.Flags().BoolVar(&crudAsync, "async", false, "Dispatch through the async mediator API")
	generateCrudCmd.Flags().BoolVar(&crudGorm, "gorm", false, "Also emit a gorm repository skeleton")
}

func runGenerateCrudCommand(cmd *cobra.Command, args []string) error {
	entity := args[0]
	if err := validation.ValidateEntityName(entity); err != nil {
		return err
	}
	if err := validation.ValidatePath(crudPath); err != nil {
		return err
	}
	if crudModule != "" {
		if err := validation.ValidateModuleName(crudModule); err != nil {
			return err
		}
	}

	// gorm-backed routes are always synchronous.
	async := crudAsync
	if crudAsync && crudGorm {
		fmt.Println("⚠ --async is ignored with --gorm, generating synchronous routes")
		async = false
	}

	fields, err := scaffold.ParseFields(crudFields)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	generator := scaffold.NewGenerator(newLogger(cfg))
	err = generator.GenerateCRUD(crudPath, scaffold.CrudOptions{
		Entity: entity,
		Fields: fields,
		Module: crudModule,
		Full:   crudFull,
		Async:  async,
		Gorm:   crudGorm,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Generated CRUD for %s\n", entity)
	if crudGorm {
		fmt.Println("⚠ The gorm repository needs gorm.io/gorm in the project's go.mod")
	}
	return nil
}
