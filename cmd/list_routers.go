package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forgelabs/forge/internal/scaffold"
	"github.com/forgelabs/forge/internal/validation"
)

var (
	listRoutersPath   string
	listRoutersFormat string
)

// listRoutersCmd represents the list-routers command
var listRoutersCmd = &cobra.Command{
	Use:   "list-routers",
	Short: "List the route groups registered in a project",
	Long: `Inspect a generated project and list its registered route groups
and endpoints, in registration order.

Examples:
  forge list-routers
  forge list-routers --path ./myshop
  forge list-routers --format json`,
	RunE: runListRoutersCommand,
}

func init() {
	rootCmd.AddCommand(listRoutersCmd)

	listRoutersCmd.Flags().StringVar(&listRoutersPath, "path", ".", "Project root directory")
	listRoutersCmd.Flags().StringVarP(&listRoutersFormat, "format", "f", "text", "Output format (text, json)")
}

func runListRoutersCommand(cmd *cobra.Command, args []string) error {
	if err := validation.ValidatePath(listRoutersPath); err != nil {
		return err
	}

	routers, err := scaffold.ListRouters(listRoutersPath)
	if err != nil {
		return err
	}

	switch listRoutersFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(routers)
	case "text":
		if len(routers) == 0 {
			fmt.Println("No route groups registered")
			return nil
		}
		for _, router := range routers {
			if router.Module != "" {
				fmt.Printf("%s (module %s)\n", router.Group, router.Module)
			} else {
				fmt.Printf("%s\n", router.Group)
			}
			for _, route := range router.Routes {
				fmt.Printf("  %s\n", route)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", listRoutersFormat)
	}
}
