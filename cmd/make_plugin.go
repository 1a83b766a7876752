package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgelabs/forge/internal/plugins"
	"github.com/forgelabs/forge/internal/validation"
)

var makePluginDir string

// makePluginCmd represents the make-plugin command
var makePluginCmd = &cobra.Command{
	Use:   "make-plugin [plugin-name]",
	Short: "Create a starter plugin stub",
	Long: `Write a Go plugin stub that adds a <name>-hello command to forge.
Stubs are interpreted at startup, so editing the file is enough; no
rebuild needed. Declarative plugins can also be written by hand as YAML
manifests in the same directory.

Examples:
  forge make-plugin greeter
  forge make-plugin greeter --dir ./plugins
  forge greeter-hello`,
	Args: cobra.ExactArgs(1),
	RunE: runMakePluginCommand,
}

func init() {
	rootCmd.AddCommand(makePluginCmd)

	makePluginCmd.Flags().StringVar(&makePluginDir, "dir", "./plugins", "Directory to write the stub into")
}

func runMakePluginCommand(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := validation.ValidatePluginName(name); err != nil {
		return err
	}
	if err := validation.ValidatePath(makePluginDir); err != nil {
		return err
	}

	path, err := plugins.WriteStub(makePluginDir, name)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Created plugin %s at %s\n", name, path)
	fmt.Printf("\nTry it:\n  forge %s-hello\n", name)
	return nil
}
