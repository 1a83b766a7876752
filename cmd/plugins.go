package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/forgelabs/forge/internal/plugins"
)

var pluginsWatch bool

// pluginsCmd represents the plugins command
var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List discovered plugins and their commands",
	Long: `List every plugin found under the configured discovery paths,
with the commands each one contributes.

With --watch, keep running and re-list whenever a plugin file changes.

Examples:
  forge plugins
  forge plugins --watch`,
	RunE: runPluginsCommand,
}

func init() {
	rootCmd.AddCommand(pluginsCmd)

	pluginsCmd.Flags().BoolVarP(&pluginsWatch, "watch", "w", false, "Re-list plugins on file changes")
}

func runPluginsCommand(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := newLogger(cfg)
	registry := plugins.NewRegistry(cfg.Plugins.DiscoveryPaths, logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	printPlugins(registry.Discover(ctx))

	if !pluginsWatch {
		return nil
	}

	watcher, err := plugins.NewWatcher(registry, logger)
	if err != nil {
		return fmt.Errorf("failed to start plugin watcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("\nWatching for plugin changes (ctrl-c to stop)...")
	err = watcher.Watch(ctx, func(loaded []*plugins.Plugin) {
		fmt.Println()
		printPlugins(loaded)
	})
	if err == context.Canceled {
		return nil
	}
	return err
}

func printPlugins(loaded []*plugins.Plugin) {
	if len(loaded) == 0 {
		fmt.Println("No plugins found")
		return
	}
	for _, plugin := range loaded {
		if plugin.Version != "" {
			fmt.Printf("%s %s (%s, %s)\n", plugin.Name, plugin.Version, plugin.Kind, plugin.Source)
		} else {
			fmt.Printf("%s (%s, %s)\n", plugin.Name, plugin.Kind, plugin.Source)
		}
		for _, command := range plugin.Commands {
			fmt.Printf("  %-24s %s\n", command.Name, command.Short)
		}
	}
}
