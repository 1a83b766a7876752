// Package cmd provides the forge command-line interface.
//
// Configuration System:
//
//	The CLI reads configuration from multiple sources with clear precedence:
//	1. Command-line flags (--config, --log-level, etc.) - highest priority
//	2. FORGE_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (FORGE_FLAVOR, FORGE_LOG_LEVEL, etc.)
//	4. Configuration files (.forge.yml) - lowest priority
//
// A .env file in the working directory is loaded first so project-local
// FORGE_ variables work without exporting them.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/forgelabs/forge/internal/config"
	"github.com/forgelabs/forge/internal/logging"
	"github.com/forgelabs/forge/internal/plugins"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "A project scaffolding tool for mediator-based Go backends",
	Long: `Forge scaffolds Go backend services built around an in-process
command/query mediator, and keeps growing them afterwards.

Key Features:
  • Layered and modular (vertical slice) project flavors
  • CRUD generation wired through the mediator pipeline
  • Module scaffolding with automatic route registration
  • Plugin commands from YAML manifests or Go stubs

Quick Start:
  forge new myshop                Create a layered project
  forge new myshop --modular      Create a modular project
  forge add-module billing        Add a module to a modular project
  forge generate-crud Book        Generate CRUD for an entity
  forge list-routers              Show registered route groups`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	mountPluginCommands()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	registerGlobalFlags(rootCmd.PersistentFlags())
}

func registerGlobalFlags(flags *pflag.FlagSet) {
	flags.StringVar(&cfgFile, "config", "", "config file (default is .forge.yml, can also use FORGE_CONFIG_FILE env var)")
	flags.StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", flags.Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Loading priority (highest to lowest):
//  1. --config flag: explicitly specified config file path
//  2. FORGE_CONFIG_FILE environment variable
//  3. Default: .forge.yml in the current directory
func initConfig() {
	// Project-local .env files feed the FORGE_ environment variables below.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("FORGE_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".forge")
	}

	viper.SetEnvPrefix("FORGE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing or broken config file degrades to defaults without failing.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig reads the effective configuration, falling back to defaults
// with a warning when the configuration is invalid.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ %v (using defaults)\n", err)
		return &config.Config{
			Flavor:  "layered",
			Log:     config.LogConfig{Level: "info", Format: "text"},
			Plugins: config.PluginsConfig{DiscoveryPaths: []string{"./plugins"}},
		}
	}
	return cfg
}

// newLogger builds the structured logger from the effective configuration.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(&logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}

// mountPluginCommands discovers plugins and adds their commands to the
// root command. Runs before Execute so plugin commands are dispatchable
// and show up in help.
func mountPluginCommands() {
	initConfig()
	cfg := loadConfig()
	logger := newLogger(cfg)

	ctx := context.Background()
	registry := plugins.NewRegistry(cfg.Plugins.DiscoveryPaths, logger)
	for _, plugin := range registry.Discover(ctx) {
		for _, spec := range plugin.Commands {
			if hasCommand(spec.Name) {
				logger.Warn(ctx, nil, "plugin command shadows a builtin",
					"command", spec.Name, "plugin", plugin.Name)
				continue
			}
			output := spec.Output
			rootCmd.AddCommand(&cobra.Command{
				Use:   spec.Name,
				Short: spec.Short,
				RunE: func(cmd *cobra.Command, args []string) error {
					fmt.Fprintln(cmd.OutOrStdout(), output)
					return nil
				},
			})
		}
	}
}

func hasCommand(name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name {
			return true
		}
	}
	return false
}
