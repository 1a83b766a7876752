// Package config provides configuration management for forge using Viper,
// loading from .forge.yml, FORGE_-prefixed environment variables, and
// command-line flags with flag > env > file precedence.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds tool-wide settings. Command flags override everything here.
type Config struct {
	// Flavor is the default project flavor for `forge new`.
	Flavor string `mapstructure:"flavor" yaml:"flavor" validate:"omitempty,oneof=layered modular"`

	// Modules are the default initial modules for modular projects.
	Modules []string `mapstructure:"modules" yaml:"modules"`

	// Author is stamped into generated file headers when set.
	Author string `mapstructure:"author" yaml:"author"`

	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Plugins PluginsConfig `mapstructure:"plugins" yaml:"plugins"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=text json"`
}

// PluginsConfig controls plugin discovery.
type PluginsConfig struct {
	// DiscoveryPaths are directories scanned for plugin manifests and
	// stubs, relative to the working directory.
	DiscoveryPaths []string `mapstructure:"discovery_paths" yaml:"discovery_paths"`
}

var validate = validator.New()

// Load unmarshals the viper state into a Config, applies defaults, and
// validates the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	applyDefaults(&config)

	if err := validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Flavor == "" {
		config.Flavor = "layered"
	}
	if config.Log.Level == "" {
		config.Log.Level = viper.GetString("log-level")
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
	if len(config.Plugins.DiscoveryPaths) == 0 {
		config.Plugins.DiscoveryPaths = []string{"./plugins"}
	}
}
