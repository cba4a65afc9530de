// Package config provides configuration management for clihub using Viper.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/clihub/clihub/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "clihub"

// DefaultBackupRetention is the number of automatic database backups kept
// when no override is configured.
const DefaultBackupRetention = 10

// Config represents the top-level configuration structure.
type Config struct {
	Version         int                       `mapstructure:"version" yaml:"version"`
	DatabasePath    string                    `mapstructure:"database_path" yaml:"database_path"`
	BackupRetention int                       `mapstructure:"backup_retention" yaml:"backup_retention"`
	Clients         map[string]ClientOverride `mapstructure:"clients" yaml:"clients"`
}

// ClientOverride contains configuration overrides for a specific client.
type ClientOverride struct {
	// LiveFile overrides the path of the client's live MCP config file.
	LiveFile string `mapstructure:"live_file" yaml:"live_file"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), AppName))

	viper.SetEnvPrefix("CLIHUB")
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("database_path", paths.DatabasePath())
	viper.SetDefault("backup_retention", DefaultBackupRetention)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found
// (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LiveFile returns the live-file path for a client, honoring any override.
func (c *Config) LiveFile(client string) (string, error) {
	if c != nil {
		if o, ok := c.Clients[client]; ok && o.LiveFile != "" {
			return o.LiveFile, nil
		}
	}
	return paths.ClientLiveFile(client)
}

// Retention returns the configured backup retention, falling back to the
// default for zero or negative values.
func (c *Config) Retention() int {
	if c == nil || c.BackupRetention <= 0 {
		return DefaultBackupRetention
	}
	return c.BackupRetention
}
