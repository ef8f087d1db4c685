// Package config provides configuration types and defaults for addressbook.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/addressbook/internal/alias"
	"github.com/zjrosen/addressbook/internal/log"
	"github.com/zjrosen/addressbook/internal/tracing"
)

// Alias store backends.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Config holds all configuration options for addressbook.
type Config struct {
	DataDir  string         `mapstructure:"data_dir"`
	Debug    bool           `mapstructure:"debug"`
	LogPath  string         `mapstructure:"log_path"`
	LogLevel string         `mapstructure:"log_level"` // "debug", "info" (default), "warn", "error"
	Aliases  AliasConfig    `mapstructure:"aliases"`
	Commands CommandsConfig `mapstructure:"commands"`
	Tracing  tracing.Config `mapstructure:"tracing"`
}

// AliasConfig holds alias persistence options.
type AliasConfig struct {
	// Backend selects the alias store: "yaml" (default) or "sqlite".
	Backend string `mapstructure:"backend"`

	// Path is the store location. Empty derives it from DataDir and Backend.
	Path string `mapstructure:"path"`

	// Persist disables all store interaction when false.
	Persist bool `mapstructure:"persist"`
}

// CommandsConfig holds command catalog options.
type CommandsConfig struct {
	// Disallowed lists commands that may not be aliased, in addition to the
	// built-in meta commands.
	Disallowed []string `mapstructure:"disallowed"`
}

// DefaultDataDir returns ~/.addressbook, or .addressbook if the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".addressbook"
	}
	return filepath.Join(home, ".addressbook")
}

// AliasStorePath returns the configured alias store path, deriving one from
// the data directory when unset.
func (c Config) AliasStorePath() string {
	if c.Aliases.Path != "" {
		return c.Aliases.Path
	}
	dir := c.DataDir
	if dir == "" {
		dir = DefaultDataDir()
	}
	if c.Aliases.Backend == BackendSQLite {
		return filepath.Join(dir, "aliases.db")
	}
	return filepath.Join(dir, "aliases.yaml")
}

// ValidateAliases checks the alias backend.
func ValidateAliases(a AliasConfig) error {
	switch a.Backend {
	case "", BackendYAML, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("aliases.backend must be %q or %q, got %q", BackendYAML, BackendSQLite, a.Backend)
	}
}

// ValidateCommands checks that every extra disallowed command is a plausible command word.
func ValidateCommands(c CommandsConfig) error {
	for i, name := range c.Disallowed {
		if name == "" {
			return fmt.Errorf("commands.disallowed[%d]: name is required", i)
		}
		if !alias.ValidSyntax(name) {
			return fmt.Errorf("commands.disallowed[%d]: %q must be alphabetical only", i, name)
		}
	}
	return nil
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateAliases(c.Aliases); err != nil {
		return err
	}
	if err := ValidateCommands(c.Commands); err != nil {
		return err
	}
	if c.Tracing.Enabled {
		if err := c.Tracing.Validate(); err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
	}
	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		LogLevel: "info",
		Aliases: AliasConfig{
			Backend: BackendYAML,
			Persist: true,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Addressbook Configuration

# Directory holding address book data (default: ~/.addressbook)
# data_dir: /path/to/data

# Write a debug log (also enabled with --debug)
debug: false
# log_path: ~/.addressbook/debug.log
log_level: info

# Command aliases
aliases:
  backend: yaml   # "yaml" (default) or "sqlite"
  # path: ~/.addressbook/aliases.yaml
  persist: true   # Set to false to keep aliases for the current session only

# Commands that may never be aliased, in addition to alias, unalias,
# aliases, help and exit
commands:
  disallowed: []

# Tracing of alias persistence
# tracing:
#   enabled: true
#   exporter: otlp          # "none", "stdout" or "otlp"
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string, logger *log.Logger) error {
	logger.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		logger.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		logger.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	logger.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
