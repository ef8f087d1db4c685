package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/addressbook/internal/app"
	"github.com/zjrosen/addressbook/internal/config"
	"github.com/zjrosen/addressbook/internal/log"
)

const localConfigPath = ".addressbook/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debug     bool
	noPersist bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:          "addressbook",
	Short:        "A personal address book",
	Long:         `A command-line address book with user-defined command aliases.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/addressbook/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write a debug log")
	rootCmd.PersistentFlags().BoolVar(&noPersist, "no-persist", false,
		"keep alias changes for this invocation only")

	rootCmd.AddCommand(aliasCmd, resolveCmd, commandsCmd)
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("data_dir", defaults.DataDir)
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("aliases.backend", defaults.Aliases.Backend)
	viper.SetDefault("aliases.persist", defaults.Aliases.Persist)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	viper.SetEnvPrefix("ADDRESSBOOK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .addressbook/config.yaml (current directory)
		// 2. ~/.config/addressbook/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "addressbook"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create the default user config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if defaultPath, pathErr := defaultConfigPath(); pathErr == nil {
				if writeErr := config.WriteDefaultConfig(defaultPath, log.Nop()); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	cfg = config.Config{}
	_ = viper.Unmarshal(&cfg)
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "addressbook", "config.yaml"), nil
}

// configPath returns the config file in use, or the default user config path.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	if p, err := defaultConfigPath(); err == nil {
		return p
	}
	return localConfigPath
}

// openLogger returns the debug logger when enabled, or a no-op logger.
func openLogger() (*log.Logger, error) {
	if !debug && !cfg.Debug {
		return log.Nop(), nil
	}
	path := cfg.LogPath
	if path == "" {
		path = filepath.Join(cfg.DataDir, "debug.log")
	}
	logger, err := log.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	if debug {
		logger.SetMinLevel(log.LevelDebug)
	} else {
		logger.SetMinLevel(log.ParseLevel(cfg.LogLevel))
	}
	return logger, nil
}

// openApp builds the application services for one command invocation.
// The returned cleanup closes the store, flushes traces and closes the log.
func openApp() (*app.App, func(), error) {
	logger, err := openLogger()
	if err != nil {
		return nil, nil, err
	}

	runCfg := cfg
	if noPersist {
		runCfg.Aliases.Persist = false
	}

	a, err := app.New(runCfg, logger)
	if err != nil {
		_ = logger.Close()
		return nil, nil, err
	}
	return a, func() {
		if err := a.Close(); err != nil {
			logger.ErrorErr(log.CatStore, "closing application", err)
		}
		_ = logger.Close()
	}, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
