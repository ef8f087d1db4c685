// Package app wires configuration, persistence and the alias registry into
// the services the CLI runs against.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/addressbook/internal/alias"
	"github.com/zjrosen/addressbook/internal/commands"
	"github.com/zjrosen/addressbook/internal/config"
	"github.com/zjrosen/addressbook/internal/infrastructure/sqlite"
	"github.com/zjrosen/addressbook/internal/infrastructure/yamlstore"
	"github.com/zjrosen/addressbook/internal/log"
	"github.com/zjrosen/addressbook/internal/tracing"
)

// App holds the services built from a Config.
type App struct {
	Catalog *commands.Catalog
	Aliases *alias.Registry
	Parser  *commands.Parser
	Logger  *log.Logger
	Store   alias.Store // nil when aliases are not persisted
	tracer  *tracing.Provider
	closers []func() error
}

// New builds the catalog, alias store and registry described by cfg.
// logger may be nil.
func New(cfg config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{
		Catalog: commands.NewCatalog(cfg.Commands.Disallowed...),
		Logger:  logger,
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("creating tracer: %w", err)
	}
	a.tracer = provider
	if provider.Enabled() {
		logger.Info(log.CatTrace, "tracing enabled", "exporter", cfg.Tracing.Exporter)
	}

	opts := []alias.Option{
		alias.WithLogger(logger),
		alias.WithPersistence(cfg.Aliases.Persist),
	}
	if cfg.Aliases.Persist {
		store, closeStore, err := OpenStore(cfg)
		if err != nil {
			// The registry degrades to session-only aliases when the store is unavailable.
			logger.WarnErr(log.CatStore, "alias store unavailable, aliases will not be saved", err,
				"backend", cfg.Aliases.Backend, "path", cfg.AliasStorePath())
		} else {
			a.closers = append(a.closers, closeStore)
			a.Store = tracing.NewStore(store, provider.Tracer(), backendName(cfg))
			opts = append(opts, alias.WithStore(a.Store))
		}
	}

	registry, err := alias.NewRegistry(a.Catalog, a.Catalog.Disallowed(), opts...)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Aliases = registry
	a.Parser = commands.NewParser(a.Catalog, registry)
	return a, nil
}

// Close releases the alias store and flushes traces.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func backendName(cfg config.Config) string {
	if cfg.Aliases.Backend == "" {
		return config.BackendYAML
	}
	return cfg.Aliases.Backend
}

// OpenStore opens the alias store selected by cfg. The returned function
// releases it.
func OpenStore(cfg config.Config) (alias.Store, func() error, error) {
	path := cfg.AliasStorePath()
	switch backendName(cfg) {
	case config.BackendSQLite:
		db, err := sqlite.NewDB(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening alias database: %w", err)
		}
		return db.AliasStore(), db.Close, nil
	case config.BackendYAML:
		return yamlstore.New(path), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown alias backend %q", cfg.Aliases.Backend)
	}
}

// CopyAliases reads every alias from src and saves them to dst, returning how
// many were copied. Existing aliases in dst are replaced.
func CopyAliases(src, dst alias.Store) (int, error) {
	aliases, err := src.ReadAliases()
	if err != nil {
		return 0, &alias.StoreError{Op: "read", Err: err}
	}
	if err := dst.SaveAliases(aliases); err != nil {
		return 0, &alias.StoreError{Op: "save", Err: err}
	}
	return len(aliases), nil
}
