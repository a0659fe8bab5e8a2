// Package app provides the application context and dependency management
// for the shellac CLI. It centralizes configuration, dependency
// injection, and lifecycle management.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/waxworks/shellac"
	"github.com/waxworks/shellac/internal/appcontext"
	"github.com/waxworks/shellac/internal/library"
	"github.com/waxworks/shellac/pkg/errors"
	"github.com/waxworks/shellac/pkg/reconcile"
)

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// App represents the shellac application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client shellac.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// ArtifactPaths returns the configured artifact file paths.
func (a *App) ArtifactPaths() []string {
	return []string{a.config.DefsPath, a.config.DocsPath}
}

// WatchDebounce returns the watch command's debounce interval.
func (a *App) WatchDebounce() time.Duration {
	return a.config.WatchDebounce
}

// Client returns the client instance, creating it lazily if needed.
// Thread-safe; only one instance is created.
func (a *App) Client() (shellac.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	c, err := shellac.New(a.buildClientOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}

	a.client = c
	return c, nil
}

// ClientWithOptions returns a new client with custom options, for
// commands that need paths different from the app configuration.
func (a *App) ClientWithOptions(opts ...shellac.Option) (shellac.Client, error) {
	c, err := shellac.New(opts...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "with custom options", err)
	}
	return c, nil
}

// Library connects to the music library database.
func (a *App) Library(ctx context.Context) (*library.Store, error) {
	if a.config.LibraryDSN == "" {
		return nil, &errors.ConfigError{
			Component: "library",
			Message:   "library_dsn is not configured",
		}
	}

	client, err := a.Client()
	if err != nil {
		return nil, err
	}
	reg, err := client.Registry()
	if err != nil {
		return nil, err
	}

	return library.Open(ctx, a.config.LibraryDSN, reg)
}

// Shutdown performs graceful shutdown, releasing client resources.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.RLock()
	c := a.client
	a.mu.RUnlock()

	if c != nil {
		if err := c.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close client during shutdown")
			return err
		}
	}

	return nil
}

// buildClientOptions constructs client options from the app configuration.
func (a *App) buildClientOptions() []shellac.Option {
	var opts []shellac.Option

	if a.config.RegistryPath != "" {
		opts = append(opts, shellac.WithRegistryPath(a.config.RegistryPath))
	}
	if a.config.DefsPath != "" {
		opts = append(opts, shellac.WithDefsPath(a.config.DefsPath))
	}
	if a.config.DocsPath != "" {
		opts = append(opts, shellac.WithDocsPath(a.config.DocsPath))
	}
	if a.config.BaselinePath != "" {
		opts = append(opts, shellac.WithBaselinePath(a.config.BaselinePath))
	}
	if a.config.Strategy != "" {
		opts = append(opts, shellac.WithStrategy(reconcile.Resolution(a.config.Strategy)))
	}

	return opts
}
