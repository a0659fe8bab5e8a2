// Package appcontext provides the shared application context interface
// used by all commands. It gives commands their dependencies without
// importing the concrete app package.
package appcontext

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/waxworks/shellac"
	"github.com/waxworks/shellac/internal/library"
)

// Interface defines the application context commands depend on. The App
// struct from cmd/shellac/app implements it; commands accept the
// interface so tests can substitute a Mock.
type Interface interface {
	// Client returns the default client, creating it lazily if needed.
	// Thread-safe; only one instance is created.
	Client() (shellac.Client, error)

	// ClientWithOptions creates a new client with custom options. Use
	// this when a command needs paths different from the configuration.
	ClientWithOptions(...shellac.Option) (shellac.Client, error)

	// Library connects to the music library database. The connection is
	// not cached; callers close it.
	Library(ctx context.Context) (*library.Store, error)

	// ArtifactPaths returns the configured artifact file paths.
	ArtifactPaths() []string

	// WatchDebounce returns the watch command's debounce interval.
	WatchDebounce() time.Duration

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
