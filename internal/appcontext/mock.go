package appcontext

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/waxworks/shellac"
	"github.com/waxworks/shellac/internal/library"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function
// field; nil fields return defaults.
type Mock struct {
	ClientFunc            func() (shellac.Client, error)
	ClientWithOptionsFunc func(...shellac.Option) (shellac.Client, error)
	LibraryFunc           func(context.Context) (*library.Store, error)
	ArtifactPathsFunc     func() []string
	WatchDebounceFunc     func() time.Duration
	LoggerFunc            func() *zerolog.Logger
	OutputFormatFunc      func() string
	VersionFunc           func() string
	CommitFunc            func() string
	DateFunc              func() string
	BuiltByFunc           func() string
}

// Client returns a client using the mock function or a default client.
func (m *Mock) Client() (shellac.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return shellac.New()
}

// ClientWithOptions returns a client using the mock function or a real one.
func (m *Mock) ClientWithOptions(opts ...shellac.Option) (shellac.Client, error) {
	if m.ClientWithOptionsFunc != nil {
		return m.ClientWithOptionsFunc(opts...)
	}
	return shellac.New(opts...)
}

// Library returns a store using the mock function or nil.
func (m *Mock) Library(ctx context.Context) (*library.Store, error) {
	if m.LibraryFunc != nil {
		return m.LibraryFunc(ctx)
	}
	return nil, nil
}

// ArtifactPaths returns paths using the mock function or none.
func (m *Mock) ArtifactPaths() []string {
	if m.ArtifactPathsFunc != nil {
		return m.ArtifactPathsFunc()
	}
	return nil
}

// WatchDebounce returns the interval using the mock function or zero.
func (m *Mock) WatchDebounce() time.Duration {
	if m.WatchDebounceFunc != nil {
		return m.WatchDebounceFunc()
	}
	return 0
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return ""
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
