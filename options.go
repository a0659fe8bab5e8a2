package shellac

import (
	"github.com/waxworks/shellac/pkg/reconcile"
	"github.com/waxworks/shellac/pkg/registry"
)

// Option is a function that configures a Client instance.
type Option func(*options)

// options holds the configured settings for a client.
type options struct {
	registryPath  string
	defsPath      string
	docsPath      string
	baselinePath  string
	strategy      reconcile.Resolution
	dryRun        bool
	initialFields []registry.Field
}

// defaults returns the default client options.
func defaults() *options {
	return &options{
		strategy: reconcile.ResolutionMerge,
	}
}

// apply applies the given options and returns the result.
func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithRegistryPath configures the YAML file backing the registry.
// Without a path the registry is memory-only.
func WithRegistryPath(path string) Option {
	return func(o *options) {
		o.registryPath = path
	}
}

// WithDefsPath configures the field definitions artifact file.
func WithDefsPath(path string) Option {
	return func(o *options) {
		o.defsPath = path
	}
}

// WithDocsPath configures the generated markdown docs artifact file.
func WithDocsPath(path string) Option {
	return func(o *options) {
		o.docsPath = path
	}
}

// WithBaselinePath configures the bbolt database recording per-artifact
// baselines. Without it every sync behaves like a first sync.
func WithBaselinePath(path string) Option {
	return func(o *options) {
		o.baselinePath = path
	}
}

// WithStrategy configures the default conflict resolution strategy.
func WithStrategy(strategy reconcile.Resolution) Option {
	return func(o *options) {
		o.strategy = strategy
	}
}

// WithDryRunDefault makes sync runs dry by default; individual runs can
// still override with the sync-level WithDryRun.
func WithDryRunDefault(enabled bool) Option {
	return func(o *options) {
		o.dryRun = enabled
	}
}

// WithInitialFields seeds the registry with field definitions. A
// registry file, when present, replaces the seeds on load.
func WithInitialFields(fields ...registry.Field) Option {
	return func(o *options) {
		o.initialFields = fields
	}
}
