// Package shellac is the entry point for the shellac field registry
// toolchain. It keeps a music library's column/field registry in sync
// with the legacy artifacts that describe the same fields: the
// decorator-style definitions file and the generated markdown docs
// table.
//
// The client wraps the registry with:
//   - Whole-pipeline sync (parse artifacts, three-way merge against the
//     last-synced baselines, apply, regenerate)
//   - Event hooks for field changes (added, updated, removed)
//   - Thread-safe registry access with copy-on-read semantics
//   - Functional options for paths and merge strategy
//
// Example usage:
//
//	sc, err := shellac.New(
//	    shellac.WithRegistryPath("registry.yaml"),
//	    shellac.WithDefsPath("field_defs.py"),
//	    shellac.WithDocsPath("docs/fields.md"),
//	    shellac.WithBaselinePath("baselines.db"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sc.Close()
//
//	sc.OnFieldAdded(func(field registry.Field) {
//	    log.Printf("new field: %s", field.Key)
//	})
//
//	result, err := sc.Sync(ctx, shellac.WithDryRun(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result)
package shellac

import (
	"sync"

	"github.com/waxworks/shellac/internal/baseline"
	"github.com/waxworks/shellac/pkg/artifacts"
	"github.com/waxworks/shellac/pkg/artifacts/defs"
	"github.com/waxworks/shellac/pkg/artifacts/docs"
	"github.com/waxworks/shellac/pkg/differ"
	"github.com/waxworks/shellac/pkg/errors"
	"github.com/waxworks/shellac/pkg/logging"
	"github.com/waxworks/shellac/pkg/reconcile"
	"github.com/waxworks/shellac/pkg/registry"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Registrar provides copy-on-read access to the field registry.
type Registrar interface {
	Registry() (registry.Registry, error)
}

// Client manages the field registry, its artifacts, and event hooks.
type Client interface {

	// Registrar provides copy-on-read access to the field registry
	Registrar

	// Syncer runs the artifact sync pipeline
	Syncer

	// Generator regenerates artifacts from the registry
	Generator

	// Comparer reports pending changes without writing anything
	Comparer

	// Hooks provides access to event callback registration
	Hooks

	// Close releases the baseline store.
	Close() error
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options

	// registry is the working field registry
	mu       sync.RWMutex
	registry registry.Registry

	// artifacts are the bound codec/file pairs, in sync order
	artifacts []artifacts.Artifact

	// baselines is the snapshot store; nil when no path is configured
	baselines *baseline.Store

	merger reconcile.Merger
	differ differ.Differ

	// hook registration is promoted from the embedded struct
	*hooks
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	c := &client{
		options: defaults().apply(opts...),
		merger:  reconcile.NewThreeWayMerger(),
		differ:  differ.New(),
		hooks:   newHooks(),
	}

	regOpts := []registry.Option{registry.WithFields(c.options.initialFields...)}
	if c.options.registryPath != "" {
		regOpts = append(regOpts, registry.WithPath(c.options.registryPath))
	}
	reg, err := registry.New(regOpts...)
	if err != nil {
		return nil, errors.WrapResource("create", "registry", c.options.registryPath, err)
	}
	if err := reg.Load(); err != nil {
		return nil, err
	}
	c.registry = reg

	log := logging.Debug()
	log.Int("fields", reg.Fields().Len()).Msg("Registry loaded")

	if c.options.defsPath != "" {
		c.artifacts = append(c.artifacts, artifacts.Artifact{
			Source: defs.New(c.options.defsPath),
			Path:   c.options.defsPath,
		})
	}
	if c.options.docsPath != "" {
		c.artifacts = append(c.artifacts, artifacts.Artifact{
			Source: docs.New(c.options.docsPath),
			Path:   c.options.docsPath,
		})
	}

	if c.options.baselinePath != "" {
		store, err := baseline.Open(c.options.baselinePath)
		if err != nil {
			return nil, err
		}
		c.baselines = store
	}

	return c, nil
}

// Registry returns a copy of the current field registry.
func (c *client) Registry() (registry.Registry, error) {
	c.mu.RLock()
	reg, err := c.registry.Copy()
	c.mu.RUnlock()
	return reg, err
}

// Close releases the baseline store, if one is open.
func (c *client) Close() error {
	if c.baselines == nil {
		return nil
	}
	return c.baselines.Close()
}

// fields returns the registry's fields in canonical order.
// Callers must hold c.mu.
func (c *client) fields() []registry.Field {
	return c.registry.Fields().List()
}

// loadBaseline returns the baseline field set recorded for an artifact,
// or nil when no baseline exists (first sync).
func (c *client) loadBaseline(name string) ([]registry.Field, error) {
	if c.baselines == nil {
		return nil, nil
	}
	snapshot, err := c.baselines.Load(name)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, nil
	}
	return snapshot.Fields, nil
}
