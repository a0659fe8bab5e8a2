package shellac

import (
	"context"
	"fmt"
	"strings"

	"github.com/waxworks/shellac/pkg/differ"
	"github.com/waxworks/shellac/pkg/errors"
	"github.com/waxworks/shellac/pkg/logging"
	"github.com/waxworks/shellac/pkg/reconcile"
	"github.com/waxworks/shellac/pkg/registry"
)

// Syncer runs the artifact sync pipeline.
type Syncer interface {
	// Sync reconciles the registry with its artifacts and, unless the run
	// is dry, saves the registry, records new baselines, and regenerates
	// the artifact files.
	Sync(ctx context.Context, opts ...SyncOption) (*SyncResult, error)
}

// SyncOption configures a single sync run.
type SyncOption func(*syncOptions)

// syncOptions holds per-run settings, seeded from the client defaults.
type syncOptions struct {
	strategy reconcile.Resolution
	dryRun   bool
	force    bool
}

// WithResolution overrides the conflict resolution strategy for this run.
func WithResolution(strategy reconcile.Resolution) SyncOption {
	return func(o *syncOptions) {
		o.strategy = strategy
	}
}

// WithDryRun reconciles and reports without writing anything.
func WithDryRun(enabled bool) SyncOption {
	return func(o *syncOptions) {
		o.dryRun = enabled
	}
}

// WithForce writes even when conflicts could not be auto-resolved.
func WithForce(enabled bool) SyncOption {
	return func(o *syncOptions) {
		o.force = enabled
	}
}

// ArtifactSync is the per-artifact outcome of a sync run.
type ArtifactSync struct {
	Artifact string            // Artifact name ("defs", "docs")
	Path     string            // File the artifact was read from
	Missing  bool              // File was absent; nothing to reconcile
	Merge    *reconcile.Result // Three-way merge outcome, nil when Missing
}

// SyncResult is the outcome of a full sync run.
type SyncResult struct {
	Artifacts []ArtifactSync    // Per-artifact merge outcomes, in sync order
	Changeset *differ.Changeset // Net changes applied to the registry
	Strategy  reconcile.Resolution
	DryRun    bool
	Applied   bool // Registry and artifacts were written
}

// HasConflicts reports whether any artifact merge detected conflicts.
func (r *SyncResult) HasConflicts() bool {
	for _, a := range r.Artifacts {
		if a.Merge != nil && a.Merge.HasConflicts() {
			return true
		}
	}
	return false
}

// Unresolved returns the conflicts no strategy resolution covered.
func (r *SyncResult) Unresolved() []reconcile.Conflict {
	var unresolved []reconcile.Conflict
	for _, a := range r.Artifacts {
		if a.Merge != nil {
			unresolved = append(unresolved, a.Merge.Unresolved()...)
		}
	}
	return unresolved
}

// String returns a human-readable summary of the run.
func (r *SyncResult) String() string {
	var b strings.Builder
	if r.DryRun {
		b.WriteString("dry run: ")
	}
	fmt.Fprintf(&b, "%d added, %d updated, %d removed",
		r.Changeset.Summary.FieldsAdded,
		r.Changeset.Summary.FieldsUpdated,
		r.Changeset.Summary.FieldsRemoved)
	if unresolved := r.Unresolved(); len(unresolved) > 0 {
		fmt.Fprintf(&b, ", %d unresolved conflicts", len(unresolved))
	}
	return b.String()
}

// Sync reconciles the registry with its artifacts.
func (c *client) Sync(ctx context.Context, opts ...SyncOption) (*SyncResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	run := &syncOptions{
		strategy: c.options.strategy,
		dryRun:   c.options.dryRun,
	}
	for _, opt := range opts {
		opt(run)
	}
	if _, err := reconcile.ParseResolution(string(run.strategy)); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.fields()
	merged := before

	result := &SyncResult{
		Strategy: run.strategy,
		DryRun:   run.dryRun,
	}

	// Reconcile artifact by artifact; each merge's output is the working
	// set for the next, so a field edited in both artifacts converges.
	for _, artifact := range c.artifacts {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapSync(artifact.Name(), err)
		}

		if !artifact.Exists() {
			logging.Debug().
				Str("artifact", artifact.Name()).
				Str("path", artifact.Path).
				Msg("Artifact file missing, skipping reconcile")
			result.Artifacts = append(result.Artifacts, ArtifactSync{
				Artifact: artifact.Name(),
				Path:     artifact.Path,
				Missing:  true,
			})
			continue
		}

		theirs, err := artifact.Parse()
		if err != nil {
			return nil, errors.WrapSync(artifact.Name(), err)
		}

		base, err := c.loadBaseline(artifact.Name())
		if err != nil {
			return nil, errors.WrapSync(artifact.Name(), err)
		}
		if base == nil {
			logging.Debug().
				Str("artifact", artifact.Name()).
				Msg("No baseline recorded, treating all artifact changes as theirs")
		}

		merge, err := c.merger.Merge(base, merged, theirs, run.strategy)
		if err != nil {
			return nil, errors.WrapSync(artifact.Name(), err)
		}

		logging.Info().
			Str("artifact", artifact.Name()).
			Str("run_id", merge.RunID).
			Int("conflicts", merge.Counts.Conflicts).
			Int("auto_resolved", merge.Counts.AutoResolved).
			Msg(merge.String())

		merged = merge.Merged
		result.Artifacts = append(result.Artifacts, ArtifactSync{
			Artifact: artifact.Name(),
			Path:     artifact.Path,
			Merge:    merge,
		})
	}

	result.Changeset = c.differ.Fields(before, merged)

	// A dry run reports everything, unresolved conflicts included,
	// without erroring: nothing is going to be written either way.
	if run.dryRun {
		logging.Info().Bool("dry_run", true).Msg("Dry run completed - no changes applied")
		return result, nil
	}

	if unresolved := result.Unresolved(); len(unresolved) > 0 && !run.force {
		return result, &errors.MergeError{
			Source:      "registry",
			Target:      "artifacts",
			ConflictIDs: conflictIDs(unresolved),
		}
	}

	if err := c.apply(ctx, merged, result.Changeset); err != nil {
		return nil, err
	}
	result.Applied = true

	c.hooks.trigger(result.Changeset)

	return result, nil
}

// apply writes the merged field set: registry first, then baselines and
// regenerated artifacts. Callers must hold c.mu.
func (c *client) apply(ctx context.Context, merged []registry.Field, changeset *differ.Changeset) error {
	if changeset.HasChanges() {
		source, err := registry.New(registry.WithFields(merged...))
		if err != nil {
			return errors.WrapSync("registry", err)
		}
		if err := c.registry.ReplaceWith(source); err != nil {
			return errors.WrapSync("registry", err)
		}
		if err := c.registry.Save(); err != nil {
			return errors.WrapSync("registry", err)
		}
	}

	fields := c.fields()
	for _, artifact := range c.artifacts {
		if err := ctx.Err(); err != nil {
			return errors.WrapSync(artifact.Name(), err)
		}
		if err := artifact.Write(fields); err != nil {
			return errors.WrapSync(artifact.Name(), err)
		}
		if c.baselines != nil {
			if err := c.baselines.Save(artifact.Name(), fields); err != nil {
				return errors.WrapSync(artifact.Name(), err)
			}
		}
	}

	logging.Info().
		Int("changes_applied", changeset.Summary.TotalChanges).
		Msg("Sync completed successfully")

	return nil
}

// conflictIDs renders conflicts as key.path identifiers.
func conflictIDs(conflicts []reconcile.Conflict) []string {
	ids := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		ids = append(ids, c.Key+"."+c.Path)
	}
	return ids
}
