package shellac

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waxworks/shellac/pkg/reconcile"
	"github.com/waxworks/shellac/pkg/registry"
)

const syncTestDefs = `# Field registry definitions.

@field(key="artist", column="tracks.artist", kind=TEXT, label="Artist",
       width=180, visible=true, sortable=true, group="core")

@field(key="bpm", column="tracks.bpm", kind=FLOAT, label="BPM",
       width=60, group="playback")
`

// paths bundles the on-disk layout a sync test works against.
type paths struct {
	registry string
	defs     string
	docs     string
	baseline string
}

func testPaths(t *testing.T) paths {
	t.Helper()
	dir := t.TempDir()
	return paths{
		registry: filepath.Join(dir, "registry.yaml"),
		defs:     filepath.Join(dir, "field_defs.py"),
		docs:     filepath.Join(dir, "fields.md"),
		baseline: filepath.Join(dir, "baselines.db"),
	}
}

func newTestClient(t *testing.T, p paths, opts ...Option) Client {
	t.Helper()
	sc, err := New(append([]Option{
		WithRegistryPath(p.registry),
		WithDefsPath(p.defs),
		WithDocsPath(p.docs),
		WithBaselinePath(p.baseline),
	}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Close() })
	return sc
}

func TestSyncFirstRunAdoptsArtifactFields(t *testing.T) {
	p := testPaths(t)
	require.NoError(t, os.WriteFile(p.defs, []byte(syncTestDefs), 0o644))

	sc := newTestClient(t, p)

	result, err := sc.Sync(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.False(t, result.HasConflicts())
	assert.Equal(t, 2, result.Changeset.Summary.FieldsAdded)

	reg, err := sc.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"artist", "bpm"}, registry.Keys(reg.Fields().List()))

	// Registry file, docs artifact, and baselines were all written.
	_, err = os.Stat(p.registry)
	require.NoError(t, err)
	docsData, err := os.ReadFile(p.docs)
	require.NoError(t, err)
	assert.Contains(t, string(docsData), "shellac:generated")
}

func TestSyncIsIdempotent(t *testing.T) {
	p := testPaths(t)
	require.NoError(t, os.WriteFile(p.defs, []byte(syncTestDefs), 0o644))

	sc := newTestClient(t, p)

	_, err := sc.Sync(context.Background())
	require.NoError(t, err)

	result, err := sc.Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Changeset.HasChanges())
	assert.False(t, result.HasConflicts())
}

func TestSyncDryRunWritesNothing(t *testing.T) {
	p := testPaths(t)
	require.NoError(t, os.WriteFile(p.defs, []byte(syncTestDefs), 0o644))

	sc := newTestClient(t, p)

	result, err := sc.Sync(context.Background(), WithDryRun(true))
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.False(t, result.Applied)
	assert.Equal(t, 2, result.Changeset.Summary.FieldsAdded)

	_, err = os.Stat(p.registry)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(p.docs)
	assert.True(t, os.IsNotExist(err))

	// The in-memory registry is untouched too.
	reg, err := sc.Registry()
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Fields().Len())
}

func TestSyncMissingArtifactsRegenerate(t *testing.T) {
	p := testPaths(t)

	sc := newTestClient(t, p, WithInitialFields(seedFields()...))

	result, err := sc.Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Artifacts, 2)
	assert.True(t, result.Artifacts[0].Missing)
	assert.True(t, result.Artifacts[1].Missing)
	assert.False(t, result.Changeset.HasChanges())

	// Regeneration still happens, so the next sync has artifacts to read.
	_, err = os.Stat(p.defs)
	require.NoError(t, err)
	_, err = os.Stat(p.docs)
	require.NoError(t, err)
}

func TestSyncUnresolvedConflictRefusesToWrite(t *testing.T) {
	p := testPaths(t)
	require.NoError(t, os.WriteFile(p.defs, []byte(syncTestDefs), 0o644))

	// Establish registry and baselines.
	sc := newTestClient(t, p)
	_, err := sc.Sync(context.Background())
	require.NoError(t, err)
	require.NoError(t, sc.Close())

	// Diverge: the registry moves artist to one column, the defs file to
	// another.
	reg, err := registry.New(registry.WithPath(p.registry))
	require.NoError(t, err)
	require.NoError(t, reg.Load())
	artist, err := reg.Field("artist")
	require.NoError(t, err)
	artist.Column = "tracks.artist_name"
	require.NoError(t, reg.SetField(artist))
	require.NoError(t, reg.Save())

	edited := []byte(strings.ReplaceAll(syncTestDefs, "tracks.artist", "tracks.performer"))
	require.NoError(t, os.WriteFile(p.defs, edited, 0o644))

	sc2 := newTestClient(t, p)
	result, err := sc2.Sync(context.Background())
	require.Error(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Unresolved(), 1)
	assert.Equal(t, "column", result.Unresolved()[0].Path)

	// Force keeps the registry's value and writes.
	result, err = sc2.Sync(context.Background(), WithForce(true))
	require.NoError(t, err)
	assert.True(t, result.Applied)

	reg2, err := sc2.Registry()
	require.NoError(t, err)
	artist, err = reg2.Field("artist")
	require.NoError(t, err)
	assert.Equal(t, "tracks.artist_name", artist.Column)
}

func TestSyncFirstRunDivergenceKeepsRegistry(t *testing.T) {
	p := testPaths(t)
	edited := []byte(strings.ReplaceAll(syncTestDefs, `group="core"`, `group="tags"`))
	require.NoError(t, os.WriteFile(p.defs, edited, 0o644))

	// No baseline exists yet, so the disagreement over artist's group
	// must not block the first sync. The registry's value wins.
	sc := newTestClient(t, p, WithInitialFields(seedFields()...))

	result, err := sc.Sync(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.True(t, result.HasConflicts())
	assert.Empty(t, result.Unresolved())

	reg, err := sc.Registry()
	require.NoError(t, err)
	artist, err := reg.Field("artist")
	require.NoError(t, err)
	assert.Equal(t, "core", artist.Group)
}

func TestSyncDryRunReportsUnresolvedConflicts(t *testing.T) {
	p := testPaths(t)
	require.NoError(t, os.WriteFile(p.defs, []byte(syncTestDefs), 0o644))

	sc := newTestClient(t, p)
	_, err := sc.Sync(context.Background())
	require.NoError(t, err)
	require.NoError(t, sc.Close())

	reg, err := registry.New(registry.WithPath(p.registry))
	require.NoError(t, err)
	require.NoError(t, reg.Load())
	artist, err := reg.Field("artist")
	require.NoError(t, err)
	artist.Column = "tracks.artist_name"
	require.NoError(t, reg.SetField(artist))
	require.NoError(t, reg.Save())

	edited := []byte(strings.ReplaceAll(syncTestDefs, "tracks.artist", "tracks.performer"))
	require.NoError(t, os.WriteFile(p.defs, edited, 0o644))

	// A dry run reports the conflict instead of erroring out.
	sc2 := newTestClient(t, p)
	result, err := sc2.Sync(context.Background(), WithDryRun(true))
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.False(t, result.Applied)
	require.Len(t, result.Unresolved(), 1)
	assert.Equal(t, "column", result.Unresolved()[0].Path)
}

func TestSyncAutoResolvesWidthAndProse(t *testing.T) {
	p := testPaths(t)
	require.NoError(t, os.WriteFile(p.defs, []byte(syncTestDefs), 0o644))

	sc := newTestClient(t, p)
	_, err := sc.Sync(context.Background())
	require.NoError(t, err)
	require.NoError(t, sc.Close())

	// Registry widens the column while the defs file narrows it. Width
	// conflicts resolve to the registry's value.
	reg, err := registry.New(registry.WithPath(p.registry))
	require.NoError(t, err)
	require.NoError(t, reg.Load())
	artist, err := reg.Field("artist")
	require.NoError(t, err)
	artist.Width = 240
	require.NoError(t, reg.SetField(artist))
	require.NoError(t, reg.Save())

	edited := []byte(strings.ReplaceAll(syncTestDefs, "width=180", "width=90"))
	require.NoError(t, os.WriteFile(p.defs, edited, 0o644))

	sc2 := newTestClient(t, p)
	result, err := sc2.Sync(context.Background())
	require.NoError(t, err)

	assert.True(t, result.HasConflicts())
	assert.Empty(t, result.Unresolved())

	reg2, err := sc2.Registry()
	require.NoError(t, err)
	artist, err = reg2.Field("artist")
	require.NoError(t, err)
	assert.Equal(t, 240, artist.Width)
}

func TestSyncStrategyTheirs(t *testing.T) {
	p := testPaths(t)
	require.NoError(t, os.WriteFile(p.defs, []byte(syncTestDefs), 0o644))

	sc := newTestClient(t, p)
	_, err := sc.Sync(context.Background())
	require.NoError(t, err)
	require.NoError(t, sc.Close())

	reg, err := registry.New(registry.WithPath(p.registry))
	require.NoError(t, err)
	require.NoError(t, reg.Load())
	artist, err := reg.Field("artist")
	require.NoError(t, err)
	artist.Group = "metadata"
	require.NoError(t, reg.SetField(artist))
	require.NoError(t, reg.Save())

	edited := []byte(strings.ReplaceAll(syncTestDefs, `group="core"`, `group="tags"`))
	require.NoError(t, os.WriteFile(p.defs, edited, 0o644))

	sc2 := newTestClient(t, p)
	result, err := sc2.Sync(context.Background(), WithResolution(reconcile.ResolutionTheirs))
	require.NoError(t, err)
	assert.True(t, result.Applied)

	reg2, err := sc2.Registry()
	require.NoError(t, err)
	artist, err = reg2.Field("artist")
	require.NoError(t, err)
	assert.Equal(t, "tags", artist.Group)
}

func TestSyncRejectsUnknownStrategy(t *testing.T) {
	p := testPaths(t)
	sc := newTestClient(t, p)

	_, err := sc.Sync(context.Background(), WithResolution(reconcile.Resolution("bogus")))
	assert.Error(t, err)
}

func TestSyncHonorsContext(t *testing.T) {
	p := testPaths(t)
	require.NoError(t, os.WriteFile(p.defs, []byte(syncTestDefs), 0o644))

	sc := newTestClient(t, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sc.Sync(ctx)
	assert.Error(t, err)
}

func TestSyncTriggersHooks(t *testing.T) {
	p := testPaths(t)
	require.NoError(t, os.WriteFile(p.defs, []byte(syncTestDefs), 0o644))

	sc := newTestClient(t, p)

	var added, updated, removed []string
	sc.OnFieldAdded(func(f registry.Field) { added = append(added, f.Key) })
	sc.OnFieldUpdated(func(old, new registry.Field) { updated = append(updated, new.Key) })
	sc.OnFieldRemoved(func(f registry.Field) { removed = append(removed, f.Key) })

	_, err := sc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"artist", "bpm"}, added)
	assert.Empty(t, updated)
	assert.Empty(t, removed)

	// Drop bpm and relabel artist in the defs file.
	edited := `@field(key="artist", column="tracks.artist", kind=TEXT, label="Artist Name",
       width=180, visible=true, sortable=true, group="core")
`
	require.NoError(t, os.WriteFile(p.defs, []byte(edited), 0o644))

	_, err = sc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"artist"}, updated)
	assert.Equal(t, []string{"bpm"}, removed)
}

func TestDiffReportsWithoutWriting(t *testing.T) {
	p := testPaths(t)
	require.NoError(t, os.WriteFile(p.defs, []byte(syncTestDefs), 0o644))

	sc := newTestClient(t, p)

	changesets, err := sc.Diff(context.Background())
	require.NoError(t, err)

	require.Contains(t, changesets, "defs")
	assert.Equal(t, 2, changesets["defs"].Summary.FieldsAdded)
	assert.NotContains(t, changesets, "docs") // file missing, skipped

	_, err = os.Stat(p.registry)
	assert.True(t, os.IsNotExist(err))
}
