package shellac

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waxworks/shellac/pkg/errors"
	"github.com/waxworks/shellac/pkg/registry"
)

func seedFields() []registry.Field {
	return []registry.Field{
		{
			Key:      "artist",
			Column:   "tracks.artist",
			Kind:     registry.KindText,
			Label:    "Artist",
			Group:    "core",
			Width:    180,
			Visible:  true,
			Sortable: true,
		},
		{
			Key:    "bpm",
			Column: "tracks.bpm",
			Kind:   registry.KindFloat,
			Label:  "BPM",
			Group:  "playback",
			Width:  60,
		},
	}
}

func TestNewDefaults(t *testing.T) {
	sc, err := New()
	require.NoError(t, err)
	defer func() { _ = sc.Close() }()

	reg, err := sc.Registry()
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Fields().Len())
}

func TestRegistryReturnsCopy(t *testing.T) {
	sc, err := New(WithInitialFields(seedFields()...))
	require.NoError(t, err)
	defer func() { _ = sc.Close() }()

	reg, err := sc.Registry()
	require.NoError(t, err)
	require.NoError(t, reg.DeleteField("artist"))

	// The client's registry is unaffected.
	reg2, err := sc.Registry()
	require.NoError(t, err)
	assert.Equal(t, 2, reg2.Fields().Len())
}

func TestGenerateWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	defsPath := filepath.Join(dir, "field_defs.py")
	docsPath := filepath.Join(dir, "fields.md")

	sc, err := New(
		WithInitialFields(seedFields()...),
		WithDefsPath(defsPath),
		WithDocsPath(docsPath),
	)
	require.NoError(t, err)
	defer func() { _ = sc.Close() }()

	require.NoError(t, sc.Generate(context.Background()))

	defsData, err := os.ReadFile(defsPath)
	require.NoError(t, err)
	assert.Contains(t, string(defsData), `@field(key="artist"`)

	docsData, err := os.ReadFile(docsPath)
	require.NoError(t, err)
	assert.Contains(t, string(docsData), "shellac:generated")
	assert.Contains(t, string(docsData), "| artist |")
}

func TestGenerateByName(t *testing.T) {
	dir := t.TempDir()
	defsPath := filepath.Join(dir, "field_defs.py")
	docsPath := filepath.Join(dir, "fields.md")

	sc, err := New(
		WithInitialFields(seedFields()...),
		WithDefsPath(defsPath),
		WithDocsPath(docsPath),
	)
	require.NoError(t, err)
	defer func() { _ = sc.Close() }()

	require.NoError(t, sc.Generate(context.Background(), "defs"))

	_, err = os.Stat(defsPath)
	require.NoError(t, err)
	_, err = os.Stat(docsPath)
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateUnknownArtifact(t *testing.T) {
	sc, err := New(WithInitialFields(seedFields()...))
	require.NoError(t, err)
	defer func() { _ = sc.Close() }()

	err = sc.Generate(context.Background(), "wiki")
	assert.True(t, errors.IsNotFound(err))
}

func TestGenerateHonorsContext(t *testing.T) {
	dir := t.TempDir()
	sc, err := New(
		WithInitialFields(seedFields()...),
		WithDefsPath(filepath.Join(dir, "field_defs.py")),
	)
	require.NoError(t, err)
	defer func() { _ = sc.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, sc.Generate(ctx))
}
