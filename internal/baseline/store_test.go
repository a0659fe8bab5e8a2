package baseline

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waxworks/shellac/pkg/registry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "baselines.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testFields() []registry.Field {
	return []registry.Field{
		{Key: "artist", Column: "tracks.artist", Kind: registry.KindText, Group: "core", Visible: true},
		{Key: "bpm", Column: "tracks.bpm", Kind: registry.KindFloat, Group: "playback", Width: 60},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save("defs", testFields()))

	snapshot, err := store.Load("defs")
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, "defs", snapshot.Artifact)
	assert.Equal(t, testFields(), snapshot.Fields)
	assert.WithinDuration(t, time.Now().UTC(), snapshot.RecordedAt, 5*time.Second)
}

func TestLoadMissingReturnsNilNil(t *testing.T) {
	store := openTestStore(t)

	snapshot, err := store.Load("docs")
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestSaveReplacesPrevious(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save("defs", testFields()))
	require.NoError(t, store.Save("defs", testFields()[:1]))

	snapshot, err := store.Load("defs")
	require.NoError(t, err)
	require.Len(t, snapshot.Fields, 1)
	assert.Equal(t, "artist", snapshot.Fields[0].Key)
}

func TestSaveStoresCanonicalOrder(t *testing.T) {
	store := openTestStore(t)

	fields := testFields()
	fields[0], fields[1] = fields[1], fields[0] // scramble
	require.NoError(t, store.Save("defs", fields))

	snapshot, err := store.Load("defs")
	require.NoError(t, err)
	assert.Equal(t, []string{"artist", "bpm"}, registry.Keys(snapshot.Fields))
}

func TestSaveRejectsEmptyArtifact(t *testing.T) {
	store := openTestStore(t)
	assert.Error(t, store.Save("", testFields()))
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save("defs", testFields()))
	require.NoError(t, store.Delete("defs"))
	require.NoError(t, store.Delete("defs"))

	snapshot, err := store.Load("defs")
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestList(t *testing.T) {
	store := openTestStore(t)

	artifacts, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, artifacts)

	require.NoError(t, store.Save("docs", testFields()))
	require.NoError(t, store.Save("defs", testFields()))

	artifacts, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"defs", "docs"}, artifacts)
}
