package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waxworks/shellac/pkg/registry"
)

func testRegistry(t *testing.T) registry.Registry {
	t.Helper()
	reg, err := registry.New(registry.WithFields(
		registry.Field{Key: "artist", Column: "tracks.artist", Kind: registry.KindText, Group: "core"},
		registry.Field{Key: "bpm", Column: "tracks.bpm", Kind: registry.KindFloat, Group: "playback"},
		registry.Field{Key: "added_by", Column: "imports.user", Kind: registry.KindText, Group: "meta"},
	))
	require.NoError(t, err)
	return reg
}

func TestTrackFieldsFiltersByTable(t *testing.T) {
	fields := trackFields(testRegistry(t))
	assert.Equal(t, []string{"artist", "bpm"}, registry.Keys(fields))
}

func TestTracksQuery(t *testing.T) {
	query := tracksQuery(trackFields(testRegistry(t)))
	assert.Equal(t,
		`SELECT id, "artist", "bpm" FROM "tracks" ORDER BY id LIMIT $1 OFFSET $2`,
		query)
}

func TestTracksQueryNoFields(t *testing.T) {
	query := tracksQuery(nil)
	assert.Equal(t, `SELECT id FROM "tracks" ORDER BY id LIMIT $1 OFFSET $2`, query)
}

func TestTrackTagQuery(t *testing.T) {
	field := registry.Field{Key: "added_by", Column: "imports.user", Kind: registry.KindText}

	query, err := trackTagQuery(field)
	require.NoError(t, err)
	// "user" is reserved in postgres; quoting keeps it usable.
	assert.Equal(t, `SELECT "user" FROM "imports" WHERE id = $1`, query)
}

func TestTrackTagQueryBadColumn(t *testing.T) {
	_, err := trackTagQuery(registry.Field{Key: "broken", Column: "no_table_part"})
	assert.Error(t, err)
}

func TestSplitColumn(t *testing.T) {
	for _, tc := range []struct {
		in            string
		table, column string
		ok            bool
	}{
		{"tracks.artist", "tracks", "artist", true},
		{"imports.user", "imports", "user", true},
		{"artist", "", "", false},
		{".artist", "", "", false},
		{"tracks.", "", "", false},
	} {
		table, column, ok := splitColumn(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.table, table, tc.in)
		assert.Equal(t, tc.column, column, tc.in)
	}
}
