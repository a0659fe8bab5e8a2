package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waxworks/shellac/internal/library"
	"github.com/waxworks/shellac/pkg/registry"
)

func sampleField() registry.Field {
	return registry.Field{
		Key:      "artist",
		Column:   "tracks.artist",
		Kind:     registry.KindText,
		Label:    "Artist",
		Group:    "core",
		Width:    180,
		Visible:  true,
		Sortable: true,
	}
}

func TestFieldsToTableData(t *testing.T) {
	data := FieldsToTableData([]registry.Field{sampleField()}, false)

	assert.Equal(t, []string{"Key", "Column", "Kind", "Label", "Group", "Width"}, data.Headers)
	assert.Equal(t, [][]string{{"artist", "tracks.artist", "text", "Artist", "core", "180"}}, data.Rows)
}

func TestFieldsToTableDataDetails(t *testing.T) {
	data := FieldsToTableData([]registry.Field{sampleField()}, true)

	assert.Len(t, data.Headers, 10)
	assert.Equal(t, "visible,sortable", data.Rows[0][6])
	assert.Equal(t, "-", data.Rows[0][7]) // no default
}

func TestFieldToDetailsData(t *testing.T) {
	data := FieldToDetailsData(sampleField())

	assert.Equal(t, []string{"Property", "Value"}, data.Headers)
	assert.Len(t, data.Rows, 13)
	assert.Contains(t, data.Rows, []string{"Editable", "no"})
	assert.Contains(t, data.Rows, []string{"Visible", "yes"})
}

func TestFormatWidth(t *testing.T) {
	assert.Equal(t, "auto", FormatWidth(0))
	assert.Equal(t, "90", FormatWidth(90))
}

func TestTracksToTableDataUsesVisibleFields(t *testing.T) {
	fields := []registry.Field{
		sampleField(),
		{Key: "bpm", Column: "tracks.bpm", Kind: registry.KindFloat, Label: "BPM"},
	}
	tracks := []library.Track{
		{ID: 7, Tags: map[string]string{"artist": "Nina Simone", "bpm": "92"}},
	}

	data := TracksToTableData(tracks, fields)

	// bpm is not visible, so only ID and Artist appear.
	assert.Equal(t, []string{"ID", "Artist"}, data.Headers)
	assert.Equal(t, [][]string{{"7", "Nina Simone"}}, data.Rows)
}

func TestPlaylistsToTableData(t *testing.T) {
	data := PlaylistsToTableData([]library.Playlist{
		{ID: 1, Name: "Late Night", TrackCount: 42},
	})

	assert.Equal(t, [][]string{{"1", "Late Night", "42"}}, data.Rows)
}

func TestValidationToTableData(t *testing.T) {
	report := &registry.ValidationReport{
		Warnings: []string{"field artist: label is empty"},
	}

	data := ValidationToTableData(report)
	assert.Equal(t, [][]string{{"warning", "field artist: label is empty"}}, data.Rows)
}
