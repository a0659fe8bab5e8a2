package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waxworks/shellac/pkg/errors"
)

func testField(key string) Field {
	return Field{
		Key:        key,
		Column:     "tracks." + key,
		Kind:       KindText,
		Label:      "Label",
		Group:      "core",
		Width:      120,
		Visible:    true,
		Sortable:   true,
		Searchable: true,
		Since:      "0.3",
	}
}

func TestFieldValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Field)
		wantErr string
	}{
		{name: "valid", mutate: func(_ *Field) {}},
		{name: "empty key", mutate: func(f *Field) { f.Key = "" }, wantErr: "key is required"},
		{name: "bad key", mutate: func(f *Field) { f.Key = "Artist" }, wantErr: "must match"},
		{name: "key with digits", mutate: func(f *Field) { f.Key = "disc2_no" }},
		{name: "empty column", mutate: func(f *Field) { f.Column = "" }, wantErr: "column is required"},
		{name: "column without table", mutate: func(f *Field) { f.Column = "artist" }, wantErr: "table.column"},
		{name: "unknown kind", mutate: func(f *Field) { f.Kind = "blob" }, wantErr: "unknown kind"},
		{name: "negative width", mutate: func(f *Field) { f.Width = -1 }, wantErr: "width must be >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testField("artist")
			tt.mutate(&f)

			err := f.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestFieldWarnings(t *testing.T) {
	f := testField("rating")
	f.Kind = KindRating
	f.Editable = true

	warnings := f.Warnings()
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "rating fields should not be editable")

	// Clean fields produce no warnings.
	assert.Empty(t, testField("artist").Warnings())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("TEXT")
	require.NoError(t, err)
	assert.Equal(t, KindText, k)

	k, err = ParseKind("duration")
	require.NoError(t, err)
	assert.Equal(t, KindDuration, k)

	_, err = ParseKind("blob")
	assert.True(t, errors.IsValidationError(err))
}

func TestSortFields(t *testing.T) {
	fields := []Field{
		{Key: "bpm", Group: "playback"},
		{Key: "artist", Group: "core"},
		{Key: "title", Group: "core"},
		{Key: "rating", Group: "custom"},
	}

	SortFields(fields)

	assert.Equal(t, []string{"artist", "title", "rating", "bpm"}, Keys(fields))
}
