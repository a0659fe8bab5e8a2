package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waxworks/shellac/pkg/errors"
)

func TestNewWithFields(t *testing.T) {
	reg, err := New(WithFields(testField("artist"), testField("bpm")))
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Fields().Len())

	field, err := reg.Field("artist")
	require.NoError(t, err)
	assert.Equal(t, "tracks.artist", field.Column)

	_, err = reg.Field("missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestNewRejectsInvalidSeed(t *testing.T) {
	bad := testField("artist")
	bad.Column = "no_dot"

	_, err := New(WithFields(bad))
	assert.True(t, errors.IsValidationError(err))
}

func TestSetFieldValidates(t *testing.T) {
	reg, err := New()
	require.NoError(t, err)

	bad := testField("artist")
	bad.Width = -10
	assert.True(t, errors.IsValidationError(reg.SetField(bad)))

	require.NoError(t, reg.SetField(testField("artist")))
	require.NoError(t, reg.DeleteField("artist"))
	assert.True(t, errors.IsNotFound(reg.DeleteField("artist")))
}

func TestReadOnlyRegistry(t *testing.T) {
	reg, err := New(WithFields(testField("artist")), WithReadOnly())
	require.NoError(t, err)

	assert.ErrorIs(t, reg.SetField(testField("bpm")), errors.ErrReadOnly)
	assert.ErrorIs(t, reg.DeleteField("artist"), errors.ErrReadOnly)

	other, err := New(WithFields(testField("bpm")))
	require.NoError(t, err)
	assert.ErrorIs(t, reg.MergeWith(other), errors.ErrReadOnly)
}

func TestMergeWithStrategies(t *testing.T) {
	base := func() Registry {
		existing := testField("artist")
		existing.Label = ""
		existing.Width = 0
		reg, err := New(WithFields(existing))
		require.NoError(t, err)
		return reg
	}

	incoming := testField("artist")
	incoming.Label = "Artist"
	incoming.Width = 200
	incoming.Visible = false

	newcomer := testField("bpm")
	source, err := New(WithFields(incoming, newcomer))
	require.NoError(t, err)

	t.Run("enrich empty", func(t *testing.T) {
		reg := base()
		require.NoError(t, reg.MergeWith(source))

		merged, err := reg.Field("artist")
		require.NoError(t, err)
		assert.Equal(t, "Artist", merged.Label)
		assert.Equal(t, 200, merged.Width)
		// Booleans are identity attributes, never enriched.
		assert.True(t, merged.Visible)
		// Missing fields are always added.
		assert.True(t, reg.Fields().Exists("bpm"))
	})

	t.Run("replace", func(t *testing.T) {
		reg := base()
		require.NoError(t, reg.MergeWith(source, WithStrategy(MergeReplace)))

		merged, err := reg.Field("artist")
		require.NoError(t, err)
		assert.False(t, merged.Visible)
		assert.Equal(t, 200, merged.Width)
	})

	t.Run("append only", func(t *testing.T) {
		reg := base()
		require.NoError(t, reg.MergeWith(source, WithStrategy(MergeAppendOnly)))

		merged, err := reg.Field("artist")
		require.NoError(t, err)
		assert.Empty(t, merged.Label)
		assert.True(t, reg.Fields().Exists("bpm"))
	})

	t.Run("unknown strategy", func(t *testing.T) {
		reg := base()
		err := reg.MergeWith(source, WithStrategy("bogus"))
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestReplaceWith(t *testing.T) {
	reg, err := New(WithFields(testField("artist"), testField("year")))
	require.NoError(t, err)

	source, err := New(WithFields(testField("bpm")))
	require.NoError(t, err)

	require.NoError(t, reg.ReplaceWith(source))
	assert.Equal(t, 1, reg.Fields().Len())
	assert.True(t, reg.Fields().Exists("bpm"))
}

func TestCopyIsIndependent(t *testing.T) {
	reg, err := New(WithFields(testField("artist")))
	require.NoError(t, err)

	dup, err := reg.Copy()
	require.NoError(t, err)

	require.NoError(t, dup.DeleteField("artist"))
	assert.True(t, reg.Fields().Exists("artist"))
	assert.False(t, dup.Fields().Exists("artist"))
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")

	reg, err := New(WithPath(path), WithFields(testField("artist"), testField("bpm")))
	require.NoError(t, err)
	require.NoError(t, reg.Save())

	loaded, err := New(WithPath(path))
	require.NoError(t, err)
	require.NoError(t, loaded.Load())

	assert.Equal(t, 2, loaded.Fields().Len())
	field, err := loaded.Field("artist")
	require.NoError(t, err)
	assert.Equal(t, testField("artist"), field)
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	reg, err := New(WithPath(filepath.Join(t.TempDir(), "absent.yaml")))
	require.NoError(t, err)
	require.NoError(t, reg.Load())
	assert.Equal(t, 0, reg.Fields().Len())
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fields: [\n"), 0o644))

	reg, err := New(WithPath(path))
	require.NoError(t, err)
	assert.Error(t, reg.Load())
}

func TestValidateAll(t *testing.T) {
	rating := testField("rating")
	rating.Kind = KindRating
	rating.Editable = true

	reg, err := New(WithFields(testField("artist"), rating))
	require.NoError(t, err)

	report := ValidateAll(reg)
	assert.True(t, report.Valid())
	require.NotEmpty(t, report.Warnings)
	assert.Contains(t, report.Warnings[0], "rating")
}

func TestValidateAllDuplicateColumn(t *testing.T) {
	alias := testField("artist_alias")
	alias.Column = "tracks.artist"

	reg, err := New(WithFields(testField("artist"), alias))
	require.NoError(t, err)

	report := ValidateAll(reg)
	assert.False(t, report.Valid())
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Error(), "same column")
}
