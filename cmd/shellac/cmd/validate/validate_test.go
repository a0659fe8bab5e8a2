package validate

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waxworks/shellac"
	"github.com/waxworks/shellac/internal/appcontext"
	"github.com/waxworks/shellac/pkg/registry"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestMarkerWarnings(t *testing.T) {
	dir := t.TempDir()

	marked := filepath.Join(dir, "fields.md")
	require.NoError(t, os.WriteFile(marked, []byte("<!-- shellac:generated -->\n# Fields\n"), 0o644))
	edited := filepath.Join(dir, "edited.md")
	require.NoError(t, os.WriteFile(edited, []byte("# Fields\n"), 0o644))
	defs := filepath.Join(dir, "field_defs.py")
	require.NoError(t, os.WriteFile(defs, []byte("# defs\n"), 0o644))

	warnings := markerWarnings([]string{marked, edited, defs, filepath.Join(dir, "missing.md")})
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "edited.md")
}

func TestValidateWarnsOnHandEditedDocs(t *testing.T) {
	dir := t.TempDir()
	docsPath := filepath.Join(dir, "fields.md")
	handEdited := "# Fields\n\n| Key | Column | Kind |\n| --- | --- | --- |\n| artist | tracks.artist | text |\n"
	require.NoError(t, os.WriteFile(docsPath, []byte(handEdited), 0o644))

	app := &appcontext.Mock{
		ClientFunc: func() (shellac.Client, error) {
			return shellac.New(
				shellac.WithInitialFields(registry.Field{
					Key:      "artist",
					Column:   "tracks.artist",
					Kind:     registry.KindText,
					Label:    "Artist",
					Group:    "core",
					Width:    180,
					Visible:  true,
					Sortable: true,
				}),
				shellac.WithDocsPath(docsPath),
			)
		},
		ArtifactPathsFunc: func() []string { return []string{docsPath} },
		OutputFormatFunc:  func() string { return "json" },
	}

	cmd := NewCommand(app)
	cmd.SetArgs([]string{})

	var err error
	out := captureStdout(t, func() { err = cmd.Execute() })

	// A missing marker is advisory: reported, not fatal.
	require.NoError(t, err)
	assert.Contains(t, out, "missing generation marker")
}
