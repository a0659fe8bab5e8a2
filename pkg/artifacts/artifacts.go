// Package artifacts defines the codec interface for the legacy field
// representations kept in sync with the registry. Each artifact is a
// whole-file format: codecs parse a file into field records and render
// the complete file back from records. There is no in-place splicing.
package artifacts

import (
	"os"

	"github.com/waxworks/shellac/pkg/errors"
	"github.com/waxworks/shellac/pkg/registry"
)

// Source is a codec for one artifact format.
type Source interface {
	// Name returns the artifact name used in logs, baselines, and errors.
	Name() string

	// Parse decodes the artifact contents into field records.
	Parse(data []byte) ([]registry.Field, error)

	// Render encodes field records into the complete artifact contents.
	// Rendering is deterministic: identical fields produce identical bytes.
	Render(fields []registry.Field) ([]byte, error)
}

// artifactFilePermissions is the mode for regenerated artifact files.
const artifactFilePermissions = 0o644

// Artifact binds a codec to an on-disk file.
type Artifact struct {
	Source Source
	Path   string
}

// Name returns the codec name.
func (a Artifact) Name() string {
	return a.Source.Name()
}

// Exists reports whether the artifact file is present on disk.
func (a Artifact) Exists() bool {
	_, err := os.Stat(a.Path)
	return err == nil
}

// Parse reads and decodes the artifact file.
func (a Artifact) Parse() ([]registry.Field, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, errors.WrapIO("read", a.Path, err)
	}
	return a.Source.Parse(data)
}

// Write renders the fields and replaces the artifact file.
func (a Artifact) Write(fields []registry.Field) error {
	data, err := a.Source.Render(fields)
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.Path, data, artifactFilePermissions); err != nil {
		return errors.WrapIO("write", a.Path, err)
	}
	return nil
}
