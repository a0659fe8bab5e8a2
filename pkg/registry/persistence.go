package registry

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/waxworks/shellac/pkg/errors"
)

// registryFilePermissions is the mode for the registry YAML file.
const registryFilePermissions = 0o644

// registryFile is the on-disk YAML document shape.
type registryFile struct {
	Fields []Field `yaml:"fields"`
}

// Load reads the registry from its configured path. A registry without a
// path is memory-only and Load is a no-op. A missing file is not an
// error; the registry simply starts empty.
func (r *registry) Load() error {
	if r.path == "" {
		return nil
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapIO("read", r.path, err)
	}

	var doc registryFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.WrapParse("yaml", r.path, err)
	}

	r.fields.Clear()
	for _, field := range doc.Fields {
		if err := field.Validate(); err != nil {
			return err
		}
		f := field
		if err := r.fields.Set(f.Key, &f); err != nil {
			return err
		}
	}

	return nil
}

// Save writes the registry to its configured path in canonical order.
// A registry without a path is memory-only and Save is a no-op.
func (r *registry) Save() error {
	if r.path == "" {
		return nil
	}
	if r.readOnly {
		return errors.ErrReadOnly
	}

	doc := registryFile{Fields: r.fields.List()}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.WrapResource("save", "registry", r.path, err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}

	if err := os.WriteFile(r.path, data, registryFilePermissions); err != nil {
		return errors.WrapIO("write", r.path, err)
	}

	return nil
}
