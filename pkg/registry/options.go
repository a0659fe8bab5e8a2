package registry

import (
	"github.com/waxworks/shellac/pkg/errors"
)

// Option configures a registry during construction.
type Option func(*registry) error

// WithPath sets the YAML file the registry loads from and saves to.
func WithPath(path string) Option {
	return func(r *registry) error {
		if path == "" {
			return &errors.ValidationError{Field: "path", Message: "path cannot be empty"}
		}
		r.path = path
		return nil
	}
}

// WithFields seeds the registry with initial field definitions.
// Each field is validated before being added.
func WithFields(fields ...Field) Option {
	return func(r *registry) error {
		for _, field := range fields {
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
}

// WithReadOnly marks the registry read-only. Write and merge operations
// return ErrReadOnly.
func WithReadOnly() Option {
	return func(r *registry) error {
		r.readOnly = true
		return nil
	}
}
