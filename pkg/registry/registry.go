package registry

import (
	"fmt"

	"github.com/waxworks/shellac/pkg/errors"
)

// Reader provides read-only access to the field registry.
type Reader interface {
	// Fields returns the registry's field collection.
	Fields() *Fields

	// Field returns a field definition by key.
	Field(key string) (Field, error)
}

// Writer provides write operations for the field registry.
type Writer interface {
	// SetField upserts a field definition.
	SetField(field Field) error

	// DeleteField removes a field definition by key.
	DeleteField(key string) error
}

// Merger provides registry merging capabilities.
type Merger interface {
	// ReplaceWith replaces this registry's contents with another registry.
	// The source only needs to be readable.
	ReplaceWith(source Reader) error

	// MergeWith merges another registry into this one.
	// Use WithStrategy to override the merge strategy (defaults to MergeEnrichEmpty).
	MergeWith(source Reader, opts ...MergeOption) error
}

// Copier provides registry copying capabilities.
type Copier interface {
	// Copy returns a deep copy of the registry.
	Copy() (Registry, error)
}

// Persister provides load and save operations against the backing file.
type Persister interface {
	// Load reads the registry from its configured path.
	Load() error

	// Save writes the registry back to its configured path.
	Save() error
}

// Registry is the complete interface combining all registry capabilities.
type Registry interface {
	Reader
	Writer
	Merger
	Copier
	Persister
}

// MergeStrategy determines how fields from a source registry are merged in.
type MergeStrategy string

// Merge strategies.
const (
	// MergeEnrichEmpty fills empty attributes from the source but never
	// overwrites a non-zero value.
	MergeEnrichEmpty MergeStrategy = "enrich_empty"

	// MergeReplace overwrites existing fields entirely with the source's.
	MergeReplace MergeStrategy = "replace"

	// MergeAppendOnly adds fields missing from this registry and leaves
	// existing fields untouched.
	MergeAppendOnly MergeStrategy = "append_only"
)

// MergeOption configures how registries are merged.
type MergeOption func(*MergeOptions)

// MergeOptions holds merge configuration.
type MergeOptions struct {
	Strategy MergeStrategy
}

// WithStrategy overrides the merge strategy.
func WithStrategy(s MergeStrategy) MergeOption {
	return func(o *MergeOptions) {
		o.Strategy = s
	}
}

// registry is the concrete implementation backed by an optional YAML file.
type registry struct {
	fields   *Fields
	path     string
	readOnly bool
}

// New creates a new registry with the given options. Without a path the
// registry is memory-only and Load/Save are no-ops.
func New(opts ...Option) (Registry, error) {
	r := &registry{
		fields: NewFields(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Fields returns the registry's field collection.
func (r *registry) Fields() *Fields {
	return r.fields
}

// Field returns a field definition by key.
func (r *registry) Field(key string) (Field, error) {
	field, ok := r.fields.Get(key)
	if !ok {
		return Field{}, errors.NewNotFoundError("field", key)
	}
	return *field, nil
}

// SetField upserts a field definition after validating it.
func (r *registry) SetField(field Field) error {
	if r.readOnly {
		return errors.ErrReadOnly
	}
	if err := field.Validate(); err != nil {
		return err
	}
	return r.fields.Set(field.Key, &field)
}

// DeleteField removes a field definition by key.
func (r *registry) DeleteField(key string) error {
	if r.readOnly {
		return errors.ErrReadOnly
	}
	return r.fields.Delete(key)
}

// ReplaceWith replaces this registry's contents with the source's.
func (r *registry) ReplaceWith(source Reader) error {
	if r.readOnly {
		return errors.ErrReadOnly
	}

	incoming := make(map[string]*Field)
	for _, field := range source.Fields().List() {
		f := field
		incoming[f.Key] = &f
	}

	r.fields.Clear()
	return r.fields.SetBatch(incoming)
}

// MergeWith merges another registry into this one.
func (r *registry) MergeWith(source Reader, opts ...MergeOption) error {
	if r.readOnly {
		return errors.ErrReadOnly
	}

	cfg := &MergeOptions{Strategy: MergeEnrichEmpty}
	for _, opt := range opts {
		opt(cfg)
	}

	for _, incoming := range source.Fields().List() {
		existing, ok := r.fields.Get(incoming.Key)
		if !ok {
			f := incoming
			if err := r.fields.Set(f.Key, &f); err != nil {
				return err
			}
			continue
		}

		switch cfg.Strategy {
		case MergeReplace:
			f := incoming
			if err := r.fields.Set(f.Key, &f); err != nil {
				return err
			}
		case MergeAppendOnly:
			// Existing fields are left untouched.
		case MergeEnrichEmpty:
			merged := enrichEmpty(*existing, incoming)
			if err := r.fields.Set(merged.Key, &merged); err != nil {
				return err
			}
		default:
			return &errors.ValidationError{Field: "strategy", Value: cfg.Strategy, Message: "unknown merge strategy"}
		}
	}
	return nil
}

// enrichEmpty fills empty attributes of dst from src without overwriting
// non-zero values. Booleans are identity attributes here, not capability
// flags, so they are never enriched.
func enrichEmpty(dst, src Field) Field {
	if dst.Column == "" {
		dst.Column = src.Column
	}
	if dst.Kind == "" {
		dst.Kind = src.Kind
	}
	if dst.Label == "" {
		dst.Label = src.Label
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if dst.Default == "" {
		dst.Default = src.Default
	}
	if dst.Group == "" {
		dst.Group = src.Group
	}
	if dst.Width == 0 {
		dst.Width = src.Width
	}
	if dst.Since == "" {
		dst.Since = src.Since
	}
	return dst
}

// Copy returns a deep copy of the registry.
func (r *registry) Copy() (Registry, error) {
	dup := &registry{
		fields: NewFields(WithFieldsCapacity(r.fields.Len())),
		path:   r.path,
	}

	for key, field := range r.fields.Map() {
		f := *field
		if err := dup.fields.Set(key, &f); err != nil {
			return nil, err
		}
	}

	return dup, nil
}

// ValidationReport holds the outcome of a full registry validation.
type ValidationReport struct {
	Errors   []error
	Warnings []string
}

// Valid reports whether the registry has no hard errors.
func (v *ValidationReport) Valid() bool {
	return len(v.Errors) == 0
}

// ValidateAll validates every field in a Reader and collects all errors
// and advisory warnings instead of stopping at the first.
func ValidateAll(source Reader) *ValidationReport {
	report := &ValidationReport{}
	byColumn := make(map[string]string)
	for _, field := range source.Fields().List() {
		if err := field.Validate(); err != nil {
			report.Errors = append(report.Errors, err)
		}
		if prev, ok := byColumn[field.Column]; ok {
			report.Errors = append(report.Errors, errors.NewValidationError(
				"column", field.Column,
				fmt.Sprintf("fields %s and %s map to the same column", prev, field.Key)))
		} else {
			byColumn[field.Column] = field.Key
		}
		report.Warnings = append(report.Warnings, field.Warnings()...)
	}
	return report
}
