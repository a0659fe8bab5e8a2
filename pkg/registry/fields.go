package registry

import (
	"maps"
	"sync"

	"github.com/waxworks/shellac/pkg/errors"
)

// Fields is a concurrent safe map of field definitions keyed by field key.
type Fields struct {
	mu     sync.RWMutex
	fields map[string]*Field
}

// FieldsOption defines a function that configures a Fields instance.
type FieldsOption func(*Fields)

// WithFieldsCapacity sets the initial capacity of the fields map.
func WithFieldsCapacity(capacity int) FieldsOption {
	return func(f *Fields) {
		f.fields = make(map[string]*Field, capacity)
	}
}

// WithFieldsMap initializes the map with existing fields.
func WithFieldsMap(fields map[string]*Field) FieldsOption {
	return func(f *Fields) {
		if fields != nil {
			f.fields = make(map[string]*Field, len(fields))
			maps.Copy(f.fields, fields)
		}
	}
}

// NewFields creates a new Fields map with optional configuration.
func NewFields(opts ...FieldsOption) *Fields {
	f := &Fields{
		fields: make(map[string]*Field),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Get returns a field by key and whether it exists.
func (f *Fields) Get(key string) (*Field, bool) {
	f.mu.RLock()
	field, ok := f.fields[key]
	f.mu.RUnlock()
	return field, ok
}

// Set sets a field by key. Returns an error if field is nil.
func (f *Fields) Set(key string, field *Field) error {
	if field == nil {
		return errors.New("field cannot be nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[key] = field
	return nil
}

// Add adds a field, returning an error if it already exists.
func (f *Fields) Add(field *Field) error {
	if field == nil {
		return errors.New("field cannot be nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.fields[field.Key]; exists {
		return &errors.ValidationError{Field: field.Key, Message: "field already exists"}
	}

	f.fields[field.Key] = field
	return nil
}

// Delete removes a field by key. Returns an error if the field doesn't exist.
func (f *Fields) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.fields[key]; !exists {
		return errors.NewNotFoundError("field", key)
	}

	delete(f.fields, key)
	return nil
}

// Exists checks if a field exists without returning it.
func (f *Fields) Exists(key string) bool {
	f.mu.RLock()
	_, exists := f.fields[key]
	f.mu.RUnlock()
	return exists
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	f.mu.RLock()
	length := len(f.fields)
	f.mu.RUnlock()
	return length
}

// List returns all fields as values in canonical order (group, key).
func (f *Fields) List() []Field {
	f.mu.RLock()
	fields := make([]Field, 0, len(f.fields))
	for _, field := range f.fields {
		fields = append(fields, *field)
	}
	f.mu.RUnlock()

	SortFields(fields)
	return fields
}

// Map returns a copy of all fields.
func (f *Fields) Map() map[string]*Field {
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make(map[string]*Field, len(f.fields))
	maps.Copy(result, f.fields)
	return result
}

// Clear removes all fields.
func (f *Fields) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Clear existing map instead of allocating new one
	for k := range f.fields {
		delete(f.fields, k)
	}
}

// SetBatch sets multiple fields in a single operation (upsert behavior).
// Returns an error if any field is nil.
func (f *Fields) SetBatch(fields map[string]*Field) error {
	if len(fields) == 0 {
		return nil
	}

	// Validate all fields first
	for key, field := range fields {
		if field == nil {
			return &errors.ValidationError{Field: key, Message: "field cannot be nil"}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for key, field := range fields {
		f.fields[key] = field
	}

	return nil
}
