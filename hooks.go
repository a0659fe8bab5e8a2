package shellac

import (
	"sync"

	"github.com/waxworks/shellac/pkg/differ"
	"github.com/waxworks/shellac/pkg/registry"
)

// Hook function types for field events
type (
	// FieldAddedHook is called when a field is added to the registry
	FieldAddedHook func(field registry.Field)

	// FieldUpdatedHook is called when a field is updated in the registry
	FieldUpdatedHook func(old, new registry.Field)

	// FieldRemovedHook is called when a field is removed from the registry
	FieldRemovedHook func(field registry.Field)
)

// Hooks provides access to event callback registration.
type Hooks interface {
	// OnFieldAdded registers a callback for when fields are added
	OnFieldAdded(FieldAddedHook)

	// OnFieldUpdated registers a callback for when fields are updated
	OnFieldUpdated(FieldUpdatedHook)

	// OnFieldRemoved registers a callback for when fields are removed
	OnFieldRemoved(FieldRemovedHook)
}

// hooks manages event callbacks for registry changes
type hooks struct {
	mu             sync.RWMutex
	onFieldAdded   []FieldAddedHook
	onFieldUpdated []FieldUpdatedHook
	onFieldRemoved []FieldRemovedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnFieldAdded registers a callback for when fields are added
func (h *hooks) OnFieldAdded(fn FieldAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFieldAdded = append(h.onFieldAdded, fn)
}

// OnFieldUpdated registers a callback for when fields are updated
func (h *hooks) OnFieldUpdated(fn FieldUpdatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFieldUpdated = append(h.onFieldUpdated, fn)
}

// OnFieldRemoved registers a callback for when fields are removed
func (h *hooks) OnFieldRemoved(fn FieldRemovedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFieldRemoved = append(h.onFieldRemoved, fn)
}

// trigger fires the registered hooks for every change in a changeset.
func (h *hooks) trigger(changeset *differ.Changeset) {
	if changeset == nil || !changeset.HasChanges() {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, field := range changeset.Added {
		for _, hook := range h.onFieldAdded {
			hook(field)
		}
	}

	for _, update := range changeset.Updated {
		for _, hook := range h.onFieldUpdated {
			hook(update.Existing, update.New)
		}
	}

	for _, field := range changeset.Removed {
		for _, hook := range h.onFieldRemoved {
			hook(field)
		}
	}
}
