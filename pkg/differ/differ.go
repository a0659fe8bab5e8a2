package differ

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/waxworks/shellac/pkg/registry"
)

// Differ handles change detection between field definition sets.
type Differ interface {
	// Fields compares two sets of field definitions and returns changes.
	Fields(existing, updated []registry.Field) *Changeset
}

// differ is the default implementation of Differ.
type differ struct {
	// Options for controlling diff behavior
	ignoreAttrs    map[string]bool
	deepComparison bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreAttrs:    make(map[string]bool),
		deepComparison: true,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Fields compares two sets of field definitions and returns changes.
func (diff *differ) Fields(existing, updated []registry.Field) *Changeset {
	changeset := &Changeset{
		Added:   []registry.Field{},
		Updated: []FieldUpdate{},
		Removed: []registry.Field{},
	}

	// Create maps for efficient lookup
	existingMap := make(map[string]registry.Field)
	for _, field := range existing {
		existingMap[field.Key] = field
	}

	updatedMap := make(map[string]registry.Field)
	for _, field := range updated {
		updatedMap[field.Key] = field
	}

	// Find added and updated fields
	for _, newField := range updated {
		if existingField, exists := existingMap[newField.Key]; exists {
			if update := diff.field(existingField, newField); update != nil {
				changeset.Updated = append(changeset.Updated, *update)
			}
		} else {
			changeset.Added = append(changeset.Added, newField)
		}
	}

	// Find removed fields
	for _, existingField := range existing {
		if _, exists := updatedMap[existingField.Key]; !exists {
			changeset.Removed = append(changeset.Removed, existingField)
		}
	}

	// Sort for consistent output
	sortChangeset(changeset)
	changeset.Summary = calculateSummary(changeset)

	return changeset
}

// field compares two field definitions and returns an update if they differ.
func (diff *differ) field(existing, updated registry.Field) *FieldUpdate {
	changes := []FieldChange{}

	record := func(path, oldValue, newValue string) {
		if oldValue == newValue || diff.ignoreAttrs[path] {
			return
		}
		changes = append(changes, FieldChange{
			Path:     path,
			OldValue: oldValue,
			NewValue: newValue,
			Type:     ChangeTypeUpdate,
		})
	}

	record("column", existing.Column, updated.Column)
	record("kind", existing.Kind.String(), updated.Kind.String())
	record("label", existing.Label, updated.Label)
	record("group", existing.Group, updated.Group)
	record("since", existing.Since, updated.Since)
	record("default", existing.Default, updated.Default)
	record("description", truncateString(existing.Description, 50), truncateString(updated.Description, 50))

	if diff.deepComparison {
		record("width", strconv.Itoa(existing.Width), strconv.Itoa(updated.Width))
		record("editable", formatBool(existing.Editable), formatBool(updated.Editable))
		record("visible", formatBool(existing.Visible), formatBool(updated.Visible))
		record("sortable", formatBool(existing.Sortable), formatBool(updated.Sortable))
		record("searchable", formatBool(existing.Searchable), formatBool(updated.Searchable))
	}

	// If no changes, return nil
	if len(changes) == 0 {
		return nil
	}

	return &FieldUpdate{
		Key:      existing.Key,
		Existing: existing,
		New:      updated,
		Changes:  changes,
	}
}

// sortChangeset sorts all slices in the changeset by key.
func sortChangeset(changeset *Changeset) {
	sort.Slice(changeset.Added, func(i, j int) bool {
		return changeset.Added[i].Key < changeset.Added[j].Key
	})
	sort.Slice(changeset.Updated, func(i, j int) bool {
		return changeset.Updated[i].Key < changeset.Updated[j].Key
	})
	sort.Slice(changeset.Removed, func(i, j int) bool {
		return changeset.Removed[i].Key < changeset.Removed[j].Key
	})
}

// Helper functions

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func formatBool(b bool) string {
	return fmt.Sprintf("%v", b)
}
