// Package differ provides change detection between sets of field
// definitions: the registry, parsed artifacts, and baseline snapshots.
package differ

import (
	"fmt"
	"strings"

	"github.com/waxworks/shellac/pkg/registry"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates an item was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates an item was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates an item was removed.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a single field attribute.
type FieldChange struct {
	Path     string     // Attribute path (e.g., "width", "description")
	OldValue string     // Previous value (string representation)
	NewValue string     // New value (string representation)
	Type     ChangeType // Type of change
	Source   string     // Artifact that caused the change (for provenance)
}

// FieldUpdate represents an update to an existing field definition.
type FieldUpdate struct {
	Key      string         // Key of the field being updated
	Existing registry.Field // Current field
	New      registry.Field // New field
	Changes  []FieldChange  // Detailed list of attribute changes
}

// Changeset represents all changes between two sets of field definitions.
type Changeset struct {
	Added   []registry.Field // New fields
	Updated []FieldUpdate    // Updated fields
	Removed []registry.Field // Removed fields
	Summary ChangesetSummary // Summary statistics
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	FieldsAdded   int
	FieldsUpdated int
	FieldsRemoved int
	TotalChanges  int
}

// calculateSummary computes the summary for a changeset.
func calculateSummary(c *Changeset) ChangesetSummary {
	added := len(c.Added)
	updated := len(c.Updated)
	removed := len(c.Removed)

	return ChangesetSummary{
		FieldsAdded:   added,
		FieldsUpdated: updated,
		FieldsRemoved: removed,
		TotalChanges:  added + updated + removed,
	}
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return c.Summary.TotalChanges == 0
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}

	parts := []string{}
	if len(c.Added) > 0 {
		parts = append(parts, fmt.Sprintf("%d added", len(c.Added)))
	}
	if len(c.Updated) > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", len(c.Updated)))
	}
	if len(c.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", len(c.Removed)))
	}

	return fmt.Sprintf("Fields: %s (Total: %d changes)", strings.Join(parts, ", "), c.Summary.TotalChanges)
}

// Print outputs a detailed, human-readable view of the changeset.
func (c *Changeset) Print() {
	fmt.Println(c.String())
	fmt.Println(strings.Repeat("─", 80))

	if len(c.Added) > 0 {
		fmt.Printf("\n➕ Added Fields (%d):\n", len(c.Added))
		for _, field := range c.Added {
			fmt.Printf("  • %s", field.Key)
			if field.Label != "" && field.Label != field.Key {
				fmt.Printf(" (%s)", field.Label)
			}
			fmt.Printf(" - %s, %s\n", field.Kind, field.Column)
		}
	}

	if len(c.Updated) > 0 {
		fmt.Printf("\n🔄 Updated Fields (%d):\n", len(c.Updated))
		for _, update := range c.Updated {
			fmt.Printf("  • %s:\n", update.Key)
			for _, change := range update.Changes {
				fmt.Printf("    - %s: %s → %s\n", change.Path, change.OldValue, change.NewValue)
			}
		}
	}

	if len(c.Removed) > 0 {
		fmt.Printf("\n⚠️  Removed Fields (%d):\n", len(c.Removed))
		for _, field := range c.Removed {
			fmt.Printf("  • %s", field.Key)
			if field.Label != "" && field.Label != field.Key {
				fmt.Printf(" (%s)", field.Label)
			}
			fmt.Println()
		}
	}
}

// ApplyStrategy represents how to apply changes.
type ApplyStrategy string

const (
	// ApplyAll applies all changes including removals.
	ApplyAll ApplyStrategy = "all"

	// ApplyAdditive only applies additions and updates, never removes.
	ApplyAdditive ApplyStrategy = "additive"

	// ApplyUpdatesOnly only applies updates to existing fields.
	ApplyUpdatesOnly ApplyStrategy = "updates-only"

	// ApplyAdditionsOnly only applies new additions.
	ApplyAdditionsOnly ApplyStrategy = "additions-only"
)

// ParseApplyStrategy parses an apply strategy from its string form.
func ParseApplyStrategy(s string) (ApplyStrategy, error) {
	switch ApplyStrategy(s) {
	case ApplyAll, ApplyAdditive, ApplyUpdatesOnly, ApplyAdditionsOnly:
		return ApplyStrategy(s), nil
	}
	return "", fmt.Errorf("unknown apply strategy %q", s)
}

// Filter filters the changeset based on the apply strategy.
func (c *Changeset) Filter(strategy ApplyStrategy) *Changeset {
	filtered := &Changeset{}

	switch strategy {
	case ApplyAll:
		// Return everything
		return c

	case ApplyAdditive:
		// Include additions and updates, exclude removals
		filtered.Added = c.Added
		filtered.Updated = c.Updated

	case ApplyUpdatesOnly:
		// Only include updates
		filtered.Updated = c.Updated

	case ApplyAdditionsOnly:
		// Only include additions
		filtered.Added = c.Added
	}

	// Recalculate summary
	filtered.Summary = calculateSummary(filtered)

	return filtered
}
