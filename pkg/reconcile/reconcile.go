// Package reconcile performs three-way merges between the registry, a
// parsed artifact, and the baseline snapshot recorded at the last sync.
// Base is the baseline, ours is the registry, theirs is the artifact.
package reconcile

import (
	"fmt"

	"github.com/waxworks/shellac/pkg/registry"
)

// ConflictType describes the type of conflict.
type ConflictType string

const (
	// ConflictTypeModified means both sides modified the same attribute.
	ConflictTypeModified ConflictType = "modified"
	// ConflictTypeDeleted means one side deleted the field, the other modified it.
	ConflictTypeDeleted ConflictType = "deleted"
	// ConflictTypeAdded means both sides added the field with different attributes.
	ConflictTypeAdded ConflictType = "added"
)

// Conflict represents a merge conflict on a single field attribute, or on
// the presence of the field itself (Path "field" for presence conflicts).
type Conflict struct {
	Key       string // Field key the conflict belongs to
	Path      string // Attribute path, or "field" for presence conflicts
	Base      string // Baseline value
	Ours      string // Registry value
	Theirs    string // Artifact value
	Type      ConflictType
	CanMerge  bool   // Whether automatic merge is possible
	Suggested string // Suggested resolution when CanMerge
}

// String returns a human-readable description of the conflict.
func (c Conflict) String() string {
	if c.Path == presencePath {
		return fmt.Sprintf("%s: %s (ours: %s, theirs: %s)", c.Key, c.Type, c.Ours, c.Theirs)
	}
	return fmt.Sprintf("%s.%s: ours %q, theirs %q (base %q)", c.Key, c.Path, c.Ours, c.Theirs, c.Base)
}

// Resolution defines how to resolve conflicts.
type Resolution string

const (
	// ResolutionOurs always takes the registry's value.
	ResolutionOurs Resolution = "ours"
	// ResolutionTheirs always takes the artifact's value.
	ResolutionTheirs Resolution = "theirs"
	// ResolutionBase restores the baseline value.
	ResolutionBase Resolution = "base"
	// ResolutionMerge accepts suggestions where possible, falling back to ours.
	ResolutionMerge Resolution = "merge"
)

// ParseResolution parses a resolution strategy from its string form.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case ResolutionOurs, ResolutionTheirs, ResolutionBase, ResolutionMerge:
		return Resolution(s), nil
	}
	return "", fmt.Errorf("unknown resolution strategy %q", s)
}

// Resolved represents a conflict resolution decision.
type Resolved struct {
	Conflict Conflict
	Decision Resolution
	Value    string
	Reason   string
}

// Merger performs three-way merges with conflict resolution.
type Merger interface {
	// MergeField performs a three-way merge on a single field.
	MergeField(base, ours, theirs registry.Field) (registry.Field, []Conflict)

	// Merge performs a three-way merge on complete field sets, resolving
	// conflicts with the given strategy.
	Merge(base, ours, theirs []registry.Field, strategy Resolution) (*Result, error)

	// ResolveConflicts applies a conflict resolution strategy.
	ResolveConflicts(conflicts []Conflict, strategy Resolution) []Resolved
}
