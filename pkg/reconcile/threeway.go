package reconcile

import (
	"sort"
	"strconv"
	"time"

	"github.com/waxworks/shellac/pkg/errors"
	"github.com/waxworks/shellac/pkg/registry"
)

// presencePath is the conflict path used when the conflict is about the
// field existing at all rather than a single attribute.
const presencePath = "field"

// Presence values used in presence conflicts.
const (
	presencePresent = "present"
	presenceDeleted = "deleted"
)

// threeWayMerger is the default implementation of Merger.
type threeWayMerger struct{}

// NewThreeWayMerger creates a new three-way merger.
func NewThreeWayMerger() Merger {
	return &threeWayMerger{}
}

// attributePaths is the canonical order attribute conflicts are reported in.
var attributePaths = []string{
	"column", "kind", "label", "description", "default", "group",
	"width", "editable", "visible", "sortable", "searchable", "since",
}

// MergeField performs a three-way merge on a single field. The result
// starts from ours; non-conflicting artifact changes are taken, and
// mergeable conflicts apply their suggestion.
func (m *threeWayMerger) MergeField(base, ours, theirs registry.Field) (registry.Field, []Conflict) {
	merged := ours
	conflicts := []Conflict{}

	for _, path := range attributePaths {
		b := attribute(base, path)
		o := attribute(ours, path)
		t := attribute(theirs, path)

		if conflict := m.detectConflict(ours.Key, path, b, o, t); conflict != nil {
			conflicts = append(conflicts, *conflict)
			if conflict.CanMerge {
				setAttribute(&merged, path, conflict.Suggested)
			}
		} else if t != b {
			// No conflict, take their change.
			setAttribute(&merged, path, t)
		}
	}

	return merged, conflicts
}

// detectConflict detects if there's a conflict between attribute values.
func (m *threeWayMerger) detectConflict(key, path, base, ours, theirs string) *Conflict {
	// No conflict if both made the same change
	if ours == theirs {
		return nil
	}

	// No conflict if only one side changed
	oursChanged := base != ours
	theirsChanged := base != theirs

	if !oursChanged {
		return nil // We didn't change, take theirs
	}
	if !theirsChanged {
		return nil // They didn't change, keep ours
	}

	// Both changed to different values - conflict!
	conflict := &Conflict{
		Key:    key,
		Path:   path,
		Base:   base,
		Ours:   ours,
		Theirs: theirs,
		Type:   ConflictTypeModified,
	}

	conflict.CanMerge, conflict.Suggested = suggestResolution(path, ours, theirs)

	return conflict
}

// suggestResolution suggests an automatic resolution for a conflict.
// Layout is owned by the registry, so width conflicts take ours. Prose
// conflicts prefer the longer non-empty text. Everything else needs a
// human decision.
func suggestResolution(path, ours, theirs string) (bool, string) {
	switch path {
	case "width":
		return true, ours
	case "description", "label":
		if ours == "" {
			return true, theirs
		}
		if theirs == "" {
			return true, ours
		}
		if len(theirs) > len(ours) {
			return true, theirs
		}
		return true, ours
	}
	return false, ""
}

// Merge performs a three-way merge on complete field sets and resolves
// conflicts with the given strategy.
func (m *threeWayMerger) Merge(base, ours, theirs []registry.Field, strategy Resolution) (*Result, error) {
	if _, err := ParseResolution(string(strategy)); err != nil {
		return nil, &errors.ValidationError{Field: "strategy", Value: strategy, Message: err.Error()}
	}

	start := time.Now()

	// A nil base means no baseline has been recorded yet (first sync).
	// The merge degrades to two-way: divergence cannot be attributed to
	// either side, so conflicts stay resolvable with the registry as the
	// authority, and the sync completes and records baselines.
	firstSync := base == nil

	baseMap := fieldMap(base)
	oursMap := fieldMap(ours)
	theirsMap := fieldMap(theirs)

	merged := make(map[string]registry.Field)
	conflicts := []Conflict{}

	for _, key := range unionKeys(baseMap, oursMap, theirsMap) {
		baseField, inBase := baseMap[key]
		oursField, inOurs := oursMap[key]
		theirsField, inTheirs := theirsMap[key]

		switch {
		case inOurs && inTheirs:
			mergedField, fieldConflicts := m.MergeField(baseField, oursField, theirsField)
			if !inBase {
				// Both sides added the field independently.
				for i := range fieldConflicts {
					fieldConflicts[i].Type = ConflictTypeAdded
				}
			}
			if firstSync {
				for i := range fieldConflicts {
					if !fieldConflicts[i].CanMerge {
						fieldConflicts[i].CanMerge = true
						fieldConflicts[i].Suggested = fieldConflicts[i].Ours
					}
				}
			}
			merged[key] = mergedField
			conflicts = append(conflicts, fieldConflicts...)

		case inOurs:
			if !inBase {
				// We added it; the artifact never saw it.
				merged[key] = oursField
				continue
			}
			if oursField == baseField {
				// They deleted it and we never touched it: accept the deletion.
				continue
			}
			// They deleted a field we modified.
			merged[key] = oursField
			conflicts = append(conflicts, Conflict{
				Key:    key,
				Path:   presencePath,
				Base:   presencePresent,
				Ours:   presencePresent,
				Theirs: presenceDeleted,
				Type:   ConflictTypeDeleted,
			})

		case inTheirs:
			if !inBase {
				// They added it.
				merged[key] = theirsField
				continue
			}
			if theirsField == baseField {
				// We deleted it and they never touched it: stay deleted.
				continue
			}
			// We deleted a field they modified. Leave it out pending resolution.
			conflicts = append(conflicts, Conflict{
				Key:    key,
				Path:   presencePath,
				Base:   presencePresent,
				Ours:   presenceDeleted,
				Theirs: presencePresent,
				Type:   ConflictTypeDeleted,
			})
		}
	}

	resolutions := m.ResolveConflicts(conflicts, strategy)
	for _, res := range resolutions {
		key := res.Conflict.Key
		if res.Conflict.Path == presencePath {
			applyPresence(merged, key, res.Decision, baseMap, oursMap, theirsMap)
			continue
		}
		if field, ok := merged[key]; ok {
			setAttribute(&field, res.Conflict.Path, res.Value)
			merged[key] = field
		}
	}

	fields := make([]registry.Field, 0, len(merged))
	for _, field := range merged {
		fields = append(fields, field)
	}
	registry.SortFields(fields)

	autoResolved := 0
	for _, res := range resolutions {
		if res.Decision == ResolutionMerge && res.Conflict.CanMerge {
			autoResolved++
		}
	}

	return &Result{
		RunID:       newRunID(),
		Merged:      fields,
		Conflicts:   conflicts,
		Resolutions: resolutions,
		Strategy:    strategy,
		Duration:    time.Since(start),
		Counts: Counts{
			Base:         len(base),
			Ours:         len(ours),
			Theirs:       len(theirs),
			Merged:       len(fields),
			Conflicts:    len(conflicts),
			AutoResolved: autoResolved,
		},
	}, nil
}

// ResolveConflicts applies a conflict resolution strategy.
func (m *threeWayMerger) ResolveConflicts(conflicts []Conflict, strategy Resolution) []Resolved {
	resolutions := make([]Resolved, 0, len(conflicts))

	for _, conflict := range conflicts {
		res := Resolved{
			Conflict: conflict,
			Decision: strategy,
		}

		switch strategy {
		case ResolutionOurs:
			res.Value = conflict.Ours
			res.Reason = "strategy prefers registry"
		case ResolutionTheirs:
			res.Value = conflict.Theirs
			res.Reason = "strategy prefers artifact"
		case ResolutionBase:
			res.Value = conflict.Base
			res.Reason = "strategy restores baseline"
		case ResolutionMerge:
			if conflict.CanMerge {
				res.Value = conflict.Suggested
				res.Reason = "accepted suggestion"
			} else {
				res.Value = conflict.Ours
				res.Reason = "no safe merge, kept registry value"
			}
		}

		resolutions = append(resolutions, res)
	}

	return resolutions
}

// applyPresence applies a presence-conflict decision to the merged set.
func applyPresence(merged map[string]registry.Field, key string, decision Resolution, baseMap, oursMap, theirsMap map[string]registry.Field) {
	side := oursMap
	switch decision {
	case ResolutionTheirs:
		side = theirsMap
	case ResolutionBase:
		side = baseMap
	case ResolutionOurs, ResolutionMerge:
		// Presence conflicts have no safe suggestion; merge falls back to ours.
	}

	if field, ok := side[key]; ok {
		merged[key] = field
	} else {
		delete(merged, key)
	}
}

// fieldMap indexes fields by key.
func fieldMap(fields []registry.Field) map[string]registry.Field {
	m := make(map[string]registry.Field, len(fields))
	for _, f := range fields {
		m[f.Key] = f
	}
	return m
}

// unionKeys returns the sorted union of keys across the three sides.
func unionKeys(maps ...map[string]registry.Field) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range maps {
		for key := range m {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// attribute renders a field attribute as a string for comparison.
func attribute(f registry.Field, path string) string {
	switch path {
	case "column":
		return f.Column
	case "kind":
		return f.Kind.String()
	case "label":
		return f.Label
	case "description":
		return f.Description
	case "default":
		return f.Default
	case "group":
		return f.Group
	case "width":
		return strconv.Itoa(f.Width)
	case "editable":
		return strconv.FormatBool(f.Editable)
	case "visible":
		return strconv.FormatBool(f.Visible)
	case "sortable":
		return strconv.FormatBool(f.Sortable)
	case "searchable":
		return strconv.FormatBool(f.Searchable)
	case "since":
		return f.Since
	}
	return ""
}

// setAttribute assigns a string-rendered value back to a field attribute.
func setAttribute(f *registry.Field, path, value string) {
	switch path {
	case "column":
		f.Column = value
	case "kind":
		if kind, err := registry.ParseKind(value); err == nil {
			f.Kind = kind
		}
	case "label":
		f.Label = value
	case "description":
		f.Description = value
	case "default":
		f.Default = value
	case "group":
		f.Group = value
	case "width":
		if n, err := strconv.Atoi(value); err == nil {
			f.Width = n
		}
	case "editable":
		f.Editable = value == "true"
	case "visible":
		f.Visible = value == "true"
	case "sortable":
		f.Sortable = value == "true"
	case "searchable":
		f.Searchable = value == "true"
	case "since":
		f.Since = value
	}
}
