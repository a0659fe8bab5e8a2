package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/waxworks/shellac/pkg/registry"
)

// Counts holds per-source field counts for a merge run.
type Counts struct {
	Base         int // Fields in the baseline snapshot
	Ours         int // Fields in the registry
	Theirs       int // Fields in the artifact
	Merged       int // Fields in the merged output
	Conflicts    int // Conflicts detected
	AutoResolved int // Conflicts resolved by accepted suggestions
}

// Result carries the outcome of a three-way merge.
type Result struct {
	RunID       string           // Unique identifier for this merge run
	Merged      []registry.Field // Merged field set in canonical order
	Conflicts   []Conflict       // Conflicts detected before resolution
	Resolutions []Resolved       // Decisions applied per conflict
	Strategy    Resolution       // Strategy the conflicts were resolved with
	Duration    time.Duration    // Wall-clock merge time
	Counts      Counts
}

// newRunID generates the identifier attached to a merge run.
func newRunID() string {
	return uuid.NewString()
}

// HasConflicts reports whether any conflicts were detected.
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Unresolved returns the conflicts that were not auto-merged under the
// merge strategy: the ones a strict sync should refuse to write.
func (r *Result) Unresolved() []Conflict {
	var unresolved []Conflict
	for _, res := range r.Resolutions {
		if res.Decision == ResolutionMerge && !res.Conflict.CanMerge {
			unresolved = append(unresolved, res.Conflict)
		}
	}
	return unresolved
}

// ConflictKeys returns the distinct field keys with conflicts, in order.
func (r *Result) ConflictKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, c := range r.Conflicts {
		if !seen[c.Key] {
			seen[c.Key] = true
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// String returns a human-readable summary of the merge.
func (r *Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "merged %d fields (base %d, registry %d, artifact %d)",
		r.Counts.Merged, r.Counts.Base, r.Counts.Ours, r.Counts.Theirs)
	if r.Counts.Conflicts > 0 {
		fmt.Fprintf(&b, ", %d conflicts (%d auto-resolved)", r.Counts.Conflicts, r.Counts.AutoResolved)
	}
	return b.String()
}
