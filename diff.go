package shellac

import (
	"context"

	"github.com/waxworks/shellac/pkg/differ"
	"github.com/waxworks/shellac/pkg/errors"
)

// Comparer reports pending changes without writing anything.
type Comparer interface {
	// Diff parses each artifact and returns the changes that syncing it
	// would bring into the registry, keyed by artifact name. Missing
	// artifact files are skipped.
	Diff(ctx context.Context) (map[string]*differ.Changeset, error)
}

// Diff compares the registry against each artifact.
func (c *client) Diff(ctx context.Context) (map[string]*differ.Changeset, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	existing := c.fields()
	changesets := make(map[string]*differ.Changeset, len(c.artifacts))

	for _, artifact := range c.artifacts {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapSync(artifact.Name(), err)
		}
		if !artifact.Exists() {
			continue
		}

		theirs, err := artifact.Parse()
		if err != nil {
			return nil, err
		}

		changesets[artifact.Name()] = c.differ.Fields(existing, theirs)
	}

	return changesets, nil
}
