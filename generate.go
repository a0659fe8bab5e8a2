package shellac

import (
	"context"

	"github.com/waxworks/shellac/pkg/errors"
	"github.com/waxworks/shellac/pkg/logging"
)

// Generator regenerates artifacts from the registry.
type Generator interface {
	// Generate renders the named artifacts from the current registry and
	// replaces their files. Without names, every configured artifact is
	// regenerated. Baselines are updated to match.
	Generate(ctx context.Context, names ...string) error
}

// Generate renders artifacts from the current registry.
func (c *client) Generate(ctx context.Context, names ...string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	fields := c.fields()

	matched := 0
	for _, artifact := range c.artifacts {
		if len(wanted) > 0 && !wanted[artifact.Name()] {
			continue
		}
		matched++

		if err := ctx.Err(); err != nil {
			return errors.WrapSync(artifact.Name(), err)
		}
		if err := artifact.Write(fields); err != nil {
			return err
		}
		if c.baselines != nil {
			if err := c.baselines.Save(artifact.Name(), fields); err != nil {
				return err
			}
		}

		logging.Info().
			Str("artifact", artifact.Name()).
			Str("path", artifact.Path).
			Int("fields", len(fields)).
			Msg("Artifact regenerated")
	}

	if len(wanted) > 0 && matched != len(wanted) {
		for _, artifact := range c.artifacts {
			delete(wanted, artifact.Name())
		}
		for name := range wanted {
			return errors.NewNotFoundError("artifact", name)
		}
	}

	return nil
}
