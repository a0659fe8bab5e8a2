// Package watch implements the watch command, re-running diff (and
// optionally sync) when an artifact file changes.
package watch

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/waxworks/shellac/internal/appcontext"
	"github.com/waxworks/shellac/internal/watch"
)

// NewCommand creates the watch command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var autoSync bool

	cmd := &cobra.Command{
		Use:     "watch",
		GroupID: "registry",
		Short:   "Watch artifact files and report changes",
		Long: `Watch monitors the artifact files and prints the pending changeset
whenever one changes. Events are debounced; editors that write multiple
times per save trigger a single run. With --sync, changes are merged
and applied automatically.`,
		Example: `  shellac watch          # Report diffs on change
  shellac watch --sync   # Sync automatically on change`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			watcher, err := watch.New(app.WatchDebounce())
			if err != nil {
				return err
			}
			defer func() { _ = watcher.Stop() }()

			logger := app.Logger()
			ctx := cmd.Context()

			// Pipeline runs are serialized: a change arriving mid-run
			// waits for the previous run to finish.
			var mu sync.Mutex
			onChange := func(path string) {
				mu.Lock()
				defer mu.Unlock()

				if autoSync {
					result, err := client.Sync(ctx)
					if err != nil {
						logger.Error().Err(err).Str("path", path).Msg("Sync failed")
						return
					}
					fmt.Printf("%s changed: %s\n", path, result.String())
					return
				}

				changesets, err := client.Diff(ctx)
				if err != nil {
					logger.Error().Err(err).Str("path", path).Msg("Diff failed")
					return
				}
				for name, changeset := range changesets {
					if changeset.HasChanges() {
						fmt.Printf("%s: %s\n", name, changeset.String())
					}
				}
			}

			paths := app.ArtifactPaths()
			if err := watcher.Watch(paths, onChange); err != nil {
				return err
			}

			fmt.Printf("Watching %d artifact files (ctrl-c to stop)\n", len(paths))
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoSync, "sync", false, "sync automatically when artifacts change")

	return cmd
}
