// Package library implements the library command, thin plumbing over
// the music library database.
package library

import (
	"github.com/spf13/cobra"

	"github.com/waxworks/shellac/internal/appcontext"
)

// NewCommand creates the library command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		GroupID: "library",
		Short:   "Query the music library database",
		Long: `Library queries the music library database directly. Track columns
come from the field registry, so the listing shows exactly the fields
the registry declares visible.

Requires library_dsn to be configured (flag, env, or .shellac.yaml).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newTracksCommand(app))
	cmd.AddCommand(newPlaylistsCommand(app))

	return cmd
}
