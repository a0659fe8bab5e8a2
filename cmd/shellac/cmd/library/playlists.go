package library

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/waxworks/shellac/internal/appcontext"
	"github.com/waxworks/shellac/internal/cmd/output"
	"github.com/waxworks/shellac/internal/cmd/table"
)

// newPlaylistsCommand creates the library playlists command.
func newPlaylistsCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "playlists",
		Short: "List playlists with track counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.Library(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			playlists, err := store.Playlists(cmd.Context())
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			formatter := output.NewFormatter(format)

			if format == output.FormatJSON || format == output.FormatYAML {
				return formatter.Format(os.Stdout, playlists)
			}

			return formatter.Format(os.Stdout, table.PlaylistsToTableData(playlists))
		},
	}
}
