package library

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/waxworks/shellac/internal/appcontext"
	"github.com/waxworks/shellac/internal/cmd/output"
	"github.com/waxworks/shellac/internal/cmd/table"
)

// newTracksCommand creates the library tracks command.
func newTracksCommand(app appcontext.Interface) *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "List tracks with registry-driven columns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.Library(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			tracks, err := store.Tracks(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			formatter := output.NewFormatter(format)

			if format == output.FormatJSON || format == output.FormatYAML {
				return formatter.Format(os.Stdout, tracks)
			}

			client, err := app.Client()
			if err != nil {
				return err
			}
			reg, err := client.Registry()
			if err != nil {
				return err
			}

			return formatter.Format(os.Stdout, table.TracksToTableData(tracks, reg.Fields().List()))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of tracks")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of tracks to skip")

	return cmd
}
