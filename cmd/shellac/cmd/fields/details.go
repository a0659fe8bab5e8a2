package fields

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/waxworks/shellac/internal/appcontext"
	"github.com/waxworks/shellac/internal/cmd/output"
	"github.com/waxworks/shellac/internal/cmd/table"
)

// newDetailsCommand creates the fields details command.
func newDetailsCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "details <key>",
		Short: "Show one field definition in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			reg, err := client.Registry()
			if err != nil {
				return err
			}

			field, err := reg.Field(args[0])
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			formatter := output.NewFormatter(format)

			switch format {
			case output.FormatJSON, output.FormatYAML:
				return formatter.Format(os.Stdout, field)
			default:
				return formatter.Format(os.Stdout, table.FieldToDetailsData(field))
			}
		},
	}
}
