package fields

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/waxworks/shellac/internal/appcontext"
	"github.com/waxworks/shellac/internal/cmd/output"
	"github.com/waxworks/shellac/internal/cmd/table"
	"github.com/waxworks/shellac/pkg/registry"
)

// newListCommand creates the fields list command.
func newListCommand(app appcontext.Interface) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List field definitions",
		Example: `  shellac fields list                # All fields in canonical order
  shellac fields list --group core   # Only the core group
  shellac fields list -o json        # Machine-readable output`,
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			reg, err := client.Registry()
			if err != nil {
				return err
			}

			fields := reg.Fields().List()
			if group != "" {
				filtered := make([]registry.Field, 0, len(fields))
				for _, field := range fields {
					if field.Group == group {
						filtered = append(filtered, field)
					}
				}
				fields = filtered
			}

			format := output.DetectFormat(app.OutputFormat())
			formatter := output.NewFormatter(format)

			switch format {
			case output.FormatJSON, output.FormatYAML:
				return formatter.Format(os.Stdout, fields)
			default:
				data := table.FieldsToTableData(fields, format == output.FormatWide)
				return formatter.Format(os.Stdout, data)
			}
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "only list fields in this group")

	return cmd
}
