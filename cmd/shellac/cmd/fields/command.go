// Package fields implements the fields command for inspecting the
// field registry.
package fields

import (
	"github.com/spf13/cobra"

	"github.com/waxworks/shellac/internal/appcontext"
)

// NewCommand creates the fields command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fields",
		GroupID: "registry",
		Short:   "Inspect field definitions",
		Long: `Fields lists and inspects the field definitions in the registry:
the key, backing database column, kind, label, layout, and behavior
flags of every column the library browser can show.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newDetailsCommand(app))

	return cmd
}
