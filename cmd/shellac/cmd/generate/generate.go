// Package generate implements the generate command, regenerating
// artifact files from the registry.
package generate

import (
	"github.com/spf13/cobra"

	"github.com/waxworks/shellac/internal/appcontext"
)

// NewCommand creates the generate command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "generate [defs|docs]",
		GroupID:   "registry",
		Short:     "Regenerate artifacts from the registry",
		ValidArgs: []string{"defs", "docs"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		Long: `Generate renders artifact files from the current registry, replacing
them whole. Output is deterministic: the same registry always produces
byte-identical artifacts. Without an argument every artifact is
regenerated.`,
		Example: `  shellac generate        # Regenerate all artifacts
  shellac generate defs   # Only the definitions file
  shellac generate docs   # Only the markdown docs table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			return client.Generate(cmd.Context(), args...)
		},
	}

	return cmd
}
