package app

import (
	"github.com/spf13/cobra"

	"github.com/waxworks/shellac/cmd/shellac/cmd/diff"
	"github.com/waxworks/shellac/cmd/shellac/cmd/fields"
	"github.com/waxworks/shellac/cmd/shellac/cmd/generate"
	"github.com/waxworks/shellac/cmd/shellac/cmd/library"
	"github.com/waxworks/shellac/cmd/shellac/cmd/sync"
	"github.com/waxworks/shellac/cmd/shellac/cmd/validate"
	"github.com/waxworks/shellac/cmd/shellac/cmd/watch"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Registry commands
	rootCmd.AddCommand(fields.NewCommand(a))
	rootCmd.AddCommand(diff.NewCommand(a))
	rootCmd.AddCommand(sync.NewCommand(a))
	rootCmd.AddCommand(generate.NewCommand(a))
	rootCmd.AddCommand(validate.NewCommand(a))
	rootCmd.AddCommand(watch.NewCommand(a))

	// Library commands
	rootCmd.AddCommand(library.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("shellac %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
