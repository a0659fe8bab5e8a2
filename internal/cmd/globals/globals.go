// Package globals provides access to the persistent flags every command
// shares. The root command owns the flag definitions; subcommands read
// them through Parse.
package globals

import "github.com/spf13/cobra"

// Flags holds the persistent flag values shared across all commands.
type Flags struct {
	Format  string
	Quiet   bool
	Verbose bool
	NoColor bool
}

// Parse extracts the shared persistent flags from the command hierarchy.
// Useful for subcommands that were not handed the flags struct directly.
func Parse(cmd *cobra.Command) (*Flags, error) {
	root := cmd
	for root.Parent() != nil {
		root = root.Parent()
	}

	format, err := root.PersistentFlags().GetString("format")
	if err != nil {
		return nil, err
	}
	quiet, err := root.PersistentFlags().GetBool("quiet")
	if err != nil {
		return nil, err
	}
	verbose, err := root.PersistentFlags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	noColor, err := root.PersistentFlags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	return &Flags{
		Format:  format,
		Quiet:   quiet,
		Verbose: verbose,
		NoColor: noColor,
	}, nil
}
