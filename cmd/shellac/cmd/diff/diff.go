// Package diff implements the diff command, showing pending changes
// between the registry and each artifact.
package diff

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/waxworks/shellac/internal/appcontext"
	"github.com/waxworks/shellac/internal/cmd/globals"
	"github.com/waxworks/shellac/internal/cmd/output"
	"github.com/waxworks/shellac/pkg/differ"
)

// NewCommand creates the diff command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "diff",
		GroupID: "registry",
		Short:   "Show pending changes between registry and artifacts",
		Long: `Diff parses each artifact file and shows the changes syncing it would
bring into the registry, without writing anything. Fields are color
coded: green added, yellow changed, red removed.`,
		Example: `  shellac diff             # All artifacts
  shellac diff -o json     # Machine-readable changesets`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags, err := globals.Parse(cmd)
			if err != nil {
				return err
			}
			if flags.NoColor {
				color.NoColor = true
			}

			client, err := app.Client()
			if err != nil {
				return err
			}

			changesets, err := client.Diff(cmd.Context())
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			if format == output.FormatJSON || format == output.FormatYAML {
				return output.NewFormatter(format).Format(os.Stdout, changesets)
			}

			printChangesets(changesets)
			return nil
		},
	}
}

// printChangesets renders per-artifact changesets with color coding.
func printChangesets(changesets map[string]*differ.Changeset) {
	names := make([]string, 0, len(changesets))
	for name := range changesets {
		names = append(names, name)
	}
	sort.Strings(names)

	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	for _, name := range names {
		changeset := changesets[name]

		bold.Printf("%s:\n", name)
		if !changeset.HasChanges() {
			fmt.Println("  no changes")
			fmt.Println()
			continue
		}

		for _, field := range changeset.Added {
			green.Printf("  + %s", field.Key)
			fmt.Printf(" (%s, %s)\n", field.Column, field.Kind)
		}

		for _, update := range changeset.Updated {
			yellow.Printf("  ~ %s\n", update.Key)
			for _, change := range update.Changes {
				fmt.Printf("      %s: %s -> %s\n", change.Path, renderValue(change.OldValue), renderValue(change.NewValue))
			}
		}

		for _, field := range changeset.Removed {
			red.Printf("  - %s", field.Key)
			fmt.Printf(" (%s, %s)\n", field.Column, field.Kind)
		}

		fmt.Printf("  %d added, %d updated, %d removed\n\n",
			changeset.Summary.FieldsAdded,
			changeset.Summary.FieldsUpdated,
			changeset.Summary.FieldsRemoved)
	}
}

// renderValue quotes empty values so they stay visible.
func renderValue(v string) string {
	if v == "" {
		return `""`
	}
	return v
}
