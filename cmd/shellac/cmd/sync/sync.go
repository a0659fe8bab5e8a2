// Package sync implements the sync command, running the full
// reconcile-and-regenerate pipeline.
package sync

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waxworks/shellac"
	"github.com/waxworks/shellac/internal/appcontext"
	"github.com/waxworks/shellac/internal/cmd/globals"
	"github.com/waxworks/shellac/pkg/reconcile"
)

// Flags holds the sync command's flags.
type Flags struct {
	Strategy string
	DryRun   bool
	Yes      bool
	Force    bool
}

// NewCommand creates the sync command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "registry",
		Short:   "Reconcile the registry with its artifacts",
		Long: `Sync parses every artifact file, merges it three-way against the
registry and the baselines recorded at the last sync, applies the
result, and regenerates all artifacts deterministically.

Conflicts (both sides changed the same attribute) are resolved by the
selected strategy. The default merge strategy accepts safe suggestions
and refuses to write when a conflict needs a human decision.`,
		Example: `  shellac sync                       # Merge strategy, ask before applying
  shellac sync --dry-run             # Preview without writing
  shellac sync --strategy theirs -y  # Artifacts win, no prompt
  shellac sync --force               # Keep registry values on conflicts`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Strategy, "strategy", "", "conflict resolution strategy: ours, theirs, base, merge")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "preview changes without writing")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "apply without confirmation")
	cmd.Flags().BoolVar(&flags.Force, "force", false, "write even when conflicts could not be auto-resolved")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	client, err := app.Client()
	if err != nil {
		return err
	}

	opts := []shellac.SyncOption{}
	if flags.Strategy != "" {
		strategy, err := reconcile.ParseResolution(flags.Strategy)
		if err != nil {
			return err
		}
		opts = append(opts, shellac.WithResolution(strategy))
	}
	if flags.Force {
		opts = append(opts, shellac.WithForce(true))
	}

	// Preview first so the user confirms what will actually change.
	preview, err := client.Sync(cmd.Context(), append(opts, shellac.WithDryRun(true))...)
	if err != nil {
		return err
	}

	if preview.Changeset.HasChanges() {
		preview.Changeset.Print()
	} else {
		fmt.Println("No changes detected")
	}
	for _, conflict := range preview.Unresolved() {
		fmt.Printf("conflict: %s\n", conflict.String())
	}

	if flags.DryRun {
		return nil
	}
	if !preview.Changeset.HasChanges() && !preview.HasConflicts() {
		return nil
	}

	if !flags.Yes && !confirm("Apply these changes?") {
		fmt.Println("Aborted")
		return nil
	}

	result, err := client.Sync(cmd.Context(), opts...)
	if err != nil {
		return err
	}

	if gflags, err := globals.Parse(cmd); err == nil && gflags.Quiet {
		return nil
	}
	fmt.Println(result.String())
	return nil
}

// confirm prompts for a yes/no answer on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
