// Package validate implements the validate command, reporting registry
// and artifact problems.
package validate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/waxworks/shellac/internal/appcontext"
	"github.com/waxworks/shellac/internal/cmd/output"
	"github.com/waxworks/shellac/internal/cmd/table"
	"github.com/waxworks/shellac/pkg/artifacts/docs"
	"github.com/waxworks/shellac/pkg/errors"
	"github.com/waxworks/shellac/pkg/registry"
)

// NewCommand creates the validate command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "validate",
		GroupID: "registry",
		Short:   "Validate the registry and artifacts",
		Long: `Validate checks every field definition in the registry (key format,
column form, kind, width) and parses each artifact file, reporting all
errors and advisory warnings instead of stopping at the first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			reg, err := client.Registry()
			if err != nil {
				return err
			}

			report := registry.ValidateAll(reg)

			// Artifact parse problems are reported alongside field errors.
			if _, err := client.Diff(cmd.Context()); err != nil {
				report.Errors = append(report.Errors, err)
			}

			report.Warnings = append(report.Warnings, markerWarnings(app.ArtifactPaths())...)

			format := output.DetectFormat(app.OutputFormat())
			formatter := output.NewFormatter(format)

			if len(report.Errors) == 0 && len(report.Warnings) == 0 {
				if format == output.FormatJSON || format == output.FormatYAML {
					if err := formatter.Format(os.Stdout, report); err != nil {
						return err
					}
				} else {
					fmt.Printf("Registry valid: %d fields, no problems found\n", reg.Fields().Len())
				}
				return nil
			}

			switch format {
			case output.FormatJSON, output.FormatYAML:
				if err := formatter.Format(os.Stdout, reportDocument(report)); err != nil {
					return err
				}
			default:
				if err := formatter.Format(os.Stdout, table.ValidationToTableData(report)); err != nil {
					return err
				}
			}

			if !report.Valid() {
				return errors.ErrInvalidInput
			}
			return nil
		},
	}
}

// markerWarnings checks generated markdown artifacts for the generation
// marker. A missing marker means the file was created or stripped by
// hand, which is advisory, not fatal.
func markerWarnings(paths []string) []string {
	var warnings []string
	for _, path := range paths {
		if filepath.Ext(path) != ".md" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue // missing artifacts are reported by the diff pass
		}
		if !docs.HasMarker(data) {
			warnings = append(warnings, fmt.Sprintf("%s: missing generation marker, file may be hand-edited", path))
		}
	}
	return warnings
}

// reportDocument renders a validation report with string errors for
// serialization.
func reportDocument(report *registry.ValidationReport) map[string][]string {
	doc := map[string][]string{
		"errors":   {},
		"warnings": report.Warnings,
	}
	for _, err := range report.Errors {
		doc["errors"] = append(doc["errors"], err.Error())
	}
	if doc["warnings"] == nil {
		doc["warnings"] = []string{}
	}
	return doc
}
