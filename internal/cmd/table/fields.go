// Package table builds table data for CLI commands from registry fields
// and library records.
package table

import (
	"sort"
	"strconv"
	"strings"

	"github.com/waxworks/shellac/internal/library"
	"github.com/waxworks/shellac/pkg/registry"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// FieldsToTableData converts field definitions to table format.
func FieldsToTableData(fields []registry.Field, showDetails bool) Data {
	headers := []string{"Key", "Column", "Kind", "Label", "Group", "Width"}
	alignment := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight}
	if showDetails {
		headers = append(headers, "Flags", "Default", "Since", "Description")
		alignment = append(alignment, AlignLeft, AlignLeft, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(fields))
	for _, field := range fields {
		row := []string{
			field.Key,
			field.Column,
			field.Kind.String(),
			field.Label,
			field.Group,
			FormatWidth(field.Width),
		}

		if showDetails {
			row = append(row,
				BuildFlagsString(field),
				orDash(field.Default),
				orDash(field.Since),
				orDash(field.Description),
			)
		}

		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: alignment,
	}
}

// FieldToDetailsData converts one field into a property/value table.
func FieldToDetailsData(field registry.Field) Data {
	rows := [][]string{
		{"Key", field.Key},
		{"Column", field.Column},
		{"Kind", field.Kind.String()},
		{"Label", orDash(field.Label)},
		{"Description", orDash(field.Description)},
		{"Default", orDash(field.Default)},
		{"Group", orDash(field.Group)},
		{"Width", FormatWidth(field.Width)},
		{"Editable", FormatBool(field.Editable)},
		{"Visible", FormatBool(field.Visible)},
		{"Sortable", FormatBool(field.Sortable)},
		{"Searchable", FormatBool(field.Searchable)},
		{"Since", orDash(field.Since)},
	}

	return Data{
		Headers: []string{"Property", "Value"},
		Rows:    rows,
	}
}

// TracksToTableData converts library tracks to table format. Columns are
// the visible registry fields, in canonical order.
func TracksToTableData(tracks []library.Track, fields []registry.Field) Data {
	visible := make([]registry.Field, 0, len(fields))
	for _, field := range fields {
		if field.Visible {
			visible = append(visible, field)
		}
	}
	if len(visible) == 0 {
		visible = fields
	}

	headers := []string{"ID"}
	alignment := []Align{AlignRight}
	for _, field := range visible {
		label := field.Label
		if label == "" {
			label = field.Key
		}
		headers = append(headers, label)
		alignment = append(alignment, kindAlignment(field.Kind))
	}

	rows := make([][]string, 0, len(tracks))
	for _, track := range tracks {
		row := []string{strconv.FormatInt(track.ID, 10)}
		for _, field := range visible {
			row = append(row, orDash(track.Tags[field.Key]))
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: alignment,
	}
}

// PlaylistsToTableData converts playlists to table format.
func PlaylistsToTableData(playlists []library.Playlist) Data {
	rows := make([][]string, 0, len(playlists))
	for _, p := range playlists {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			strconv.Itoa(p.TrackCount),
		})
	}

	return Data{
		Headers:         []string{"ID", "Name", "Tracks"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignRight},
	}
}

// ValidationToTableData converts a validation report to table format.
func ValidationToTableData(report *registry.ValidationReport) Data {
	rows := make([][]string, 0, len(report.Errors)+len(report.Warnings))
	for _, err := range report.Errors {
		rows = append(rows, []string{"error", err.Error()})
	}
	for _, warning := range report.Warnings {
		rows = append(rows, []string{"warning", warning})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i][0] != rows[j][0] {
			return rows[i][0] < rows[j][0]
		}
		return rows[i][1] < rows[j][1]
	})

	return Data{
		Headers: []string{"Severity", "Message"},
		Rows:    rows,
	}
}

// FormatWidth renders a column width, using "auto" for zero.
func FormatWidth(width int) string {
	if width == 0 {
		return "auto"
	}
	return strconv.Itoa(width)
}

// FormatBool renders a boolean as yes/no.
func FormatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// BuildFlagsString renders the enabled boolean attributes compactly.
func BuildFlagsString(field registry.Field) string {
	var flags []string
	if field.Editable {
		flags = append(flags, "editable")
	}
	if field.Visible {
		flags = append(flags, "visible")
	}
	if field.Sortable {
		flags = append(flags, "sortable")
	}
	if field.Searchable {
		flags = append(flags, "searchable")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

// kindAlignment right-aligns numeric kinds.
func kindAlignment(kind registry.Kind) Align {
	switch kind {
	case registry.KindInteger, registry.KindFloat, registry.KindRating, registry.KindDuration:
		return AlignRight
	default:
		return AlignLeft
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
