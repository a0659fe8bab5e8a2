// Package docs implements the documentation-table codec: the generated
// markdown document listing every track-table field. The parser accepts
// any column order as long as the header names match; the renderer always
// emits the canonical order with a generation marker.
package docs

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/waxworks/shellac/pkg/errors"
	"github.com/waxworks/shellac/pkg/logging"
	"github.com/waxworks/shellac/pkg/registry"
)

// SourceName identifies this codec in baselines, logs, and errors.
const SourceName = "docs"

// GenerationMarker is the comment embedded in generated documents so
// hand-edited copies can be detected.
const GenerationMarker = "<!-- shellac:generated -->"

// autoWidth is how a zero (auto) width renders in the table.
const autoWidth = "auto"

// canonicalHeaders is the column order the renderer emits.
var canonicalHeaders = []string{
	"Key", "Column", "Kind", "Label", "Description", "Default",
	"Group", "Width", "Editable", "Visible", "Sortable", "Searchable", "Since",
}

// Codec is the documentation-table artifact codec.
type Codec struct {
	// File is the name reported in parse errors. Optional.
	File string

	// Title is the document heading. Defaults to "Track Table Fields".
	Title string
}

// New creates a docs codec reporting the given file name in errors.
func New(file string) *Codec {
	return &Codec{File: file}
}

// Name returns the codec name.
func (c *Codec) Name() string {
	return SourceName
}

// HasMarker reports whether the document carries the generation marker.
// Its absence means the copy was created or stripped by hand; callers
// surface that as a validation warning, not a parse error.
func HasMarker(data []byte) bool {
	return bytes.Contains(data, []byte(GenerationMarker))
}

// Parse decodes field records from the markdown table. Columns may appear
// in any order; header names are matched case-insensitively.
func (c *Codec) Parse(data []byte) ([]registry.Field, error) {
	if !HasMarker(data) {
		logging.Warn().
			Str("file", c.File).
			Msg("Docs file is missing the generation marker, treating as hand-edited")
	}

	lines := strings.Split(string(data), "\n")

	headerIdx := -1
	var headers []string
	for i, line := range lines {
		if cells, ok := tableRow(line); ok {
			headers = cells
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, errors.NewParseError(SourceName, c.File, 0, "no field table found")
	}

	columns := make([]string, len(headers))
	seen := make(map[string]bool)
	for i, h := range headers {
		name := strings.ToLower(strings.TrimSpace(h))
		if !knownHeader(name) {
			return nil, errors.NewParseError(SourceName, c.File, headerIdx+1, fmt.Sprintf("unknown column %q", h))
		}
		if seen[name] {
			return nil, errors.NewParseError(SourceName, c.File, headerIdx+1, fmt.Sprintf("duplicate column %q", h))
		}
		seen[name] = true
		columns[i] = name
	}
	for _, required := range []string{"key", "column", "kind"} {
		if !seen[required] {
			return nil, errors.NewParseError(SourceName, c.File, headerIdx+1, fmt.Sprintf("table is missing required column %q", required))
		}
	}

	var fields []registry.Field
	declared := make(map[string]int)
	for i := headerIdx + 1; i < len(lines); i++ {
		cells, ok := tableRow(lines[i])
		if !ok {
			if len(fields) > 0 || i > headerIdx+1 {
				break // end of table
			}
			continue
		}
		if isSeparatorRow(cells) {
			continue
		}
		if len(cells) != len(columns) {
			return nil, errors.NewParseError(SourceName, c.File, i+1, fmt.Sprintf("row has %d cells, expected %d", len(cells), len(columns)))
		}

		var field registry.Field
		for j, cell := range cells {
			if err := setCell(&field, columns[j], strings.TrimSpace(cell), c.File, i+1); err != nil {
				return nil, err
			}
		}
		if first, dup := declared[field.Key]; dup {
			return nil, errors.NewParseError(SourceName, c.File, i+1, fmt.Sprintf("duplicate field key %q (first declared on line %d)", field.Key, first))
		}
		declared[field.Key] = i + 1
		fields = append(fields, field)
	}

	return fields, nil
}

// Render generates the complete markdown document from field records,
// sorted by group then key.
func (c *Codec) Render(fields []registry.Field) ([]byte, error) {
	sorted := make([]registry.Field, len(fields))
	copy(sorted, fields)
	registry.SortFields(sorted)

	rows := make([][]string, len(sorted))
	for i, f := range sorted {
		rows[i] = []string{
			escapeCell(f.Key),
			escapeCell(f.Column),
			f.Kind.String(),
			escapeCell(f.Label),
			escapeCell(f.Description),
			escapeCell(f.Default),
			escapeCell(f.Group),
			formatWidth(f.Width),
			formatBool(f.Editable),
			formatBool(f.Visible),
			formatBool(f.Sortable),
			formatBool(f.Searchable),
			escapeCell(f.Since),
		}
	}

	title := c.Title
	if title == "" {
		title = "Track Table Fields"
	}

	var buf bytes.Buffer
	buf.WriteString(GenerationMarker)
	buf.WriteString("\n")

	doc := md.NewMarkdown(&buf).
		H1(title).
		PlainText(fmt.Sprintf("%d fields, sorted by group then key.", len(sorted))).
		PlainText("").
		Table(md.TableSet{
			Header: canonicalHeaders,
			Rows:   rows,
		})
	if err := doc.Build(); err != nil {
		return nil, errors.WrapResource("render", "artifact", SourceName, err)
	}

	return buf.Bytes(), nil
}

// tableRow splits a markdown table line into cells. Returns false for
// lines that are not table rows.
func tableRow(line string) ([]string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "|") {
		return nil, false
	}
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")

	var cells []string
	var b strings.Builder
	escaped := false
	for _, r := range trimmed {
		switch {
		case escaped:
			if r != '|' {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	cells = append(cells, b.String())
	return cells, true
}

// isSeparatorRow reports whether the cells form the |---|---| divider.
func isSeparatorRow(cells []string) bool {
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			return false
		}
		for _, r := range cell {
			if r != '-' && r != ':' {
				return false
			}
		}
	}
	return true
}

func knownHeader(name string) bool {
	for _, h := range canonicalHeaders {
		if strings.ToLower(h) == name {
			return true
		}
	}
	return false
}

// setCell assigns a table cell to the named field attribute.
func setCell(f *registry.Field, column, cell, file string, line int) error {
	switch column {
	case "key":
		f.Key = cell
	case "column":
		f.Column = cell
	case "kind":
		kind, err := registry.ParseKind(cell)
		if err != nil {
			return errors.NewParseError(SourceName, file, line, fmt.Sprintf("unknown kind %q", cell))
		}
		f.Kind = kind
	case "label":
		f.Label = cell
	case "description":
		f.Description = cell
	case "default":
		f.Default = cell
	case "group":
		f.Group = cell
	case "width":
		if cell == autoWidth || cell == "" {
			f.Width = 0
			return nil
		}
		n, err := strconv.Atoi(cell)
		if err != nil {
			return errors.NewParseError(SourceName, file, line, fmt.Sprintf("invalid width %q", cell))
		}
		f.Width = n
	case "editable", "visible", "sortable", "searchable":
		b, err := parseBool(cell)
		if err != nil {
			return errors.NewParseError(SourceName, file, line, fmt.Sprintf("invalid %s value %q", column, cell))
		}
		switch column {
		case "editable":
			f.Editable = b
		case "visible":
			f.Visible = b
		case "sortable":
			f.Sortable = b
		case "searchable":
			f.Searchable = b
		}
	case "since":
		f.Since = cell
	}
	return nil
}

func parseBool(cell string) (bool, error) {
	switch strings.ToLower(cell) {
	case "yes", "true":
		return true, nil
	case "no", "false", "":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", cell)
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatWidth(w int) string {
	if w == 0 {
		return autoWidth
	}
	return strconv.Itoa(w)
}

// escapeCell protects pipe characters inside table cells.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
