// Package defs implements the definitions-file codec: the decorator-style
// record format the legacy schema source uses to declare one field per
// @field(...) record. Parsing is strict; rendering regenerates the whole
// file in canonical order.
package defs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/waxworks/shellac/pkg/registry"
)

// SourceName identifies this codec in baselines, logs, and errors.
const SourceName = "defs"

// header is emitted at the top of every regenerated definitions file.
const header = `# Field registry definitions.
# Managed by shellac; run 'shellac sync' after editing.
`

// Codec is the definitions-file artifact codec.
type Codec struct {
	// File is the name reported in parse errors. Optional.
	File string
}

// New creates a definitions codec reporting the given file name in errors.
func New(file string) *Codec {
	return &Codec{File: file}
}

// Name returns the codec name.
func (c *Codec) Name() string {
	return SourceName
}

// Parse decodes @field records from the definitions file.
func (c *Codec) Parse(data []byte) ([]registry.Field, error) {
	p := newParser(data, c.File)
	return p.parse()
}

// Render regenerates the complete definitions file from field records,
// sorted by group then key with a canonical argument order.
func (c *Codec) Render(fields []registry.Field) ([]byte, error) {
	sorted := make([]registry.Field, len(fields))
	copy(sorted, fields)
	registry.SortFields(sorted)

	var buf bytes.Buffer
	buf.WriteString(header)

	group := ""
	for i, f := range sorted {
		if f.Group != group {
			group = f.Group
			fmt.Fprintf(&buf, "\n# --- %s ---\n", group)
		} else if i > 0 {
			buf.WriteByte('\n')
		}
		writeRecord(&buf, f)
	}

	return buf.Bytes(), nil
}

// writeRecord writes one @field record in canonical argument order,
// matching the layout the legacy source used.
func writeRecord(buf *bytes.Buffer, f registry.Field) {
	indent := "       "
	fmt.Fprintf(buf, "@field(key=%s, column=%s, kind=%s,\n",
		quote(f.Key), quote(f.Column), strings.ToUpper(f.Kind.String()))
	fmt.Fprintf(buf, "%slabel=%s, width=%d,\n", indent, quote(f.Label), f.Width)
	fmt.Fprintf(buf, "%seditable=%t, visible=%t, sortable=%t, searchable=%t,\n",
		indent, f.Editable, f.Visible, f.Sortable, f.Searchable)
	fmt.Fprintf(buf, "%sgroup=%s, since=%s, default=%s,\n",
		indent, quote(f.Group), quote(f.Since), quote(f.Default))
	fmt.Fprintf(buf, "%sdescription=%s)\n", indent, quote(f.Description))
}

// quote renders a double-quoted string literal with \" and \\ escapes.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}
