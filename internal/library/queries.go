package library

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/waxworks/shellac/pkg/errors"
	"github.com/waxworks/shellac/pkg/registry"
)

// playlistsQuery lists playlists with their track counts.
const playlistsQuery = `
	SELECT p.id, p.name, COUNT(pt.track_id)
	FROM playlists p
	LEFT JOIN playlist_tracks pt ON pt.playlist_id = p.id
	GROUP BY p.id, p.name
	ORDER BY p.name, p.id
`

// trackFields returns the registry fields stored in the tracks table,
// in canonical order.
func trackFields(reg registry.Reader) []registry.Field {
	var fields []registry.Field
	for _, field := range reg.Fields().List() {
		if table, _, ok := splitColumn(field.Column); ok && table == trackTable {
			fields = append(fields, field)
		}
	}
	return fields
}

// tracksQuery builds the track listing query from the registry's track
// fields. Column identifiers are quoted; they come from validated field
// definitions, not user input, but quoting keeps reserved words working.
func tracksQuery(fields []registry.Field) string {
	columns := make([]string, 0, len(fields)+1)
	columns = append(columns, "id")
	for _, field := range fields {
		_, column, _ := splitColumn(field.Column)
		columns = append(columns, pq.QuoteIdentifier(column))
	}

	return fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY id LIMIT $1 OFFSET $2",
		strings.Join(columns, ", "), pq.QuoteIdentifier(trackTable),
	)
}

// trackTagQuery builds the single-value lookup for one field.
func trackTagQuery(field registry.Field) (string, error) {
	table, column, ok := splitColumn(field.Column)
	if !ok {
		return "", &errors.ValidationError{
			Field:   field.Key,
			Value:   field.Column,
			Message: "column is not in table.column form",
		}
	}

	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = $1",
		pq.QuoteIdentifier(column), pq.QuoteIdentifier(table),
	), nil
}

// splitColumn splits a field column into its table and column parts.
func splitColumn(qualified string) (table, column string, ok bool) {
	table, column, found := strings.Cut(qualified, ".")
	if !found || table == "" || column == "" {
		return "", "", false
	}
	return table, column, true
}
