// Package library provides the thin relational surface over the music
// library database. Query column lists come from the field registry, so
// the registry is the single source of truth for which track attributes
// exist and where they live.
package library

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	// Registers the postgres driver.
	_ "github.com/lib/pq"

	"github.com/waxworks/shellac/pkg/errors"
	"github.com/waxworks/shellac/pkg/logging"
	"github.com/waxworks/shellac/pkg/registry"
)

// trackTable is the table track fields are expected to live in.
const trackTable = "tracks"

// Track is one library track with its registry-driven tag values.
type Track struct {
	ID   int64             `json:"id"`
	Tags map[string]string `json:"tags"` // keyed by field key, rendered as text
}

// Playlist is one playlist with its track count.
type Playlist struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"track_count"`
}

// Store wraps the library database.
type Store struct {
	db       *sql.DB
	registry registry.Reader
}

// Open connects to the library database and verifies the connection.
func Open(ctx context.Context, dsn string, reg registry.Reader) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.WrapIO("open", "library database", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("ping", "library database", err)
	}

	logging.Debug().Msg("Library database connected")
	return &Store{db: db, registry: reg}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tracks lists tracks with the registry's track columns selected.
func (s *Store) Tracks(ctx context.Context, limit, offset int) ([]Track, error) {
	fields := trackFields(s.registry)
	query := tracksQuery(fields)

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, errors.WrapIO("query", trackTable, err)
	}
	defer func() { _ = rows.Close() }()

	var tracks []Track
	for rows.Next() {
		track := Track{Tags: make(map[string]string, len(fields))}

		dest := make([]any, 0, len(fields)+1)
		dest = append(dest, &track.ID)
		values := make([]sql.NullString, len(fields))
		for i := range values {
			dest = append(dest, &values[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, errors.WrapIO("scan", trackTable, err)
		}
		for i, field := range fields {
			if values[i].Valid {
				track.Tags[field.Key] = values[i].String
			}
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapIO("query", trackTable, err)
	}

	return tracks, nil
}

// Playlists lists playlists with their track counts.
func (s *Store) Playlists(ctx context.Context) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx, playlistsQuery)
	if err != nil {
		return nil, errors.WrapIO("query", "playlists", err)
	}
	defer func() { _ = rows.Close() }()

	var playlists []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.TrackCount); err != nil {
			return nil, errors.WrapIO("scan", "playlists", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapIO("query", "playlists", err)
	}

	return playlists, nil
}

// TrackTag looks up one track's value for a field by registry key.
// Returns ErrNotFound when the track has no row.
func (s *Store) TrackTag(ctx context.Context, trackID int64, key string) (string, error) {
	field, err := s.registry.Field(key)
	if err != nil {
		return "", err
	}

	query, err := trackTagQuery(field)
	if err != nil {
		return "", err
	}

	var value sql.NullString
	err = s.db.QueryRowContext(ctx, query, trackID).Scan(&value)
	if err == sql.ErrNoRows {
		return "", errors.NewNotFoundError("track", strconv.FormatInt(trackID, 10))
	}
	if err != nil {
		return "", errors.WrapIO("query", field.Column, err)
	}

	return value.String, nil
}
