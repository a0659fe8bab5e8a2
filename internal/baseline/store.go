// Package baseline persists the field set recorded at the last successful
// sync of each artifact, using bbolt (embedded B+ tree). Baselines are
// what turn a sync into a three-way merge: base comes from here, ours is
// the registry, theirs is the freshly parsed artifact. Writes are
// transactional, so a crash mid-sync cannot corrupt committed snapshots.
package baseline

import (
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/waxworks/shellac/pkg/errors"
	"github.com/waxworks/shellac/pkg/registry"
)

// Bucket and key names
var (
	bucketBaselines = []byte("baselines")
	keyFields       = []byte("fields")
	keyRecordedAt   = []byte("recorded_at")
)

// Snapshot is the field set recorded for one artifact at its last sync.
type Snapshot struct {
	Artifact   string           `json:"artifact"`
	Fields     []registry.Field `json:"fields"`
	RecordedAt time.Time        `json:"recorded_at"`
}

// Store persists baseline snapshots per artifact name.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the baseline database at the given path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save records the field set for an artifact, replacing any previous
// snapshot. The recorded timestamp is set to now.
func (s *Store) Save(artifact string, fields []registry.Field) error {
	if artifact == "" {
		return &errors.ValidationError{Field: "artifact", Message: "artifact name cannot be empty"}
	}

	sorted := make([]registry.Field, len(fields))
	copy(sorted, fields)
	registry.SortFields(sorted)

	fieldsJSON, err := json.Marshal(sorted)
	if err != nil {
		return errors.WrapResource("save", "baseline", artifact, err)
	}
	recordedJSON, err := json.Marshal(time.Now().UTC())
	if err != nil {
		return errors.WrapResource("save", "baseline", artifact, err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(bucketBaselines)
		if err != nil {
			return err
		}
		b, err := root.CreateBucketIfNotExists([]byte(artifact))
		if err != nil {
			return err
		}
		if err := b.Put(keyFields, fieldsJSON); err != nil {
			return err
		}
		return b.Put(keyRecordedAt, recordedJSON)
	})
}

// Load retrieves the snapshot for an artifact.
// Returns nil, nil if no baseline exists (first sync).
func (s *Store) Load(artifact string) (*Snapshot, error) {
	var fieldsJSON, recordedJSON []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketBaselines)
		if root == nil {
			return nil
		}
		b := root.Bucket([]byte(artifact))
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get(keyFields); v != nil {
			fieldsJSON = make([]byte, len(v))
			copy(fieldsJSON, v)
		}
		if v := b.Get(keyRecordedAt); v != nil {
			recordedJSON = make([]byte, len(v))
			copy(recordedJSON, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if fieldsJSON == nil {
		return nil, nil
	}

	snapshot := &Snapshot{Artifact: artifact}
	if err := json.Unmarshal(fieldsJSON, &snapshot.Fields); err != nil {
		return nil, errors.WrapResource("load", "baseline", artifact, err)
	}
	if recordedJSON != nil {
		if err := json.Unmarshal(recordedJSON, &snapshot.RecordedAt); err != nil {
			return nil, errors.WrapResource("load", "baseline", artifact, err)
		}
	}

	return snapshot, nil
}

// Delete removes the snapshot for an artifact.
// Idempotent: deleting a missing baseline is not an error.
func (s *Store) Delete(artifact string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketBaselines)
		if root == nil {
			return nil
		}
		if err := root.DeleteBucket([]byte(artifact)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		return nil
	})
}

// List returns the artifact names with recorded baselines, sorted.
func (s *Store) List() ([]string, error) {
	var artifacts []string

	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketBaselines)
		if root == nil {
			return nil
		}
		return root.ForEachBucket(func(name []byte) error {
			artifacts = append(artifacts, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return artifacts, nil
}
