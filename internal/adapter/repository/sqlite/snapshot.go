package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

// snapshotID is the single well-known record the whole catalog snapshot
// lives under. Writes are whole-snapshot overwrites, not incremental.
const snapshotID = "library"

// SnapshotStore persists the catalog snapshot as one JSON blob row.
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore creates the snapshots table if needed.
func NewSnapshotStore(db *sql.DB) (*SnapshotStore, error) {
	const stmt = `CREATE TABLE IF NOT EXISTS snapshots(
		id TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`
	if _, err := db.Exec(stmt); err != nil {
		return nil, domain.NewStorageError("snapshot", "init", "failed to create table", err)
	}
	return &SnapshotStore{db: db}, nil
}

// Save overwrites the persisted snapshot.
func (s *SnapshotStore) Save(snapshot *domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return domain.NewStorageError("snapshot", "save", "failed to marshal snapshot", err)
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO snapshots (id, data, updated_at) VALUES (?, ?, ?)",
		snapshotID, data, time.Now().UTC(),
	)
	if err != nil {
		return domain.NewStorageError("snapshot", "save", "failed to write snapshot", err)
	}
	return nil
}

// Load retrieves the persisted snapshot, or domain.ErrSnapshotNotFound
// when nothing has been saved yet.
func (s *SnapshotStore) Load() (*domain.Snapshot, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM snapshots WHERE id = ?", snapshotID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, domain.NewStorageError("snapshot", "load", "failed to read snapshot", err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, domain.NewStorageError("snapshot", "load", "failed to unmarshal snapshot", err)
	}
	return &snapshot, nil
}

// Verify interface implementation
var _ ports.SnapshotStore = (*SnapshotStore)(nil)
