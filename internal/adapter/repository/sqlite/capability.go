package sqlite

import (
	"database/sql"
	"time"

	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

// CapabilityStore persists opaque capability tokens keyed by folder path,
// in a table independent from the snapshot. Tokens are never inspected
// here, only stored and retrieved.
type CapabilityStore struct {
	db *sql.DB
}

// NewCapabilityStore creates the capabilities table if needed.
func NewCapabilityStore(db *sql.DB) (*CapabilityStore, error) {
	const stmt = `CREATE TABLE IF NOT EXISTS capabilities(
		path TEXT PRIMARY KEY,
		token BLOB NOT NULL,
		persisted_at TIMESTAMP NOT NULL
	);`
	if _, err := db.Exec(stmt); err != nil {
		return nil, domain.NewStorageError("capability", "init", "failed to create table", err)
	}
	return &CapabilityStore{db: db}, nil
}

// Put stores a record, overwriting any existing one for the same path.
func (s *CapabilityStore) Put(record ports.CapabilityRecord) error {
	persistedAt := record.PersistedAt
	if persistedAt.IsZero() {
		persistedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO capabilities (path, token, persisted_at) VALUES (?, ?, ?)",
		record.Path, record.Token, persistedAt,
	)
	if err != nil {
		return domain.NewStorageError("capability", "put", "failed to write record", err)
	}
	return nil
}

// All returns every stored record.
func (s *CapabilityStore) All() ([]ports.CapabilityRecord, error) {
	rows, err := s.db.Query("SELECT path, token, persisted_at FROM capabilities")
	if err != nil {
		return nil, domain.NewStorageError("capability", "all", "failed to query records", err)
	}
	defer rows.Close()

	var records []ports.CapabilityRecord
	for rows.Next() {
		var rec ports.CapabilityRecord
		if err := rows.Scan(&rec.Path, &rec.Token, &rec.PersistedAt); err != nil {
			return nil, domain.NewStorageError("capability", "all", "failed to scan record", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("capability", "all", "failed to iterate records", err)
	}
	return records, nil
}

// Delete removes the record for a path. Unknown paths are a no-op.
func (s *CapabilityStore) Delete(path string) error {
	if _, err := s.db.Exec("DELETE FROM capabilities WHERE path = ?", path); err != nil {
		return domain.NewStorageError("capability", "delete", "failed to delete record", err)
	}
	return nil
}

// Verify interface implementation
var _ ports.CapabilityStore = (*CapabilityStore)(nil)
