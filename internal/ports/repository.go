package ports

import (
	"time"

	"github.com/cadenzaapp/cadenza/internal/domain"
)

// SnapshotStore handles durable persistence of the catalog snapshot.
// Writes are whole-snapshot overwrites under a single well-known record;
// there is no incremental update.
//
// Thread-safety: Implementations must be thread-safe.
type SnapshotStore interface {
	// Save persists the snapshot, replacing any previous one.
	Save(snapshot *domain.Snapshot) error

	// Load retrieves the persisted snapshot.
	// Returns domain.ErrSnapshotNotFound when nothing has been saved yet.
	Load() (*domain.Snapshot, error)
}

// CapabilityRecord is one persisted capability token, keyed by folder path.
// Distinct from domain.Folder because its process-lifetime validity cannot
// be assumed after a restart.
type CapabilityRecord struct {
	// Path is the folder path the token was granted for
	Path string

	// Token is the opaque serialized capability
	Token []byte

	// PersistedAt is when the token was stored
	PersistedAt time.Time
}

// CapabilityStore handles durable persistence of capability tokens,
// independent of the snapshot store. The two stores are eventually
// consistent: a crash between writes can leave a folder in the snapshot
// with no matching token, which startup reconciliation treats as
// requiring re-verification.
//
// Thread-safety: Implementations must be thread-safe.
type CapabilityStore interface {
	// Put stores a record, overwriting any existing one for the same path.
	Put(record CapabilityRecord) error

	// All returns every stored record. Used once at startup for silent
	// capability restoration.
	All() ([]CapabilityRecord, error)

	// Delete removes the record for a path. Unknown paths are a no-op.
	Delete(path string) error
}
