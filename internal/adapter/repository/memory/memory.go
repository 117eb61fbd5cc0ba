// Package memory provides in-memory SnapshotStore and CapabilityStore
// implementations, used by tests and as a no-persistence fallback.
package memory

import (
	"sync"
	"time"

	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

// SnapshotStore keeps the last saved snapshot in memory.
//
// Thread-safe: all operations protected by sync.RWMutex.
type SnapshotStore struct {
	mu       sync.RWMutex
	snapshot *domain.Snapshot

	// SaveErr, when set, is returned by Save to simulate write failures
	SaveErr error

	// Saves counts successful Save calls
	Saves int
}

// NewSnapshotStore creates an empty in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Save stores a copy of the snapshot.
func (s *SnapshotStore) Save(snapshot *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	copied := *snapshot
	s.snapshot = &copied
	s.Saves++
	return nil
}

// Load retrieves the stored snapshot, or domain.ErrSnapshotNotFound.
func (s *SnapshotStore) Load() (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, domain.ErrSnapshotNotFound
	}
	copied := *s.snapshot
	return &copied, nil
}

// CapabilityStore keeps capability records in a map keyed by path.
//
// Thread-safe: all operations protected by sync.RWMutex.
type CapabilityStore struct {
	mu      sync.RWMutex
	records map[string]ports.CapabilityRecord
}

// NewCapabilityStore creates an empty in-memory capability store.
func NewCapabilityStore() *CapabilityStore {
	return &CapabilityStore{records: make(map[string]ports.CapabilityRecord)}
}

// Put stores a record, overwriting any existing one for the same path.
func (s *CapabilityStore) Put(record ports.CapabilityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.PersistedAt.IsZero() {
		record.PersistedAt = time.Now()
	}
	s.records[record.Path] = record
	return nil
}

// All returns every stored record.
func (s *CapabilityStore) All() ([]ports.CapabilityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]ports.CapabilityRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	return records, nil
}

// Delete removes the record for a path.
func (s *CapabilityStore) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, path)
	return nil
}

// Verify interface implementations
var (
	_ ports.SnapshotStore   = (*SnapshotStore)(nil)
	_ ports.CapabilityStore = (*CapabilityStore)(nil)
)
