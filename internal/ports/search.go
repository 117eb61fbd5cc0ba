package ports

import (
	"github.com/cadenzaapp/cadenza/internal/domain"
)

// SearchIndex is a full-text index over catalog tracks, maintained
// additively by the import pipeline. It is an acceleration structure, not
// the source of truth: the store's own SearchLibrary projection stays
// authoritative and the index can be rebuilt from catalog state.
//
// Thread-safety: Implementations must be thread-safe.
type SearchIndex interface {
	// Index adds or updates the given tracks, keyed by track id.
	Index(tracks []domain.Track) error

	// Search returns the ids of tracks matching the query, best first,
	// capped at limit.
	Search(query string, limit int) ([]string, error)

	// Clear removes every document from the index.
	Clear() error

	// Close releases index resources.
	Close() error
}
