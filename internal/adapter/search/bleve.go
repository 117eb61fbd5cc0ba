// Package search provides the Bleve-backed full-text track index.
package search

import (
	"log/slog"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"

	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

// trackDoc is the indexed projection of a track.
type trackDoc struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Genre  string `json:"genre"`
}

// BleveIndex indexes tracks for full-text search, keyed by track id. The
// index is an acceleration structure; the library store stays the source
// of truth and the index is rebuilt additively by every import batch.
type BleveIndex struct {
	index  bleve.Index
	logger *slog.Logger
}

// Open opens the index at path, creating it on first use. Bleve indexes
// are directories.
func Open(path string, logger *slog.Logger) (*BleveIndex, error) {
	var index bleve.Index
	var err error

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		index, err = bleve.New(path, bleve.NewIndexMapping())
	} else {
		index, err = bleve.Open(path)
	}
	if err != nil {
		return nil, domain.NewStorageError("search", "open", "failed to open index", err)
	}
	return &BleveIndex{index: index, logger: logger}, nil
}

// Index adds or updates tracks in one batch.
func (b *BleveIndex) Index(tracks []domain.Track) error {
	if len(tracks) == 0 {
		return nil
	}

	batch := b.index.NewBatch()
	for _, t := range tracks {
		doc := trackDoc{
			Title:  t.Title,
			Artist: t.Artist,
			Album:  t.Album,
			Genre:  t.Genre,
		}
		if err := batch.Index(t.ID, doc); err != nil {
			return domain.NewStorageError("search", "index", "failed to batch document", err)
		}
	}
	if err := b.index.Batch(batch); err != nil {
		return domain.NewStorageError("search", "index", "failed to apply batch", err)
	}
	return nil
}

// Search returns matching track ids, best first.
func (b *BleveIndex) Search(query string, limit int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	req := bleve.NewSearchRequest(bleve.NewQueryStringQuery(query))
	req.Size = limit
	result, err := b.index.Search(req)
	if err != nil {
		return nil, domain.NewStorageError("search", "search", "query failed", err)
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Clear removes every document from the index.
func (b *BleveIndex) Clear() error {
	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = 10000

	for {
		result, err := b.index.Search(req)
		if err != nil {
			return domain.NewStorageError("search", "clear", "enumeration failed", err)
		}
		if len(result.Hits) == 0 {
			return nil
		}
		batch := b.index.NewBatch()
		for _, hit := range result.Hits {
			batch.Delete(hit.ID)
		}
		if err := b.index.Batch(batch); err != nil {
			return domain.NewStorageError("search", "clear", "delete batch failed", err)
		}
	}
}

// Close releases index resources.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// Verify interface implementation
var _ ports.SearchIndex = (*BleveIndex)(nil)
