// Package metadata provides MetadataExtractor implementations: a real one
// built on dhowden/tag, and a mock for tests.
package metadata

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/dhowden/tag"

	"github.com/cadenzaapp/cadenza/internal/ports"
)

// TagExtractor extracts audio metadata with the dhowden/tag library.
// Missing or unparsable tags never fail a file: the record degrades to
// values derived from the file name, keeping per-file problems out of the
// import batch.
type TagExtractor struct {
	logger *slog.Logger
}

// NewTagExtractor creates a tag-based extractor.
func NewTagExtractor(logger *slog.Logger) *TagExtractor {
	return &TagExtractor{logger: logger}
}

// Extract reads tags from r. A nil reader (legacy listings, where the
// bytes are unreachable) and a parse failure both yield the file-name
// fallback record rather than an error.
func (e *TagExtractor) Extract(_ context.Context, r io.ReadSeeker, info ports.FileInfo) (ports.Metadata, error) {
	meta := fallbackMetadata(info)

	if r == nil {
		return meta, nil
	}

	parsed, err := tag.ReadFrom(r)
	if err != nil || parsed == nil {
		e.logger.Debug("no readable tags, using file name",
			slog.String("file", info.Path),
			slog.Any("error", err))
		return meta, nil
	}

	if title := strings.TrimSpace(parsed.Title()); title != "" {
		meta.Title = title
	}
	if artist := strings.TrimSpace(parsed.Artist()); artist != "" {
		meta.Artist = artist
	}
	if album := strings.TrimSpace(parsed.Album()); album != "" {
		meta.Album = album
	}
	meta.Genre = strings.TrimSpace(parsed.Genre())

	if year := parsed.Year(); year > 0 {
		meta.Year = year
	}
	trackNum, _ := parsed.Track()
	meta.TrackNumber = trackNum

	if picture := parsed.Picture(); picture != nil {
		// Artwork bytes stay in the file; the catalog keeps a reference only.
		meta.ArtworkRef = "embedded/" + picture.Ext
	}

	return meta, nil
}

// fallbackMetadata derives a minimal record from the file itself.
func fallbackMetadata(info ports.FileInfo) ports.Metadata {
	name := info.Name
	if name == "" {
		name = path.Base(info.Path)
	}
	title := strings.TrimSuffix(name, path.Ext(name))
	return ports.Metadata{Title: title}
}

// Verify interface implementation
var _ ports.MetadataExtractor = (*TagExtractor)(nil)
