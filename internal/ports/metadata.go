package ports

import (
	"context"
	"io"
	"time"
)

// FileInfo describes a discovered audio file handed to the extractor.
type FileInfo struct {
	// Path is the file path relative to its folder root
	Path string

	// Name is the base file name
	Name string

	// Size is the file size in bytes
	Size int64
}

// Metadata is the descriptive record extracted from an audio file.
// Every field is optional; callers fall back to file-derived values
// (the file name as title, a generated id) for anything missing.
type Metadata struct {
	ID          string
	Title       string
	Artist      string
	Album       string
	Genre       string
	Year        int
	TrackNumber int
	Duration    time.Duration
	ArtworkRef  string
}

// MetadataExtractor turns raw audio bytes into a metadata record.
//
// The reader may be nil when the file's bytes are not reachable (legacy
// folder listings); implementations must then degrade to a record derived
// from FileInfo alone rather than fail. A parse failure on readable bytes
// degrades the same way; only genuine I/O errors are returned.
type MetadataExtractor interface {
	Extract(ctx context.Context, r io.ReadSeeker, info FileInfo) (Metadata, error)
}
