package service

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/library"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

// PendingFile is one discovered audio file queued for import.
type PendingFile struct {
	// FolderPath is the registered folder the file came from
	FolderPath string

	// Info describes the file relative to its folder
	Info ports.FileInfo

	// Open returns the file's bytes. Nil for legacy listings, whose bytes
	// are unreachable; those import with file-name-derived metadata.
	Open func() (io.ReadSeekCloser, error)
}

// trackIDNamespace seeds fallback track ids. Audio tags rarely carry an
// id of their own, so most files take this path: the id is derived from
// the source path, giving the same file the same id on every scan and
// letting rescans merge instead of duplicating the catalog.
var trackIDNamespace = uuid.MustParse("76c85264-57b1-44c4-8f6f-6e3bfdde1ad7")

// Importer converts discovered files into catalog tracks: one metadata
// extraction per file, a synthesized Track record, and a single batched
// dispatch to the library store so aggregates are recomputed once, not per
// file. A failure on one file drops that file, never the batch.
type Importer struct {
	logger    *slog.Logger
	extractor ports.MetadataExtractor
	store     *library.Store
	index     ports.SearchIndex
	bus       ports.EventBus
	now       func() time.Time
}

// NewImporter creates an importer. index may be nil when full-text search
// is disabled.
func NewImporter(
	logger *slog.Logger,
	extractor ports.MetadataExtractor,
	store *library.Store,
	index ports.SearchIndex,
	bus ports.EventBus,
) *Importer {
	return &Importer{
		logger:    logger,
		extractor: extractor,
		store:     store,
		index:     index,
		bus:       bus,
		now:       time.Now,
	}
}

// Import processes the batch and merges the resulting tracks into the
// catalog in one dispatch. onFile, when non-nil, is invoked with each
// file's source path before extraction (used for scan progress display).
//
// Returns the tracks that made it into the batch.
func (i *Importer) Import(ctx context.Context, files []PendingFile, onFile func(path string)) ([]domain.Track, error) {
	tracks := make([]domain.Track, 0, len(files))

	for _, pf := range files {
		sourcePath := filepath.Join(pf.FolderPath, filepath.FromSlash(pf.Info.Path))
		if onFile != nil {
			onFile(sourcePath)
		}

		track, err := i.importOne(ctx, pf, sourcePath)
		if err != nil {
			// Extraction failed: drop the file, keep the batch going.
			i.logger.Warn("file dropped from import batch",
				slog.String("file", sourcePath),
				slog.Any("error", err))
			continue
		}
		tracks = append(tracks, track)
	}

	if len(tracks) == 0 {
		return tracks, nil
	}

	i.store.ImportTracks(tracks)

	if i.index != nil {
		if err := i.index.Index(tracks); err != nil {
			// The catalog stays authoritative; search just lags.
			i.logger.Error("search index update failed", slog.Any("error", err))
		}
	}
	return tracks, nil
}

// importOne extracts metadata for one file and synthesizes its Track.
func (i *Importer) importOne(ctx context.Context, pf PendingFile, sourcePath string) (domain.Track, error) {
	var reader io.ReadSeeker
	if pf.Open != nil {
		f, err := pf.Open()
		if err != nil {
			return domain.Track{}, err
		}
		defer f.Close()
		reader = f
	}

	meta, err := i.extractor.Extract(ctx, reader, pf.Info)
	if err != nil {
		return domain.Track{}, err
	}

	id := meta.ID
	if id == "" {
		id = uuid.NewSHA1(trackIDNamespace, []byte(sourcePath)).String()
	}
	title := meta.Title
	if title == "" {
		title = strings.TrimSuffix(pf.Info.Name, filepath.Ext(pf.Info.Name))
	}

	return domain.Track{
		ID:          id,
		Title:       title,
		Artist:      meta.Artist,
		Album:       meta.Album,
		Genre:       meta.Genre,
		Year:        meta.Year,
		TrackNumber: meta.TrackNumber,
		Duration:    meta.Duration,
		ArtworkRef:  meta.ArtworkRef,
		SourcePath:  sourcePath,
		FileName:    pf.Info.Name,
		FileSize:    pf.Info.Size,
		FileType:    strings.ToLower(filepath.Ext(pf.Info.Name)),
		DateAdded:   i.now(),
	}, nil
}

// openFromFS builds a PendingFile.Open closure over an fs.FS. Files that
// do not seek natively are buffered, since tag parsing needs random access.
func openFromFS(fsys fs.FS, path string) func() (io.ReadSeekCloser, error) {
	return func() (io.ReadSeekCloser, error) {
		f, err := fsys.Open(path)
		if err != nil {
			return nil, err
		}
		if rs, ok := f.(io.ReadSeekCloser); ok {
			return rs, nil
		}
		data, err := io.ReadAll(f)
		closeErr := f.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}
		return bufferedFile{bytes.NewReader(data)}, nil
	}
}

// bufferedFile adapts an in-memory reader to io.ReadSeekCloser.
type bufferedFile struct {
	*bytes.Reader
}

// Close is a no-op for buffered bytes.
func (bufferedFile) Close() error { return nil }
