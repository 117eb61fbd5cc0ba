package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenzaapp/cadenza/internal/adapter/eventbus"
	"github.com/cadenzaapp/cadenza/internal/adapter/metadata"
	"github.com/cadenzaapp/cadenza/internal/library"
	"github.com/cadenzaapp/cadenza/internal/logger"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

func newImporterFixture(t *testing.T) (*Importer, *library.Store, *metadata.MockExtractor) {
	t.Helper()
	bus := eventbus.NewSyncEventBus()
	t.Cleanup(func() { bus.Close() })

	log := logger.NewTestLogger()
	store := library.New(log, bus, library.Options{})
	extractor := metadata.NewMockExtractor()
	return NewImporter(log, extractor, store, nil, bus), store, extractor
}

func pendingFromFS(fsys fstest.MapFS, folderPath, path string) PendingFile {
	return PendingFile{
		FolderPath: folderPath,
		Info:       ports.FileInfo{Path: path, Name: path, Size: int64(len(fsys[path].Data))},
		Open:       openFromFS(fsys, path),
	}
}

func TestImporter_Import(t *testing.T) {
	importer, store, extractor := newImporterFixture(t)
	fsys := fstest.MapFS{
		"one.mp3": &fstest.MapFile{Data: []byte("1")},
		"two.mp3": &fstest.MapFile{Data: []byte("22")},
	}
	extractor.Records["one.mp3"] = ports.Metadata{Title: "One", Artist: "Artist", Album: "Album"}
	extractor.Records["two.mp3"] = ports.Metadata{Title: "Two", Artist: "Artist", Album: "Album"}

	tracks, err := importer.Import(context.Background(), []PendingFile{
		pendingFromFS(fsys, "/music", "one.mp3"),
		pendingFromFS(fsys, "/music", "two.mp3"),
	}, nil)

	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Len(t, store.Tracks(), 2)
	// Both land in one album aggregate.
	require.Len(t, store.Albums(), 1)
	assert.Len(t, store.Albums()[0].TrackIDs, 2)

	got := tracks[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "/music/one.mp3", got.SourcePath)
	assert.Equal(t, ".mp3", got.FileType)
	assert.Equal(t, int64(1), got.FileSize)
	assert.False(t, got.DateAdded.IsZero())
}

func TestImporter_FallbackIDStableAcrossImports(t *testing.T) {
	fsys := fstest.MapFS{"one.mp3": &fstest.MapFile{Data: []byte("1")}}

	// No id in the metadata, so the importer derives one from the source
	// path. Two independent importers must agree on it.
	first, _, _ := newImporterFixture(t)
	second, secondStore, _ := newImporterFixture(t)

	a, err := first.Import(context.Background(), []PendingFile{pendingFromFS(fsys, "/music", "one.mp3")}, nil)
	require.NoError(t, err)
	b, err := second.Import(context.Background(), []PendingFile{pendingFromFS(fsys, "/music", "one.mp3")}, nil)
	require.NoError(t, err)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].ID, b[0].ID)

	// A different path gets a different id.
	c, err := second.Import(context.Background(), []PendingFile{pendingFromFS(fsys, "/other", "one.mp3")}, nil)
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.NotEqual(t, b[0].ID, c[0].ID)
	assert.Len(t, secondStore.Tracks(), 2)
}

func TestImporter_Import_PartialFailureDropsOnlyThatFile(t *testing.T) {
	importer, store, extractor := newImporterFixture(t)
	fsys := fstest.MapFS{}
	var pending []PendingFile
	for _, name := range []string{"a.mp3", "b.mp3", "c.mp3", "d.mp3", "e.mp3"} {
		fsys[name] = &fstest.MapFile{Data: []byte("x")}
		pending = append(pending, pendingFromFS(fsys, "/music", name))
	}
	extractor.FailPaths["c.mp3"] = true

	tracks, err := importer.Import(context.Background(), pending, nil)

	require.NoError(t, err)
	assert.Len(t, tracks, 4)
	assert.Len(t, store.Tracks(), 4)
}

func TestImporter_Import_UnopenableFileIsDropped(t *testing.T) {
	importer, store, _ := newImporterFixture(t)

	pending := []PendingFile{{
		FolderPath: "/music",
		Info:       ports.FileInfo{Path: "gone.mp3", Name: "gone.mp3"},
		Open: func() (io.ReadSeekCloser, error) {
			return nil, errors.New("file vanished")
		},
	}}

	tracks, err := importer.Import(context.Background(), pending, nil)

	require.NoError(t, err)
	assert.Empty(t, tracks)
	assert.Empty(t, store.Tracks())
}

func TestImporter_Import_LegacyFileWithoutBytes(t *testing.T) {
	importer, store, extractor := newImporterFixture(t)

	// No Open closure: bytes unreachable, metadata falls back to the name.
	pending := []PendingFile{{
		FolderPath: "/legacy",
		Info:       ports.FileInfo{Path: "fileA.mp3", Name: "fileA.mp3", Size: 10},
	}}

	tracks, err := importer.Import(context.Background(), pending, nil)

	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "fileA", tracks[0].Title)
	assert.Len(t, store.Tracks(), 1)
	assert.Equal(t, []string{"fileA.mp3"}, extractor.Calls)
}

func TestImporter_Import_ReportsEachFile(t *testing.T) {
	importer, _, _ := newImporterFixture(t)
	fsys := fstest.MapFS{
		"a.mp3": &fstest.MapFile{Data: []byte("x")},
		"b.mp3": &fstest.MapFile{Data: []byte("y")},
	}

	var reported []string
	_, err := importer.Import(context.Background(), []PendingFile{
		pendingFromFS(fsys, "/music", "a.mp3"),
		pendingFromFS(fsys, "/music", "b.mp3"),
	}, func(path string) { reported = append(reported, path) })

	require.NoError(t, err)
	assert.Equal(t, []string{"/music/a.mp3", "/music/b.mp3"}, reported)
}

func TestImporter_Import_EmptyBatch(t *testing.T) {
	importer, store, _ := newImporterFixture(t)

	tracks, err := importer.Import(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Empty(t, tracks)
	assert.Empty(t, store.Tracks())
}
