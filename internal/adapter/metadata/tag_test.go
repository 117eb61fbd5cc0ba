package metadata

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenzaapp/cadenza/internal/logger"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

func TestTagExtractor_NilReaderFallsBackToFileName(t *testing.T) {
	e := NewTagExtractor(logger.NewTestLogger())

	meta, err := e.Extract(context.Background(), nil, ports.FileInfo{
		Path: "albums/fileA.mp3",
		Name: "fileA.mp3",
	})

	require.NoError(t, err)
	assert.Equal(t, "fileA", meta.Title)
	assert.Empty(t, meta.Artist)
	assert.Empty(t, meta.Album)
}

func TestTagExtractor_UnparsableBytesFallBack(t *testing.T) {
	e := NewTagExtractor(logger.NewTestLogger())

	// Not a valid audio container; parsing fails, the file does not.
	r := bytes.NewReader([]byte("this is not an mp3"))
	meta, err := e.Extract(context.Background(), r, ports.FileInfo{
		Path: "song.mp3",
		Name: "song.mp3",
	})

	require.NoError(t, err)
	assert.Equal(t, "song", meta.Title)
}

func TestTagExtractor_NameFromPathWhenMissing(t *testing.T) {
	e := NewTagExtractor(logger.NewTestLogger())

	meta, err := e.Extract(context.Background(), nil, ports.FileInfo{
		Path: "deep/nested/track.flac",
	})

	require.NoError(t, err)
	assert.Equal(t, "track", meta.Title)
}

func TestTagExtractor_ID3Tags(t *testing.T) {
	e := NewTagExtractor(logger.NewTestLogger())

	// Minimal ID3v1 trailer: "TAG" + 30-byte title, artist, album fields.
	buf := make([]byte, 128)
	copy(buf[0:], "TAG")
	copy(buf[3:], "Test Title")
	copy(buf[33:], "Test Artist")
	copy(buf[63:], "Test Album")
	payload := append(bytes.Repeat([]byte{0xff}, 64), buf...)

	meta, err := e.Extract(context.Background(), bytes.NewReader(payload), ports.FileInfo{
		Path: "tagged.mp3",
		Name: "tagged.mp3",
	})

	require.NoError(t, err)
	assert.Equal(t, "Test Title", meta.Title)
	assert.Equal(t, "Test Artist", meta.Artist)
	assert.Equal(t, "Test Album", meta.Album)
}

func TestMockExtractor(t *testing.T) {
	e := NewMockExtractor()
	e.Records["a.mp3"] = ports.Metadata{Title: "Canned"}
	e.FailPaths["bad.mp3"] = true

	meta, err := e.Extract(context.Background(), nil, ports.FileInfo{Path: "a.mp3", Name: "a.mp3"})
	require.NoError(t, err)
	assert.Equal(t, "Canned", meta.Title)

	_, err = e.Extract(context.Background(), nil, ports.FileInfo{Path: "bad.mp3", Name: "bad.mp3"})
	assert.Error(t, err)

	meta, err = e.Extract(context.Background(), nil, ports.FileInfo{Path: "plain.mp3", Name: "plain.mp3"})
	require.NoError(t, err)
	assert.Equal(t, "plain", meta.Title)

	assert.Equal(t, []string{"a.mp3", "bad.mp3", "plain.mp3"}, e.Calls)
}
