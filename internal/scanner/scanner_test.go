package scanner

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenzaapp/cadenza/internal/logger"
)

func TestIsAudioFile(t *testing.T) {
	// Supported formats
	assert.True(t, IsAudioFile("song.mp3"))
	assert.True(t, IsAudioFile("track.flac"))
	assert.True(t, IsAudioFile("music.wav"))
	assert.True(t, IsAudioFile("a.ogg"))
	assert.True(t, IsAudioFile("b.m4a"))
	assert.True(t, IsAudioFile("c.aac"))
	assert.True(t, IsAudioFile("d.opus"))
	assert.True(t, IsAudioFile("e.wma"))

	// Case-insensitive
	assert.True(t, IsAudioFile("SONG.MP3"))
	assert.True(t, IsAudioFile("Track.FlAc"))

	// Unsupported formats
	assert.False(t, IsAudioFile("readme.txt"))
	assert.False(t, IsAudioFile("cover.jpg"))
	assert.False(t, IsAudioFile("video.mp4"))
	assert.False(t, IsAudioFile("noextension"))
	assert.False(t, IsAudioFile(".mp3.bak"))
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	assert.Len(t, exts, 8)
	assert.Contains(t, exts, ".mp3")
	assert.Contains(t, exts, ".opus")
	// Sorted output.
	assert.IsNonDecreasing(t, exts)
}

func TestScanner_Scan_FindsNestedAudioFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"song1.mp3":               &fstest.MapFile{Data: []byte("one")},
		"notes.txt":               &fstest.MapFile{Data: []byte("skip")},
		"album/song2.flac":        &fstest.MapFile{Data: []byte("two")},
		"album/cover.jpg":         &fstest.MapFile{Data: []byte("skip")},
		"album/disc2/song3.opus":  &fstest.MapFile{Data: []byte("three")},
		"other/deep/nested/x.wav": &fstest.MapFile{Data: []byte("four")},
	}

	var found []FoundFile
	s := New(logger.NewTestLogger())
	count, err := s.Scan(fsys, func(f FoundFile) { found = append(found, f) }, nil)

	require.NoError(t, err)
	assert.Equal(t, 4, count)
	require.Len(t, found, 4)

	paths := make([]string, 0, len(found))
	for _, f := range found {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{
		"song1.mp3",
		"album/song2.flac",
		"album/disc2/song3.opus",
		"other/deep/nested/x.wav",
	}, paths)
}

func TestScanner_Scan_FilesBeforeSubdirectories(t *testing.T) {
	fsys := fstest.MapFS{
		"a_dir/inner.mp3": &fstest.MapFile{Data: []byte("x")},
		"z_file.mp3":      &fstest.MapFile{Data: []byte("y")},
	}

	var order []string
	s := New(logger.NewTestLogger())
	_, err := s.Scan(fsys, func(f FoundFile) { order = append(order, f.Path) }, nil)

	require.NoError(t, err)
	// The root's own files are reported before any subdirectory's.
	require.Equal(t, []string{"z_file.mp3", "a_dir/inner.mp3"}, order)
}

func TestScanner_Scan_ReportsSizes(t *testing.T) {
	fsys := fstest.MapFS{
		"song.mp3": &fstest.MapFile{Data: []byte("12345")},
	}

	var got FoundFile
	s := New(logger.NewTestLogger())
	_, err := s.Scan(fsys, func(f FoundFile) { got = f }, nil)

	require.NoError(t, err)
	assert.Equal(t, "song.mp3", got.Name)
	assert.Equal(t, int64(5), got.Size)
}

func TestScanner_Scan_ProgressIsMonotonic(t *testing.T) {
	fsys := fstest.MapFS{
		"a.mp3":     &fstest.MapFile{},
		"b.mp3":     &fstest.MapFile{},
		"sub/c.mp3": &fstest.MapFile{},
	}

	var reports []int
	s := New(logger.NewTestLogger())
	count, err := s.Scan(fsys, nil, func(found int) { reports = append(reports, found) })

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.NotEmpty(t, reports)
	assert.IsNonDecreasing(t, reports)
	assert.Equal(t, 3, reports[len(reports)-1])
}

func TestScanner_Scan_EmptyRoot(t *testing.T) {
	s := New(logger.NewTestLogger())
	count, err := s.Scan(fstest.MapFS{}, nil, nil)

	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestScanner_Scan_UnreadableRootFails(t *testing.T) {
	s := New(logger.NewTestLogger())
	_, err := s.Scan(failingFS{}, nil, nil)
	assert.Error(t, err)
}

// failingFS refuses every open, simulating a root that vanished after its
// capability was verified.
type failingFS struct{}

func (failingFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
}
