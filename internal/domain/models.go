// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the Cadenza library catalog.
package domain

import (
	"strings"
	"time"
	"unicode"
)

// Track represents a single audio file in the catalog with its metadata.
// Tracks are created by the import pipeline and owned exclusively by the
// library store; all mutation goes through store actions.
type Track struct {
	// ID is a unique, stable identifier for the track (UUID when the
	// metadata carries none of its own)
	ID string

	// Title is the song title (from metadata, or the file name as fallback)
	Title string

	// Artist is the performing artist name (may be empty)
	Artist string

	// Album is the album title (may be empty)
	Album string

	// Genre is the music genre (may be empty)
	Genre string

	// Year is the release year (0 if unknown)
	Year int

	// TrackNumber is the position on the album (0 if unknown)
	TrackNumber int

	// Duration is the total length of the track (0 if unknown)
	Duration time.Duration

	// ArtworkRef is an opaque reference to cover art (empty if none)
	ArtworkRef string

	// SourcePath is the path of the file, relative to its folder root
	SourcePath string

	// FileName is the base name of the audio file
	FileName string

	// FileSize is the file size in bytes
	FileSize int64

	// FileType is the lowercased file extension (".mp3", ".flac", ...)
	FileType string

	// DateAdded is when the track entered the catalog
	DateAdded time.Time

	// PlayCount is the number of completed plays (never negative)
	PlayCount int

	// LastPlayed is when the track was last played (zero if never)
	LastPlayed time.Time
}

// Album is an aggregate derived from tracks sharing a normalized title.
// Albums are never created directly by the user; every import pass
// recomputes membership and merges into existing entries.
type Album struct {
	// Key is the normalized album title (see NormalizeKey)
	Key string

	// Title is the display title as first seen
	Title string

	// Artist is the album artist (from the first track carrying one)
	Artist string

	// Year is the release year (from the first track carrying one)
	Year int

	// TrackIDs is the set of member track ids (order not meaningful)
	TrackIDs []string
}

// Artist is an aggregate derived from tracks sharing a normalized name.
type Artist struct {
	// Key is the normalized artist name (see NormalizeKey)
	Key string

	// Name is the display name as first seen
	Name string

	// Albums is the distinct set of album titles the artist appears on
	Albums []string
}

// Playlist is a user-created, ordered sequence of track references.
// Track references are weak: removing a track from the catalog does not
// remove it from playlists.
type Playlist struct {
	// ID is a unique identifier for the playlist (UUID)
	ID string

	// Name is the playlist name
	Name string

	// Description is an optional free-form description
	Description string

	// TrackIDs is the ordered list of referenced track ids
	TrackIDs []string

	// DateCreated is when the playlist was created
	DateCreated time.Time
}

// FolderFile is one entry of a pre-enumerated ("legacy") folder listing,
// captured once at selection time when no ongoing capability is available.
type FolderFile struct {
	// Path is the file path relative to the folder
	Path string

	// Name is the base file name
	Name string

	// Size is the file size in bytes
	Size int64
}

// Folder is the durable descriptor of an attached music folder. The live
// access capability is never part of this struct; it lives in the
// capability registry and must be re-verified after a process restart.
type Folder struct {
	// Path uniquely identifies the folder (exact match, no normalization)
	Path string

	// Name is the display name
	Name string

	// HasValidCapability reports whether a live, verified capability is
	// currently associated with the folder
	HasValidCapability bool

	// NeedsPermissionVerification is set on restart for capability-backed
	// folders and cleared once verification completes (either outcome)
	NeedsPermissionVerification bool

	// Files is the embedded listing for legacy folders; empty for
	// capability-backed folders
	Files []FolderFile
}

// IsLegacy reports whether the folder carries a pre-enumerated file list
// instead of a live capability.
func (f Folder) IsLegacy() bool {
	return len(f.Files) > 0
}

// ScanPhase represents the state of the scan session state machine.
type ScanPhase int

const (
	// ScanIdle indicates no scan is running
	ScanIdle ScanPhase = iota

	// ScanRunning indicates a scan session is in flight
	ScanRunning

	// ScanFailed indicates the last scan session ended in failure
	ScanFailed
)

// String returns a human-readable representation of the scan phase.
func (p ScanPhase) String() string {
	switch p {
	case ScanIdle:
		return "idle"
	case ScanRunning:
		return "scanning"
	case ScanFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ScanSession is the transient state of the current (or last) scan.
// It is never persisted to the snapshot.
type ScanSession struct {
	// Phase is the current state machine phase
	Phase ScanPhase

	// Progress is the number of files discovered so far; non-decreasing
	// within one session
	Progress int

	// Total is the best-known amount of work; revised upward as folder
	// sizes become known, never downward
	Total int

	// CurrentFile is the file most recently visited
	CurrentFile string

	// LastScanDate is when the last successful scan completed
	LastScanDate time.Time

	// Message carries the user-facing failure reason when Phase is ScanFailed
	Message string
}

// IsScanning reports whether a scan session is in flight.
func (s ScanSession) IsScanning() bool {
	return s.Phase == ScanRunning
}

// Snapshot is the serializable projection of the catalog used by the
// persistent snapshot store. Live capabilities and the scan session are
// excluded.
type Snapshot struct {
	Tracks       []Track    `json:"tracks"`
	Albums       []Album    `json:"albums"`
	Artists      []Artist   `json:"artists"`
	Playlists    []Playlist `json:"playlists"`
	Folders      []Folder   `json:"folders"`
	LastScanDate time.Time  `json:"lastScanDate"`
}

// NormalizeKey derives the aggregate key for album titles and artist
// names: lowercased with every non-alphanumeric rune stripped, so that
// "Red", "red" and "R.E.D." collapse to one aggregate.
func NormalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
