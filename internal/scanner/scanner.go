// Package scanner implements recursive enumeration of audio files inside a
// folder, given a verified access capability's filesystem.
package scanner

import (
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

// supportedExtensions is the fixed allow-list of audio file extensions.
// It is consumed by the scanner and by any manual file-selection path
// (legacy folder listings go through IsAudioFile too).
var supportedExtensions = map[string]struct{}{
	".mp3":  {},
	".wav":  {},
	".flac": {},
	".ogg":  {},
	".m4a":  {},
	".aac":  {},
	".opus": {},
	".wma":  {},
}

// IsAudioFile reports whether a file name carries a supported audio
// extension. The check is case-insensitive.
func IsAudioFile(name string) bool {
	_, ok := supportedExtensions[strings.ToLower(path.Ext(name))]
	return ok
}

// SupportedExtensions returns the allow-list, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// FoundFile is one discovered audio file.
type FoundFile struct {
	// Path is the file path relative to the scanned root
	Path string

	// Name is the base file name
	Name string

	// Size is the file size in bytes (0 when unknown)
	Size int64
}

// Scanner enumerates a folder's audio files.
type Scanner struct {
	logger *slog.Logger
}

// New creates a scanner.
func New(logger *slog.Logger) *Scanner {
	return &Scanner{logger: logger}
}

// Scan walks fsys depth-first and invokes onFound synchronously for every
// supported audio file as it is discovered, so the caller can start
// metadata extraction while traversal of the remaining siblings continues.
// onProgress reports the running files-found counter at least once per
// directory visited; the counter is monotonic and informational, since the
// total amount of work is not knowable in advance.
//
// Traversal is strictly sequential, one entry at a time. That bounds
// memory on arbitrarily deep trees and keeps pressure off the host's I/O
// layer. Sibling order is host-determined and not guaranteed stable across
// scans.
//
// A read error on an individual file or subdirectory is logged and
// skipped; traversal continues with the remaining siblings. Only a failure
// to read the root itself is returned as an error. There is no mid-flight
// cancellation: once started, a scan runs to completion.
//
// Returns the number of audio files found.
func (s *Scanner) Scan(fsys fs.FS, onFound func(FoundFile), onProgress func(found int)) (int, error) {
	if _, err := fs.ReadDir(fsys, "."); err != nil {
		return 0, err
	}
	found := 0
	s.scanDir(fsys, ".", &found, onFound, onProgress)
	return found, nil
}

// scanDir processes one directory level, files before subdirectories.
func (s *Scanner) scanDir(fsys fs.FS, dir string, found *int, onFound func(FoundFile), onProgress func(found int)) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		// Unreadable subdirectory: skip it, keep scanning the rest.
		s.logger.Warn("skipping unreadable directory",
			slog.String("dir", dir),
			slog.Any("error", err))
		return
	}

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		entryPath := name
		if dir != "." {
			entryPath = path.Join(dir, name)
		}

		if entry.IsDir() {
			subdirs = append(subdirs, entryPath)
			continue
		}
		if !IsAudioFile(name) {
			// Non-audio files are silently skipped: not reported, not errored.
			continue
		}

		var size int64
		if info, err := entry.Info(); err != nil {
			s.logger.Warn("skipping unreadable file",
				slog.String("file", entryPath),
				slog.Any("error", err))
			continue
		} else {
			size = info.Size()
		}

		*found++
		if onFound != nil {
			onFound(FoundFile{Path: entryPath, Name: name, Size: size})
		}
		if onProgress != nil {
			onProgress(*found)
		}
	}

	if onProgress != nil {
		onProgress(*found)
	}

	for _, sub := range subdirs {
		s.scanDir(fsys, sub, found, onFound, onProgress)
	}
}
