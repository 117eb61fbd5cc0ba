// Package library implements the reducer-driven state container that owns
// the catalog: tracks, albums, artists, playlists, folders and the scan
// session. All mutation flows through a pure transition function applied to
// dispatched actions; everything else is a read-only projection.
package library

import (
	"github.com/cadenzaapp/cadenza/internal/domain"
)

// State is the complete library state at one point in time.
//
// States handed out by the store are treated as immutable: the reducer
// copies every map or slice it touches instead of mutating in place, so a
// State value read under the store lock stays valid afterwards.
type State struct {
	// Tracks is the catalog keyed by track id
	Tracks map[string]domain.Track

	// Albums is the derived album aggregates keyed by normalized title
	Albums map[string]domain.Album

	// Artists is the derived artist aggregates keyed by normalized name
	Artists map[string]domain.Artist

	// Playlists is the user-created playlists in creation order
	Playlists []domain.Playlist

	// Folders is the registered folders in the order they were added;
	// scans process them in this order
	Folders []domain.Folder

	// Session is the transient scan session state (never persisted)
	Session domain.ScanSession
}

// NewState returns an empty library state.
func NewState() State {
	return State{
		Tracks:  make(map[string]domain.Track),
		Albums:  make(map[string]domain.Album),
		Artists: make(map[string]domain.Artist),
	}
}

// FolderByPath returns the folder with the given path, if present.
func (s State) FolderByPath(path string) (domain.Folder, bool) {
	for _, f := range s.Folders {
		if f.Path == path {
			return f, true
		}
	}
	return domain.Folder{}, false
}

// PlaylistByID returns the playlist with the given id, if present.
func (s State) PlaylistByID(id string) (domain.Playlist, bool) {
	for _, p := range s.Playlists {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Playlist{}, false
}

// cloneTracks returns a shallow copy of the track map.
func cloneTracks(m map[string]domain.Track) map[string]domain.Track {
	out := make(map[string]domain.Track, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// cloneAlbums returns a shallow copy of the album map.
func cloneAlbums(m map[string]domain.Album) map[string]domain.Album {
	out := make(map[string]domain.Album, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// cloneArtists returns a shallow copy of the artist map.
func cloneArtists(m map[string]domain.Artist) map[string]domain.Artist {
	out := make(map[string]domain.Artist, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// cloneFolders returns a copy of the folder slice.
func cloneFolders(fs []domain.Folder) []domain.Folder {
	out := make([]domain.Folder, len(fs))
	copy(out, fs)
	return out
}

// clonePlaylists returns a copy of the playlist slice.
func clonePlaylists(ps []domain.Playlist) []domain.Playlist {
	out := make([]domain.Playlist, len(ps))
	copy(out, ps)
	return out
}
