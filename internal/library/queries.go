package library

import (
	"sort"
	"strings"

	"github.com/cadenzaapp/cadenza/internal/domain"
)

// Query helpers are pure read-only projections over current state. They
// never mutate anything and can be recomputed at any time.

// Tracks returns all tracks sorted by title.
func (s *Store) Tracks() []domain.Track {
	state := s.State()
	tracks := make([]domain.Track, 0, len(state.Tracks))
	for _, t := range state.Tracks {
		tracks = append(tracks, t)
	}
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].Title != tracks[j].Title {
			return tracks[i].Title < tracks[j].Title
		}
		return tracks[i].ID < tracks[j].ID
	})
	return tracks
}

// Albums returns all album aggregates sorted by title.
func (s *Store) Albums() []domain.Album {
	state := s.State()
	albums := make([]domain.Album, 0, len(state.Albums))
	for _, a := range state.Albums {
		albums = append(albums, a)
	}
	sort.Slice(albums, func(i, j int) bool { return albums[i].Title < albums[j].Title })
	return albums
}

// Artists returns all artist aggregates sorted by name.
func (s *Store) Artists() []domain.Artist {
	state := s.State()
	artists := make([]domain.Artist, 0, len(state.Artists))
	for _, a := range state.Artists {
		artists = append(artists, a)
	}
	sort.Slice(artists, func(i, j int) bool { return artists[i].Name < artists[j].Name })
	return artists
}

// Playlists returns all playlists in creation order.
func (s *Store) Playlists() []domain.Playlist {
	return clonePlaylists(s.State().Playlists)
}

// Folders returns all registered folders in scan order.
func (s *Store) Folders() []domain.Folder {
	return cloneFolders(s.State().Folders)
}

// Session returns the current scan session state.
func (s *Store) Session() domain.ScanSession {
	return s.State().Session
}

// MostPlayed returns up to limit tracks ordered by descending play count.
// Unplayed tracks are excluded.
func (s *Store) MostPlayed(limit int) []domain.Track {
	state := s.State()
	tracks := make([]domain.Track, 0, len(state.Tracks))
	for _, t := range state.Tracks {
		if t.PlayCount > 0 {
			tracks = append(tracks, t)
		}
	}
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].PlayCount != tracks[j].PlayCount {
			return tracks[i].PlayCount > tracks[j].PlayCount
		}
		return tracks[i].Title < tracks[j].Title
	})
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks
}

// RecentlyAdded returns up to limit tracks ordered by descending DateAdded.
func (s *Store) RecentlyAdded(limit int) []domain.Track {
	state := s.State()
	tracks := make([]domain.Track, 0, len(state.Tracks))
	for _, t := range state.Tracks {
		tracks = append(tracks, t)
	}
	sort.Slice(tracks, func(i, j int) bool {
		if !tracks[i].DateAdded.Equal(tracks[j].DateAdded) {
			return tracks[i].DateAdded.After(tracks[j].DateAdded)
		}
		return tracks[i].Title < tracks[j].Title
	})
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks
}

// SearchLibrary returns tracks whose title, artist, album or genre contain
// the query, case-insensitively. An empty query matches nothing.
func (s *Store) SearchLibrary(query string) []domain.Track {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil
	}
	state := s.State()
	matches := make([]domain.Track, 0)
	for _, t := range state.Tracks {
		if strings.Contains(strings.ToLower(t.Title), query) ||
			strings.Contains(strings.ToLower(t.Artist), query) ||
			strings.Contains(strings.ToLower(t.Album), query) ||
			strings.Contains(strings.ToLower(t.Genre), query) {
			matches = append(matches, t)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Title < matches[j].Title })
	return matches
}

// TrackByID returns a track by id.
func (s *Store) TrackByID(id string) (domain.Track, bool) {
	state := s.State()
	t, ok := state.Tracks[id]
	return t, ok
}
