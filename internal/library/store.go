package library

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

// Store is the single writer of catalog state. It applies dispatched
// actions through the pure reducer under a mutex and publishes lifecycle
// events for collaborators; everything else only reads state or submits
// requests through this action surface.
//
// There is no ambient singleton: a Store is constructed once and passed
// to every collaborator by reference.
type Store struct {
	logger *slog.Logger
	bus    ports.EventBus
	opts   Options

	mu    sync.RWMutex
	state State
}

// New creates an empty library store.
func New(logger *slog.Logger, bus ports.EventBus, opts Options) *Store {
	return &Store{
		logger: logger,
		bus:    bus,
		opts:   opts,
		state:  NewState(),
	}
}

// Dispatch applies an action through the reducer. Unknown action types are
// no-ops; Dispatch never fails.
func (s *Store) Dispatch(action domain.Action) {
	s.mu.Lock()
	s.state = reduce(s.state, action, s.opts)
	s.mu.Unlock()
}

// State returns the current library state. The returned value must be
// treated as read-only; the reducer never mutates shared structures in
// place, so it stays consistent after the call.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// AddFolder registers a folder. Returns false without any state change
// when a folder with the same path already exists.
func (s *Store) AddFolder(folder domain.Folder) bool {
	s.mu.Lock()
	if _, exists := s.state.FolderByPath(folder.Path); exists {
		s.mu.Unlock()
		s.logger.Debug("folder already registered", slog.String("path", folder.Path))
		return false
	}
	s.state = reduce(s.state, domain.AddFolderAction{Folder: folder}, s.opts)
	s.mu.Unlock()

	s.bus.Publish(domain.NewFolderAddedEvent(folder))
	return true
}

// RemoveFolder removes a folder by path. Whether tracks sourced from it
// are removed as well is controlled by Options.CascadeRemoveFolderTracks.
// Returns false when the path is not registered.
func (s *Store) RemoveFolder(path string) bool {
	s.mu.Lock()
	if _, exists := s.state.FolderByPath(path); !exists {
		s.mu.Unlock()
		return false
	}
	s.state = reduce(s.state, domain.RemoveFolderAction{Path: path}, s.opts)
	s.mu.Unlock()

	s.bus.Publish(domain.NewFolderRemovedEvent(path))
	return true
}

// ImportTracks merges a batch of tracks into the catalog in one
// transition, so album/artist aggregates are recomputed once per batch.
// The published event carries the number of tracks that were actually
// new to the catalog, not the size of the submitted batch.
func (s *Store) ImportTracks(tracks []domain.Track) {
	if len(tracks) == 0 {
		return
	}
	s.mu.Lock()
	before := len(s.state.Tracks)
	s.state = reduce(s.state, domain.ImportTracksAction{Tracks: tracks}, s.opts)
	merged := len(s.state.Tracks) - before
	s.mu.Unlock()

	s.bus.Publish(domain.NewTracksImportedEvent(merged))
}

// BeginScan transitions the scan session to ScanRunning. Returns false
// when a session is already in flight; at most one scan session exists
// system-wide and concurrent attempts are rejected, not queued.
func (s *Store) BeginScan() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Session.IsScanning() {
		return false
	}
	s.state = reduce(s.state, domain.ScanStartedAction{}, s.opts)
	return true
}

// CreatePlaylist creates an empty playlist and returns it.
func (s *Store) CreatePlaylist(name, description string) domain.Playlist {
	playlist := domain.Playlist{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		DateCreated: time.Now(),
	}
	s.Dispatch(domain.CreatePlaylistAction{Playlist: playlist})
	return playlist
}

// AddToPlaylist appends a track reference to a playlist.
func (s *Store) AddToPlaylist(playlistID, trackID string) error {
	s.mu.RLock()
	_, ok := s.state.PlaylistByID(playlistID)
	s.mu.RUnlock()
	if !ok {
		return domain.ErrPlaylistNotFound
	}
	s.Dispatch(domain.AddToPlaylistAction{PlaylistID: playlistID, TrackID: trackID})
	return nil
}

// RemoveFromPlaylist removes a track reference from a playlist.
func (s *Store) RemoveFromPlaylist(playlistID, trackID string) error {
	s.mu.RLock()
	_, ok := s.state.PlaylistByID(playlistID)
	s.mu.RUnlock()
	if !ok {
		return domain.ErrPlaylistNotFound
	}
	s.Dispatch(domain.RemoveFromPlaylistAction{PlaylistID: playlistID, TrackID: trackID})
	return nil
}

// MarkPlayed increments a track's play count.
func (s *Store) MarkPlayed(trackID string) error {
	s.mu.RLock()
	_, ok := s.state.Tracks[trackID]
	s.mu.RUnlock()
	if !ok {
		return domain.ErrTrackNotFound
	}
	s.Dispatch(domain.MarkPlayedAction{TrackID: trackID, When: time.Now()})
	return nil
}

// ClearLibrary resets the whole catalog.
func (s *Store) ClearLibrary() {
	s.Dispatch(domain.ClearLibraryAction{})
}

// Snapshot returns the serializable projection of the catalog. Live
// capabilities are not part of any state here and the scan session is
// intentionally excluded.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := s.state
	snap := domain.Snapshot{
		Tracks:       make([]domain.Track, 0, len(state.Tracks)),
		Albums:       make([]domain.Album, 0, len(state.Albums)),
		Artists:      make([]domain.Artist, 0, len(state.Artists)),
		Playlists:    clonePlaylists(state.Playlists),
		Folders:      cloneFolders(state.Folders),
		LastScanDate: state.Session.LastScanDate,
	}
	for _, t := range state.Tracks {
		snap.Tracks = append(snap.Tracks, t)
	}
	for _, a := range state.Albums {
		snap.Albums = append(snap.Albums, a)
	}
	for _, a := range state.Artists {
		snap.Artists = append(snap.Artists, a)
	}
	return snap
}

// RestoreSnapshot replaces catalog state with a persisted snapshot.
func (s *Store) RestoreSnapshot(snapshot domain.Snapshot) {
	s.Dispatch(domain.RestoreSnapshotAction{Snapshot: snapshot})
}
