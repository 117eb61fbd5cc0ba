package library

import (
	"strings"

	"github.com/cadenzaapp/cadenza/internal/domain"
)

// Options control the behaviors the catalog design leaves open.
type Options struct {
	// CascadeRemoveFolderTracks removes tracks (and recomputes aggregates)
	// when their source folder is removed. Off by default: removing a
	// folder then only detaches it, leaving its tracks in the catalog.
	CascadeRemoveFolderTracks bool
}

// reduce applies one action to the state and returns the next state.
// It is a pure function: the input state is never mutated, and unknown
// action types return it unchanged rather than erroring.
func reduce(s State, action domain.Action, opts Options) State {
	switch a := action.(type) {
	case domain.AddFolderAction:
		return reduceAddFolder(s, a)
	case domain.RemoveFolderAction:
		return reduceRemoveFolder(s, a, opts)
	case domain.SetFolderAccessAction:
		return reduceSetFolderAccess(s, a)
	case domain.MarkFoldersUnverifiedAction:
		return reduceMarkFoldersUnverified(s)
	case domain.ImportTracksAction:
		return reduceImportTracks(s, a)
	case domain.ScanStartedAction:
		return reduceScanStarted(s)
	case domain.ScanProgressAction:
		return reduceScanProgress(s, a)
	case domain.ScanCompletedAction:
		return reduceScanCompleted(s, a)
	case domain.ScanFailedAction:
		return reduceScanFailed(s, a)
	case domain.CreatePlaylistAction:
		return reduceCreatePlaylist(s, a)
	case domain.RenamePlaylistAction:
		return reduceRenamePlaylist(s, a)
	case domain.DeletePlaylistAction:
		return reduceDeletePlaylist(s, a)
	case domain.AddToPlaylistAction:
		return reduceAddToPlaylist(s, a)
	case domain.RemoveFromPlaylistAction:
		return reduceRemoveFromPlaylist(s, a)
	case domain.MarkPlayedAction:
		return reduceMarkPlayed(s, a)
	case domain.ClearLibraryAction:
		return reduceClearLibrary(s)
	case domain.RestoreSnapshotAction:
		return reduceRestoreSnapshot(s, a)
	default:
		// Unknown actions are no-ops, never errors.
		return s
	}
}

func reduceAddFolder(s State, a domain.AddFolderAction) State {
	// Folder paths are unique; the existing entry wins.
	if _, ok := s.FolderByPath(a.Folder.Path); ok {
		return s
	}
	s.Folders = append(cloneFolders(s.Folders), a.Folder)
	return s
}

func reduceRemoveFolder(s State, a domain.RemoveFolderAction, opts Options) State {
	folders := make([]domain.Folder, 0, len(s.Folders))
	removed := false
	for _, f := range s.Folders {
		if f.Path == a.Path {
			removed = true
			continue
		}
		folders = append(folders, f)
	}
	if !removed {
		return s
	}
	s.Folders = folders

	if opts.CascadeRemoveFolderTracks {
		s = dropTracksUnder(s, a.Path)
	}
	return s
}

// dropTracksUnder removes tracks sourced from the given folder and rebuilds
// album/artist aggregates from the surviving track set. Playlist references
// are weak and intentionally left dangling.
func dropTracksUnder(s State, folderPath string) State {
	tracks := make(map[string]domain.Track, len(s.Tracks))
	for id, t := range s.Tracks {
		if strings.HasPrefix(t.SourcePath, folderPath) {
			continue
		}
		tracks[id] = t
	}
	s.Tracks = tracks
	s.Albums = make(map[string]domain.Album)
	s.Artists = make(map[string]domain.Artist)
	for _, t := range tracks {
		s = mergeAggregates(s, t)
	}
	return s
}

func reduceSetFolderAccess(s State, a domain.SetFolderAccessAction) State {
	folders := cloneFolders(s.Folders)
	for i, f := range folders {
		if f.Path != a.Path {
			continue
		}
		f.HasValidCapability = a.HasValidCapability
		f.NeedsPermissionVerification = a.NeedsVerification
		folders[i] = f
		s.Folders = folders
		return s
	}
	return s
}

func reduceMarkFoldersUnverified(s State) State {
	folders := cloneFolders(s.Folders)
	for i, f := range folders {
		// Legacy folders never held a capability; nothing to re-verify.
		if f.IsLegacy() {
			continue
		}
		f.NeedsPermissionVerification = true
		folders[i] = f
	}
	s.Folders = folders
	return s
}

func reduceImportTracks(s State, a domain.ImportTracksAction) State {
	if len(a.Tracks) == 0 {
		return s
	}
	tracks := cloneTracks(s.Tracks)
	s.Albums = cloneAlbums(s.Albums)
	s.Artists = cloneArtists(s.Artists)

	for _, t := range a.Tracks {
		if t.ID == "" {
			continue
		}
		if _, exists := tracks[t.ID]; exists {
			// Same id means same entity: a no-op merge, never a duplicate.
			continue
		}
		tracks[t.ID] = t
		s = mergeAggregates(s, t)
	}
	s.Tracks = tracks
	return s
}

// mergeAggregates folds one track into the album and artist aggregates,
// creating entries on first sight and merging membership otherwise.
func mergeAggregates(s State, t domain.Track) State {
	if t.Album != "" {
		key := domain.NormalizeKey(t.Album)
		if key != "" {
			album, ok := s.Albums[key]
			if !ok {
				album = domain.Album{Key: key, Title: t.Album}
			}
			if album.Artist == "" {
				album.Artist = t.Artist
			}
			if album.Year == 0 {
				album.Year = t.Year
			}
			album.TrackIDs = appendMissing(album.TrackIDs, t.ID)
			s.Albums[key] = album
		}
	}

	if t.Artist != "" {
		key := domain.NormalizeKey(t.Artist)
		if key != "" {
			artist, ok := s.Artists[key]
			if !ok {
				artist = domain.Artist{Key: key, Name: t.Artist}
			}
			if t.Album != "" {
				artist.Albums = appendMissing(artist.Albums, t.Album)
			}
			s.Artists[key] = artist
		}
	}
	return s
}

func reduceScanStarted(s State) State {
	// Structural single-flight: a running session absorbs the action.
	if s.Session.IsScanning() {
		return s
	}
	s.Session = domain.ScanSession{
		Phase:        domain.ScanRunning,
		LastScanDate: s.Session.LastScanDate,
	}
	return s
}

func reduceScanProgress(s State, a domain.ScanProgressAction) State {
	if !s.Session.IsScanning() {
		return s
	}
	session := s.Session

	// Total only ever grows within a session.
	if a.Total > session.Total {
		session.Total = a.Total
	}

	// Progress is monotonic and, once a total is known, clamped to it.
	progress := a.Progress
	if progress < session.Progress {
		progress = session.Progress
	}
	if session.Total > 0 && progress > session.Total {
		progress = session.Total
	}
	session.Progress = progress

	if a.CurrentFile != "" {
		session.CurrentFile = a.CurrentFile
	}
	s.Session = session
	return s
}

func reduceScanCompleted(s State, a domain.ScanCompletedAction) State {
	if !s.Session.IsScanning() {
		return s
	}
	s.Session = domain.ScanSession{
		Phase:        domain.ScanIdle,
		Progress:     s.Session.Progress,
		Total:        s.Session.Total,
		LastScanDate: a.When,
	}
	return s
}

func reduceScanFailed(s State, a domain.ScanFailedAction) State {
	if !s.Session.IsScanning() {
		return s
	}
	s.Session = domain.ScanSession{
		Phase:        domain.ScanFailed,
		Progress:     s.Session.Progress,
		Total:        s.Session.Total,
		LastScanDate: s.Session.LastScanDate,
		Message:      a.Message,
	}
	return s
}

func reduceCreatePlaylist(s State, a domain.CreatePlaylistAction) State {
	if a.Playlist.ID == "" {
		return s
	}
	if _, ok := s.PlaylistByID(a.Playlist.ID); ok {
		return s
	}
	s.Playlists = append(clonePlaylists(s.Playlists), a.Playlist)
	return s
}

func reduceRenamePlaylist(s State, a domain.RenamePlaylistAction) State {
	playlists := clonePlaylists(s.Playlists)
	for i, p := range playlists {
		if p.ID != a.ID {
			continue
		}
		p.Name = a.Name
		playlists[i] = p
		s.Playlists = playlists
		return s
	}
	return s
}

func reduceDeletePlaylist(s State, a domain.DeletePlaylistAction) State {
	playlists := make([]domain.Playlist, 0, len(s.Playlists))
	removed := false
	for _, p := range s.Playlists {
		if p.ID == a.ID {
			removed = true
			continue
		}
		playlists = append(playlists, p)
	}
	if !removed {
		return s
	}
	s.Playlists = playlists
	return s
}

func reduceAddToPlaylist(s State, a domain.AddToPlaylistAction) State {
	playlists := clonePlaylists(s.Playlists)
	for i, p := range playlists {
		if p.ID != a.PlaylistID {
			continue
		}
		ids := make([]string, len(p.TrackIDs), len(p.TrackIDs)+1)
		copy(ids, p.TrackIDs)
		p.TrackIDs = append(ids, a.TrackID)
		playlists[i] = p
		s.Playlists = playlists
		return s
	}
	return s
}

func reduceRemoveFromPlaylist(s State, a domain.RemoveFromPlaylistAction) State {
	playlists := clonePlaylists(s.Playlists)
	for i, p := range playlists {
		if p.ID != a.PlaylistID {
			continue
		}
		ids := make([]string, 0, len(p.TrackIDs))
		for _, id := range p.TrackIDs {
			if id == a.TrackID {
				continue
			}
			ids = append(ids, id)
		}
		p.TrackIDs = ids
		playlists[i] = p
		s.Playlists = playlists
		return s
	}
	return s
}

func reduceMarkPlayed(s State, a domain.MarkPlayedAction) State {
	t, ok := s.Tracks[a.TrackID]
	if !ok {
		return s
	}
	tracks := cloneTracks(s.Tracks)
	t.PlayCount++
	t.LastPlayed = a.When
	tracks[a.TrackID] = t
	s.Tracks = tracks
	return s
}

func reduceClearLibrary(s State) State {
	next := NewState()
	next.Session = domain.ScanSession{LastScanDate: s.Session.LastScanDate}
	return next
}

func reduceRestoreSnapshot(s State, a domain.RestoreSnapshotAction) State {
	next := NewState()
	for _, t := range a.Snapshot.Tracks {
		if t.ID == "" {
			continue
		}
		next.Tracks[t.ID] = t
	}
	for _, al := range a.Snapshot.Albums {
		if al.Key == "" {
			continue
		}
		next.Albums[al.Key] = al
	}
	for _, ar := range a.Snapshot.Artists {
		if ar.Key == "" {
			continue
		}
		next.Artists[ar.Key] = ar
	}
	next.Playlists = clonePlaylists(a.Snapshot.Playlists)
	next.Folders = cloneFolders(a.Snapshot.Folders)
	next.Session = domain.ScanSession{LastScanDate: a.Snapshot.LastScanDate}
	return next
}

// appendMissing appends item to set only when not already present.
func appendMissing(set []string, item string) []string {
	for _, s := range set {
		if s == item {
			return set
		}
	}
	out := make([]string, len(set), len(set)+1)
	copy(out, set)
	return append(out, item)
}
