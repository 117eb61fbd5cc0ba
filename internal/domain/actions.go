// Package domain defines the closed set of actions the library store reducer
// understands. Actions are plain serializable commands; the reducer applies
// them as pure state transitions and ignores anything it does not recognize.
package domain

import (
	"time"
)

// Action is the marker interface for library store commands.
// The set of implementations in this package is closed; the reducer treats
// any other value as a no-op.
type Action interface {
	isAction()
}

// AddFolderAction appends a folder to the catalog. Adding a folder whose
// path is already present is a no-op (the existing entry wins).
type AddFolderAction struct {
	Folder Folder
}

// RemoveFolderAction removes a folder by exact path match.
type RemoveFolderAction struct {
	Path string
}

// SetFolderAccessAction records the outcome of capability verification
// for one folder.
type SetFolderAccessAction struct {
	Path               string
	HasValidCapability bool
	NeedsVerification  bool
}

// MarkFoldersUnverifiedAction flags every capability-backed folder as
// requiring re-verification. Dispatched once at startup, because live
// capabilities do not survive a process restart.
type MarkFoldersUnverifiedAction struct{}

// ImportTracksAction merges a batch of tracks into the catalog,
// deduplicating by id and recomputing the touched album/artist aggregates.
type ImportTracksAction struct {
	Tracks []Track
}

// ScanStartedAction transitions the scan session to ScanRunning.
type ScanStartedAction struct{}

// ScanProgressAction updates scan session counters. Progress never
// decreases and Total never shrinks within one session.
type ScanProgressAction struct {
	Progress    int
	Total       int
	CurrentFile string
}

// ScanCompletedAction transitions the scan session back to ScanIdle and
// records the completion time.
type ScanCompletedAction struct {
	When time.Time
}

// ScanFailedAction transitions the scan session to ScanFailed with a
// user-facing message.
type ScanFailedAction struct {
	Message string
}

// CreatePlaylistAction appends a new playlist.
type CreatePlaylistAction struct {
	Playlist Playlist
}

// RenamePlaylistAction changes a playlist's name.
type RenamePlaylistAction struct {
	ID   string
	Name string
}

// DeletePlaylistAction removes a playlist by id.
type DeletePlaylistAction struct {
	ID string
}

// AddToPlaylistAction appends a track reference to the end of a playlist.
type AddToPlaylistAction struct {
	PlaylistID string
	TrackID    string
}

// RemoveFromPlaylistAction removes every occurrence of a track reference
// from a playlist.
type RemoveFromPlaylistAction struct {
	PlaylistID string
	TrackID    string
}

// MarkPlayedAction increments a track's play count and stamps LastPlayed.
type MarkPlayedAction struct {
	TrackID string
	When    time.Time
}

// ClearLibraryAction resets the whole catalog to its empty state.
type ClearLibraryAction struct{}

// RestoreSnapshotAction replaces the catalog with a persisted snapshot.
// Dispatched once at startup before reconciliation.
type RestoreSnapshotAction struct {
	Snapshot Snapshot
}

func (AddFolderAction) isAction()             {}
func (RemoveFolderAction) isAction()          {}
func (SetFolderAccessAction) isAction()       {}
func (MarkFoldersUnverifiedAction) isAction() {}
func (ImportTracksAction) isAction()          {}
func (ScanStartedAction) isAction()           {}
func (ScanProgressAction) isAction()          {}
func (ScanCompletedAction) isAction()         {}
func (ScanFailedAction) isAction()            {}
func (CreatePlaylistAction) isAction()        {}
func (RenamePlaylistAction) isAction()        {}
func (DeletePlaylistAction) isAction()        {}
func (AddToPlaylistAction) isAction()         {}
func (RemoveFromPlaylistAction) isAction()    {}
func (MarkPlayedAction) isAction()            {}
func (ClearLibraryAction) isAction()          {}
func (RestoreSnapshotAction) isAction()       {}
