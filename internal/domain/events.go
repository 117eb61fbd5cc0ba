// Package domain defines events for the event-driven architecture.
// Events let the UI and other collaborators observe library state changes
// without being coupled to the services that produce them.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Folder events
	EventFolderAdded   EventType = "folder.added"
	EventFolderRemoved EventType = "folder.removed"
	EventFolderChanged EventType = "folder.changed"

	// Capability events
	EventCapabilityVerified EventType = "capability.verified"

	// Scan session events
	EventScanStarted   EventType = "scan.started"
	EventScanProgress  EventType = "scan.progress"
	EventScanCompleted EventType = "scan.completed"
	EventScanFailed    EventType = "scan.failed"

	// Catalog events
	EventTracksImported EventType = "tracks.imported"
	EventSnapshotSaved  EventType = "snapshot.saved"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// FolderAddedEvent is published when a folder joins the catalog.
type FolderAddedEvent struct {
	baseEvent
	Folder Folder
}

// Type returns the event type.
func (e FolderAddedEvent) Type() EventType {
	return EventFolderAdded
}

// NewFolderAddedEvent creates a new FolderAddedEvent.
func NewFolderAddedEvent(folder Folder) FolderAddedEvent {
	return FolderAddedEvent{
		baseEvent: newBaseEvent(),
		Folder:    folder,
	}
}

// FolderRemovedEvent is published when a folder is removed from the catalog.
type FolderRemovedEvent struct {
	baseEvent
	Path string
}

// Type returns the event type.
func (e FolderRemovedEvent) Type() EventType {
	return EventFolderRemoved
}

// NewFolderRemovedEvent creates a new FolderRemovedEvent.
func NewFolderRemovedEvent(path string) FolderRemovedEvent {
	return FolderRemovedEvent{
		baseEvent: newBaseEvent(),
		Path:      path,
	}
}

// FolderChangedEvent is published by the folder watcher when the contents
// of a watched folder change on disk. Informational only; consumers decide
// whether to trigger a rescan.
type FolderChangedEvent struct {
	baseEvent
	FolderPath string
	FilePath   string
	Op         string
}

// Type returns the event type.
func (e FolderChangedEvent) Type() EventType {
	return EventFolderChanged
}

// NewFolderChangedEvent creates a new FolderChangedEvent.
func NewFolderChangedEvent(folderPath, filePath, op string) FolderChangedEvent {
	return FolderChangedEvent{
		baseEvent:  newBaseEvent(),
		FolderPath: folderPath,
		FilePath:   filePath,
		Op:         op,
	}
}

// CapabilityVerifiedEvent is published when permission verification for a
// folder completes, with either outcome.
type CapabilityVerifiedEvent struct {
	baseEvent
	Path    string
	Granted bool
}

// Type returns the event type.
func (e CapabilityVerifiedEvent) Type() EventType {
	return EventCapabilityVerified
}

// NewCapabilityVerifiedEvent creates a new CapabilityVerifiedEvent.
func NewCapabilityVerifiedEvent(path string, granted bool) CapabilityVerifiedEvent {
	return CapabilityVerifiedEvent{
		baseEvent: newBaseEvent(),
		Path:      path,
		Granted:   granted,
	}
}

// ScanStartedEvent is published when a scan session begins.
type ScanStartedEvent struct {
	baseEvent
	Folders int
}

// Type returns the event type.
func (e ScanStartedEvent) Type() EventType {
	return EventScanStarted
}

// NewScanStartedEvent creates a new ScanStartedEvent.
func NewScanStartedEvent(folders int) ScanStartedEvent {
	return ScanStartedEvent{
		baseEvent: newBaseEvent(),
		Folders:   folders,
	}
}

// ScanProgressEvent is published as files are discovered during a scan.
type ScanProgressEvent struct {
	baseEvent
	Progress    int
	Total       int
	CurrentFile string
}

// Type returns the event type.
func (e ScanProgressEvent) Type() EventType {
	return EventScanProgress
}

// NewScanProgressEvent creates a new ScanProgressEvent.
func NewScanProgressEvent(progress, total int, currentFile string) ScanProgressEvent {
	return ScanProgressEvent{
		baseEvent:   newBaseEvent(),
		Progress:    progress,
		Total:       total,
		CurrentFile: currentFile,
	}
}

// ScanCompletedEvent is published when a scan session finishes successfully.
type ScanCompletedEvent struct {
	baseEvent
	TracksImported int
	When           time.Time
}

// Type returns the event type.
func (e ScanCompletedEvent) Type() EventType {
	return EventScanCompleted
}

// NewScanCompletedEvent creates a new ScanCompletedEvent.
func NewScanCompletedEvent(tracksImported int, when time.Time) ScanCompletedEvent {
	return ScanCompletedEvent{
		baseEvent:      newBaseEvent(),
		TracksImported: tracksImported,
		When:           when,
	}
}

// ScanFailedEvent is published when a scan session ends in failure.
type ScanFailedEvent struct {
	baseEvent
	Reason string
}

// Type returns the event type.
func (e ScanFailedEvent) Type() EventType {
	return EventScanFailed
}

// NewScanFailedEvent creates a new ScanFailedEvent.
func NewScanFailedEvent(reason string) ScanFailedEvent {
	return ScanFailedEvent{
		baseEvent: newBaseEvent(),
		Reason:    reason,
	}
}

// TracksImportedEvent is published after an import batch is merged into
// the catalog.
type TracksImportedEvent struct {
	baseEvent

	// Count is the number of tracks the batch added to the catalog;
	// re-imports of already-known ids do not count.
	Count int
}

// Type returns the event type.
func (e TracksImportedEvent) Type() EventType {
	return EventTracksImported
}

// NewTracksImportedEvent creates a new TracksImportedEvent.
func NewTracksImportedEvent(count int) TracksImportedEvent {
	return TracksImportedEvent{
		baseEvent: newBaseEvent(),
		Count:     count,
	}
}

// SnapshotSavedEvent is published after the catalog snapshot is persisted.
type SnapshotSavedEvent struct {
	baseEvent
	When time.Time
}

// Type returns the event type.
func (e SnapshotSavedEvent) Type() EventType {
	return EventSnapshotSaved
}

// NewSnapshotSavedEvent creates a new SnapshotSavedEvent.
func NewSnapshotSavedEvent(when time.Time) SnapshotSavedEvent {
	return SnapshotSavedEvent{
		baseEvent: newBaseEvent(),
		When:      when,
	}
}
