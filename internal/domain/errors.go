// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services can return.
var (
	// ErrScanInProgress is returned when a scan session is already running.
	ErrScanInProgress = errors.New("scan already in progress")

	// ErrFolderExists is returned when adding a folder whose path is already registered.
	ErrFolderExists = errors.New("folder already exists")

	// ErrFolderNotFound is returned when a folder path is not in the catalog.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrTrackNotFound is returned when a requested track cannot be found.
	ErrTrackNotFound = errors.New("track not found")

	// ErrPlaylistNotFound is returned when a requested playlist doesn't exist.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrPermissionDenied is returned when the host or user rejects capability
	// verification for a folder. The folder is skipped, not the whole scan.
	ErrPermissionDenied = errors.New("folder access permission denied")

	// ErrCapabilityLost is returned when a persisted capability token no longer
	// restores after a restart. Treated like a denial but logged distinctly.
	ErrCapabilityLost = errors.New("folder access capability lost")

	// ErrUserGestureRequired is returned when a capability operation is attempted
	// outside a user-initiated interaction. An expected, non-fatal outcome.
	ErrUserGestureRequired = errors.New("operation requires a user-initiated action")

	// ErrNoFoldersProcessable is returned when every registered folder failed
	// verification or could not be read.
	ErrNoFoldersProcessable = errors.New("no folders could be accessed; re-add your music folders")

	// ErrNoAudioFilesFound is returned when a scan completes without discovering
	// a single supported audio file.
	ErrNoAudioFilesFound = errors.New("no audio files found in the registered folders")

	// ErrUnsupportedFormat is returned when a file's extension is not on the
	// supported audio allow-list.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrSnapshotNotFound is returned when no catalog snapshot has been persisted yet.
	ErrSnapshotNotFound = errors.New("no library snapshot persisted")

	// ErrCapabilityNotFound is returned when the registry has no record for a folder path.
	ErrCapabilityNotFound = errors.New("no capability persisted for folder")
)

// StorageError represents an error from a durable store (snapshot store or
// capability registry). In-memory state remains authoritative for the
// session when one of these occurs; it just will not survive a restart.
type StorageError struct {
	Store   string // Store name (e.g., "snapshot", "capability")
	Op      string // Operation that failed (e.g., "save", "load", "delete")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s.%s failed: %s", e.Store, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError.
func NewStorageError(store, op, message string, err error) *StorageError {
	return &StorageError{
		Store:   store,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "ScanService", "Importer")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
