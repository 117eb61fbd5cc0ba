package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/library"
	"github.com/cadenzaapp/cadenza/internal/ports"
	"github.com/cadenzaapp/cadenza/internal/scanner"
)

// ScanService orchestrates one scan session across all registered folders.
// Each folder is verified, traversed and fed to the import pipeline, with
// progress dispatched to the library store throughout and the snapshot
// persisted at the end.
//
// At most one scan session exists system-wide; the store's session state
// machine rejects concurrent attempts structurally. There is no mid-flight
// cancellation: once started, a session runs to completion or failure.
type ScanService struct {
	logger    *slog.Logger
	store     *library.Store
	registry  *CapabilityRegistry
	verifier  *PermissionVerifier
	scanner   *scanner.Scanner
	importer  *Importer
	snapshots ports.SnapshotStore
	bus       ports.EventBus
	now       func() time.Time
}

// NewScanService creates a scan service.
func NewScanService(
	logger *slog.Logger,
	store *library.Store,
	registry *CapabilityRegistry,
	verifier *PermissionVerifier,
	sc *scanner.Scanner,
	importer *Importer,
	snapshots ports.SnapshotStore,
	bus ports.EventBus,
) *ScanService {
	return &ScanService{
		logger:    logger,
		store:     store,
		registry:  registry,
		verifier:  verifier,
		scanner:   sc,
		importer:  importer,
		snapshots: snapshots,
		bus:       bus,
		now:       time.Now,
	}
}

// ScanLibrary runs one complete scan session. Returns false (with no state
// change) when a session is already in flight; otherwise true, with the
// session outcome as the error (nil on success).
//
// Folders are processed in catalog order. Per-folder failures (denied
// permission, lost capability, unreadable root) skip that folder and
// continue; the session only fails when no folder was processable or no
// audio file was found. userInitiated reports whether the call originates
// from a user gesture, which capability verification requires.
func (s *ScanService) ScanLibrary(ctx context.Context, userInitiated bool) (bool, error) {
	if !s.store.BeginScan() {
		s.logger.Debug("scan rejected, session already running")
		return false, nil
	}

	folders := s.store.Folders()
	s.bus.Publish(domain.NewScanStartedEvent(len(folders)))
	s.logger.Info("scan session started", slog.Int("folders", len(folders)))

	var (
		pending   []PendingFile
		progress  int
		total     int
		processed int
	)

	for _, folder := range folders {
		if folder.NeedsPermissionVerification {
			if err := s.verifier.Verify(ctx, folder, userInitiated); err != nil {
				// Denial, loss, or a missing gesture: skip this folder, the
				// scan continues with the rest.
				continue
			}
			refreshed, ok := s.store.State().FolderByPath(folder.Path)
			if !ok {
				continue
			}
			folder = refreshed
		}

		if folder.IsLegacy() {
			found := s.collectLegacy(folder, &pending, &progress, &total)
			s.logger.Info("legacy folder collected",
				slog.String("path", folder.Path),
				slog.Int("files", found))
			processed++
			continue
		}

		if !folder.HasValidCapability {
			s.logger.Warn("folder has no valid capability, skipping",
				slog.String("path", folder.Path))
			continue
		}
		if s.scanFolder(folder, &pending, &progress, &total) {
			processed++
		}
	}

	if processed == 0 {
		return true, s.fail(domain.ErrNoFoldersProcessable)
	}
	if len(pending) == 0 {
		return true, s.fail(domain.ErrNoAudioFilesFound)
	}

	tracks, err := s.importer.Import(ctx, pending, func(path string) {
		s.store.Dispatch(domain.ScanProgressAction{
			Progress:    progress,
			Total:       total,
			CurrentFile: path,
		})
	})
	if err != nil {
		return true, s.fail(err)
	}

	completedAt := s.now()
	s.store.Dispatch(domain.ScanCompletedAction{When: completedAt})
	s.bus.Publish(domain.NewScanCompletedEvent(len(tracks), completedAt))
	s.logger.Info("scan session completed",
		slog.Int("files", len(pending)),
		slog.Int("tracks", len(tracks)))

	s.saveSnapshot()
	return true, nil
}

// collectLegacy filters a legacy folder's embedded listing through the
// audio allow-list. The folder's size is known upfront, so the session
// total is revised before progress advances.
func (s *ScanService) collectLegacy(folder domain.Folder, pending *[]PendingFile, progress, total *int) int {
	var audio []domain.FolderFile
	for _, f := range folder.Files {
		if scanner.IsAudioFile(f.Name) {
			audio = append(audio, f)
		}
	}
	*total += len(audio)

	for _, f := range audio {
		*progress++
		*pending = append(*pending, PendingFile{
			FolderPath: folder.Path,
			Info:       ports.FileInfo{Path: f.Path, Name: f.Name, Size: f.Size},
			// Bytes are unreachable for legacy listings; metadata degrades
			// to file-name fallback at extraction time.
		})
		s.reportProgress(*progress, *total, f.Path)
	}
	return len(audio)
}

// scanFolder traverses one capability-backed folder. Returns whether the
// folder counted as processed.
func (s *ScanService) scanFolder(folder domain.Folder, pending *[]PendingFile, progress, total *int) bool {
	c := s.registry.Live(folder.Path)
	if c == nil {
		s.logger.Warn("no live capability for folder, skipping",
			slog.String("path", folder.Path))
		return false
	}
	fsys, err := c.FS()
	if err != nil {
		s.logger.Warn("folder not readable, skipping",
			slog.String("path", folder.Path),
			slog.Any("error", err))
		return false
	}

	found, err := s.scanner.Scan(fsys,
		func(f scanner.FoundFile) {
			// The tree size is unknowable in advance: the total tracks the
			// running discovery count, so it only ever grows.
			*total++
			*progress++
			*pending = append(*pending, PendingFile{
				FolderPath: folder.Path,
				Info:       ports.FileInfo{Path: f.Path, Name: f.Name, Size: f.Size},
				Open:       openFromFS(fsys, f.Path),
			})
			s.reportProgress(*progress, *total, f.Path)
		},
		func(found int) {
			s.reportProgress(*progress, *total, "")
		},
	)
	if err != nil {
		s.logger.Warn("folder traversal failed, skipping",
			slog.String("path", folder.Path),
			slog.Any("error", err))
		return false
	}

	s.logger.Info("folder scanned",
		slog.String("path", folder.Path),
		slog.Int("files", found))
	return true
}

// reportProgress dispatches the session counters and mirrors them on the bus.
func (s *ScanService) reportProgress(progress, total int, currentFile string) {
	s.store.Dispatch(domain.ScanProgressAction{
		Progress:    progress,
		Total:       total,
		CurrentFile: currentFile,
	})
	s.bus.Publish(domain.NewScanProgressEvent(progress, total, currentFile))
}

// fail ends the session in the Failed state with a user-facing message.
func (s *ScanService) fail(err error) error {
	s.logger.Warn("scan session failed", slog.Any("error", err))
	s.store.Dispatch(domain.ScanFailedAction{Message: err.Error()})
	s.bus.Publish(domain.NewScanFailedEvent(err.Error()))
	return err
}

// saveSnapshot persists the catalog after a successful session. A write
// failure is logged, not fatal: in-memory state stays authoritative for
// this session, it just will not survive a restart.
func (s *ScanService) saveSnapshot() {
	snap := s.store.Snapshot()
	if err := s.snapshots.Save(&snap); err != nil {
		s.logger.Error("snapshot persistence failed", slog.Any("error", err))
		return
	}
	s.bus.Publish(domain.NewSnapshotSavedEvent(s.now()))
}
