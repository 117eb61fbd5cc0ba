package service

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/library"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

// FolderService handles attaching and detaching music folders, pairing the
// catalog entry with its capability lifecycle.
type FolderService struct {
	logger   *slog.Logger
	store    *library.Store
	registry *CapabilityRegistry
	host     ports.CapabilityHost
}

// NewFolderService creates a folder service.
func NewFolderService(
	logger *slog.Logger,
	store *library.Store,
	registry *CapabilityRegistry,
	host ports.CapabilityHost,
) *FolderService {
	return &FolderService{
		logger:   logger,
		store:    store,
		registry: registry,
		host:     host,
	}
}

// AddFolder requests a capability for path and registers the folder.
// Must be called from a user-initiated interaction; the host refuses
// programmatic grants. Adding an already-registered path returns
// domain.ErrFolderExists with no state change.
func (s *FolderService) AddFolder(ctx context.Context, path, name string, userInitiated bool) (domain.Folder, error) {
	if name == "" {
		name = filepath.Base(path)
	}

	c, err := s.host.Grant(ctx, path, userInitiated)
	if err != nil {
		s.logger.Warn("folder access grant failed",
			slog.String("path", path),
			slog.Any("error", err))
		return domain.Folder{}, err
	}

	folder := domain.Folder{
		Path:               path,
		Name:               name,
		HasValidCapability: true,
	}
	if !s.store.AddFolder(folder) {
		return domain.Folder{}, domain.ErrFolderExists
	}

	// Persist the capability for restart survival. A write failure leaves
	// the folder usable this session; it will need re-verification later.
	if err := s.registry.Persist(path, c); err != nil {
		s.logger.Error("capability not persisted, folder will need re-verification after restart",
			slog.String("path", path))
	}

	s.logger.Info("folder added", slog.String("path", path), slog.String("name", name))
	return folder, nil
}

// AddLegacyFolder registers a folder from a one-time file enumeration, for
// hosts where no ongoing capability is available. The listing is embedded
// in the folder descriptor and scanned in place of live traversal.
func (s *FolderService) AddLegacyFolder(path, name string, files []domain.FolderFile) (domain.Folder, error) {
	if name == "" {
		name = filepath.Base(path)
	}
	folder := domain.Folder{
		Path:  path,
		Name:  name,
		Files: files,
	}
	if !s.store.AddFolder(folder) {
		return domain.Folder{}, domain.ErrFolderExists
	}
	s.logger.Info("legacy folder added",
		slog.String("path", path),
		slog.Int("files", len(files)))
	return folder, nil
}

// RemoveFolder detaches a folder and forgets its capability. Whether the
// folder's tracks leave the catalog too is the store's cascade option.
func (s *FolderService) RemoveFolder(path string) error {
	if !s.store.RemoveFolder(path) {
		return domain.ErrFolderNotFound
	}
	if err := s.registry.Forget(path); err != nil {
		s.logger.Error("capability cleanup failed",
			slog.String("path", path),
			slog.Any("error", err))
	}
	s.logger.Info("folder removed", slog.String("path", path))
	return nil
}
