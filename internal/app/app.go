// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cadenzaapp/cadenza/internal/adapter/capability"
	"github.com/cadenzaapp/cadenza/internal/adapter/eventbus"
	"github.com/cadenzaapp/cadenza/internal/adapter/metadata"
	"github.com/cadenzaapp/cadenza/internal/adapter/repository/memory"
	"github.com/cadenzaapp/cadenza/internal/adapter/repository/sqlite"
	"github.com/cadenzaapp/cadenza/internal/adapter/search"
	"github.com/cadenzaapp/cadenza/internal/config"
	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/library"
	"github.com/cadenzaapp/cadenza/internal/logger"
	"github.com/cadenzaapp/cadenza/internal/ports"
	"github.com/cadenzaapp/cadenza/internal/scanner"
	"github.com/cadenzaapp/cadenza/internal/service"
	"github.com/cadenzaapp/cadenza/internal/watch"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
type Application struct {
	logger *slog.Logger
	cfg    config.Config
	db     *sql.DB

	// Infrastructure
	eventBus  ports.EventBus
	snapshots ports.SnapshotStore
	capStore  ports.CapabilityStore
	capHost   ports.CapabilityHost
	index     ports.SearchIndex
	watcher   *watch.Watcher

	// State
	store *library.Store

	// Services
	registry      *service.CapabilityRegistry
	verifier      *service.PermissionVerifier
	folderService *service.FolderService
	importer      *service.Importer
	scanService   *service.ScanService
}

// Options tunes how the application is assembled.
type Options struct {
	// UseMemoryStores swaps SQLite and bleve for in-memory fakes. Testing
	// only; nothing survives the process.
	UseMemoryStores bool

	// SnapshotStore and CapabilityStore override the configured stores when
	// non-nil, letting tests carry durable state across app instances.
	SnapshotStore   ports.SnapshotStore
	CapabilityStore ports.CapabilityStore

	// CapabilityHost overrides the OS-backed host when non-nil.
	CapabilityHost ports.CapabilityHost

	// CascadeRemoveFolderTracks also drops a folder's imported tracks when
	// the folder is removed from the library.
	CascadeRemoveFolderTracks bool
}

// NewApplication creates a new application with all dependencies wired.
func NewApplication(cfg config.Config, opts Options) (*Application, error) {
	app := &Application{cfg: cfg}

	app.logger = logger.NewLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: "text",
	})
	app.logger.Info("initializing application",
		slog.String("data_dir", cfg.DataDir))

	syncBus := eventbus.NewSyncEventBus()
	syncBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))
	app.eventBus = syncBus

	if opts.CapabilityHost != nil {
		app.capHost = opts.CapabilityHost
	} else {
		app.capHost = capability.NewOSHost(app.logger.With(slog.String("component", "capability")))
	}

	switch {
	case opts.SnapshotStore != nil && opts.CapabilityStore != nil:
		app.snapshots = opts.SnapshotStore
		app.capStore = opts.CapabilityStore
	case opts.UseMemoryStores:
		app.snapshots = memory.NewSnapshotStore()
		app.capStore = memory.NewCapabilityStore()
	default:
		db, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		app.db = db
		app.snapshots, err = sqlite.NewSnapshotStore(db)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare snapshot store: %w", err)
		}
		app.capStore, err = sqlite.NewCapabilityStore(db)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare capability store: %w", err)
		}
		index, err := search.Open(cfg.IndexPath, app.logger.With(slog.String("component", "search")))
		if err != nil {
			// Search is an enhancement, not a requirement: the in-memory
			// substring query still works without the index.
			app.logger.Warn("search index unavailable", slog.Any("error", err))
		} else {
			app.index = index
		}
	}

	app.store = library.New(
		app.logger.With(slog.String("component", "store")),
		app.eventBus,
		library.Options{CascadeRemoveFolderTracks: opts.CascadeRemoveFolderTracks},
	)

	app.registry = service.NewCapabilityRegistry(
		app.logger.With(slog.String("service", "capability")),
		app.capStore,
		app.capHost,
	)
	app.verifier = service.NewPermissionVerifier(
		app.logger.With(slog.String("service", "verifier")),
		app.registry,
		app.capHost,
		app.store,
		app.eventBus,
	)
	app.folderService = service.NewFolderService(
		app.logger.With(slog.String("service", "folder")),
		app.store,
		app.registry,
		app.capHost,
	)
	app.importer = service.NewImporter(
		app.logger.With(slog.String("service", "import")),
		metadata.NewTagExtractor(app.logger.With(slog.String("component", "metadata"))),
		app.store,
		app.index,
		app.eventBus,
	)
	app.scanService = service.NewScanService(
		app.logger.With(slog.String("service", "scan")),
		app.store,
		app.registry,
		app.verifier,
		scanner.New(app.logger.With(slog.String("component", "scanner"))),
		app.importer,
		app.snapshots,
		app.eventBus,
	)

	if err := app.restore(); err != nil {
		// Non-fatal: an empty library is the correct first-run state.
		app.logger.Warn("failed to restore saved library", slog.Any("error", err))
	}

	if cfg.WatchFolders {
		if err := app.startWatcher(); err != nil {
			app.logger.Warn("folder watching unavailable", slog.Any("error", err))
		}
	}

	return app, nil
}

// restore reloads the persisted library snapshot and relinks folder
// capabilities. Every non-legacy folder comes back flagged for
// verification regardless of whether its token restored: restored
// capabilities are provisional until the next user-gesture check.
func (a *Application) restore() error {
	snapshot, err := a.snapshots.Load()
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			a.logger.Info("no saved library, starting fresh")
			return nil
		}
		return err
	}
	a.store.RestoreSnapshot(*snapshot)
	a.store.Dispatch(domain.MarkFoldersUnverifiedAction{})

	restored, err := a.registry.RestoreAll()
	if err != nil {
		a.logger.Warn("some capabilities did not restore", slog.Any("error", err))
	}
	a.logger.Info("library restored",
		slog.Int("tracks", len(snapshot.Tracks)),
		slog.Int("folders", len(snapshot.Folders)),
		slog.Int("capabilities", restored))
	return nil
}

func (a *Application) startWatcher() error {
	w, err := watch.New(a.logger.With(slog.String("component", "watch")), a.eventBus)
	if err != nil {
		return err
	}
	for _, folder := range a.store.Folders() {
		if folder.IsLegacy() {
			continue
		}
		if err := w.Add(folder.Path); err != nil {
			a.logger.Warn("cannot watch folder",
				slog.String("path", folder.Path),
				slog.Any("error", err))
		}
	}
	a.watcher = w
	return nil
}

// Store exposes the library store for query access.
func (a *Application) Store() *library.Store {
	return a.store
}

// Folders exposes folder management.
func (a *Application) Folders() *service.FolderService {
	return a.folderService
}

// Scan runs a library scan session.
func (a *Application) Scan(ctx context.Context, userInitiated bool) (bool, error) {
	return a.scanService.ScanLibrary(ctx, userInitiated)
}

// Verify re-validates access to a single folder.
func (a *Application) Verify(ctx context.Context, path string, userInitiated bool) error {
	folder, ok := a.store.State().FolderByPath(path)
	if !ok {
		return domain.ErrFolderNotFound
	}
	return a.verifier.Verify(ctx, folder, userInitiated)
}

// Search queries the full-text index, falling back to the in-memory
// substring match when no index is open.
func (a *Application) Search(query string, limit int) []domain.Track {
	if a.index != nil {
		ids, err := a.index.Search(query, limit)
		if err == nil {
			tracks := make([]domain.Track, 0, len(ids))
			for _, id := range ids {
				if t, ok := a.store.TrackByID(id); ok {
					tracks = append(tracks, t)
				}
			}
			return tracks
		}
		a.logger.Warn("index query failed, using substring match", slog.Any("error", err))
	}
	results := a.store.SearchLibrary(query)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// ClearLibrary empties the whole catalog, folders included, and drops
// the search index. Only the last scan date survives.
func (a *Application) ClearLibrary() {
	a.store.ClearLibrary()
	if a.index != nil {
		if err := a.index.Clear(); err != nil {
			a.logger.Warn("failed to clear search index", slog.Any("error", err))
		}
	}
}

// SaveSnapshot persists the current catalog.
func (a *Application) SaveSnapshot() error {
	snap := a.store.Snapshot()
	return a.snapshots.Save(&snap)
}

// Shutdown gracefully shuts down the application.
// This should be called via deferring in main.go.
func (a *Application) Shutdown() {
	a.logger.Info("shutting down application")

	if err := a.SaveSnapshot(); err != nil {
		a.logger.Warn("failed to save library", slog.Any("error", err))
	}

	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.logger.Warn("failed to close watcher", slog.Any("error", err))
		}
	}
	if a.index != nil {
		if err := a.index.Close(); err != nil {
			a.logger.Warn("failed to close search index", slog.Any("error", err))
		}
	}
	if err := a.eventBus.Close(); err != nil {
		a.logger.Warn("failed to close event bus", slog.Any("error", err))
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", slog.Any("error", err))
		}
	}

	a.logger.Info("application shutdown complete")
}
