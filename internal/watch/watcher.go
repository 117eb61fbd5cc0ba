// Package watch publishes filesystem change notifications for registered
// library folders, so the catalog can be flagged stale between scans.
package watch

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

// Watcher mirrors create, write, rename and remove events inside watched
// folders onto the event bus as FolderChangedEvents. It does not trigger
// scans itself; consumers decide how to react.
type Watcher struct {
	logger *slog.Logger
	bus    ports.EventBus
	fsw    *fsnotify.Watcher

	mu    sync.Mutex
	roots map[string]struct{}
	done  chan struct{}
	wg    sync.WaitGroup
}

// New creates a Watcher and starts its event loop.
func New(logger *slog.Logger, bus ports.EventBus) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		logger: logger,
		bus:    bus,
		fsw:    fsw,
		roots:  make(map[string]struct{}),
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Add registers a folder root for change notifications. Watching is
// non-recursive; only direct children of the root are observed.
func (w *Watcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.roots[path]; ok {
		return nil
	}
	if err := w.fsw.Add(path); err != nil {
		return err
	}
	w.roots[path] = struct{}{}
	w.logger.Debug("watching folder", slog.String("path", path))
	return nil
}

// Remove stops watching a folder root.
func (w *Watcher) Remove(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.roots[path]; !ok {
		return nil
	}
	delete(w.roots, path)
	return w.fsw.Remove(path)
}

// Close shuts down the event loop and releases the OS watch handles.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if op := opName(ev.Op); op != "" {
				w.publish(ev.Name, op)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) publish(filePath, op string) {
	root := w.rootFor(filePath)
	if root == "" {
		return
	}
	w.logger.Debug("folder changed",
		slog.String("folder", root),
		slog.String("file", filePath),
		slog.String("op", op))
	w.bus.Publish(domain.NewFolderChangedEvent(root, filePath, op))
}

// rootFor resolves which registered root a changed path belongs to.
func (w *Watcher) rootFor(filePath string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	for root := range w.roots {
		if filePath == root {
			return root
		}
		rel, err := filepath.Rel(root, filePath)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return root
		}
	}
	return ""
}

func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Remove):
		return "remove"
	default:
		return ""
	}
}
