// Package service provides the business logic of the library
// synchronization subsystem: capability management, permission
// verification, folder registration, importing and scan orchestration.
package service

import (
	"log/slog"
	"sync"

	"github.com/cadenzaapp/cadenza/internal/ports"
)

// CapabilityRegistry owns folder access capabilities across restarts. It
// pairs a durable token store (independent of the catalog snapshot) with
// an in-memory cache of live capability objects, which never survive
// serialization themselves.
//
// Capabilities are opaque here: the registry stores and retrieves tokens
// without inspecting or validating them. Trust is the PermissionVerifier's
// job.
type CapabilityRegistry struct {
	logger *slog.Logger
	store  ports.CapabilityStore
	host   ports.CapabilityHost

	mu   sync.RWMutex
	live map[string]ports.Capability
}

// NewCapabilityRegistry creates a registry over the given durable store.
func NewCapabilityRegistry(logger *slog.Logger, store ports.CapabilityStore, host ports.CapabilityHost) *CapabilityRegistry {
	return &CapabilityRegistry{
		logger: logger,
		store:  store,
		host:   host,
		live:   make(map[string]ports.Capability),
	}
}

// Persist stores a capability's token durably and caches the live object.
// Idempotent: persisting the same path again overwrites.
func (r *CapabilityRegistry) Persist(path string, c ports.Capability) error {
	if err := r.store.Put(ports.CapabilityRecord{Path: path, Token: c.Token()}); err != nil {
		// In-memory capability stays usable for this session; it just
		// will not survive a restart.
		r.logger.Error("capability persistence failed",
			slog.String("path", path),
			slog.Any("error", err))
		r.setLive(path, c)
		return err
	}
	r.setLive(path, c)
	return nil
}

// Live returns the cached live capability for a path, or nil.
func (r *CapabilityRegistry) Live(path string) ports.Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.live[path]
}

// RestoreAll rebuilds live capabilities from every persisted token. Called
// once at startup; restored capabilities are unverified until the
// PermissionVerifier confirms them. Tokens that no longer restore are
// dropped and logged as lost, never fatal.
//
// Returns the number of capabilities restored.
func (r *CapabilityRegistry) RestoreAll() (int, error) {
	records, err := r.store.All()
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, rec := range records {
		c, err := r.host.Restore(rec.Path, rec.Token)
		if err != nil {
			// Capability lost: logged distinctly from a denial for diagnostics.
			r.logger.Warn("persisted capability no longer restores",
				slog.String("path", rec.Path),
				slog.Any("error", err))
			continue
		}
		r.setLive(rec.Path, c)
		restored++
	}
	return restored, nil
}

// Forget drops a path's capability from both tiers.
func (r *CapabilityRegistry) Forget(path string) error {
	r.mu.Lock()
	delete(r.live, path)
	r.mu.Unlock()
	return r.store.Delete(path)
}

func (r *CapabilityRegistry) setLive(path string, c ports.Capability) {
	r.mu.Lock()
	r.live[path] = c
	r.mu.Unlock()
}
