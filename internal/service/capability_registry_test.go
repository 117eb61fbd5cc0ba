package service

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenzaapp/cadenza/internal/adapter/capability"
	"github.com/cadenzaapp/cadenza/internal/adapter/repository/memory"
	"github.com/cadenzaapp/cadenza/internal/logger"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

func newTestRegistry() (*CapabilityRegistry, *capability.MockHost, *memory.CapabilityStore) {
	host := capability.NewMockHost()
	store := memory.NewCapabilityStore()
	registry := NewCapabilityRegistry(logger.NewTestLogger(), store, host)
	return registry, host, store
}

func grantTestCapability(t *testing.T, host *capability.MockHost, path string) ports.Capability {
	t.Helper()
	host.Allow(path, fstest.MapFS{})
	c, err := host.Grant(context.Background(), path, true)
	require.NoError(t, err)
	return c
}

func TestCapabilityRegistry_PersistAndLive(t *testing.T) {
	registry, host, store := newTestRegistry()
	c := grantTestCapability(t, host, "/music")

	require.NoError(t, registry.Persist("/music", c))
	assert.Same(t, c, registry.Live("/music"))
	assert.Nil(t, registry.Live("/other"))

	records, err := store.All()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "/music", records[0].Path)
	assert.Equal(t, c.Token(), records[0].Token)
}

func TestCapabilityRegistry_PersistFailureKeepsLiveCapability(t *testing.T) {
	host := capability.NewMockHost()
	failing := &failingCapabilityStore{err: errors.New("disk full")}
	registry := NewCapabilityRegistry(logger.NewTestLogger(), failing, host)

	c := grantTestCapability(t, host, "/music")
	err := registry.Persist("/music", c)

	// The write failed, but the capability stays usable this session.
	assert.Error(t, err)
	assert.Same(t, c, registry.Live("/music"))
}

func TestCapabilityRegistry_RestoreAll(t *testing.T) {
	registry, host, store := newTestRegistry()

	for _, path := range []string{"/a", "/b"} {
		c := grantTestCapability(t, host, path)
		require.NoError(t, registry.Persist(path, c))
	}
	// A token the host no longer honors.
	require.NoError(t, store.Put(ports.CapabilityRecord{Path: "/stale", Token: []byte("garbage")}))

	// Simulate a restart: fresh registry over the same durable store.
	restarted := NewCapabilityRegistry(logger.NewTestLogger(), store, host)
	restored, err := restarted.RestoreAll()

	require.NoError(t, err)
	assert.Equal(t, 2, restored)
	assert.NotNil(t, restarted.Live("/a"))
	assert.NotNil(t, restarted.Live("/b"))
	// The lost token is dropped, not fatal.
	assert.Nil(t, restarted.Live("/stale"))
}

func TestCapabilityRegistry_Forget(t *testing.T) {
	registry, host, store := newTestRegistry()
	c := grantTestCapability(t, host, "/music")
	require.NoError(t, registry.Persist("/music", c))

	require.NoError(t, registry.Forget("/music"))

	assert.Nil(t, registry.Live("/music"))
	records, err := store.All()
	require.NoError(t, err)
	assert.Empty(t, records)
}

// failingCapabilityStore rejects every write.
type failingCapabilityStore struct {
	err error
}

func (s *failingCapabilityStore) Put(ports.CapabilityRecord) error       { return s.err }
func (s *failingCapabilityStore) All() ([]ports.CapabilityRecord, error) { return nil, nil }
func (s *failingCapabilityStore) Delete(string) error                    { return nil }
