package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

func TestSnapshotStore(t *testing.T) {
	store := NewSnapshotStore()

	_, err := store.Load()
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	snap := &domain.Snapshot{Tracks: []domain.Track{{ID: "t1"}}}
	require.NoError(t, store.Save(snap))
	assert.Equal(t, 1, store.Saves)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, loaded.Tracks, 1)

	// Injected failures do not count as saves.
	store.SaveErr = assert.AnError
	assert.Error(t, store.Save(snap))
	assert.Equal(t, 1, store.Saves)
}

func TestCapabilityStore(t *testing.T) {
	store := NewCapabilityStore()

	require.NoError(t, store.Put(ports.CapabilityRecord{Path: "/a", Token: []byte("one")}))
	require.NoError(t, store.Put(ports.CapabilityRecord{Path: "/a", Token: []byte("two")}))

	records, err := store.All()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []byte("two"), records[0].Token)
	assert.False(t, records[0].PersistedAt.IsZero())

	require.NoError(t, store.Delete("/a"))
	records, err = store.All()
	require.NoError(t, err)
	assert.Empty(t, records)
}
