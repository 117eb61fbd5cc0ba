package app

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenzaapp/cadenza/internal/adapter/capability"
	"github.com/cadenzaapp/cadenza/internal/adapter/repository/memory"
	"github.com/cadenzaapp/cadenza/internal/config"
	"github.com/cadenzaapp/cadenza/internal/testutil"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		DataDir:  dir,
		LogLevel: "warn",
	}
}

func TestNewApplication_StartsEmpty(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	a, err := NewApplication(testConfig(t), Options{UseMemoryStores: true})
	require.NoError(t, err)
	defer a.Shutdown()

	assert.Empty(t, a.Store().Tracks())
	assert.Empty(t, a.Store().Folders())
}

func TestApplication_LibraryRestoresAcrossRestart(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	cfg := testConfig(t)
	host := capability.NewMockHost()
	host.Allow("/music", fstest.MapFS{
		"song.mp3": &fstest.MapFile{Data: []byte("x")},
	})
	// Shared durable stores play the role of the on-disk database.
	snapshots := memory.NewSnapshotStore()
	capabilities := memory.NewCapabilityStore()
	opts := Options{
		SnapshotStore:   snapshots,
		CapabilityStore: capabilities,
		CapabilityHost:  host,
	}

	first, err := NewApplication(cfg, opts)
	require.NoError(t, err)

	_, err = first.Folders().AddFolder(context.Background(), "/music", "Music", true)
	require.NoError(t, err)
	started, err := first.Scan(context.Background(), true)
	require.True(t, started)
	require.NoError(t, err)
	require.Len(t, first.Store().Tracks(), 1)
	first.Shutdown()

	// "Restart": a fresh application over the same durable stores.
	second, err := NewApplication(cfg, opts)
	require.NoError(t, err)
	defer second.Shutdown()

	assert.Len(t, second.Store().Tracks(), 1)
	require.Len(t, second.Store().Folders(), 1)

	folder := second.Store().Folders()[0]
	// Restored capabilities are provisional until re-verified.
	assert.True(t, folder.NeedsPermissionVerification)

	require.NoError(t, second.Verify(context.Background(), "/music", true))
	folder = second.Store().Folders()[0]
	assert.True(t, folder.HasValidCapability)
	assert.False(t, folder.NeedsPermissionVerification)
}

func TestApplication_ScanAfterRestartWithoutGesture(t *testing.T) {
	cfg := testConfig(t)
	host := capability.NewMockHost()
	host.Allow("/music", fstest.MapFS{"song.mp3": &fstest.MapFile{Data: []byte("x")}})
	snapshots := memory.NewSnapshotStore()
	capabilities := memory.NewCapabilityStore()
	opts := Options{
		SnapshotStore:   snapshots,
		CapabilityStore: capabilities,
		CapabilityHost:  host,
	}

	first, err := NewApplication(cfg, opts)
	require.NoError(t, err)
	_, err = first.Folders().AddFolder(context.Background(), "/music", "Music", true)
	require.NoError(t, err)
	_, err = first.Scan(context.Background(), true)
	require.NoError(t, err)
	first.Shutdown()

	second, err := NewApplication(cfg, opts)
	require.NoError(t, err)
	defer second.Shutdown()

	// The programmatic scan cannot re-verify the folder, so the session
	// fails without touching the restored catalog.
	started, err := second.Scan(context.Background(), false)
	require.True(t, started)
	assert.Error(t, err)
	assert.Len(t, second.Store().Tracks(), 1)
}

func TestApplication_SearchFallsBackWithoutIndex(t *testing.T) {
	a, err := NewApplication(testConfig(t), Options{UseMemoryStores: true})
	require.NoError(t, err)
	defer a.Shutdown()

	results := a.Search("anything", 5)
	assert.Empty(t, results)
}

func TestApplication_VerifyUnknownFolder(t *testing.T) {
	a, err := NewApplication(testConfig(t), Options{UseMemoryStores: true})
	require.NoError(t, err)
	defer a.Shutdown()

	assert.Error(t, a.Verify(context.Background(), "/ghost", true))
}
