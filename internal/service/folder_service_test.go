package service

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenzaapp/cadenza/internal/adapter/capability"
	"github.com/cadenzaapp/cadenza/internal/adapter/eventbus"
	"github.com/cadenzaapp/cadenza/internal/adapter/repository/memory"
	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/library"
	"github.com/cadenzaapp/cadenza/internal/logger"
)

func newFolderService(t *testing.T) (*FolderService, *library.Store, *capability.MockHost, *CapabilityRegistry) {
	t.Helper()
	bus := eventbus.NewSyncEventBus()
	t.Cleanup(func() { bus.Close() })

	log := logger.NewTestLogger()
	store := library.New(log, bus, library.Options{})
	host := capability.NewMockHost()
	registry := NewCapabilityRegistry(log, memory.NewCapabilityStore(), host)
	return NewFolderService(log, store, registry, host), store, host, registry
}

func TestFolderService_AddFolder(t *testing.T) {
	svc, store, host, registry := newFolderService(t)
	host.Allow("/music", fstest.MapFS{})

	folder, err := svc.AddFolder(context.Background(), "/music", "", true)

	require.NoError(t, err)
	assert.Equal(t, "/music", folder.Path)
	// Name defaults to the path's base.
	assert.Equal(t, "music", folder.Name)
	assert.True(t, folder.HasValidCapability)
	assert.Len(t, store.Folders(), 1)
	assert.NotNil(t, registry.Live("/music"))
}

func TestFolderService_AddFolder_WithoutGesture(t *testing.T) {
	svc, store, host, _ := newFolderService(t)
	host.Allow("/music", fstest.MapFS{})

	_, err := svc.AddFolder(context.Background(), "/music", "", false)

	assert.ErrorIs(t, err, domain.ErrUserGestureRequired)
	assert.Empty(t, store.Folders())
}

func TestFolderService_AddFolder_Duplicate(t *testing.T) {
	svc, store, host, _ := newFolderService(t)
	host.Allow("/music", fstest.MapFS{})

	_, err := svc.AddFolder(context.Background(), "/music", "Music", true)
	require.NoError(t, err)

	_, err = svc.AddFolder(context.Background(), "/music", "Other", true)
	assert.ErrorIs(t, err, domain.ErrFolderExists)
	require.Len(t, store.Folders(), 1)
	assert.Equal(t, "Music", store.Folders()[0].Name)
}

func TestFolderService_AddFolder_Denied(t *testing.T) {
	svc, store, _, _ := newFolderService(t)
	// Path never allowed on the host.

	_, err := svc.AddFolder(context.Background(), "/forbidden", "", true)

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Empty(t, store.Folders())
}

func TestFolderService_AddLegacyFolder(t *testing.T) {
	svc, store, host, _ := newFolderService(t)

	files := []domain.FolderFile{
		{Path: "fileA.mp3", Name: "fileA.mp3", Size: 100},
		{Path: "fileB.txt", Name: "fileB.txt", Size: 5},
	}
	folder, err := svc.AddLegacyFolder("/old", "Old", files)

	require.NoError(t, err)
	assert.True(t, folder.IsLegacy())
	assert.False(t, folder.HasValidCapability)
	// No capability round-trip for an embedded listing.
	assert.Zero(t, host.GrantCalls)
	assert.Len(t, store.Folders(), 1)

	_, err = svc.AddLegacyFolder("/old", "Old", files)
	assert.ErrorIs(t, err, domain.ErrFolderExists)
}

func TestFolderService_RemoveFolder(t *testing.T) {
	svc, store, host, registry := newFolderService(t)
	host.Allow("/music", fstest.MapFS{})

	_, err := svc.AddFolder(context.Background(), "/music", "", true)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFolder("/music"))
	assert.Empty(t, store.Folders())
	assert.Nil(t, registry.Live("/music"))

	assert.ErrorIs(t, svc.RemoveFolder("/music"), domain.ErrFolderNotFound)
}
