package capability

import (
	"context"
	"io/fs"
	"sync"

	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

// MockCapability is a test capability backed by any fs.FS.
type MockCapability struct {
	FolderPath string
	RawToken   []byte
	Fsys       fs.FS
	FSErr      error
}

// Path returns the folder path.
func (c *MockCapability) Path() string {
	return c.FolderPath
}

// Token returns the configured raw token.
func (c *MockCapability) Token() []byte {
	return c.RawToken
}

// FS returns the configured filesystem or error.
func (c *MockCapability) FS() (fs.FS, error) {
	if c.FSErr != nil {
		return nil, c.FSErr
	}
	return c.Fsys, nil
}

// MockHost is a configurable capability host for tests. Paths registered
// through Allow are grantable and verifiable; everything else is denied.
type MockHost struct {
	mu sync.Mutex

	// filesystems maps allowed paths to their backing filesystems
	filesystems map[string]fs.FS

	// VerifyErr, when set, is returned by every Verify call
	VerifyErr error

	// GrantErr, when set, is returned by every Grant call
	GrantErr error

	// RequireGesture mirrors host gating of permission requests (on by default)
	RequireGesture bool

	// Call counters for assertions
	GrantCalls   int
	RestoreCalls int
	VerifyCalls  int
}

// NewMockHost creates a mock host with gesture gating enabled.
func NewMockHost() *MockHost {
	return &MockHost{
		filesystems:    make(map[string]fs.FS),
		RequireGesture: true,
	}
}

// Allow registers a path as grantable, backed by fsys.
func (h *MockHost) Allow(path string, fsys fs.FS) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.filesystems[path] = fsys
}

// Revoke removes a path from the allowed set; existing capabilities for it
// stop verifying.
func (h *MockHost) Revoke(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.filesystems, path)
}

// Grant mints a capability for an allowed path.
func (h *MockHost) Grant(_ context.Context, path string, userInitiated bool) (ports.Capability, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.GrantCalls++
	if h.RequireGesture && !userInitiated {
		return nil, domain.ErrUserGestureRequired
	}
	if h.GrantErr != nil {
		return nil, h.GrantErr
	}
	fsys, ok := h.filesystems[path]
	if !ok {
		return nil, domain.ErrPermissionDenied
	}
	return &MockCapability{
		FolderPath: path,
		RawToken:   []byte("mock-token:" + path),
		Fsys:       fsys,
	}, nil
}

// Restore rebuilds a capability from a token minted by Grant.
func (h *MockHost) Restore(path string, raw []byte) (ports.Capability, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.RestoreCalls++
	if string(raw) != "mock-token:"+path {
		return nil, domain.ErrCapabilityLost
	}
	return &MockCapability{
		FolderPath: path,
		RawToken:   raw,
		Fsys:       h.filesystems[path],
	}, nil
}

// Verify succeeds for capabilities whose path is still allowed.
func (h *MockHost) Verify(_ context.Context, c ports.Capability, userInitiated bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.VerifyCalls++
	if h.RequireGesture && !userInitiated {
		return domain.ErrUserGestureRequired
	}
	if h.VerifyErr != nil {
		return h.VerifyErr
	}
	if _, ok := h.filesystems[c.Path()]; !ok {
		return domain.ErrPermissionDenied
	}
	return nil
}

// Verify interface implementation
var _ ports.CapabilityHost = (*MockHost)(nil)
var _ ports.Capability = (*MockCapability)(nil)
