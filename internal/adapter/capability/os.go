// Package capability provides CapabilityHost implementations: an OS-backed
// host granting access to local directories, and a mock host for tests.
package capability

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

// token is the durable form of an OS capability. Opaque to everything
// outside this package; the registry stores the marshaled bytes verbatim.
type token struct {
	Path      string    `json:"path"`
	Nonce     string    `json:"nonce"`
	GrantedAt time.Time `json:"grantedAt"`
}

// osCapability is a live grant of read access to one local directory.
type osCapability struct {
	path string
	raw  []byte
}

// Path returns the folder path the capability is scoped to.
func (c *osCapability) Path() string {
	return c.path
}

// Token returns the durable form of the capability.
func (c *osCapability) Token() []byte {
	return c.raw
}

// FS returns a read-only filesystem rooted at the folder, failing when the
// directory is no longer accessible.
func (c *osCapability) FS() (fs.FS, error) {
	if err := checkReadableDir(c.path); err != nil {
		return nil, err
	}
	return os.DirFS(c.path), nil
}

// OSHost mints and verifies capabilities for local directories. Grants are
// gated on a user-initiated interaction, matching hosts where programmatic
// permission requests are silently refused.
type OSHost struct {
	logger *slog.Logger
}

// NewOSHost creates an OS-backed capability host.
func NewOSHost(logger *slog.Logger) *OSHost {
	return &OSHost{logger: logger}
}

// Grant requests fresh access to a directory. Fails with
// domain.ErrUserGestureRequired outside a user-initiated interaction and
// with domain.ErrPermissionDenied when the directory is not readable.
func (h *OSHost) Grant(_ context.Context, path string, userInitiated bool) (ports.Capability, error) {
	if !userInitiated {
		return nil, domain.ErrUserGestureRequired
	}
	if err := checkReadableDir(path); err != nil {
		h.logger.Warn("folder access grant refused",
			slog.String("path", path),
			slog.Any("error", err))
		return nil, domain.ErrPermissionDenied
	}

	raw, err := json.Marshal(token{
		Path:      path,
		Nonce:     uuid.NewString(),
		GrantedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return &osCapability{path: path, raw: raw}, nil
}

// Restore rebuilds a capability from a persisted token. The result is
// unverified. Returns domain.ErrCapabilityLost when the token is corrupt
// or was minted for a different path.
func (h *OSHost) Restore(path string, raw []byte) (ports.Capability, error) {
	var tok token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, domain.ErrCapabilityLost
	}
	if tok.Path != path || tok.Nonce == "" {
		return nil, domain.ErrCapabilityLost
	}
	return &osCapability{path: path, raw: raw}, nil
}

// Verify re-validates a capability against the filesystem. Gated on a
// user-initiated interaction like Grant; the gesture-less rejection is an
// expected, non-fatal outcome for callers.
func (h *OSHost) Verify(_ context.Context, c ports.Capability, userInitiated bool) error {
	if !userInitiated {
		return domain.ErrUserGestureRequired
	}
	if err := checkReadableDir(c.Path()); err != nil {
		h.logger.Warn("capability verification failed",
			slog.String("path", c.Path()),
			slog.Any("error", err))
		return domain.ErrPermissionDenied
	}
	return nil
}

// checkReadableDir confirms path is a directory we can actually list.
func checkReadableDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return domain.ErrPermissionDenied
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

// Verify interface implementation
var _ ports.CapabilityHost = (*OSHost)(nil)
