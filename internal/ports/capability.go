package ports

import (
	"context"
	"io/fs"
)

// Capability is an unforgeable, revocable grant of read access to one
// folder. The live object is process-bound: only its Token survives a
// restart, and a restored capability is not trustworthy until the host
// re-verifies it.
type Capability interface {
	// Path returns the folder path the capability is scoped to.
	Path() string

	// Token returns the durable, opaque form of the capability. The
	// registry stores it without inspecting it.
	Token() []byte

	// FS returns a read-only filesystem rooted at the folder.
	// Fails when the underlying access grant has been revoked.
	FS() (fs.FS, error)
}

// CapabilityHost is the host integration that mints, restores and
// re-validates folder access capabilities. Grant and Verify may require a
// user-initiated interaction; calling them programmatically returns
// domain.ErrUserGestureRequired, which callers must treat as an expected,
// non-fatal outcome.
type CapabilityHost interface {
	// Grant requests fresh access to a folder path.
	Grant(ctx context.Context, path string, userInitiated bool) (Capability, error)

	// Restore rebuilds a capability from a persisted token. The result is
	// unverified; it must pass Verify before being used for I/O. Returns
	// domain.ErrCapabilityLost when the token no longer deserializes.
	Restore(path string, token []byte) (Capability, error)

	// Verify re-validates a capability, re-requesting the underlying grant
	// if the host requires it. Returns domain.ErrPermissionDenied when the
	// host or user rejects the request.
	Verify(ctx context.Context, c Capability, userInitiated bool) error
}
