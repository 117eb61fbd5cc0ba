package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cadenzaapp/cadenza/internal/domain"
	"github.com/cadenzaapp/cadenza/internal/library"
	"github.com/cadenzaapp/cadenza/internal/ports"
)

// PermissionVerifier re-establishes trust in previously persisted
// capabilities before they are used for I/O. A capability recovered from
// durable storage may have had its underlying grant revoked, or may need
// an explicit re-grant gesture from the user.
type PermissionVerifier struct {
	logger   *slog.Logger
	registry *CapabilityRegistry
	host     ports.CapabilityHost
	store    *library.Store
	bus      ports.EventBus
}

// NewPermissionVerifier creates a verifier.
func NewPermissionVerifier(
	logger *slog.Logger,
	registry *CapabilityRegistry,
	host ports.CapabilityHost,
	store *library.Store,
	bus ports.EventBus,
) *PermissionVerifier {
	return &PermissionVerifier{
		logger:   logger,
		registry: registry,
		host:     host,
		store:    store,
		bus:      bus,
	}
}

// Verify confirms or re-requests access for one folder and records the
// outcome in the library store.
//
// Folders not flagged NeedsPermissionVerification are skipped:
// verification runs once per restart per folder, not on every scan.
// Legacy folders never held a capability and are cleared immediately.
//
// Must be invoked within (or immediately following) a user-initiated
// interaction. A gesture-less call is silently rejected by the host; that
// outcome leaves the folder still flagged for verification and returns
// domain.ErrUserGestureRequired, an expected, non-fatal result. A genuine
// denial or a lost capability completes verification negatively: the flag
// is cleared so the user is not re-prompted automatically.
func (v *PermissionVerifier) Verify(ctx context.Context, folder domain.Folder, userInitiated bool) error {
	if !folder.NeedsPermissionVerification {
		return nil
	}

	if folder.IsLegacy() {
		v.store.Dispatch(domain.SetFolderAccessAction{
			Path:               folder.Path,
			HasValidCapability: false,
			NeedsVerification:  false,
		})
		return nil
	}

	c := v.registry.Live(folder.Path)
	if c == nil {
		// Nothing restored for this path: the capability is lost. Attempt a
		// fresh grant, which needs the user gesture we may be inside of.
		v.logger.Warn("no live capability for folder, re-requesting",
			slog.String("path", folder.Path))
		return v.regrant(ctx, folder, userInitiated)
	}

	err := v.host.Verify(ctx, c, userInitiated)
	switch {
	case err == nil:
		v.recordOutcome(folder.Path, true)
		return nil
	case errors.Is(err, domain.ErrUserGestureRequired):
		// Expected when called programmatically; the folder stays flagged
		// so a later user-initiated attempt can still succeed.
		v.logger.Debug("verification deferred, needs user gesture",
			slog.String("path", folder.Path))
		return domain.ErrUserGestureRequired
	default:
		v.logger.Warn("folder permission denied",
			slog.String("path", folder.Path),
			slog.Any("error", err))
		v.recordOutcome(folder.Path, false)
		return domain.ErrPermissionDenied
	}
}

// regrant asks the host for a fresh capability after the persisted one was
// lost.
func (v *PermissionVerifier) regrant(ctx context.Context, folder domain.Folder, userInitiated bool) error {
	c, err := v.host.Grant(ctx, folder.Path, userInitiated)
	switch {
	case err == nil:
		if persistErr := v.registry.Persist(folder.Path, c); persistErr != nil {
			v.logger.Error("re-granted capability failed to persist",
				slog.String("path", folder.Path),
				slog.Any("error", persistErr))
		}
		v.recordOutcome(folder.Path, true)
		return nil
	case errors.Is(err, domain.ErrUserGestureRequired):
		return domain.ErrUserGestureRequired
	default:
		v.recordOutcome(folder.Path, false)
		return domain.ErrCapabilityLost
	}
}

// recordOutcome writes the completed verification result to the store and
// publishes it.
func (v *PermissionVerifier) recordOutcome(path string, granted bool) {
	v.store.Dispatch(domain.SetFolderAccessAction{
		Path:               path,
		HasValidCapability: granted,
		NeedsVerification:  false,
	})
	v.bus.Publish(domain.NewCapabilityVerifiedEvent(path, granted))
}
