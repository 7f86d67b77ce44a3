// Package identity owns the session identity state machine: which principal
// a session authenticates as, and the impersonation swap/restore lifecycle.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/chancery-dms/chancery/internal/authz"
	"github.com/chancery-dms/chancery/internal/shared"
)

var (
	// ErrAuthorizationDenied is returned when the impersonation decision
	// rejects the actor/target pair. Always recoverable.
	ErrAuthorizationDenied = errors.New("identity: impersonation denied")
	// ErrNotImpersonating is returned by LeaveImpersonation outside the
	// impersonating state.
	ErrNotImpersonating = errors.New("identity: not impersonating")
	// ErrIdentityLookup is returned when the target principal cannot be
	// loaded. No session state is mutated.
	ErrIdentityLookup = errors.New("identity: identity lookup failed")
	// ErrStaleCredential is returned when credential replacement fails after
	// authorization succeeded. Session state is rolled back.
	ErrStaleCredential = errors.New("identity: credential replacement failed")
)

// credentialTimeout bounds the credential re-issue call; on expiry the
// operation fails with no state change.
const credentialTimeout = 3 * time.Second

// Metrics records impersonation lifecycle events.
type Metrics interface {
	ImpersonationStarted()
	ImpersonationStopped()
	ImpersonationDenied()
}

// Manager mediates identity swaps on a session. All identity mutations go
// through StartImpersonation, LeaveImpersonation and Logout; nothing else
// writes the identity triple.
type Manager struct {
	sessions   *shared.SessionManager
	principals authz.PrincipalSource
	audit      *shared.AuditLogger
	metrics    Metrics
	logger     *slog.Logger
}

// NewManager constructs a Manager. Audit and metrics may be nil.
func NewManager(sessions *shared.SessionManager, principals authz.PrincipalSource, audit *shared.AuditLogger, metrics Metrics, logger *slog.Logger) *Manager {
	return &Manager{
		sessions:   sessions,
		principals: principals,
		audit:      audit,
		metrics:    metrics,
		logger:     logger,
	}
}

// StartImpersonation swaps the session identity to targetID after the
// authorization decision passes. On success the session credential is
// re-issued for the target and the pre-impersonation identity is retained
// for restoration. On any failure the session keeps its prior,
// self-consistent state.
func (m *Manager) StartImpersonation(ctx context.Context, sess *shared.Session, actor authz.Principal, targetID int64) (authz.Principal, error) {
	if sess == nil {
		return authz.Principal{}, fmt.Errorf("%w: no session", ErrIdentityLookup)
	}

	// The actor's impersonator marker comes from the session, not the store:
	// an impersonated session acts as the target but stays marked.
	prior := sess.Identity()
	if prior.Impersonating {
		if orig, err := strconv.ParseInt(prior.OriginalUserID, 10, 64); err == nil {
			actor.ImpersonatorID = &orig
		}
	}

	target, err := m.principals.Principal(ctx, targetID)
	if err != nil {
		if errors.Is(err, authz.ErrNotFound) {
			return authz.Principal{}, fmt.Errorf("%w: user %d", ErrIdentityLookup, targetID)
		}
		return authz.Principal{}, fmt.Errorf("%w: %v", ErrIdentityLookup, err)
	}

	if !authz.CanImpersonate(actor, target) {
		if m.metrics != nil {
			m.metrics.ImpersonationDenied()
		}
		return authz.Principal{}, ErrAuthorizationDenied
	}

	sess.SetIdentity(shared.Identity{
		UserID:         strconv.FormatInt(target.ID, 10),
		OriginalUserID: strconv.FormatInt(actor.ID, 10),
		Impersonating:  true,
	})
	if err := m.rotateCredential(ctx, sess); err != nil {
		sess.SetIdentity(prior)
		return authz.Principal{}, fmt.Errorf("%w: %v", ErrStaleCredential, err)
	}

	if m.metrics != nil {
		m.metrics.ImpersonationStarted()
	}
	m.recordAudit(ctx, actor.ID, "impersonation.start", target.ID)

	target.ImpersonatorID = &actor.ID
	return target, nil
}

// LeaveImpersonation restores the original identity saved at impersonation
// start. Outside the impersonating state it reports ErrNotImpersonating and
// changes nothing.
func (m *Manager) LeaveImpersonation(ctx context.Context, sess *shared.Session) (authz.Principal, error) {
	if sess == nil {
		return authz.Principal{}, ErrNotImpersonating
	}
	prior := sess.Identity()
	if !prior.Impersonating {
		return authz.Principal{}, ErrNotImpersonating
	}

	origID, err := strconv.ParseInt(prior.OriginalUserID, 10, 64)
	if err != nil {
		return authz.Principal{}, fmt.Errorf("%w: corrupt original identity %q", ErrIdentityLookup, prior.OriginalUserID)
	}
	restored, err := m.principals.Principal(ctx, origID)
	if err != nil {
		return authz.Principal{}, fmt.Errorf("%w: %v", ErrIdentityLookup, err)
	}

	sess.SetIdentity(shared.Identity{UserID: prior.OriginalUserID})
	if err := m.rotateCredential(ctx, sess); err != nil {
		sess.SetIdentity(prior)
		return authz.Principal{}, fmt.Errorf("%w: %v", ErrStaleCredential, err)
	}

	if m.metrics != nil {
		m.metrics.ImpersonationStopped()
	}
	impersonatedID, _ := strconv.ParseInt(prior.UserID, 10, 64)
	m.recordAudit(ctx, origID, "impersonation.leave", impersonatedID)

	return restored, nil
}

// Logout clears all session state unconditionally, impersonating or not.
func (m *Manager) Logout(ctx context.Context, sess *shared.Session) {
	if sess == nil {
		return
	}
	m.sessions.Destroy(sess)
}

func (m *Manager) rotateCredential(ctx context.Context, sess *shared.Session) error {
	ctx, cancel := context.WithTimeout(ctx, credentialTimeout)
	defer cancel()
	return m.sessions.Rotate(ctx, sess)
}

func (m *Manager) recordAudit(ctx context.Context, actorID int64, action string, subjectID int64) {
	if m.audit == nil {
		return
	}
	err := m.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: strconv.FormatInt(subjectID, 10),
	})
	if err != nil && m.logger != nil {
		m.logger.Warn("record impersonation audit", slog.Any("error", err))
	}
}
