package identity_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/chancery-dms/chancery/internal/authz"
	"github.com/chancery-dms/chancery/internal/identity"
	"github.com/chancery-dms/chancery/internal/shared"
	_ "github.com/chancery-dms/chancery/testing"
)

type stubPrincipals struct {
	users map[int64]authz.Principal
}

func (s *stubPrincipals) Principal(ctx context.Context, userID int64) (authz.Principal, error) {
	p, ok := s.users[userID]
	if !ok {
		return authz.Principal{}, fmt.Errorf("load user %d: %w", userID, authz.ErrNotFound)
	}
	return p, nil
}

func newManager(t *testing.T, users map[int64]authz.Principal) (*identity.Manager, *shared.SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
	manager := identity.NewManager(sessions, &stubPrincipals{users: users}, nil, nil, nil)
	return manager, sessions, mr
}

func loginSession(t *testing.T, sessions *shared.SessionManager, userID string) *shared.Session {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	sess.SetUser(userID)
	res := httptest.NewRecorder()
	require.NoError(t, sessions.Commit(context.Background(), res, req, sess))
	return sess
}

func ownerActor(id int64) authz.Principal {
	return authz.Principal{
		ID:             id,
		Roles:          []authz.RoleRef{authz.RoleRecord("Owner", 1)},
		AllPermissions: []string{shared.PermUserImpersonate},
	}
}

func clerkTarget(id int64) authz.Principal {
	return authz.Principal{
		ID:    id,
		Roles: []authz.RoleRef{authz.RoleRecord("Clerk", 5)},
	}
}

func TestImpersonationRoundTrip(t *testing.T) {
	users := map[int64]authz.Principal{1: ownerActor(1), 2: clerkTarget(2)}
	manager, sessions, _ := newManager(t, users)
	sess := loginSession(t, sessions, "1")
	oldID := sess.ID

	principal, err := manager.StartImpersonation(context.Background(), sess, users[1], 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), principal.ID)
	require.NotNil(t, principal.ImpersonatorID)
	require.Equal(t, int64(1), *principal.ImpersonatorID)

	id := sess.Identity()
	require.True(t, id.Impersonating)
	require.Equal(t, "2", id.UserID)
	require.Equal(t, "1", id.OriginalUserID)
	// Credential re-issued under a fresh identifier.
	require.NotEqual(t, oldID, sess.ID)

	restored, err := manager.LeaveImpersonation(context.Background(), sess)
	require.NoError(t, err)
	require.Equal(t, int64(1), restored.ID)

	id = sess.Identity()
	require.False(t, id.Impersonating)
	require.Equal(t, "1", id.UserID)
	require.Empty(t, id.OriginalUserID)
}

func TestStartImpersonationDeniedLeavesStateUntouched(t *testing.T) {
	// Actor lacks user.impersonate.
	actor := authz.Principal{ID: 1, Roles: []authz.RoleRef{authz.RoleRecord("Owner", 1)}}
	users := map[int64]authz.Principal{1: actor, 2: clerkTarget(2)}
	manager, sessions, _ := newManager(t, users)
	sess := loginSession(t, sessions, "1")
	oldID := sess.ID

	_, err := manager.StartImpersonation(context.Background(), sess, actor, 2)
	require.ErrorIs(t, err, identity.ErrAuthorizationDenied)

	id := sess.Identity()
	require.False(t, id.Impersonating)
	require.Equal(t, "1", id.UserID)
	require.Equal(t, oldID, sess.ID)
}

func TestStartImpersonationTargetMissing(t *testing.T) {
	users := map[int64]authz.Principal{1: ownerActor(1)}
	manager, sessions, _ := newManager(t, users)
	sess := loginSession(t, sessions, "1")

	_, err := manager.StartImpersonation(context.Background(), sess, users[1], 404)
	require.ErrorIs(t, err, identity.ErrIdentityLookup)
	require.False(t, sess.Identity().Impersonating)
}

func TestNestedImpersonationDenied(t *testing.T) {
	users := map[int64]authz.Principal{
		1: ownerActor(1),
		2: ownerActor(2),
		3: clerkTarget(3),
	}
	manager, sessions, _ := newManager(t, users)
	sess := loginSession(t, sessions, "1")

	_, err := manager.StartImpersonation(context.Background(), sess, users[1], 2)
	require.NoError(t, err)

	// Acting as user 2 now, but the session is marked impersonated; a second
	// hop is rejected by the authorizer.
	_, err = manager.StartImpersonation(context.Background(), sess, users[2], 3)
	require.ErrorIs(t, err, identity.ErrAuthorizationDenied)

	id := sess.Identity()
	require.Equal(t, "2", id.UserID)
	require.Equal(t, "1", id.OriginalUserID)
}

func TestLeaveImpersonationWhenNotImpersonating(t *testing.T) {
	users := map[int64]authz.Principal{1: ownerActor(1)}
	manager, sessions, _ := newManager(t, users)
	sess := loginSession(t, sessions, "1")

	_, err := manager.LeaveImpersonation(context.Background(), sess)
	require.ErrorIs(t, err, identity.ErrNotImpersonating)
	require.Equal(t, "1", sess.Identity().UserID)
}

func TestStaleCredentialRollsBack(t *testing.T) {
	users := map[int64]authz.Principal{1: ownerActor(1), 2: clerkTarget(2)}
	manager, sessions, mr := newManager(t, users)
	sess := loginSession(t, sessions, "1")
	oldID := sess.ID

	mr.SetError("backend unavailable")

	_, err := manager.StartImpersonation(context.Background(), sess, users[1], 2)
	require.ErrorIs(t, err, identity.ErrStaleCredential)

	// No half-applied impersonation.
	id := sess.Identity()
	require.False(t, id.Impersonating)
	require.Equal(t, "1", id.UserID)
	require.Empty(t, id.OriginalUserID)
	require.Equal(t, oldID, sess.ID)
}

func TestLogoutClearsSessionUnconditionally(t *testing.T) {
	users := map[int64]authz.Principal{1: ownerActor(1), 2: clerkTarget(2)}
	manager, sessions, _ := newManager(t, users)
	sess := loginSession(t, sessions, "1")

	_, err := manager.StartImpersonation(context.Background(), sess, users[1], 2)
	require.NoError(t, err)

	manager.Logout(context.Background(), sess)
	require.True(t, sess.Destroyed())
}
