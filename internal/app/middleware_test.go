package app_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/chancery-dms/chancery/internal/app"
	"github.com/chancery-dms/chancery/internal/auth"
	"github.com/chancery-dms/chancery/internal/authz"
	"github.com/chancery-dms/chancery/internal/identity"
	"github.com/chancery-dms/chancery/internal/shared"
	_ "github.com/chancery-dms/chancery/testing"
)

type stubAuthRepo struct {
	user *auth.User
}

func (s *stubAuthRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubAuthRepo) FindByID(_ context.Context, id int64) (*auth.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubAuthRepo) CreateSession(_ context.Context, _ string, _ int64, _ time.Time, _, _ string) error {
	return nil
}

func (s *stubAuthRepo) DeleteSession(_ context.Context, _ string) error {
	return nil
}

type emptyGrantStore struct{}

func (emptyGrantStore) RolesForUser(_ context.Context, _ int64) ([]authz.Role, error) {
	return nil, nil
}

func (emptyGrantStore) DirectPermissionsForUser(_ context.Context, _ int64) ([]authz.Permission, error) {
	return nil, nil
}

func (emptyGrantStore) PermissionsForRole(_ context.Context, _ int64) ([]authz.Permission, error) {
	return nil, nil
}

func (emptyGrantStore) ListPermissions(_ context.Context) ([]authz.Permission, error) {
	return nil, nil
}

// newStackedRouter builds the full middleware chain over miniredis with the
// real login handler mounted, plus a recording mutating endpoint behind it.
func newStackedRouter(t *testing.T) (chi.Router, *bool) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sessions := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
	csrf := shared.NewCSRFManager("csrf-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &stubAuthRepo{user: &auth.User{
		ID:           1,
		Email:        "clerk@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}}

	grants := authz.NewService(emptyGrantStore{})
	assembler := auth.NewPrincipalAssembler(repo, grants, nil, 0)
	identities := identity.NewManager(sessions, assembler, nil, nil, logger)
	authHandler := auth.NewHandler(logger, auth.NewService(repo), assembler, identities, sessions, csrf)

	router := chi.NewRouter()
	for _, mw := range app.MiddlewareStack(app.MiddlewareConfig{
		Logger:         logger,
		SessionManager: sessions,
		CSRFManager:    csrf,
	}) {
		router.Use(mw)
	}
	router.Route("/auth", authHandler.MountRoutes)

	reached := false
	router.Post("/impersonation/leave", func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	})
	return router, &reached
}

func login(t *testing.T, router chi.Router) (*http.Cookie, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"clerk@example.com","password":"correct-horse"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test_session" {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login must set the session cookie")
	return cookie, rec.Header().Get(shared.CSRFHeader)
}

func TestLoginIssuesTokenForMutatingRequests(t *testing.T) {
	router, reached := newStackedRouter(t)
	cookie, token := login(t, router)
	require.NotEmpty(t, token, "login must hand the client its csrf token")

	req := httptest.NewRequest(http.MethodPost, "/impersonation/leave", nil)
	req.AddCookie(cookie)
	req.Header.Set(shared.CSRFHeader, token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.True(t, *reached, "mutating request with the issued token must reach the handler")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMutatingRequestWithoutTokenIsRejected(t *testing.T) {
	router, reached := newStackedRouter(t)
	cookie, _ := login(t, router)

	req := httptest.NewRequest(http.MethodPost, "/impersonation/leave", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.False(t, *reached)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
