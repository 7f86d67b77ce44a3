package authz

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/chancery-dms/chancery/internal/platform/httpx"
	"github.com/chancery-dms/chancery/internal/shared"
)

// PrincipalSource resolves a user ID to a fully assembled principal.
type PrincipalSource interface {
	Principal(ctx context.Context, userID int64) (Principal, error)
}

// Middleware wires authorization guards for HTTP handlers. The resolved
// principal is placed in the request context for downstream handlers.
type Middleware struct {
	Principals PrincipalSource
	Logger     *slog.Logger
}

// RequireAny admits requests whose principal holds at least one of the
// required permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			principal, ok := m.resolvePrincipal(w, r)
			if !ok {
				return
			}
			if !HasAny(principal, perms...) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing permission")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAll admits requests whose principal holds every required permission.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			principal, ok := m.resolvePrincipal(w, r)
			if !ok {
				return
			}
			if !HasAll(principal, perms...) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing permission")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAuthenticated admits any logged-in principal without a permission
// check. Used by endpoints whose decision lives in the service layer, such
// as impersonation.
func (m Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := m.resolvePrincipal(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
	})
}

func (m Middleware) resolvePrincipal(w http.ResponseWriter, r *http.Request) (Principal, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return Principal{}, false
	}
	identity := sess.Identity()
	raw := strings.TrimSpace(identity.UserID)
	if raw == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return Principal{}, false
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("authz parse user id", slog.String("value", raw))
		}
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return Principal{}, false
	}
	principal, err := m.Principals.Principal(r.Context(), userID)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("authz resolve principal", slog.Any("error", err))
		}
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return Principal{}, false
	}
	if identity.Impersonating {
		if orig, err := strconv.ParseInt(identity.OriginalUserID, 10, 64); err == nil {
			principal.ImpersonatorID = &orig
		}
	}
	return principal, true
}
