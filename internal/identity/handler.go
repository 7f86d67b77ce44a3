package identity

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chancery-dms/chancery/internal/authz"
	"github.com/chancery-dms/chancery/internal/platform/httpx"
	"github.com/chancery-dms/chancery/internal/shared"
)

// Handler exposes the impersonation session API to the user-management
// screens.
type Handler struct {
	logger  *slog.Logger
	manager *Manager
	guard   authz.Middleware
	csrf    *shared.CSRFManager
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, manager *Manager, guard authz.Middleware, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, manager: manager, guard: guard, csrf: csrf}
}

// MountRoutes registers impersonation routes. The start decision itself
// lives in the authorizer; the routes only require an authenticated session.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAuthenticated)
		r.Get("/", h.state)
		r.Post("/users/{userID}", h.start)
		r.Post("/leave", h.leave)
	})
}

type stateResponse struct {
	Impersonating  bool   `json:"impersonating"`
	UserID         string `json:"user_id"`
	OriginalUserID string `json:"original_user_id,omitempty"`
}

type identityResponse struct {
	Identity  stateResponse   `json:"identity"`
	Principal authz.Principal `json:"principal"`
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	id := sess.Identity()
	// Clients that lost the login response (page reload) re-fetch the CSRF
	// token here.
	if h.csrf != nil {
		if token, err := h.csrf.EnsureToken(r.Context(), sess); err == nil {
			w.Header().Set(shared.CSRFHeader, token)
		}
	}
	httpx.JSON(w, http.StatusOK, stateResponse{
		Impersonating:  id.Impersonating,
		UserID:         id.UserID,
		OriginalUserID: id.OriginalUserID,
	})
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	actor, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return
	}
	sess := shared.SessionFromContext(r.Context())

	principal, err := h.manager.StartImpersonation(r.Context(), sess, actor, targetID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	id := sess.Identity()
	httpx.JSON(w, http.StatusOK, identityResponse{
		Identity:  stateResponse{Impersonating: id.Impersonating, UserID: id.UserID, OriginalUserID: id.OriginalUserID},
		Principal: principal,
	})
}

func (h *Handler) leave(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())

	principal, err := h.manager.LeaveImpersonation(r.Context(), sess)
	if err != nil {
		h.respondError(w, err)
		return
	}
	id := sess.Identity()
	httpx.JSON(w, http.StatusOK, identityResponse{
		Identity:  stateResponse{Impersonating: id.Impersonating, UserID: id.UserID},
		Principal: principal,
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAuthorizationDenied):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "impersonation denied")
	case errors.Is(err, ErrNotImpersonating):
		httpx.Problem(w, http.StatusConflict, "Conflict", "not currently impersonating")
	case errors.Is(err, ErrIdentityLookup):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "target user not found")
	case errors.Is(err, ErrStaleCredential):
		h.logger.Error("credential replacement failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Service Unavailable", "credential replacement failed")
	default:
		h.logger.Error("impersonation", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
