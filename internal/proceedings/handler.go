package proceedings

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/chancery-dms/chancery/internal/authz"
	"github.com/chancery-dms/chancery/internal/platform/httpx"
	"github.com/chancery-dms/chancery/internal/shared"
)

// Handler manages proceeding endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     authz.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers proceeding routes. Box attachment carries its own
// permission on top of edit.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(shared.PermProceedingView))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAll(shared.PermProceedingEdit))
		r.Post("/", h.open)
		r.Put("/{id}/status", h.transition)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAll(shared.PermProceedingEdit, shared.PermProceedingAttachBox))
		r.Post("/{id}/box", h.attachBox)
	})
}

type openRequest struct {
	CompanyID int64  `json:"company_id" validate:"required"`
	Title     string `json:"title" validate:"required,max=500"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required,oneof=open closed archived"`
}

type attachBoxRequest struct {
	BoxID int64 `json:"box_id" validate:"required"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, _ := authz.PrincipalFromContext(r.Context())
	proceedings, err := h.service.ListProceedings(r.Context(), principal.CompanyID, r.URL.Query().Get("status"))
	if err != nil {
		h.logger.Error("list proceedings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, proceedings)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	proceeding, err := h.service.GetProceeding(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, proceeding)
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if !h.decode(w, r, &req) {
		return
	}
	proceeding, err := h.service.OpenProceeding(r.Context(), req.CompanyID, req.Title)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, proceeding)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req transitionRequest
	if !h.decode(w, r, &req) {
		return
	}
	proceeding, err := h.service.Transition(r.Context(), id, req.Status)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, proceeding)
}

func (h *Handler) attachBox(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req attachBoxRequest
	if !h.decode(w, r, &req) {
		return
	}
	proceeding, err := h.service.AttachBox(r.Context(), id, req.BoxID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, proceeding)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := httpx.DecodeJSON(r, req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid proceeding ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrClosed):
		httpx.RespondError(w, httpx.ErrConflict)
	case errors.Is(err, ErrBadStatus):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("proceedings", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
