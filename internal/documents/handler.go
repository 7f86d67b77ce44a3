package documents

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/chancery-dms/chancery/internal/authz"
	"github.com/chancery-dms/chancery/internal/platform/httpx"
	"github.com/chancery-dms/chancery/internal/shared"
)

// Handler manages document metadata endpoints.
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

// MountRoutes registers document routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(shared.PermDocumentView))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAll(shared.PermDocumentEdit))
		r.Post("/", h.register)
		r.Put("/{id}", h.update)
	})
}

type registerRequest struct {
	CompanyID    int64  `json:"company_id" validate:"required"`
	ProceedingID *int64 `json:"proceeding_id"`
	Title        string `json:"title" validate:"required,max=500"`
	MimeType     string `json:"mime_type" validate:"required,max=100"`
	SizeBytes    int64  `json:"size_bytes" validate:"min=0"`
	RetentionID  *int64 `json:"retention_id"`
}

type updateRequest struct {
	Title       string `json:"title" validate:"required,max=500"`
	RetentionID *int64 `json:"retention_id"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, _ := authz.PrincipalFromContext(r.Context())
	documents, err := h.service.ListDocuments(r.Context(), principal.CompanyID)
	if err != nil {
		h.logger.Error("list documents", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, documents)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	document, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, document)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	principal, _ := authz.PrincipalFromContext(r.Context())
	document, err := h.service.RegisterDocument(r.Context(), Document{
		CompanyID:    req.CompanyID,
		ProceedingID: req.ProceedingID,
		Title:        req.Title,
		MimeType:     req.MimeType,
		SizeBytes:    req.SizeBytes,
		RetentionID:  req.RetentionID,
		CreatedBy:    principal.ID,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, document)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if !h.decode(w, r, &req) {
		return
	}
	document, err := h.service.UpdateDocument(r.Context(), id, req.Title, req.RetentionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, document)
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
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid document ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	if err == shared.ErrNotFound {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	h.logger.Error("documents", slog.Any("error", err))
	httpx.RespondError(w, err)
}
