package authz

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chancery-dms/chancery/internal/platform/httpx"
	"github.com/chancery-dms/chancery/internal/shared"
)

// PermissionsHandler serves the permission catalogue grouped by dotted
// category. Grouping is presentation only; resolution never prefix-matches.
type PermissionsHandler struct {
	logger  *slog.Logger
	service *Service
	guard   Middleware
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, service *Service, guard Middleware) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAny(shared.PermPermissionView))
		r.Get("/", h.listPermissions)
	})
}

// PermissionCategory groups permissions sharing a dot prefix for display.
type PermissionCategory struct {
	Category    string       `json:"category"`
	Title       string       `json:"title"`
	Permissions []Permission `json:"permissions"`
}

func (h *PermissionsHandler) listPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.service.ListPermissions(r.Context())
	if err != nil {
		h.logger.Error("list permissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, groupByCategory(perms))
}

var categoryTitle = cases.Title(language.English)

func groupByCategory(perms []Permission) []PermissionCategory {
	grouped := make(map[string][]Permission)
	for _, perm := range perms {
		category := perm.Name
		if idx := strings.IndexByte(perm.Name, '.'); idx > 0 {
			category = perm.Name[:idx]
		}
		grouped[category] = append(grouped[category], perm)
	}
	categories := make([]PermissionCategory, 0, len(grouped))
	for category, members := range grouped {
		categories = append(categories, PermissionCategory{
			Category:    category,
			Title:       categoryTitle.String(category),
			Permissions: members,
		})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Category < categories[j].Category
	})
	return categories
}
