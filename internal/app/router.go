package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/chancery-dms/chancery/internal/auth"
	"github.com/chancery-dms/chancery/internal/authz"
	"github.com/chancery-dms/chancery/internal/companies"
	"github.com/chancery-dms/chancery/internal/correspondence"
	"github.com/chancery-dms/chancery/internal/documents"
	"github.com/chancery-dms/chancery/internal/identity"
	"github.com/chancery-dms/chancery/internal/observability"
	"github.com/chancery-dms/chancery/internal/proceedings"
	"github.com/chancery-dms/chancery/internal/retention"
	"github.com/chancery-dms/chancery/internal/roles"
	"github.com/chancery-dms/chancery/internal/shared"
	"github.com/chancery-dms/chancery/internal/users"
	"github.com/chancery-dms/chancery/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler           *auth.Handler
	IdentityHandler       *identity.Handler
	UsersHandler          *users.Handler
	RolesHandler          *roles.Handler
	PermissionsHandler    *authz.PermissionsHandler
	CompaniesHandler      *companies.Handler
	CorrespondenceHandler *correspondence.Handler
	ProceedingsHandler    *proceedings.Handler
	DocumentsHandler      *documents.Handler
	RetentionHandler      *retention.Handler
	JobHandler            *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Chancery defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.IdentityHandler != nil {
		r.Route("/impersonation", params.IdentityHandler.MountRoutes)
	}
	if params.UsersHandler != nil {
		r.Route("/users", params.UsersHandler.MountRoutes)
	}
	if params.RolesHandler != nil {
		r.Route("/roles", params.RolesHandler.MountRoutes)
	}
	if params.PermissionsHandler != nil {
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
	}
	if params.CompaniesHandler != nil {
		r.Route("/companies", params.CompaniesHandler.MountRoutes)
	}
	if params.CorrespondenceHandler != nil {
		r.Route("/correspondence", params.CorrespondenceHandler.MountRoutes)
	}
	if params.ProceedingsHandler != nil {
		r.Route("/proceedings", params.ProceedingsHandler.MountRoutes)
	}
	if params.DocumentsHandler != nil {
		r.Route("/documents", params.DocumentsHandler.MountRoutes)
	}
	if params.RetentionHandler != nil {
		r.Route("/retention", params.RetentionHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
