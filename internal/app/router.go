package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sisdisciplinar/sisdisciplinar/internal/audit"
	"github.com/sisdisciplinar/sisdisciplinar/internal/auth"
	"github.com/sisdisciplinar/sisdisciplinar/internal/employees"
	"github.com/sisdisciplinar/sisdisciplinar/internal/observability"
	"github.com/sisdisciplinar/sisdisciplinar/internal/processes"
	"github.com/sisdisciplinar/sisdisciplinar/internal/profiles"
	"github.com/sisdisciplinar/sisdisciplinar/internal/rbac"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Authenticator    *auth.Authenticator
	AuthHandler      *auth.Handler
	ProfilesHandler  *profiles.Handler
	RBACHandler      *rbac.Handler
	EmployeesHandler *employees.Handler
	ProcessesHandler *processes.Handler
	AuditHandler     *audit.Handler
	RBACMiddleware   rbac.Middleware
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with the application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:        params.Logger,
		Config:        params.Config,
		Authenticator: params.Authenticator,
		Metrics:       params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/processes", params.ProcessesHandler.MountRoutes)

		// Everything under /api/admin requires the administrator role.
		r.Route("/admin", func(r chi.Router) {
			r.Use(params.RBACMiddleware.RequireAdmin)
			params.ProfilesHandler.MountRoutes(r)
			params.RBACHandler.MountRoutes(r)
			params.EmployeesHandler.MountRoutes(r)
			params.AuditHandler.MountRoutes(r)
			params.ProcessesHandler.MountAdminRoutes(r)
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
