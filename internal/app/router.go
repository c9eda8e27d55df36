package app

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/logiparts/logiparts-admin/internal/auth"
	"github.com/logiparts/logiparts-admin/internal/catalog/bulk"
	"github.com/logiparts/logiparts-admin/internal/catalog/categories"
	"github.com/logiparts/logiparts-admin/internal/catalog/dashboard"
	"github.com/logiparts/logiparts-admin/internal/catalog/products"
	catalogShared "github.com/logiparts/logiparts-admin/internal/catalog/shared"
	"github.com/logiparts/logiparts-admin/internal/catalog/vehicles"
	"github.com/logiparts/logiparts-admin/internal/observability"
	"github.com/logiparts/logiparts-admin/internal/platform/httpx"
	"github.com/logiparts/logiparts-admin/internal/shared"
	"github.com/logiparts/logiparts-admin/jobs"
	"github.com/logiparts/logiparts-admin/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	SessionManager    *shared.SessionManager
	CSRFManager       *shared.CSRFManager
	Gate              *auth.Gate
	AuthHandler       *auth.Handler
	Catalog           catalogShared.Deps
	DashboardHandler  *dashboard.Handler
	CategoryHandler   *categories.Handler
	ProductHandler    *products.Handler
	VehicleHandler    *vehicles.Handler
	BulkHandler       *bulk.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
	LoginAttemptLimit int
}

// NewRouter constructs the chi.Router for the admin console.
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
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	})

	loginLimit := params.LoginAttemptLimit
	if loginLimit <= 0 {
		loginLimit = 10
	}
	r.Route("/admin", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r, httprate.LimitByIP(loginLimit, time.Minute))

		r.Group(func(r chi.Router) {
			r.Use(params.Gate.Require)
			params.DashboardHandler.MountRoutes(r)
			r.Route("/categories", params.CategoryHandler.MountRoutes)
			r.Route("/products", params.ProductHandler.MountRoutes)
			r.Route("/vehicles", params.VehicleHandler.MountRoutes)
			r.Route("/bulk", params.BulkHandler.MountRoutes)
			r.Get("/previews/{token}", params.Catalog.ServePreview)
			if params.JobHandler != nil {
				r.Route("/jobs", params.JobHandler.MountRoutes)
			}
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler lets browsers keep embedded assets for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
