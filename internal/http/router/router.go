// Package router assembles the HTTP surface: the page, the JSON API, the
// health probe and the metrics endpoint.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aanand-mishra/student-manager/internal/http/handlers/student"
	"github.com/aanand-mishra/student-manager/internal/http/handlers/web"
	"github.com/aanand-mishra/student-manager/internal/storage"
	"github.com/aanand-mishra/student-manager/internal/utils/response"
)

// Deps are the pieces the routes are built from.
type Deps struct {
	Store          storage.Storage
	Page           *web.Handler
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	Logger         *slog.Logger
}

// New returns the application's root handler.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", Health(d.Store, d.Logger))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/students", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins: d.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		api.Get("/", student.GetList(d.Store))
		api.Post("/", student.New(d.Store))
		api.Put("/{id}", student.Update(d.Store))
		api.Delete("/{id}", student.Delete(d.Store))
	})

	d.Page.RegisterRoutes(r)

	return r
}

// Health runs the store's connectivity probe.
func Health(store storage.Storage, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := store.CountStudents(r.Context())
		if err != nil {
			logger.Warn("health check failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusServiceUnavailable, response.GeneralError(err))
			return
		}
		response.WriteJSON(w, http.StatusOK, map[string]any{
			"status":   response.StatusOK,
			"students": n,
		})
	}
}
