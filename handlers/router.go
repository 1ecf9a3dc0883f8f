package handlers

import (
	"net/http"

	"github.com/ferreirogomes/propfolio/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// MaxBodyBytes limita o corpo das requisições.
const MaxBodyBytes = 1 << 20

// RouterConfig reúne o que o roteador precisa além dos handlers.
type RouterConfig struct {
	Logger      logging.Logger
	CORSOrigins []string
}

// NewRouter monta as rotas da API.
func NewRouter(cfg RouterConfig, properties *PropertyHandler, dashboard *DashboardHandler, health *HealthHandler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	r := chi.NewRouter()
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", traceIDHeader},
		ExposedHeaders: []string{traceIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestSize(MaxBodyBytes))

	r.Get("/healthz", health.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Route("/properties", func(r chi.Router) {
			r.Get("/", handle(properties.ListProperties))
			r.Post("/", handle(properties.CreateProperty))
			r.Get("/{id}", handle(properties.GetProperty))
			r.Put("/{id}", handle(properties.UpdateProperty))
			r.Delete("/{id}", handle(properties.DeleteProperty))
		})

		r.Route("/admin/dashboard", func(r chi.Router) {
			r.Get("/metrics", handle(dashboard.Metrics))
			r.Get("/distribution/type", handle(dashboard.TypeDistribution))
		})
	})

	return r
}
