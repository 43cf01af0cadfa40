package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"meetingnotes/internal/handlers"
	"meetingnotes/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	CatalogService service.CatalogService
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.CatalogService))
		r.Method(http.MethodGet, "/years", handlers.NewYearsHandler(deps.CatalogService))
		r.Method(http.MethodGet, "/years/{year}", handlers.NewYearIndexHandler(deps.CatalogService))
		r.Method(http.MethodGet, "/years/{year}/index.md", handlers.NewYearMarkdownHandler(deps.CatalogService))
		r.Method(http.MethodGet, "/documents/{date}", handlers.NewDocumentHandler(deps.CatalogService))
		r.Method(http.MethodGet, "/check", handlers.NewCheckHandler(deps.CatalogService))
		r.Method(http.MethodGet, "/stats", handlers.NewStatsHandler(deps.CatalogService))
		r.Method(http.MethodPost, "/index", handlers.NewIndexHandler(deps.CatalogService))
	})

	return r
}
