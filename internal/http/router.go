package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"skustudio/internal/http/handlers"
	"skustudio/internal/infra"
	"skustudio/internal/middleware"
)

// NewRouter assembles the API surface. The /static file server exposes
// locally stored uploads so offline generation runs resolve to real URLs.
func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS([]string{"http://localhost:3000"}))

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/scenes", func(r chi.Router) {
		r.Post("/plan", app.PlanScene)
	})

	r.Route("/v1/generations", func(r chi.Router) {
		r.Post("/", app.Generate)
	})

	fileServer := stdhttp.FileServer(stdhttp.Dir(cfg.StoragePath))
	r.Handle("/static/*", stdhttp.StripPrefix("/static/", fileServer))

	return r
}
