package handlers

import (
	"net/http"

	"art-gallery/internal/config"
	"art-gallery/internal/observability"
	"art-gallery/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	container *services.Container
	loader    *services.Loader
	config    *config.Config
	log       *observability.Logger
}

func New(container *services.Container) *Handler {
	return &Handler{
		container: container,
		loader:    container.Loader(),
		config:    container.Config(),
		log:       container.Logger(),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Use(observability.TracingMiddleware(observability.GetTracer()))
	if metrics, err := observability.NewHTTPMetrics(observability.GetMeter()); err == nil {
		r.Use(observability.MetricsMiddleware(metrics))
	}

	// Health probes
	r.Get("/healthz", h.healthzHandler)
	r.Get("/readyz", h.readyzHandler)

	// Web routes
	r.Get("/", h.indexHandler)
	r.Get("/gallery", h.galleryPageHandler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/artworks", func(r chi.Router) {
			r.Get("/", h.listArtworksHandler)
			r.Post("/refresh", h.refreshArtworksHandler)
			r.Get("/{filename}/view", h.viewArtworkHandler)
		})
		r.Get("/loadpasses", h.listLoadPassesHandler)
	})

	return r
}

func (h *Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/gallery", http.StatusFound)
}
