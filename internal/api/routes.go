package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func SetupRoutes(handler *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	for _, middleware := range SetupMiddleware() {
		r.Use(middleware)
	}

	// JSON content type (the image route overrides it per response)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// Health check endpoint
	r.Get("/health", handler.HealthCheck)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/maps", func(r chi.Router) {
			r.Post("/", handler.CreateMap)
			r.Get("/", handler.ListMaps)
			r.Get("/{mapId}", handler.GetMap)
			r.Get("/{mapId}/image.png", handler.GetMapImage)
		})

		r.Get("/noise/{seed}/sample", handler.SampleNoise)
	})

	return r
}
