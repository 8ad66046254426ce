package router

import (
	"auctiondesk-api/internal/handler"
	"auctiondesk-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler        *handler.Handler
	ListingHandler *handler.ListingHandler
	RelayHandler   *handler.RelayHandler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	// The relay exists so browser clients can ingest cross-origin
	// pages; the API itself is equally open.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		if cfg.RelayHandler != nil {
			r.Get("/fetch", cfg.RelayHandler.Fetch)
		}

		if cfg.ListingHandler != nil {
			r.Route("/listings", func(r chi.Router) {
				r.Get("/", cfg.ListingHandler.List)
				r.Post("/", cfg.ListingHandler.Ingest)
				r.Post("/reload", cfg.ListingHandler.Reload)
				r.Route("/{document_id}", func(r chi.Router) {
					r.Get("/", cfg.ListingHandler.Get)
					r.Patch("/", cfg.ListingHandler.PatchFields)
					r.Delete("/", cfg.ListingHandler.Delete)
					r.Post("/status/cycle", cfg.ListingHandler.CycleStatus)
					r.Post("/images/{slot}", cfg.ListingHandler.UploadImage)
				})
			})
		}
	})

	return r
}
