package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"sosmate-service/internal/config"
	convHnd "sosmate-service/internal/convert/handler"
	"sosmate-service/internal/middleware"
	"sosmate-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)

	h := convHnd.New(cfg, logger)
	r.Post("/sheets", h.Sheets())
	r.Post("/master", h.Master())
	r.Post("/convert", h.Convert())
	r.Post("/reconcile", h.Reconcile())
	r.Post("/export", h.Export())
	r.Get("/cache", h.CacheInfo())

	return r
}
