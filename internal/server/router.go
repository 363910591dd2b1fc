package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/docqa/internal/api"
	"github.com/cloo-solutions/docqa/internal/api/handlers"
	"github.com/cloo-solutions/docqa/internal/api/middleware"
)

const (
	maxJSONBodyBytes int64 = 5 * 1024 * 1024
	// multipart framing on top of the file itself
	multipartOverhead int64 = 1024 * 1024
)

type RouterConfig struct {
	ChatHandler     *handlers.ChatHandler
	DocumentHandler *handlers.DocumentHandler
	UploadHandler   *handlers.UploadHandler
	SourcesHandler  *handlers.SourcesHandler
	AdminToken      string
	CORSOrigins     []string
	MaxUploadBytes  int64
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(middleware.ParseOrigins(cfg.CORSOrigins)))
	r.Use(middleware.Sentry)
	r.Use(middleware.AccessLog)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Error(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/", handlers.Root)
	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodyBytes(maxJSONBodyBytes))

			r.Post("/chat", cfg.ChatHandler.Ask)
			r.Post("/documents", cfg.DocumentHandler.Create)
			r.Get("/sources", cfg.SourcesHandler.List)
		})

		r.Group(func(r chi.Router) {
			uploadLimit := cfg.MaxUploadBytes
			if uploadLimit > 0 {
				uploadLimit += multipartOverhead
			}
			r.Use(middleware.MaxBodyBytes(uploadLimit))

			r.Post("/upload", cfg.UploadHandler.Upload)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminToken(cfg.AdminToken))

			r.Delete("/collection", cfg.DocumentHandler.ResetCollection)
		})
	})

	return r
}
