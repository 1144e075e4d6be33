package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *Service, extrasDir string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)
	eh := NewExtrasHandler(extrasDir)

	r := chi.NewRouter()

	r.Get("/projects", h.ListProjects)
	r.Get("/years", h.Years)
	r.Get("/paths", h.Paths)
	r.Get("/templates", h.Templates)

	r.Get("/extras/{filename}", eh.ServeFile)
	r.Post("/extras", eh.Upload)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
