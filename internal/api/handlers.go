package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fennhauser/werkbank/internal/storage"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListProjects handles GET /projects.
//
// Query parameters: dir (working|all|archive|year, default working),
// year (required for archive and year), q (search term, repeatable).
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, _ := strconv.Atoi(q.Get("year"))
	dir, err := ParseDir(q.Get("dir"), year)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	terms := q["q"]

	items, err := h.svc.ListProjects(dir, terms)
	switch {
	case errors.Is(err, storage.ErrNothingFound):
		writeJSON(w, http.StatusNotFound, errorBody("nothing found"))
		return
	case errors.Is(err, storage.ErrBadChoice):
		writeJSON(w, http.StatusBadRequest, errorBody("unsupported dir"))
		return
	case err != nil:
		slog.Error("list projects failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"projects": items,
		"total":    len(items),
	})
}

// Years handles GET /years.
func (h *Handler) Years(w http.ResponseWriter, r *http.Request) {
	years, err := h.svc.Years()
	if err != nil {
		slog.Error("list years failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if years == nil {
		years = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": years})
}

// Paths handles GET /paths.
func (h *Handler) Paths(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Paths())
}

// Templates handles GET /templates.
func (h *Handler) Templates(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.TemplateNames()
	if err != nil {
		slog.Error("list templates failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": names})
}
