package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leca/dt-valet/internal/api"
	"github.com/leca/dt-valet/internal/database"
)

// GetSeries handles GET /series/{series_name}.
func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "series_name")

	sr, err := h.DB.GetSeries(name)
	if errors.Is(err, database.ErrNotFound) {
		api.NotFound(w, api.SeriesNotFoundMessage(name))
		return
	}
	if err != nil {
		slog.Error("GetSeries: get series", "series", name, "error", err)
		api.InternalError(w)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.SeriesResponse{
		Terms: api.DefaultTerms,
		SeriesDetails: api.SeriesDetails{
			Name:        sr.Name,
			Label:       sr.Label,
			Description: sr.Description,
		},
	})
}

// ListSeries handles GET /lists/series.
func (h *Handler) ListSeries(w http.ResponseWriter, r *http.Request) {
	all, err := h.DB.ListSeries()
	if err != nil {
		slog.Error("ListSeries: list series", "error", err)
		api.InternalError(w)
		return
	}

	series := make(map[string]api.SeriesDetail, len(all))
	for _, sr := range all {
		series[sr.Name] = seriesDetail(sr)
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"terms":  api.DefaultTerms,
		"series": series,
	})
}
