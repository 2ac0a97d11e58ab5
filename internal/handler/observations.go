package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/leca/dt-valet/internal/api"
	"github.com/leca/dt-valet/internal/database"
	"github.com/leca/dt-valet/internal/model"
)

// GetObservations handles GET /observations/{series_names}.
// series_names is one series or a comma-separated list.
func (h *Handler) GetObservations(w http.ResponseWriter, r *http.Request) {
	names := splitSeriesNames(chi.URLParam(r, "series_names"))
	if len(names) == 0 {
		api.BadRequest(w, "series name is required")
		return
	}

	q, err := parseObservationQuery(r.URL.Query())
	if err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	resp := api.ObservationsResponse{
		Terms:        api.DefaultTerms,
		SeriesDetail: make(map[string]api.SeriesDetail, len(names)),
		Observations: []map[string]any{},
	}

	byDate := make(map[string]map[string]any)
	for _, name := range names {
		sr, err := h.DB.GetSeries(name)
		if errors.Is(err, database.ErrNotFound) {
			api.NotFound(w, api.SeriesNotFoundMessage(name))
			return
		}
		if err != nil {
			slog.Error("GetObservations: get series", "series", name, "error", err,
				"request_id", api.GetRequestID(r.Context()))
			api.InternalError(w)
			return
		}
		resp.SeriesDetail[sr.Name] = seriesDetail(sr)

		obs, err := h.DB.ListObservations(sr.Name, q)
		if err != nil {
			slog.Error("GetObservations: list observations", "series", name, "error", err,
				"request_id", api.GetRequestID(r.Context()))
			api.InternalError(w)
			return
		}
		for _, o := range obs {
			row, ok := byDate[o.Date]
			if !ok {
				row = map[string]any{"d": o.Date}
				byDate[o.Date] = row
			}
			row[o.Series] = api.Value{V: o.Value}
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	if q.Descending {
		sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	} else {
		sort.Strings(dates)
	}
	for _, d := range dates {
		resp.Observations = append(resp.Observations, byDate[d])
	}

	api.WriteJSON(w, http.StatusOK, resp)
}

func seriesDetail(sr *model.Series) api.SeriesDetail {
	return api.SeriesDetail{
		Label:       sr.Label,
		Description: sr.Description,
		Dimension:   api.Dimension{Key: sr.Dimension.Key, Name: sr.Dimension.Name},
	}
}
