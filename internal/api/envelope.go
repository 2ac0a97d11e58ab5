package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// DocsURL is linked from every error body, as Valet does.
const DocsURL = "https://www.bankofcanada.ca/valet/docs"

// Terms is the terms-of-use block Valet prepends to successful responses.
type Terms struct {
	URL string `json:"url"`
}

// DefaultTerms points at the Bank of Canada terms of use.
var DefaultTerms = Terms{URL: "https://www.bankofcanada.ca/terms/"}

// ErrorBody is the Valet error response shape.
type ErrorBody struct {
	Message string `json:"message"`
	Docs    string `json:"docs"`
}

// ObservationsResponse is the body of GET /observations/{series}.
type ObservationsResponse struct {
	Terms        Terms                   `json:"terms"`
	SeriesDetail map[string]SeriesDetail `json:"seriesDetail"`
	Observations []map[string]any        `json:"observations"`
}

// SeriesResponse is the body of GET /series/{series}.
type SeriesResponse struct {
	Terms         Terms         `json:"terms"`
	SeriesDetails SeriesDetails `json:"seriesDetails"`
}

// SeriesDetail describes one series inside an observations response.
type SeriesDetail struct {
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Dimension   Dimension `json:"dimension"`
}

// SeriesDetails describes one series on the series endpoint.
type SeriesDetails struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Dimension names the index of a series.
type Dimension struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Value wraps an observation value the way Valet does: {"v": "1.2345"}.
type Value struct {
	V string `json:"v"`
}

// ErrorResponse builds a Valet error body.
func ErrorResponse(message string) ErrorBody {
	return ErrorBody{Message: message, Docs: DocsURL}
}

// WriteJSON serialises resp as JSON and writes it to w with the given HTTP status code.
func WriteJSON(w http.ResponseWriter, status int, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("WriteJSON: failed to encode response", "error", err)
	}
}
