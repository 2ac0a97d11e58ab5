package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse(t *testing.T) {
	resp := ErrorResponse("bad request")

	assert.Equal(t, "bad request", resp.Message)
	assert.Equal(t, DocsURL, resp.Docs)
}

func TestSeriesNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Series INVALIDCODE not found.", SeriesNotFoundMessage("INVALIDCODE"))
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	body := ObservationsResponse{
		Terms:        DefaultTerms,
		SeriesDetail: map[string]SeriesDetail{"FXCADUSD": {Label: "CAD/USD"}},
		Observations: []map[string]any{{"d": "2024-01-02", "FXCADUSD": Value{V: "0.7510"}}},
	}

	WriteJSON(w, http.StatusOK, body)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var raw map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&raw))

	obs, ok := raw["observations"].([]any)
	require.True(t, ok)
	require.Len(t, obs, 1)
	first, ok := obs[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2024-01-02", first["d"])
	assert.Equal(t, map[string]any{"v": "0.7510"}, first["FXCADUSD"])
}

func TestErrorHelpersJSONStructure(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		msg    string
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, MsgBadDateFormat) }, http.StatusBadRequest, MsgBadDateFormat},
		{"not found", func(w http.ResponseWriter) { NotFound(w, SeriesNotFoundMessage("X")) }, http.StatusNotFound, "Series X not found."},
		{"internal", InternalError, http.StatusInternalServerError, MsgInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)

			var raw map[string]any
			require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&raw))
			assert.Equal(t, tt.msg, raw["message"])
			assert.Equal(t, DocsURL, raw["docs"])
			assert.NotContains(t, raw, "observations")
		})
	}
}
