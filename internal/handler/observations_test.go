package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leca/dt-valet/internal/api"
	"github.com/leca/dt-valet/internal/config"
	"github.com/leca/dt-valet/internal/database"
	"github.com/leca/dt-valet/internal/model"
	"github.com/leca/dt-valet/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer creates a test HTTP server backed by in-memory SQLite seeded
// with the default catalogue for Q1 2024.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := database.NewSQLiteDB("file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC)
	require.NoError(t, database.Seed(db, model.DefaultCatalog(), start, end))

	srv := router.New(db, &config.Config{Quiet: true})
	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw), "body: %s", data)
	return resp.StatusCode, raw
}

func observations(t *testing.T, raw map[string]any) []map[string]any {
	t.Helper()
	arr, ok := raw["observations"].([]any)
	require.True(t, ok, "observations should be an array, got %T", raw["observations"])
	out := make([]map[string]any, 0, len(arr))
	for _, o := range arr {
		obj, ok := o.(map[string]any)
		require.True(t, ok)
		out = append(out, obj)
	}
	return out
}

func TestGetObservations_RecentWeeks(t *testing.T) {
	ts := testServer(t)

	status, raw := getJSON(t, ts.URL+"/observations/FXCADUSD?recent_weeks=4")
	assert.Equal(t, http.StatusOK, status)

	obs := observations(t, raw)
	require.Len(t, obs, 20)
	assert.Equal(t, "2024-03-29", obs[len(obs)-1]["d"])

	value, ok := obs[0]["FXCADUSD"].(map[string]any)
	require.True(t, ok)
	assert.IsType(t, "", value["v"])

	detail, ok := raw["seriesDetail"].(map[string]any)
	require.True(t, ok)
	fx, ok := detail["FXCADUSD"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "CAD/USD", fx["label"])
	assert.NotContains(t, raw, "error")
}

func TestGetObservations_JSONSuffix(t *testing.T) {
	ts := testServer(t)

	status, raw := getJSON(t, ts.URL+"/observations/FXCADUSD/json?recent=3")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, observations(t, raw), 3)
}

func TestGetObservations_Recent(t *testing.T) {
	ts := testServer(t)

	status, raw := getJSON(t, ts.URL+"/observations/FXCADUSD?recent=5")
	assert.Equal(t, http.StatusOK, status)

	obs := observations(t, raw)
	require.Len(t, obs, 5)
	assert.Equal(t, "2024-03-25", obs[0]["d"])
	assert.Equal(t, "2024-03-29", obs[4]["d"])
}

func TestGetObservations_OrderDesc(t *testing.T) {
	ts := testServer(t)

	status, raw := getJSON(t, ts.URL+"/observations/FXCADUSD?recent=5&order_dir=desc")
	assert.Equal(t, http.StatusOK, status)

	obs := observations(t, raw)
	require.Len(t, obs, 5)
	assert.Equal(t, "2024-03-29", obs[0]["d"])
}

func TestGetObservations_DateRange(t *testing.T) {
	ts := testServer(t)

	status, raw := getJSON(t, ts.URL+"/observations/FXCADUSD?start_date=2024-01-02&end_date=2024-02-01")
	assert.Equal(t, http.StatusOK, status)

	obs := observations(t, raw)
	require.NotEmpty(t, obs)
	assert.Equal(t, "2024-01-02", obs[0]["d"])
	assert.Equal(t, "2024-02-01", obs[len(obs)-1]["d"])
}

func TestGetObservations_MultipleSeries(t *testing.T) {
	ts := testServer(t)

	status, raw := getJSON(t, ts.URL+"/observations/FXCADUSD,FXUSDCAD?recent=2")
	assert.Equal(t, http.StatusOK, status)

	obs := observations(t, raw)
	require.Len(t, obs, 2)
	for _, o := range obs {
		assert.Contains(t, o, "FXCADUSD")
		assert.Contains(t, o, "FXUSDCAD")
	}

	detail, ok := raw["seriesDetail"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, detail, 2)
}

func TestGetObservations_Errors(t *testing.T) {
	ts := testServer(t)

	tests := []struct {
		name   string
		path   string
		status int
		msg    string
	}{
		{"unknown series", "/observations/INVALIDCODE?recent_weeks=4", http.StatusNotFound, "Series INVALIDCODE not found."},
		{"unknown series in list", "/observations/FXCADUSD,NOPE?recent=1", http.StatusNotFound, "Series NOPE not found."},
		{"reversed range", "/observations/FXCADUSD?start_date=2024-02-01&end_date=2024-01-02", http.StatusBadRequest, api.MsgInvalidDateRange},
		{"bad start date", "/observations/FXCADUSD?start_date=2024/01/01", http.StatusBadRequest, api.MsgBadDateFormat},
		{"bad end date", "/observations/FXCADUSD?end_date=01-02-2024", http.StatusBadRequest, api.MsgBadDateFormat},
		{"non-numeric recent", "/observations/FXCADUSD?recent=five", http.StatusBadRequest, api.MsgBadRecent},
		{"zero recent weeks", "/observations/FXCADUSD?recent_weeks=0", http.StatusBadRequest, api.MsgBadRecent},
		{"two recent params", "/observations/FXCADUSD?recent=5&recent_weeks=2", http.StatusBadRequest, api.MsgMultipleRecent},
		{"recent with dates", "/observations/FXCADUSD?recent=5&start_date=2024-01-02", http.StatusBadRequest, api.MsgMixedRecentParams},
		{"bad order", "/observations/FXCADUSD?order_dir=sideways", http.StatusBadRequest, api.MsgBadOrderDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := getJSON(t, ts.URL+tt.path)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, raw["message"])
			assert.NotContains(t, raw, "observations")
		})
	}
}

func TestGetObservations_Idempotent(t *testing.T) {
	ts := testServer(t)

	_, first := getJSON(t, ts.URL+"/observations/FXCADAUD?recent_weeks=8")
	_, second := getJSON(t, ts.URL+"/observations/FXCADAUD?recent_weeks=8")
	assert.Equal(t, first, second)
}

func TestGetSeries(t *testing.T) {
	ts := testServer(t)

	status, raw := getJSON(t, ts.URL+"/series/FXUSDCAD")
	assert.Equal(t, http.StatusOK, status)

	details, ok := raw["seriesDetails"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "FXUSDCAD", details["name"])
	assert.Equal(t, "USD/CAD", details["label"])

	status, raw = getJSON(t, ts.URL+"/series/INVALIDCODE")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Series INVALIDCODE not found.", raw["message"])
}

func TestListSeries(t *testing.T) {
	ts := testServer(t)

	status, raw := getJSON(t, ts.URL+"/lists/series")
	assert.Equal(t, http.StatusOK, status)

	series, ok := raw["series"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, series, len(model.DefaultCatalog()))
	assert.Contains(t, series, "FXCADJPY")
}

func TestHealthAndUnknownRoute(t *testing.T) {
	ts := testServer(t)

	status, raw := getJSON(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", raw["status"])

	status, raw = getJSON(t, ts.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, raw, "message")
}

func TestPostIsRejected(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/observations/FXCADUSD", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
