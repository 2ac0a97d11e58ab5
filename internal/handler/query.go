package handler

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/leca/dt-valet/internal/api"
	"github.com/leca/dt-valet/internal/database"
	"github.com/leca/dt-valet/internal/model"
)

// queryError is a client error whose message is returned verbatim with a 400.
type queryError struct {
	msg string
}

func (e *queryError) Error() string { return e.msg }

// parseObservationQuery validates the observation query string the way
// Valet does and converts it into a model.ObservationQuery.
func parseObservationQuery(v url.Values) (model.ObservationQuery, error) {
	var q model.ObservationQuery

	recent := []struct {
		key string
		dst *int
	}{
		{"recent", &q.Recent},
		{"recent_days", &q.RecentDays},
		{"recent_weeks", &q.RecentWeeks},
		{"recent_months", &q.RecentMonths},
		{"recent_years", &q.RecentYears},
	}
	var recentCount int
	for _, r := range recent {
		raw := v.Get(r.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return q, &queryError{api.MsgBadRecent}
		}
		*r.dst = n
		recentCount++
	}
	if recentCount > 1 {
		return q, &queryError{api.MsgMultipleRecent}
	}

	var start, end time.Time
	if raw := v.Get("start_date"); raw != "" {
		t, err := time.Parse(database.DateLayout, raw)
		if err != nil {
			return q, &queryError{api.MsgBadDateFormat}
		}
		start, q.StartDate = t, raw
	}
	if raw := v.Get("end_date"); raw != "" {
		t, err := time.Parse(database.DateLayout, raw)
		if err != nil {
			return q, &queryError{api.MsgBadDateFormat}
		}
		end, q.EndDate = t, raw
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return q, &queryError{api.MsgInvalidDateRange}
	}
	if recentCount > 0 && (q.StartDate != "" || q.EndDate != "") {
		return q, &queryError{api.MsgMixedRecentParams}
	}

	switch strings.ToLower(v.Get("order_dir")) {
	case "", "asc":
	case "desc":
		q.Descending = true
	default:
		return q, &queryError{api.MsgBadOrderDir}
	}

	return q, nil
}

// splitSeriesNames splits a comma-separated series path segment.
func splitSeriesNames(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
