package valet

import (
	"net/url"
	"strconv"
)

// Query describes one GET /observations/{series} request. Date strings are
// sent verbatim so that malformed dates can be exercised.
type Query struct {
	Series       string
	Recent       int
	RecentDays   int
	RecentWeeks  int
	RecentMonths int
	RecentYears  int
	StartDate    string
	EndDate      string
	OrderDir     string
}

// Path returns the request path relative to the API base URL.
func (q Query) Path() string {
	return "/observations/" + url.PathEscape(q.Series)
}

// Values returns the query string parameters; zero fields are omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	setInt := func(key string, n int) {
		if n != 0 {
			v.Set(key, strconv.Itoa(n))
		}
	}
	setInt("recent", q.Recent)
	setInt("recent_days", q.RecentDays)
	setInt("recent_weeks", q.RecentWeeks)
	setInt("recent_months", q.RecentMonths)
	setInt("recent_years", q.RecentYears)
	if q.StartDate != "" {
		v.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("end_date", q.EndDate)
	}
	if q.OrderDir != "" {
		v.Set("order_dir", q.OrderDir)
	}
	return v
}

// String renders the path and query, e.g. "/observations/FXCADUSD?recent_weeks=4".
func (q Query) String() string {
	s := q.Path()
	if enc := q.Values().Encode(); enc != "" {
		s += "?" + enc
	}
	return s
}
