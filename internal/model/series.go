package model

// Series describes one Valet time series, e.g. a currency pair.
type Series struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Dimension   Dimension `json:"dimension"`
	// BaseRate is the centre the twin seeds observations around.
	BaseRate float64 `json:"-"`
}

// Dimension names the index of a series; for FX series it is always the date.
type Dimension struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// DateDimension is the dimension shared by every daily series.
var DateDimension = Dimension{Key: "d", Name: "date"}

// Observation is a single dated value of one series.
type Observation struct {
	Series string
	Date   string // YYYY-MM-DD
	Value  string // decimal literal as published
}

// ObservationQuery selects observations of a series.
// Zero values mean "unbounded"; at most one Recent* field is set.
type ObservationQuery struct {
	StartDate    string
	EndDate      string
	Recent       int
	RecentDays   int
	RecentWeeks  int
	RecentMonths int
	RecentYears  int
	Descending   bool
}
