package database

import (
	"fmt"
	"math"
	"time"

	"github.com/leca/dt-valet/internal/model"
	"github.com/shopspring/decimal"
)

// Seed registers every series in catalog and fills it with one observation
// per business day in [start, end]. Values are deterministic so repeated
// requests and repeated seeds produce identical responses.
func Seed(db Database, catalog []model.Series, start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("seed: end %s before start %s", end.Format(DateLayout), start.Format(DateLayout))
	}

	days := BusinessDays(start, end)
	for i := range catalog {
		sr := catalog[i]
		if err := db.CreateSeries(&sr); err != nil {
			return fmt.Errorf("seed series %s: %w", sr.Name, err)
		}

		obs := make([]model.Observation, 0, len(days))
		for n, d := range days {
			obs = append(obs, model.Observation{
				Series: sr.Name,
				Date:   d.Format(DateLayout),
				Value:  SeedValue(sr.BaseRate, n),
			})
		}
		if err := db.InsertObservations(obs); err != nil {
			return fmt.Errorf("seed observations %s: %w", sr.Name, err)
		}
	}
	return nil
}

// SeedValue returns the n-th synthetic rate around base as a decimal literal.
func SeedValue(base float64, n int) string {
	x := float64(n)
	v := base * (1 + 0.04*math.Sin(x/37) + 0.01*math.Sin(x/5.3))
	places := int32(4)
	if base < 0.1 {
		places = 6
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// BusinessDays lists the weekdays in [start, end] that are not fixed-date
// statutory holidays (New Year's Day, Canada Day, Christmas Day).
func BusinessDays(start, end time.Time) []time.Time {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if isBusinessDay(d) {
			out = append(out, d)
		}
	}
	return out
}

func isBusinessDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	switch {
	case d.Month() == time.January && d.Day() == 1,
		d.Month() == time.July && d.Day() == 1,
		d.Month() == time.December && d.Day() == 25:
		return false
	}
	return true
}
