package runner

import (
	"context"
	"fmt"
	"net/http"

	"github.com/leca/dt-valet/internal/check"
	"github.com/leca/dt-valet/internal/fixture"
	"github.com/leca/dt-valet/internal/valet"
)

// Scenario names, in run order.
const (
	ScenarioAverageRate       = "average rate over recent weeks"
	ScenarioUniqueDates       = "unique dates"
	ScenarioInvalidCurrency   = "invalid currency code"
	ScenarioInvalidDateRange  = "invalid date range"
	ScenarioStartDate         = "valid start date"
	ScenarioEndDate           = "valid end date"
	ScenarioDateRange         = "valid date range"
	ScenarioInvalidDateFormat = "invalid date format"
	ScenarioRecent            = "most recent observations"
	ScenarioIdempotent        = "idempotent repeat"
)

// ScenarioNames lists every scenario RunScenarios runs.
var ScenarioNames = []string{
	ScenarioAverageRate,
	ScenarioUniqueDates,
	ScenarioInvalidCurrency,
	ScenarioInvalidDateRange,
	ScenarioStartDate,
	ScenarioEndDate,
	ScenarioDateRange,
	ScenarioInvalidDateFormat,
	ScenarioRecent,
	ScenarioIdempotent,
}

type scenario struct {
	name   string
	query  valet.Query
	expect check.Expectation
	checks []check.Check
	// needs names the fixture fields this scenario uses beyond the pair and window.
	needs []string
}

// RunScenarios runs the named scenarios parameterised by sc. Without a
// usable pair and window every scenario fails as a fixture error; a field
// only some scenarios use fails just those scenarios. Neither makes a request.
func (r *Runner) RunScenarios(ctx context.Context, sc *fixture.Scenario) []Outcome {
	var err error
	if sc == nil {
		err = &fixture.Error{Path: "scenario", Err: fixture.ErrMissing}
	} else {
		err = sc.Validate("scenario")
	}
	if err != nil {
		r.log.Error("scenario fixture unusable", "error", err)
		return ScenarioFixtureFailures(err)
	}

	outcomes := make([]Outcome, 0, len(ScenarioNames))
	for _, s := range buildScenarios(sc, r.bounds) {
		if err := sc.Require("scenario", s.needs...); err != nil {
			outcomes = append(outcomes, r.logged(FixtureFailure(SuiteScenarios, s.name, err)))
			continue
		}
		r.log.Info("running scenario", "name", s.name, "currencyPair", s.query.Series, "query", s.query.String())
		o, _ := r.evaluate(ctx, SuiteScenarios, s.name, s.query, s.expect, s.checks)
		outcomes = append(outcomes, o)
	}
	outcomes = append(outcomes, r.runIdempotent(ctx, sc))
	return outcomes
}

func buildScenarios(sc *fixture.Scenario, bounds check.BoundsTable) []scenario {
	pair := sc.CurrencyPair
	recent := sc.Recent
	if recent == 0 {
		recent = fixture.DefaultRecent
	}
	invalid := sc.InvalidCurrencyCode
	if invalid == "" {
		invalid = fixture.DefaultInvalidCurrencyCode
	}
	weeks := valet.Query{Series: pair, RecentWeeks: sc.RecentWeeks}
	ok := check.Expectation{Status: http.StatusOK, SeriesKey: pair, Bounds: bounds.For(pair)}

	startOnly := check.Expectation{Status: http.StatusOK, StartDate: sc.StartDate}
	endOnly := check.Expectation{Status: http.StatusOK, EndDate: sc.EndDate}
	both := check.Expectation{Status: http.StatusOK, StartDate: sc.StartDate, EndDate: sc.EndDate}
	last := check.Expectation{Status: http.StatusOK, Recent: recent}

	return []scenario{
		{name: ScenarioAverageRate, query: weeks, expect: ok, checks: check.SuccessBattery()},
		{
			name:   ScenarioUniqueDates,
			query:  weeks,
			expect: ok,
			checks: []check.Check{check.Status, check.ObservationsArray, check.UniqueDates},
		},
		{
			name:   ScenarioInvalidCurrency,
			query:  valet.Query{Series: invalid, RecentWeeks: sc.RecentWeeks},
			expect: check.Expectation{Status: http.StatusNotFound, Message: fmt.Sprintf("Series %s not found.", invalid)},
			checks: check.ErrorBattery(),
		},
		{
			// Start and end are swapped on purpose.
			name:   ScenarioInvalidDateRange,
			query:  valet.Query{Series: pair, StartDate: sc.EndDate, EndDate: sc.StartDate},
			expect: check.Expectation{Status: http.StatusBadRequest, Message: sc.InvalidDateRangeErrorMessage},
			checks: check.ErrorBattery(),
			needs:  []string{fixture.FieldStartDate, fixture.FieldEndDate, fixture.FieldInvalidDateRangeErrorMessage},
		},
		{
			name:   ScenarioStartDate,
			query:  valet.Query{Series: pair, StartDate: sc.StartDate},
			expect: startOnly,
			checks: check.RangeBattery(startOnly),
			needs:  []string{fixture.FieldStartDate},
		},
		{
			name:   ScenarioEndDate,
			query:  valet.Query{Series: pair, EndDate: sc.EndDate},
			expect: endOnly,
			checks: check.RangeBattery(endOnly),
			needs:  []string{fixture.FieldEndDate},
		},
		{
			name:   ScenarioDateRange,
			query:  valet.Query{Series: pair, StartDate: sc.StartDate, EndDate: sc.EndDate},
			expect: both,
			checks: check.RangeBattery(both),
			needs:  []string{fixture.FieldStartDate, fixture.FieldEndDate},
		},
		{
			name:   ScenarioInvalidDateFormat,
			query:  valet.Query{Series: pair, StartDate: sc.InvalidDateFormat},
			expect: check.Expectation{Status: http.StatusBadRequest, Message: sc.InvalidDateFormatErrorMessage},
			checks: check.ErrorBattery(),
			needs:  []string{fixture.FieldInvalidDateFormat, fixture.FieldInvalidDateFormatErrorMessage},
		},
		{name: ScenarioRecent, query: valet.Query{Series: pair, Recent: recent}, expect: last, checks: check.RangeBattery(last)},
	}
}

// runIdempotent issues the recent-weeks request twice and compares the
// observation count and average of the two responses.
func (r *Runner) runIdempotent(ctx context.Context, sc *fixture.Scenario) Outcome {
	q := valet.Query{Series: sc.CurrencyPair, RecentWeeks: sc.RecentWeeks}
	exp := check.Expectation{Status: http.StatusOK, SeriesKey: sc.CurrencyPair, Bounds: r.bounds.For(sc.CurrencyPair)}
	r.log.Info("running scenario", "name", ScenarioIdempotent, "currencyPair", sc.CurrencyPair, "query", q.String())

	first, subject := r.evaluate(ctx, SuiteScenarios, ScenarioIdempotent, q, exp, []check.Check{check.Status, check.ValidValues})
	if !first.Passed() {
		return first
	}
	o, _ := r.evaluate(ctx, SuiteScenarios, ScenarioIdempotent, q, exp, []check.Check{check.Status, check.Idempotent(subject)})
	o.Duration += first.Duration
	return o
}

// ScenarioFixtureFailures fails every scenario with err, the reason the
// scenario fixture could not be loaded at all.
func ScenarioFixtureFailures(err error) []Outcome {
	out := make([]Outcome, 0, len(ScenarioNames))
	for _, name := range ScenarioNames {
		out = append(out, FixtureFailure(SuiteScenarios, name, err))
	}
	return out
}
