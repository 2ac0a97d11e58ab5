// Package runner drives conformance cases against a Valet target: one request
// per unit, strictly sequential, each response evaluated by the check engine.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/leca/dt-valet/internal/check"
	"github.com/leca/dt-valet/internal/fixture"
	"github.com/leca/dt-valet/internal/valet"
)

// Dispatcher performs one observations request. Non-2xx statuses are
// responses, not errors.
//
//go:generate mockgen -package=runner_test -destination=mock_dispatcher_test.go -source=runner.go Dispatcher
type Dispatcher interface {
	Observations(ctx context.Context, q valet.Query) (*valet.Response, error)
}

// Kind classifies a failed unit.
type Kind string

const (
	KindNone      Kind = ""
	KindTransport Kind = "transport"
	KindFixture   Kind = "fixture"
	KindAssertion Kind = "assertion"
)

// Suite names used in outcomes and reports.
const (
	SuiteDataDriven = "data-driven"
	SuiteScenarios  = "scenarios"
)

// Outcome is the result of one test unit.
type Outcome struct {
	Suite string
	Name  string
	// Query is the request line, empty when no request was made.
	Query    string
	Kind     Kind
	Result   check.Result
	Err      error
	Duration time.Duration
}

// Passed reports whether the unit completed with every check holding.
func (o Outcome) Passed() bool { return o.Kind == KindNone }

// FixtureFailure is the outcome of a unit whose fixture could not be used.
func FixtureFailure(suite, name string, err error) Outcome {
	return Outcome{Suite: suite, Name: name, Kind: KindFixture, Err: err}
}

// Options configures a Runner.
type Options struct {
	Policy check.Policy
	Bounds check.BoundsTable
	// Timeout bounds each request; zero means none beyond ctx.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Runner executes units one after another.
type Runner struct {
	disp    Dispatcher
	engine  check.Engine
	bounds  check.BoundsTable
	timeout time.Duration
	log     *slog.Logger
}

// New creates a Runner dispatching through d.
func New(d Dispatcher, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		disp:    d,
		engine:  check.Engine{Policy: opts.Policy},
		bounds:  opts.Bounds,
		timeout: opts.Timeout,
		log:     logger,
	}
}

// RunCases runs the data-driven cases in order. A failing case never stops
// the ones after it.
func (r *Runner) RunCases(ctx context.Context, cases []fixture.TestCase) []Outcome {
	outcomes := make([]Outcome, 0, len(cases))
	for i, tc := range cases {
		name := tc.CurrencyPair
		r.log.Info("running case", "currencyPair", tc.CurrencyPair, "recentWeeks", tc.RecentWeeks, "statusCode", tc.StatusCode)

		if err := tc.Validate("", i); err != nil {
			outcomes = append(outcomes, r.logged(FixtureFailure(SuiteDataDriven, name, err)))
			continue
		}

		q := valet.Query{Series: tc.CurrencyPair, RecentWeeks: tc.RecentWeeks}
		exp := check.Expectation{
			Status:    tc.StatusCode,
			SeriesKey: tc.CurrencyPair,
			Bounds:    r.bounds.For(tc.CurrencyPair),
		}
		battery := []check.Check{check.Status}
		if isSuccess(tc.StatusCode) {
			battery = check.SuccessBattery()
		}
		o, _ := r.evaluate(ctx, SuiteDataDriven, name, q, exp, battery)
		outcomes = append(outcomes, o)
	}
	return outcomes
}

// evaluate dispatches q once and runs checks against the response. The
// subject is nil when the request did not complete.
func (r *Runner) evaluate(ctx context.Context, suite, name string, q valet.Query, exp check.Expectation, checks []check.Check) (Outcome, *check.Subject) {
	o := Outcome{Suite: suite, Name: name, Query: q.String()}
	started := time.Now()

	resp, err := r.dispatch(ctx, q)
	o.Duration = time.Since(started)
	if err != nil {
		o.Kind, o.Err = KindTransport, err
		return r.logged(o), nil
	}

	s := check.NewSubject(q, exp, resp)
	o.Result = r.engine.Evaluate(s, checks)
	if !o.Result.Passed() {
		o.Kind, o.Err = KindAssertion, o.Result.Err()
	}
	return r.logged(o), s
}

func (r *Runner) dispatch(ctx context.Context, q valet.Query) (*valet.Response, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	resp, err := r.disp.Observations(ctx, q)
	if err != nil {
		var te *valet.TransportError
		if !errors.As(err, &te) {
			err = &valet.TransportError{Op: "GET", URL: q.String(), Err: err}
		}
		return nil, err
	}
	return resp, nil
}

func (r *Runner) logged(o Outcome) Outcome {
	if o.Passed() {
		r.log.Info("unit passed", "suite", o.Suite, "name", o.Name, "query", o.Query, "elapsed", o.Duration)
		return o
	}
	r.log.Warn("unit failed", "suite", o.Suite, "name", o.Name, "query", o.Query, "kind", string(o.Kind), "error", o.Err)
	return o
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
