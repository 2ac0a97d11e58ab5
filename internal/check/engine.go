// Package check evaluates ordered batteries of invariants against a Valet
// response and the statistic derived from it.
package check

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leca/dt-valet/internal/stats"
	"github.com/leca/dt-valet/internal/valet"
)

// Expectation is what one request is expected to produce.
type Expectation struct {
	Status int
	// SeriesKey indexes each observation when extracting values.
	SeriesKey string
	// Message is the exact body.message of an expected error.
	Message   string
	StartDate string
	EndDate   string
	Recent    int
	Bounds    Bounds
}

// Subject is everything a check may look at. It is read-only for checks.
type Subject struct {
	Query    valet.Query
	Expect   Expectation
	Response *valet.Response
	Summary  stats.Summary
}

// NewSubject derives the value summary for exp.SeriesKey from resp.
// Zero bounds are replaced by DefaultBounds.
func NewSubject(q valet.Query, exp Expectation, resp *valet.Response) *Subject {
	if exp.Bounds == (Bounds{}) {
		exp.Bounds = DefaultBounds
	}
	s := &Subject{Query: q, Expect: exp, Response: resp}
	if exp.SeriesKey != "" {
		s.Summary = stats.Summarize(resp.Observations, exp.SeriesKey)
	}
	return s
}

func (s *Subject) needBody(check string) *Failure {
	if s.Response.Body == nil {
		return fail(check, "JSON object body", "undecodable body", "%v", s.Response.DecodeErr)
	}
	return nil
}

// Policy decides whether evaluation stops at the first failure.
type Policy int

const (
	// CollectAll evaluates every check and reports every failure.
	CollectAll Policy = iota
	// FailFast stops at the first failing check.
	FailFast
)

// ParsePolicy accepts "collect-all" and "fail-fast".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "collect-all":
		return CollectAll, nil
	case "fail-fast":
		return FailFast, nil
	default:
		return CollectAll, fmt.Errorf("unknown policy %q (want collect-all or fail-fast)", s)
	}
}

func (p Policy) String() string {
	if p == FailFast {
		return "fail-fast"
	}
	return "collect-all"
}

// Outcome is the result of one check.
type Outcome struct {
	Check   string
	Failure *Failure
	// Skipped is set for checks not run because an earlier one failed under FailFast.
	Skipped bool
}

// Passed reports whether the check ran and held.
func (o Outcome) Passed() bool { return !o.Skipped && o.Failure == nil }

// Result is the evaluation of one battery.
type Result struct {
	Outcomes []Outcome
	Failures []*Failure
}

// Passed reports whether no check failed.
func (r Result) Passed() bool { return len(r.Failures) == 0 }

// Err joins every failure, or returns nil.
func (r Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Engine evaluates batteries under a policy.
type Engine struct {
	Policy Policy
}

// Evaluate runs checks in order against s.
func (e Engine) Evaluate(s *Subject, checks []Check) Result {
	var r Result
	stopped := false
	for _, c := range checks {
		if stopped {
			r.Outcomes = append(r.Outcomes, Outcome{Check: c.Name, Skipped: true})
			continue
		}
		f := c.Run(s)
		r.Outcomes = append(r.Outcomes, Outcome{Check: c.Name, Failure: f})
		if f != nil {
			r.Failures = append(r.Failures, f)
			stopped = e.Policy == FailFast
		}
	}
	return r
}
