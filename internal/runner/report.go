package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leca/dt-valet/internal/check"
)

// Report aggregates the outcomes of one run.
type Report struct {
	RunID      string        `json:"runId"`
	Target     string        `json:"target"`
	Policy     string        `json:"policy"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Units      []UnitReport  `json:"units"`
	Summary    ReportSummary `json:"summary"`
}

// UnitReport is one unit's line in a report.
type UnitReport struct {
	Suite      string        `json:"suite"`
	Name       string        `json:"name"`
	Query      string        `json:"query,omitempty"`
	Passed     bool          `json:"passed"`
	Kind       string        `json:"kind,omitempty"`
	Error      string        `json:"error,omitempty"`
	DurationMS int64         `json:"durationMs"`
	Checks     []CheckReport `json:"checks,omitempty"`
}

// CheckReport is one check's result within a unit.
type CheckReport struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Expected any    `json:"expected,omitempty"`
	Actual   any    `json:"actual,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ReportSummary counts units by result.
type ReportSummary struct {
	Total     int `json:"total"`
	Passed    int `json:"passed"`
	Failed    int `json:"failed"`
	Transport int `json:"transport"`
	Fixture   int `json:"fixture"`
	Assertion int `json:"assertion"`
}

// NewReport starts a report for a run against target.
func NewReport(target string, policy check.Policy) *Report {
	return &Report{
		RunID:     uuid.New().String(),
		Target:    target,
		Policy:    policy.String(),
		StartedAt: time.Now().UTC(),
	}
}

// Add records outcomes in order.
func (r *Report) Add(outcomes ...Outcome) {
	for _, o := range outcomes {
		u := UnitReport{
			Suite:      o.Suite,
			Name:       o.Name,
			Query:      o.Query,
			Passed:     o.Passed(),
			Kind:       string(o.Kind),
			DurationMS: o.Duration.Milliseconds(),
		}
		// Assertion failures are listed per check below.
		if o.Err != nil && o.Kind != KindAssertion {
			u.Error = o.Err.Error()
		}
		for _, c := range o.Result.Outcomes {
			u.Checks = append(u.Checks, checkReport(c))
		}
		r.Units = append(r.Units, u)

		r.Summary.Total++
		switch o.Kind {
		case KindNone:
			r.Summary.Passed++
		case KindTransport:
			r.Summary.Transport++
		case KindFixture:
			r.Summary.Fixture++
		case KindAssertion:
			r.Summary.Assertion++
		}
	}
	r.Summary.Failed = r.Summary.Total - r.Summary.Passed
}

func checkReport(c check.Outcome) CheckReport {
	switch {
	case c.Skipped:
		return CheckReport{Name: c.Check, Status: "skipped"}
	case c.Failure != nil:
		return CheckReport{
			Name:     c.Check,
			Status:   "fail",
			Expected: jsonValue(c.Failure.Expected),
			Actual:   jsonValue(c.Failure.Actual),
			Message:  c.Failure.Message,
		}
	default:
		return CheckReport{Name: c.Check, Status: "pass"}
	}
}

// jsonValue renders NaN and infinities as strings; JSON has no literal for them.
func jsonValue(v any) any {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	default:
		return v
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return v
}

// Finish stamps the end time.
func (r *Report) Finish() {
	r.FinishedAt = time.Now().UTC()
}

// Passed reports whether every unit passed.
func (r *Report) Passed() bool { return r.Summary.Failed == 0 }

// ExitCode is 0 when every unit passed and 1 otherwise.
func (r *Report) ExitCode() int {
	if r.Passed() {
		return 0
	}
	return 1
}

// WriteText renders a human-readable report.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Valet conformance run %s\n", r.RunID)
	fmt.Fprintf(&b, "target: %s  policy: %s\n\n", r.Target, r.Policy)

	suite := ""
	for _, u := range r.Units {
		if u.Suite != suite {
			suite = u.Suite
			fmt.Fprintf(&b, "%s\n", suite)
		}
		mark := "PASS"
		if !u.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(&b, "  %s  %s", mark, u.Name)
		if u.Query != "" {
			fmt.Fprintf(&b, "  %s", u.Query)
		}
		b.WriteString("\n")
		if u.Passed {
			continue
		}
		if u.Error != "" {
			fmt.Fprintf(&b, "        %s: %s\n", u.Kind, u.Error)
		}
		for _, c := range u.Checks {
			if c.Status != "fail" {
				continue
			}
			fmt.Fprintf(&b, "        %s: %s (expected %v, got %v)\n", c.Name, c.Message, c.Expected, c.Actual)
		}
	}

	s := r.Summary
	fmt.Fprintf(&b, "\n%d units, %d passed, %d failed (assertion %d, transport %d, fixture %d)\n",
		s.Total, s.Passed, s.Failed, s.Assertion, s.Transport, s.Fixture)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
