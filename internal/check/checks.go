package check

import (
	"github.com/leca/dt-valet/internal/stats"
)

// Check names, stable across releases; they appear in reports.
const (
	NameStatus            = "status"
	NameObservationsArray = "observations-array"
	NameSeriesDetail      = "series-detail"
	NameNoError           = "no-error"
	NameFirstDateString   = "first-date-string"
	NameCardinality       = "cardinality"
	NameValidValues       = "valid-values"
	NameAverageBounds     = "average-bounds"
	NameUniqueDates       = "unique-dates"
	NameErrorMessage      = "error-message"
	NameStartDate         = "start-date"
	NameEndDate           = "end-date"
	NameRecentCount       = "recent-count"
	NameIdempotent        = "idempotent"
)

// Check is one named invariant.
type Check struct {
	Name string
	Run  func(s *Subject) *Failure
}

// Status asserts the response status equals the expected one.
var Status = Check{NameStatus, func(s *Subject) *Failure {
	if s.Response.Status != s.Expect.Status {
		return fail(NameStatus, s.Expect.Status, s.Response.Status, "unexpected status code")
	}
	return nil
}}

// ObservationsArray asserts body.observations is an array with at least one element.
var ObservationsArray = Check{NameObservationsArray, func(s *Subject) *Failure {
	if f := s.needBody(NameObservationsArray); f != nil {
		return f
	}
	raw, ok := s.Response.Body["observations"]
	if !ok {
		return fail(NameObservationsArray, "array", "absent", "body has no observations property")
	}
	arr, ok := raw.([]any)
	if !ok {
		return fail(NameObservationsArray, "array", typeName(raw), "observations is not an array")
	}
	if len(arr) < 1 {
		return fail(NameObservationsArray, ">= 1", 0, "observations is empty")
	}
	return nil
}}

// SeriesDetail asserts body.seriesDetail is present and not empty.
var SeriesDetail = Check{NameSeriesDetail, func(s *Subject) *Failure {
	if f := s.needBody(NameSeriesDetail); f != nil {
		return f
	}
	raw, ok := s.Response.Body["seriesDetail"]
	if !ok {
		return fail(NameSeriesDetail, "non-empty", "absent", "body has no seriesDetail property")
	}
	if isEmpty(raw) {
		return fail(NameSeriesDetail, "non-empty", raw, "seriesDetail is empty")
	}
	return nil
}}

// NoError asserts the body has no error property.
var NoError = Check{NameNoError, func(s *Subject) *Failure {
	if f := s.needBody(NameNoError); f != nil {
		return f
	}
	if v, ok := s.Response.Body["error"]; ok {
		return fail(NameNoError, "absent", v, "body has an error property")
	}
	return nil
}}

// FirstDateString asserts the first observation has a string-typed d.
var FirstDateString = Check{NameFirstDateString, func(s *Subject) *Failure {
	obs := s.Response.Observations
	if len(obs) == 0 {
		return fail(NameFirstDateString, "string d", "no observations", "there is no first observation")
	}
	if !obs[0].DateOK {
		return fail(NameFirstDateString, "string", "missing or non-string", "first observation d is not a string")
	}
	return nil
}}

// Cardinality asserts every observation contributed exactly one value slot.
var Cardinality = Check{NameCardinality, func(s *Subject) *Failure {
	if got, want := len(s.Summary.Values), len(s.Response.Observations); got != want {
		return fail(NameCardinality, want, got, "value count differs from observation count")
	}
	return nil
}}

// ValidValues asserts at least one value parsed as a number.
var ValidValues = Check{NameValidValues, func(s *Subject) *Failure {
	if s.Summary.Valid < 1 {
		return fail(NameValidValues, ">= 1", s.Summary.Valid, "no observation of %s has a numeric value", s.Expect.SeriesKey)
	}
	return nil
}}

// AverageBounds asserts the average is finite and strictly inside the bounds.
var AverageBounds = Check{NameAverageBounds, func(s *Subject) *Failure {
	b := s.Expect.Bounds
	if !s.Summary.HasAverage {
		return fail(NameAverageBounds, b.String(), "undefined", "average is undefined without valid values")
	}
	if !b.Contains(s.Summary.Average) {
		return fail(NameAverageBounds, b.String(), s.Summary.Average, "average outside bounds")
	}
	return nil
}}

// UniqueDates asserts no two observations share a d value.
var UniqueDates = Check{NameUniqueDates, func(s *Subject) *Failure {
	if dups := stats.Duplicates(stats.Dates(s.Response.Observations)); len(dups) > 0 {
		return fail(NameUniqueDates, "no duplicates", dups, "duplicate observation dates")
	}
	return nil
}}

// ErrorMessage asserts body.message equals the expected text exactly.
var ErrorMessage = Check{NameErrorMessage, func(s *Subject) *Failure {
	if f := s.needBody(NameErrorMessage); f != nil {
		return f
	}
	raw, ok := s.Response.Body["message"]
	if !ok {
		return fail(NameErrorMessage, s.Expect.Message, "absent", "body has no message property")
	}
	if raw != s.Expect.Message {
		return fail(NameErrorMessage, s.Expect.Message, raw, "unexpected error message")
	}
	return nil
}}

// StartDate asserts the first observation is dated on the requested start date.
var StartDate = Check{NameStartDate, func(s *Subject) *Failure {
	obs := s.Response.Observations
	if len(obs) == 0 {
		return fail(NameStartDate, s.Expect.StartDate, "no observations", "there is no first observation")
	}
	if obs[0].Date != s.Expect.StartDate {
		return fail(NameStartDate, s.Expect.StartDate, obs[0].Date, "first observation date")
	}
	return nil
}}

// EndDate asserts the last observation is dated on the requested end date.
var EndDate = Check{NameEndDate, func(s *Subject) *Failure {
	obs := s.Response.Observations
	if len(obs) == 0 {
		return fail(NameEndDate, s.Expect.EndDate, "no observations", "there is no last observation")
	}
	if last := obs[len(obs)-1]; last.Date != s.Expect.EndDate {
		return fail(NameEndDate, s.Expect.EndDate, last.Date, "last observation date")
	}
	return nil
}}

// RecentCount asserts exactly N observations came back for recent=N.
var RecentCount = Check{NameRecentCount, func(s *Subject) *Failure {
	if got := len(s.Response.Observations); got != s.Expect.Recent {
		return fail(NameRecentCount, s.Expect.Recent, got, "observation count")
	}
	return nil
}}

// Idempotent asserts a repeated request matches first in observation count
// and average.
func Idempotent(first *Subject) Check {
	return Check{NameIdempotent, func(s *Subject) *Failure {
		if got, want := len(s.Response.Observations), len(first.Response.Observations); got != want {
			return fail(NameIdempotent, want, got, "observation count changed between identical requests")
		}
		if s.Summary.HasAverage != first.Summary.HasAverage || s.Summary.Average != first.Summary.Average {
			return fail(NameIdempotent, first.Summary.Average, s.Summary.Average, "average changed between identical requests")
		}
		return nil
	}}
}

// SuccessBattery is run on every response expected to carry observations.
func SuccessBattery() []Check {
	return []Check{
		Status,
		ObservationsArray,
		SeriesDetail,
		NoError,
		FirstDateString,
		Cardinality,
		ValidValues,
		AverageBounds,
		UniqueDates,
	}
}

// ErrorBattery is run on responses expected to fail with a message.
func ErrorBattery() []Check {
	return []Check{Status, ErrorMessage}
}

// RangeBattery checks the window boundaries set on e.
func RangeBattery(e Expectation) []Check {
	checks := []Check{Status, ObservationsArray}
	if e.StartDate != "" {
		checks = append(checks, StartDate)
	}
	if e.EndDate != "" {
		checks = append(checks, EndDate)
	}
	if e.Recent > 0 {
		checks = append(checks, RecentCount)
	}
	return checks
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case string:
		return t == ""
	default:
		return false
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return "unknown"
	}
}
