// Package fixture loads the JSON test data the conformance runner is driven by.
package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
)

// Defaults applied to optional scenario fields.
const (
	DefaultRecent              = 5
	DefaultInvalidCurrencyCode = "INVALIDCODE"
)

var (
	// ErrMissing is wrapped by Error when a required field is absent or zero.
	ErrMissing = errors.New("required field missing")
	// ErrInvalid is wrapped by Error when a field has an unusable value.
	ErrInvalid = errors.New("invalid value")

	seriesKey = regexp.MustCompile(`^[A-Z0-9_]+$`)
)

// Error reports a fixture that cannot be used. No request is made for it.
type Error struct {
	Path  string
	Field string
	Err   error
}

func (e *Error) Error() string {
	prefix := "fixture"
	if e.Path != "" {
		prefix += " " + e.Path
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", prefix, e.Field, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// TestCase is one parameterised data-driven case.
type TestCase struct {
	CurrencyPair string `json:"currencyPair"`
	RecentWeeks  int    `json:"recentWeeks"`
	StatusCode   int    `json:"statusCode"`
}

// Validate checks the case's fields. index names the case in errors.
func (tc TestCase) Validate(path string, index int) error {
	field := func(name string) string { return fmt.Sprintf("testCases[%d].%s", index, name) }
	switch {
	case tc.CurrencyPair == "":
		return &Error{Path: path, Field: field("currencyPair"), Err: ErrMissing}
	case !seriesKey.MatchString(tc.CurrencyPair):
		return &Error{Path: path, Field: field("currencyPair"), Err: fmt.Errorf("%w: %q is not a series key", ErrInvalid, tc.CurrencyPair)}
	case tc.RecentWeeks <= 0:
		return &Error{Path: path, Field: field("recentWeeks"), Err: fmt.Errorf("%w: must be a positive integer, got %d", ErrInvalid, tc.RecentWeeks)}
	case tc.StatusCode < 100 || tc.StatusCode > 599:
		return &Error{Path: path, Field: field("statusCode"), Err: fmt.Errorf("%w: %d is not an HTTP status", ErrInvalid, tc.StatusCode)}
	}
	return nil
}

// DataDriven is the {"testCases": [...]} fixture.
type DataDriven struct {
	TestCases []TestCase `json:"testCases"`
}

// Scenario is the flat fixture that parameterises the named scenarios.
type Scenario struct {
	CurrencyPair                  string `json:"currencyPair"`
	RecentWeeks                   int    `json:"recentWeeks"`
	StartDate                     string `json:"startDate"`
	EndDate                       string `json:"endDate"`
	InvalidDateRangeErrorMessage  string `json:"invalidDateRangeErrorMessage"`
	InvalidDateFormat             string `json:"invalidDateFormat"`
	InvalidDateFormatErrorMessage string `json:"invalidDateFormatErrorMessage"`
	Recent                        int    `json:"recent,omitempty"`
	InvalidCurrencyCode           string `json:"invalidCurrencyCode,omitempty"`
}

// Scenario field names, as they appear in the fixture.
const (
	FieldStartDate                     = "startDate"
	FieldEndDate                       = "endDate"
	FieldInvalidDateRangeErrorMessage  = "invalidDateRangeErrorMessage"
	FieldInvalidDateFormat             = "invalidDateFormat"
	FieldInvalidDateFormatErrorMessage = "invalidDateFormatErrorMessage"
)

// Validate checks the fields every scenario uses: the currency pair and
// the recent-weeks window. Fields only some scenarios use are checked by
// Require when those scenarios run.
func (s Scenario) Validate(path string) error {
	if s.CurrencyPair == "" {
		return &Error{Path: path, Field: "currencyPair", Err: ErrMissing}
	}
	if !seriesKey.MatchString(s.CurrencyPair) {
		return &Error{Path: path, Field: "currencyPair", Err: fmt.Errorf("%w: %q is not a series key", ErrInvalid, s.CurrencyPair)}
	}
	if s.RecentWeeks <= 0 {
		return &Error{Path: path, Field: "recentWeeks", Err: fmt.Errorf("%w: must be a positive integer, got %d", ErrInvalid, s.RecentWeeks)}
	}
	if s.Recent < 0 {
		return &Error{Path: path, Field: "recent", Err: fmt.Errorf("%w: must be positive, got %d", ErrInvalid, s.Recent)}
	}
	return nil
}

// Require checks that the named string fields are set. It returns an
// *Error for the first one missing.
func (s Scenario) Require(path string, fields ...string) error {
	for _, name := range fields {
		var v string
		switch name {
		case FieldStartDate:
			v = s.StartDate
		case FieldEndDate:
			v = s.EndDate
		case FieldInvalidDateRangeErrorMessage:
			v = s.InvalidDateRangeErrorMessage
		case FieldInvalidDateFormat:
			v = s.InvalidDateFormat
		case FieldInvalidDateFormatErrorMessage:
			v = s.InvalidDateFormatErrorMessage
		default:
			return &Error{Path: path, Field: name, Err: fmt.Errorf("%w: unknown scenario field", ErrInvalid)}
		}
		if v == "" {
			return &Error{Path: path, Field: name, Err: ErrMissing}
		}
	}
	return nil
}

// LoadDataDriven reads a data-driven fixture file. Only the document shape
// is checked here; each case is validated when it runs, so one bad case
// does not stop the others.
func LoadDataDriven(path string) (*DataDriven, error) {
	var dd DataDriven
	if err := readJSON(path, &dd); err != nil {
		return nil, err
	}
	if dd.TestCases == nil {
		return nil, &Error{Path: path, Field: "testCases", Err: ErrMissing}
	}
	return &dd, nil
}

// LoadScenario reads a scenario fixture file, validates the fields every
// scenario uses and fills in the optional fields' defaults.
func LoadScenario(path string) (*Scenario, error) {
	var s Scenario
	if err := readJSON(path, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(path); err != nil {
		return nil, err
	}
	if s.Recent == 0 {
		s.Recent = DefaultRecent
	}
	if s.InvalidCurrencyCode == "" {
		s.InvalidCurrencyCode = DefaultInvalidCurrencyCode
	}
	return &s, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{Path: path, Err: fmt.Errorf("read: %w", err)}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &Error{Path: path, Err: fmt.Errorf("parse: %w", err)}
	}
	return nil
}
