// Package stats extracts observation values for one series and derives the
// statistics asserted on by the conformance checks.
package stats

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/leca/dt-valet/internal/valet"
	"github.com/shopspring/decimal"
)

// ErrNoValidValues is returned by Average when no value parsed as a number.
var ErrNoValidValues = errors.New("no valid numeric values")

// Status classifies one extracted value.
type Status int

const (
	// Valid values are strict decimal literals with a finite float64 value.
	Valid Status = iota
	// Missing means the observation has no entry for the series.
	Missing
	// Malformed means the entry exists but is not a decimal string.
	Malformed
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case Missing:
		return "missing"
	case Malformed:
		return "malformed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Value is the extracted value slot of one observation. Every observation
// yields exactly one Value, valid or not.
type Value struct {
	Date   string
	Raw    string
	Number float64
	Status Status
	Err    error
}

// Summary is the statistic derived from one response.
type Summary struct {
	Values  []Value
	Valid   int
	Average float64
	// HasAverage is false when no value was valid; Average is then zero.
	HasAverage bool
}

// ParseDecimal classifies raw as a strict decimal literal and returns its
// IEEE-754 double value. Partial literals ("1.2abc"), surrounding space,
// NaN, infinities and values outside the float64 range are rejected.
func ParseDecimal(raw string) (float64, error) {
	if _, err := decimal.NewFromString(raw); err != nil {
		return 0, fmt.Errorf("parse %q: %w", raw, err)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", raw, err)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("parse %q: not finite", raw)
	}
	return f, nil
}

// Extract returns one Value per observation for the series key, in order.
func Extract(obs []valet.Observation, key string) []Value {
	out := make([]Value, 0, len(obs))
	for _, o := range obs {
		v := Value{Date: o.Date}
		raw, err := o.Lookup(key)
		switch {
		case errors.Is(err, valet.ErrSeriesKeyNotFound):
			v.Status, v.Err = Missing, err
		case err != nil:
			v.Status, v.Err = Malformed, err
		default:
			v.Raw = raw
			if v.Number, err = ParseDecimal(raw); err != nil {
				v.Status, v.Err = Malformed, err
			}
		}
		out = append(out, v)
	}
	return out
}

// CountValid returns the number of valid values.
func CountValid(values []Value) int {
	n := 0
	for _, v := range values {
		if v.Status == Valid {
			n++
		}
	}
	return n
}

// Average computes the arithmetic mean of the valid values. Invalid values
// count in neither the sum nor the divisor.
func Average(values []Value) (float64, error) {
	sum, n := 0.0, 0
	for _, v := range values {
		if v.Status != Valid {
			continue
		}
		sum += v.Number
		n++
	}
	if n == 0 {
		return 0, ErrNoValidValues
	}
	return sum / float64(n), nil
}

// Summarize extracts the values of key and averages them when possible.
func Summarize(obs []valet.Observation, key string) Summary {
	s := Summary{Values: Extract(obs, key)}
	s.Valid = CountValid(s.Values)
	if avg, err := Average(s.Values); err == nil {
		s.Average, s.HasAverage = avg, true
	}
	return s
}

// Dates returns the "d" field of every observation, in order.
func Dates(obs []valet.Observation) []string {
	out := make([]string, 0, len(obs))
	for _, o := range obs {
		out = append(out, o.Date)
	}
	return out
}

// Duplicates returns the dates that occur more than once, in first-seen order.
func Duplicates(dates []string) []string {
	seen := make(map[string]int, len(dates))
	var dups []string
	for _, d := range dates {
		seen[d]++
		if seen[d] == 2 {
			dups = append(dups, d)
		}
	}
	return dups
}
