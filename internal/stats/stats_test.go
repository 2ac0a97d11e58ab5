package stats

import (
	"math"
	"net/http"
	"testing"

	"github.com/leca/dt-valet/internal/valet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func observations(t *testing.T, body string) []valet.Observation {
	t.Helper()
	resp := valet.NewResponse(http.StatusOK, []byte(body))
	require.NoError(t, resp.DecodeErr)
	return resp.Observations
}

func TestParseDecimal(t *testing.T) {
	valid := map[string]float64{
		"1.2345": 1.2345,
		"0.7510": 0.751,
		"108.5":  108.5,
		"-0.5":   -0.5,
		"1e-3":   0.001,
		"42":     42,
	}
	for raw, want := range valid {
		got, err := ParseDecimal(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	invalid := []string{"", " ", "1.2abc", "abc", "NaN", "Inf", "-Infinity", " 1.2", "1.2 ", "1,2", "1..2", "0x1p3", "1_000", "1e400"}
	for _, raw := range invalid {
		_, err := ParseDecimal(raw)
		assert.Error(t, err, "%q should be rejected", raw)
	}
}

func TestExtract_OneSlotPerObservation(t *testing.T) {
	obs := observations(t, `{"observations":[
		{"d":"2024-01-02","FXCADUSD":{"v":"0.7500"}},
		{"d":"2024-01-03","FXCADUSD":{"v":""}},
		{"d":"2024-01-04"},
		{"d":"2024-01-05","FXCADUSD":{"v":"0.7700"}},
		{"d":"2024-01-08","FXCADUSD":{"v":"12abc"}}
	]}`)

	values := Extract(obs, "FXCADUSD")

	require.Len(t, values, len(obs))
	assert.Equal(t, []Status{Valid, Malformed, Missing, Valid, Malformed},
		[]Status{values[0].Status, values[1].Status, values[2].Status, values[3].Status, values[4].Status})
	assert.Equal(t, "2024-01-04", values[2].Date)
	assert.ErrorIs(t, values[2].Err, valet.ErrSeriesKeyNotFound)
	assert.Equal(t, 2, CountValid(values))
}

func TestAverage_ExcludesInvalidFromNumeratorAndDenominator(t *testing.T) {
	values := []Value{
		{Number: 1.0, Status: Valid},
		{Status: Missing},
		{Number: 99, Status: Malformed},
		{Number: 2.0, Status: Valid},
	}

	avg, err := Average(values)
	require.NoError(t, err)
	assert.Equal(t, 1.5, avg)
}

func TestAverage_NoValidValues(t *testing.T) {
	_, err := Average(nil)
	assert.ErrorIs(t, err, ErrNoValidValues)

	_, err = Average([]Value{{Status: Missing}, {Status: Malformed}})
	assert.ErrorIs(t, err, ErrNoValidValues)
}

func TestAverage_NoRounding(t *testing.T) {
	values := Extract(observations(t, `{"observations":[
		{"d":"2024-01-02","FXCADUSD":{"v":"0.1"}},
		{"d":"2024-01-03","FXCADUSD":{"v":"0.2"}}
	]}`), "FXCADUSD")

	avg, err := Average(values)
	require.NoError(t, err)
	assert.Equal(t, (0.1+0.2)/2, avg)
}

func TestSummarize(t *testing.T) {
	s := Summarize(observations(t, `{"observations":[
		{"d":"2024-01-02","FXCADUSD":{"v":"0.75"}},
		{"d":"2024-01-03","FXCADUSD":{"v":"0.77"}}
	]}`), "FXCADUSD")

	assert.Len(t, s.Values, 2)
	assert.Equal(t, 2, s.Valid)
	assert.True(t, s.HasAverage)
	assert.InDelta(t, 0.76, s.Average, 1e-12)
	assert.False(t, math.IsNaN(s.Average))

	empty := Summarize(nil, "FXCADUSD")
	assert.False(t, empty.HasAverage)
	assert.Zero(t, empty.Valid)
}

func TestDuplicates(t *testing.T) {
	assert.Empty(t, Duplicates([]string{"2024-01-02", "2024-01-03"}))
	assert.Equal(t, []string{"2024-01-02"},
		Duplicates([]string{"2024-01-02", "2024-01-03", "2024-01-02", "2024-01-02"}))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "valid", Valid.String())
	assert.Equal(t, "missing", Missing.String())
	assert.Equal(t, "malformed", Malformed.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
