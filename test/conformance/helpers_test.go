//go:build conformance

package conformance

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/leca/dt-valet/internal/check"
	"github.com/leca/dt-valet/internal/fixture"
	"github.com/leca/dt-valet/internal/valet"
)

// apiURL builds a full URL for the given path, e.g. "/observations/FXCADUSD".
func apiURL(path string, query url.Values) string {
	u := strings.TrimRight(baseURL, "/") + path
	if enc := query.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// doJSON performs a GET and returns the status and the decoded JSON object.
func doJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal JSON: %v\nbody: %s", err, string(data))
	}
	return resp.StatusCode, raw
}

// newClient returns a Valet client for the target under test.
func newClient(t *testing.T) *valet.Client {
	t.Helper()
	client, err := valet.NewClient(baseURL, valet.WithHTTPClient(valet.NewHTTPClient(30*time.Second)))
	if err != nil {
		t.Fatalf("client for %s: %v", baseURL, err)
	}
	return client
}

// evaluate sends q once and reports every failed check of the battery.
// It returns the subject for further assertions.
func evaluate(t *testing.T, q valet.Query, exp check.Expectation, checks []check.Check) *check.Subject {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Logf("GET %s", q)
	resp, err := newClient(t).Observations(ctx, q)
	if err != nil {
		t.Fatalf("transport: %v", err)
	}
	s := check.NewSubject(q, exp, resp)
	res := check.Engine{Policy: check.CollectAll}.Evaluate(s, checks)
	for _, f := range res.Failures {
		t.Errorf("%s", f)
	}
	return s
}

// loadScenario loads the scenario fixture or stops the test. fields names
// the optional fixture fields the test needs.
func loadScenario(t *testing.T, fields ...string) *fixture.Scenario {
	t.Helper()
	sc, err := fixture.LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if err := sc.Require(scenarioPath, fields...); err != nil {
		t.Fatalf("%v", err)
	}
	return sc
}

// loadDataDriven loads the data-driven fixture or stops the test.
func loadDataDriven(t *testing.T) *fixture.DataDriven {
	t.Helper()
	dd, err := fixture.LoadDataDriven(dataDrivenPath)
	if err != nil {
		t.Fatalf("%v", err)
	}
	return dd
}

// assertField validates a field exists in an object and has the expected Go type.
// Returns the typed value.
func assertField[T any](t *testing.T, obj map[string]any, field string) T {
	t.Helper()
	val, ok := obj[field]
	if !ok {
		var zero T
		t.Errorf("missing field %q", field)
		return zero
	}
	typed, ok := val.(T)
	if !ok {
		var zero T
		t.Errorf("field %q: expected %T, got %T (%v)", field, zero, val, val)
		return zero
	}
	return typed
}

// assertFieldAbsent validates a field does NOT exist in the object.
func assertFieldAbsent(t *testing.T, obj map[string]any, field string) {
	t.Helper()
	if _, ok := obj[field]; ok {
		t.Errorf("field %q should be absent but is present", field)
	}
}

// skipOnRealAPI skips the test when running against the real Valet API.
func skipOnRealAPI(t *testing.T) {
	t.Helper()
	if isRealAPI {
		t.Skip("skipping on real API")
	}
}
