package valet

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is one Valet response: the status, the raw JSON object and the
// observations decoded from it. It is never mutated after Do returns.
type Response struct {
	Status int
	Header http.Header
	Raw    []byte
	// Body is the decoded JSON object, nil when the body was not an object.
	Body map[string]any
	// DecodeErr records why Body is nil, if it is.
	DecodeErr error
	// Observations mirrors Body["observations"]; nil when absent or not an array.
	Observations []Observation
	// Message is Body["message"] when it is a string.
	Message string
}

// Observation is one element of the observations array.
type Observation struct {
	// Date is the "d" field; DateOK reports whether it was present as a string.
	Date   string
	DateOK bool
	fields map[string]any
}

// Lookup returns the "v" string of the series entry named key.
// A missing entry yields ErrSeriesKeyNotFound and an entry not shaped like
// {"v": "<string>"} yields ErrMalformedValue.
func (o Observation) Lookup(key string) (string, error) {
	entry, ok := o.fields[key]
	if !ok || entry == nil {
		return "", fmt.Errorf("%s on %q: %w", key, o.Date, ErrSeriesKeyNotFound)
	}
	obj, ok := entry.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%s on %q is %T: %w", key, o.Date, entry, ErrMalformedValue)
	}
	v, ok := obj["v"].(string)
	if !ok {
		return "", fmt.Errorf("%s on %q has v of type %T: %w", key, o.Date, obj["v"], ErrMalformedValue)
	}
	return v, nil
}

// NewObservation builds an Observation from a decoded JSON object.
func NewObservation(obj map[string]any) Observation {
	o := Observation{fields: obj}
	o.Date, o.DateOK = obj["d"].(string)
	return o
}

// decodeResponse fills the decoded views of r from r.Raw.
func decodeResponse(r *Response) {
	var body map[string]any
	if err := json.Unmarshal(r.Raw, &body); err != nil {
		r.DecodeErr = fmt.Errorf("decode body: %w", err)
		return
	}
	if body == nil {
		r.DecodeErr = fmt.Errorf("decode body: not a JSON object")
		return
	}
	r.Body = body
	r.Message, _ = body["message"].(string)

	arr, ok := body["observations"].([]any)
	if !ok {
		return
	}
	r.Observations = make([]Observation, 0, len(arr))
	for _, item := range arr {
		obj, _ := item.(map[string]any)
		r.Observations = append(r.Observations, NewObservation(obj))
	}
}

// NewResponse builds a Response from a status and a raw body. It is what the
// client does after reading a reply, exposed for tests and fixtures.
func NewResponse(status int, raw []byte) *Response {
	r := &Response{Status: status, Header: http.Header{}, Raw: raw}
	decodeResponse(r)
	return r
}
