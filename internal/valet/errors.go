package valet

import (
	"errors"
	"fmt"
)

var (
	// ErrSeriesKeyNotFound is returned when an observation has no entry for
	// the requested series.
	ErrSeriesKeyNotFound = errors.New("series key not found")
	// ErrMalformedValue is returned when a series entry is not {"v": "<string>"}.
	ErrMalformedValue = errors.New("malformed observation value")
)

// TransportError reports a request that could not be completed (DNS,
// connection, timeout, unreadable body). It is an infrastructure failure,
// never an assertion failure.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

var errUnsupportedScheme = errors.New("base URL must use http or https")
