// Package valet is a thin client for the Bank of Canada Valet API.
//
// It never turns an HTTP status into an error: 4xx and 5xx responses are
// returned to the caller like any other, so that expected failures can be
// asserted on. Only requests that could not complete at all produce a
// *TransportError.
package valet
