package api

import (
	"fmt"
	"net/http"
)

// Messages returned by the twin. They match the text Valet serves.
const (
	MsgBadDateFormat     = "Bad date format. Dates must be formatted as YYYY-MM-DD."
	MsgInvalidDateRange  = "The end date must be greater than the start date."
	MsgMixedRecentParams = "Recent observation parameters cannot be combined with start_date or end_date."
	MsgInternal          = "An internal error occurred."
)

// SeriesNotFoundMessage is the 404 message for an unknown series name.
func SeriesNotFoundMessage(name string) string {
	return fmt.Sprintf("Series %s not found.", name)
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse(msg))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusNotFound, ErrorResponse(msg))
}

// InternalError writes a 500 error response.
func InternalError(w http.ResponseWriter) {
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse(MsgInternal))
}

// Query validation messages.
const (
	MsgBadRecent      = "Recent observation parameters must be positive integers."
	MsgMultipleRecent = "Only one recent observation parameter may be supplied."
	MsgBadOrderDir    = "order_dir must be either asc or desc."
)
