package poller

import (
	"fmt"
	"net/http"
)

// TransportError is returned when the endpoint could not be reached or the body could not be read
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying network error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError is returned when the endpoint answered with a non-2xx status code
type HTTPStatusError int

func (e HTTPStatusError) Error() string {
	return fmt.Sprintf("non-2xx HTTP status code: %d %s", int(e), http.StatusText(int(e)))
}

// DecodeError is returned when the body is not valid JSON or does not match the snapshot schema
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "failed to decode metrics snapshot: " + e.Err.Error()
}

// Unwrap returns the decoding failure cause
func (e *DecodeError) Unwrap() error {
	return e.Err
}

type errFieldNotFound string

func (e errFieldNotFound) Error() string {
	return "JSON field not found in response: " + string(e)
}

type errFieldType struct {
	field    string
	expected string
}

func (e errFieldType) Error() string {
	return fmt.Sprintf("JSON field %s is not of type %s", e.field, e.expected)
}
