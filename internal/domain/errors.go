package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUpstreamUnavailable means the account channel could not be resolved.
	ErrUpstreamUnavailable = errors.New("fulfillment upstream unavailable")

	// ErrInvalidProductData marks a product line that is neither a SKU nor a kit.
	ErrInvalidProductData = errors.New("invalid product data")
)

// RequestError is a failed call to the fulfillment provider. StatusCode is 0
// when no response was received.
type RequestError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: HTTP %d: %s", e.Operation, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Operation, e.Message)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsRequestFailure reports whether err is, or wraps, a RequestError.
func IsRequestFailure(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}

// IsNotFound reports whether err is a RequestError with HTTP 404 status.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound
}
