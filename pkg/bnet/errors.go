package bnet

import (
	"errors"
	"fmt"
)

// ErrorClass categorizes upstream failures for retry decisions and metrics.
type ErrorClass string

const (
	// ErrorClassClient is a 4xx response other than 429. Not retried.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer is a 5xx response. Retried with backoff.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit is a 429 response. Retried with backoff.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork is a transport-level failure. Retried with backoff.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode is a malformed response body. Not retried.
	ErrorClassDecode ErrorClass = "decode"
)

// ErrRetryExhausted is returned when all retry attempts have been used.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// APIError describes a failed community API call.
type APIError struct {
	// Endpoint is the logical endpoint name (profile, matches, ...).
	Endpoint string

	// StatusCode is the upstream HTTP status, 0 for transport failures.
	StatusCode int

	// Class categorizes the failure.
	Class ErrorClass

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bnet %s: %s (status %d): %v", e.Endpoint, e.Class, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("bnet %s: %s (status %d)", e.Endpoint, e.Class, e.StatusCode)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code to an error class. Success codes
// map to the empty class.
func classifyStatus(code int) ErrorClass {
	switch {
	case code == 429:
		return ErrorClassRateLimit
	case code >= 500:
		return ErrorClassServer
	case code >= 400:
		return ErrorClassClient
	default:
		return ""
	}
}

// shouldRetry reports whether a failure class is worth another attempt.
// Client and decode failures are deterministic and never retried.
func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassServer, ErrorClassRateLimit, ErrorClassNetwork:
		return true
	default:
		return false
	}
}
