package fmp

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned by every fetch while no API key is configured.
var ErrMissingAPIKey = errors.New("API key not configured")

// APIError represents a non-200 response from the upstream API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("FMP API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError is returned when waiting for the local rate limiter fails,
// usually because the request context was cancelled first.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("FMP rate limiter: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}
