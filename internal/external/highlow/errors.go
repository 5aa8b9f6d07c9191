package highlow

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable matches any network, timeout, status or decode failure
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrSchemaMismatch means the body decoded but does not have the expected shape
	ErrSchemaMismatch = errors.New("unexpected response schema")
)

// UpstreamError describes one failed call to the high/low API
type UpstreamError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status code %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

// Unwrap lets errors.Is match both ErrUpstreamUnavailable and the cause
func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUpstreamUnavailable}
	}
	return []error{ErrUpstreamUnavailable, e.Err}
}
