package client

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the listings service does not know an id.
var ErrNotFound = errors.New("listing not found")

// NetworkError reports a transport failure or a non-2xx reply.
// StatusCode is 0 when no response was received.
type NetworkError struct {
	StatusCode int
	URL        string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MalformedResponseError reports a body that is not the expected JSON shape.
type MalformedResponseError struct {
	Endpoint string
	Reason   string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s response: %s: %v", e.Endpoint, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed %s response: %s", e.Endpoint, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.StatusCode
	}
	return 0
}
