package client

import (
	"errors"
	"fmt"
)

// NetworkError indicates a transport-level failure: the request never
// produced an HTTP response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err (or any error in its chain) is a
// NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// HTTPError indicates a non-2xx response from the backend.
type HTTPError struct {
	Status     int
	StatusText string
	Endpoint   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s on %s", e.Status, e.StatusText, e.Endpoint)
}

// AuthExpiredError indicates an HTTP 401: the backend session has
// expired or was never established. Callers use this as the trigger for
// the refresh-and-retry cycle.
type AuthExpiredError struct {
	Endpoint string
}

func (e *AuthExpiredError) Error() string {
	return fmt.Sprintf("authentication expired (401) on %s", e.Endpoint)
}

// IsAuthExpired reports whether err (or any error in its chain) is an
// AuthExpiredError.
func IsAuthExpired(err error) bool {
	var ae *AuthExpiredError
	return errors.As(err, &ae)
}
