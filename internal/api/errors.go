package api

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the requested day has no plan or the slot
// does not exist. Callers surface it as an empty state, never a crash.
var ErrNotFound = errors.New("not found")

// NetworkError marks a transport-level failure: the request never produced
// an HTTP response. Mutations that fail this way are queued for replay
// instead of rolled back.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError marks a response the server did produce but with a failure
// status. Mutations that fail this way are rolled back.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (%d)", e.StatusCode)
}

// ValidationError marks a request the server rejected as invalid, such as
// an unknown completion status.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// IsNetworkError reports whether err is (or wraps) a NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
