package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a title lookup succeeds but carries no title.
var ErrNotFound = errors.New("title not found")

// NetworkError is a transport-level failure: no response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a response with a non-success status.
type APIError struct {
	Op         string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: catalog returned status %d", e.Op, e.StatusCode)
}
