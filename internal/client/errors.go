package client

import (
	"errors"
	"fmt"
)

var (
	// ErrCircuitOpen indicates requests are refused after repeated failures
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrNotFound indicates the API answered 404
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx response decoded from the API's error body
type APIError struct {
	StatusCode int    `json:"code"`
	Status     string `json:"error"`
	Message    string `json:"message"`
	Reason     string `json:"reason,omitempty"`
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}
