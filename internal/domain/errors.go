package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no provider knows the requested hotel.
var ErrNotFound = errors.New("hotel not found")

// ValidationError rejects a request before any upstream call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ProviderError is an isolated upstream failure (timeout, non-2xx, bad
// payload). It never fails a search; it is accumulated into the result meta.
type ProviderError struct {
	Source  string `json:"source"`
	Message string `json:"error"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}
