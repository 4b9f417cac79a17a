package pocketbase

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned by fetches made before a session exists.
	ErrNotAuthenticated = errors.New("pocketbase: not authenticated")

	// ErrNoActiveSystem is returned when no system record has status "up".
	ErrNoActiveSystem = errors.New("no active systems found")
)

// APIError is a non-2xx response from PocketBase.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("pocketbase: request failed with status %d", e.Status)
	}
	return fmt.Sprintf("pocketbase: %s (status %d)", e.Message, e.Status)
}
