// Package repository defines error types that are reused across the
// customer and reservation repositories.  These values allow higher
// layers such as handlers to distinguish a missing resource from a store
// failure without inspecting driver errors.
package repository

import (
	"errors"
	"net/http"
)

// ErrNotFound is matched by every NotFoundError.  Callers should use
// errors.Is(err, ErrNotFound) rather than comparing messages.
var ErrNotFound = errors.New("not found")

// NotFoundError is returned by lookups that cannot produce a row, either
// because the identifier is malformed or because no row matches.  The
// message tells the two apart; the status is the same.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// Status is the HTTP status handlers should answer with (404).
func (e *NotFoundError) Status() int { return http.StatusNotFound }

// Is reports a match against ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
