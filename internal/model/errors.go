package model

import (
    "errors"
    "fmt"
)

// ErrInvalidGuestCount is matched by the ValidationError returned when a
// reservation is given fewer than MinGuests guests.
var ErrInvalidGuestCount = errors.New("invalid guest count")

// ValidationError reports a field value rejected before it reaches the
// store.  Handlers translate it into an HTTP 400 response.
type ValidationError struct {
    Field string
    Msg   string
    err   error
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Is lets errors.Is match the sentinel the error was created for.
func (e *ValidationError) Is(target error) bool {
    return e.err != nil && target == e.err
}
