package model

import (
    "encoding/json"
    "fmt"
    "time"

    "github.com/dustin/go-humanize"
)

// MinGuests is the smallest party a reservation can be made for.
const MinGuests = 1

// Reservation records a party booked by a customer for a given time.
// It corresponds to a row in the `reservations` table.  The guest count
// is unexported so that every assignment goes through SetNumGuests.
//
// Fields:
//  ID         – primary key identifier, zero until the reservation is saved.
//  CustomerID – customer who made the booking.
//  StartAt    – when the party is expected.
//  Notes      – optional notes about the booking.
type Reservation struct {
    ID         uint64    // reservations.id
    CustomerID uint64    // reservations.customer_id
    StartAt    time.Time // reservations.start_at
    Notes      *string   // reservations.notes (nullable)
    numGuests  int       // reservations.num_guests
}

// NewReservation builds an unsaved reservation.  It fails with a
// *ValidationError when numGuests is below MinGuests.
func NewReservation(customerID uint64, startAt time.Time, numGuests int, notes *string) (*Reservation, error) {
    r := &Reservation{
        CustomerID: customerID,
        StartAt:    startAt,
        Notes:      notes,
    }
    if err := r.SetNumGuests(numGuests); err != nil {
        return nil, err
    }
    return r, nil
}

// NumGuests returns the size of the party.
func (r *Reservation) NumGuests() int { return r.numGuests }

// SetNumGuests changes the size of the party.  Values below MinGuests are
// rejected and the current value is kept.
func (r *Reservation) SetNumGuests(n int) error {
    if n < MinGuests {
        return &ValidationError{
            Field: "num_guests",
            Msg:   fmt.Sprintf("there must be at least %d guest", MinGuests),
            err:   ErrInvalidGuestCount,
        }
    }
    r.numGuests = n
    return nil
}

// IsNew reports whether the reservation has never been saved.
func (r *Reservation) IsNew() bool { return r.ID == 0 }

// FormattedStartAt renders StartAt for display, e.g. "April 1st 2023, 6:30 pm".
func (r *Reservation) FormattedStartAt() string {
    t := r.StartAt
    return fmt.Sprintf("%s %s %d, %s",
        t.Month(), humanize.Ordinal(t.Day()), t.Year(), t.Format("3:04 pm"))
}

// reservationJSON is the wire shape of a Reservation.
type reservationJSON struct {
    ID               uint64    `json:"id"`
    CustomerID       uint64    `json:"customer_id"`
    NumGuests        int       `json:"num_guests"`
    StartAt          time.Time `json:"start_at"`
    FormattedStartAt string    `json:"formatted_start_at"`
    Notes            *string   `json:"notes"`
}

// MarshalJSON exposes the guest count and the display time alongside the
// stored fields.
func (r *Reservation) MarshalJSON() ([]byte, error) {
    return json.Marshal(reservationJSON{
        ID:               r.ID,
        CustomerID:       r.CustomerID,
        NumGuests:        r.numGuests,
        StartAt:          r.StartAt,
        FormattedStartAt: r.FormattedStartAt(),
        Notes:            r.Notes,
    })
}
