// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import (
    "time"

    "github.com/StuFleisher/lunchly/internal/model"
)

// ReservationBookedQueue is the durable queue reservation events go to.
const ReservationBookedQueue = "reservation.booked"

// ReservationBookedEvent is published after a new reservation is saved.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type ReservationBookedEvent struct {
    ReservationID    uint64 `json:"reservation_id"`
    CustomerID       uint64 `json:"customer_id"`
    CustomerName     string `json:"customer_name"`
    NumGuests        int    `json:"num_guests"`
    StartAt          string `json:"start_at"`
    FormattedStartAt string `json:"formatted_start_at"`
    BookedAt         string `json:"booked_at"`
}

// NewReservationBookedEvent describes res, made by c, booked at bookedAt.
func NewReservationBookedEvent(c *model.Customer, res *model.Reservation, bookedAt time.Time) ReservationBookedEvent {
    return ReservationBookedEvent{
        ReservationID:    res.ID,
        CustomerID:       res.CustomerID,
        CustomerName:     c.FullName(),
        NumGuests:        res.NumGuests(),
        StartAt:          res.StartAt.UTC().Format(time.RFC3339),
        FormattedStartAt: res.FormattedStartAt(),
        BookedAt:         bookedAt.UTC().Format(time.RFC3339),
    }
}
