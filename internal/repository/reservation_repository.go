package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/StuFleisher/lunchly/internal/model"
)

// ReservationRepo provides customer-scoped lookups and persistence for
// reservations.  start_at is stored as DATETIME; with the MySQL DSN built
// by database.Open it is read back in UTC.
type ReservationRepo struct {
    db Querier
}

// NewReservationRepo returns a new ReservationRepo bound to the given Querier.
func NewReservationRepo(db Querier) *ReservationRepo { return &ReservationRepo{db: db} }

// reservationColumns is the select list scanReservation expects, in order.
const reservationColumns = `id, customer_id, num_guests, start_at, notes`

// scanReservation maps one reservations row into a model.Reservation.  A
// stored guest count below the minimum fails with the model's
// validation error instead of producing an invalid reservation.
func scanReservation(s rowScanner) (*model.Reservation, error) {
    var (
        id, customerID uint64
        numGuests      int
        startAt        time.Time
        notes          sql.NullString
    )
    if err := s.Scan(&id, &customerID, &numGuests, &startAt, &notes); err != nil {
        return nil, err
    }
    res, err := model.NewReservation(customerID, startAt, numGuests, nullString(notes))
    if err != nil {
        return nil, err
    }
    res.ID = id
    return res, nil
}

// ForCustomer returns every reservation of the given customer ordered by
// start time, then id.  A customer without reservations yields an empty
// slice.
func (r *ReservationRepo) ForCustomer(ctx context.Context, customerID uint64) ([]*model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + `
               FROM reservations
               WHERE customer_id = ?
               ORDER BY start_at, id`
    rows, err := r.db.QueryContext(ctx, q, int64(customerID))
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]*model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Save inserts res when it has no id yet and writes the generated id
// back into res; otherwise it updates customer, start time, guest count
// and notes of the stored row.  The guest count was validated when it was
// assigned, so no check happens here.  Start times are stored in UTC.
func (r *ReservationRepo) Save(ctx context.Context, res *model.Reservation) error {
    if res.IsNew() {
        const q = `INSERT INTO reservations (customer_id, start_at, num_guests, notes) VALUES (?, ?, ?, ?)`
        result, err := r.db.ExecContext(ctx, q, int64(res.CustomerID), res.StartAt.UTC(), res.NumGuests(), nullable(res.Notes))
        if err != nil {
            return err
        }
        id, err := result.LastInsertId()
        if err != nil {
            return err
        }
        res.ID = uint64(id)
        return nil
    }
    const q = `UPDATE reservations
               SET customer_id = ?, start_at = ?, num_guests = ?, notes = ?
               WHERE id = ?`
    _, err := r.db.ExecContext(ctx, q, int64(res.CustomerID), res.StartAt.UTC(), res.NumGuests(), nullable(res.Notes), int64(res.ID))
    return err
}
