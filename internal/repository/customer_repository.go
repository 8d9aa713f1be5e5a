package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/StuFleisher/lunchly/internal/model"
)

// bestCustomersLimit caps the BestCustomers ranking.
const bestCustomersLimit = 10

// customerColumns is the select list scanCustomer expects, in order.
const customerColumns = `c.id, c.first_name, c.last_name, c.phone, c.notes`

// CustomerRepo provides lookups, search and persistence for customers.
// Reservations of a customer are loaded through the embedded
// ReservationRepo, which shares the same Querier.
type CustomerRepo struct {
	db           Querier
	reservations *ReservationRepo
}

// NewCustomerRepo returns a CustomerRepo bound to the given Querier.
func NewCustomerRepo(db Querier) *CustomerRepo {
	return &CustomerRepo{db: db, reservations: NewReservationRepo(db)}
}

// scanCustomer maps one customers row, selected with customerColumns,
// into a model.Customer.  Extra trailing columns are passed in extra.
func scanCustomer(s rowScanner, extra ...any) (*model.Customer, error) {
	var c model.Customer
	var phone, notes sql.NullString
	dest := append([]any{&c.ID, &c.FirstName, &c.LastName, &phone, &notes}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	c.Phone = nullString(phone)
	c.Notes = nullString(notes)
	return &c, nil
}

// listCustomers runs a query whose rows start with customerColumns.
func (r *CustomerRepo) listCustomers(ctx context.Context, q string, args ...any) ([]*model.Customer, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every customer ordered by last name, then first name.
func (r *CustomerRepo) ListAll(ctx context.Context) ([]*model.Customer, error) {
	const q = `SELECT ` + customerColumns + `
	           FROM customers c
	           ORDER BY c.last_name, c.first_name`
	return r.listCustomers(ctx, q)
}

// GetByID loads a customer from a raw identifier such as a path
// parameter.  A value that is not an integer is rejected before the
// store is queried.  Both a malformed and an unknown identifier produce a
// *NotFoundError.
func (r *CustomerRepo) GetByID(ctx context.Context, rawID string) (*model.Customer, error) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return nil, &NotFoundError{Msg: "resource does not exist"}
	}
	const q = `SELECT ` + customerColumns + `
	           FROM customers c
	           WHERE c.id = ?`
	c, err := scanCustomer(r.db.QueryRowContext(ctx, q, int64(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Msg: fmt.Sprintf("no such customer: %d", id)}
		}
		return nil, err
	}
	return c, nil
}

// BestCustomers returns up to ten customers with the most reservations,
// busiest first.  Customers without reservations are left out.  Equal
// counts are ordered by customer id.
func (r *CustomerRepo) BestCustomers(ctx context.Context) ([]*model.Customer, error) {
	const q = `SELECT ` + customerColumns + `, COUNT(r.id) AS res_count
	           FROM customers c
	           JOIN reservations r ON r.customer_id = c.id
	           GROUP BY c.id, c.first_name, c.last_name, c.phone, c.notes
	           ORDER BY res_count DESC, c.id
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, bestCustomersLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Customer, 0, bestCustomersLimit)
	for rows.Next() {
		var count int64
		c, err := scanCustomer(rows, &count)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Search returns customers whose "first last" name contains term,
// ignoring case, ordered like ListAll.  An empty term matches everyone.
func (r *CustomerRepo) Search(ctx context.Context, term string) ([]*model.Customer, error) {
	const q = `SELECT ` + customerColumns + `
	           FROM customers c
	           WHERE LOWER(CONCAT(c.first_name, ' ', c.last_name)) LIKE ?
	           ORDER BY c.last_name, c.first_name`
	return r.listCustomers(ctx, q, "%"+strings.ToLower(term)+"%")
}

// Reservations returns the reservations made by c.
func (r *CustomerRepo) Reservations(ctx context.Context, c *model.Customer) ([]*model.Reservation, error) {
	return r.reservations.ForCustomer(ctx, c.ID)
}

// Save inserts c when it has no id yet and writes the generated id back
// into c; otherwise it updates the stored row with c's fields.
func (r *CustomerRepo) Save(ctx context.Context, c *model.Customer) error {
	if c.IsNew() {
		const q = `INSERT INTO customers (first_name, last_name, phone, notes) VALUES (?, ?, ?, ?)`
		res, err := r.db.ExecContext(ctx, q, c.FirstName, c.LastName, nullable(c.Phone), nullable(c.Notes))
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		c.ID = uint64(id)
		return nil
	}
	const q = `UPDATE customers
	           SET first_name = ?, last_name = ?, phone = ?, notes = ?
	           WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, c.FirstName, c.LastName, nullable(c.Phone), nullable(c.Notes), int64(c.ID))
	return err
}
