package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/StuFleisher/lunchly/internal/database"
	"github.com/StuFleisher/lunchly/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func mustSaveCustomer(t *testing.T, repo *CustomerRepo, first, last string) *model.Customer {
	t.Helper()
	c := model.NewCustomer(first, last, nil, nil)
	if err := repo.Save(context.Background(), c); err != nil {
		t.Fatalf("Save(%s %s) failed: %v", first, last, err)
	}
	return c
}

func mustSaveReservation(t *testing.T, repo *ReservationRepo, customerID uint64, at time.Time, guests int) *model.Reservation {
	t.Helper()
	res, err := model.NewReservation(customerID, at, guests, nil)
	if err != nil {
		t.Fatalf("NewReservation failed: %v", err)
	}
	if err := repo.Save(context.Background(), res); err != nil {
		t.Fatalf("reservation Save failed: %v", err)
	}
	return res
}

func names(cs []*model.Customer) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.FullName())
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// recordingQuerier counts the statements it is asked to run.
type recordingQuerier struct {
	calls int
}

func (q *recordingQuerier) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	q.calls++
	return nil, errors.New("unexpected exec")
}

func (q *recordingQuerier) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	q.calls++
	return nil, errors.New("unexpected query")
}

func (q *recordingQuerier) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	q.calls++
	return nil
}

func TestCustomerSave_InsertThenGet(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepo(openTestDB(t))

	c := model.NewCustomer("Ada", "Lovelace", strPtr("555-0100"), strPtr("prefers the patio"))
	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if c.ID == 0 {
		t.Fatal("expected Save to assign an id")
	}

	got, err := repo.GetByID(ctx, "1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ID != c.ID || got.FirstName != "Ada" || got.LastName != "Lovelace" {
		t.Errorf("GetByID = %+v, want %+v", got, c)
	}
	if got.Phone == nil || *got.Phone != "555-0100" {
		t.Errorf("Phone = %v, want 555-0100", got.Phone)
	}
	if got.Notes == nil || *got.Notes != "prefers the patio" {
		t.Errorf("Notes = %v, want prefers the patio", got.Notes)
	}
}

func TestCustomerSave_NullableFields(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepo(openTestDB(t))

	c := mustSaveCustomer(t, repo, "Grace", "Hopper")
	got, err := repo.GetByID(ctx, "1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ID != c.ID {
		t.Errorf("ID = %d, want %d", got.ID, c.ID)
	}
	if got.Phone != nil || got.Notes != nil {
		t.Errorf("expected nil phone and notes, got %v / %v", got.Phone, got.Notes)
	}
}

func TestCustomerSave_SecondSaveUpdates(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewCustomerRepo(db)

	c := mustSaveCustomer(t, repo, "Alan", "Turing")
	id := c.ID

	c.LastName = "Mathison-Turing"
	c.Notes = strPtr("regular")
	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if c.ID != id {
		t.Errorf("ID changed from %d to %d", id, c.ID)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("customers has %d rows, want 1", n)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 1 || all[0].LastName != "Mathison-Turing" || all[0].Notes == nil || *all[0].Notes != "regular" {
		t.Errorf("ListAll = %+v, want the updated customer", all)
	}
}

func TestCustomerGetByID_Malformed(t *testing.T) {
	q := &recordingQuerier{}
	repo := NewCustomerRepo(q)

	for _, raw := range []string{"abc", "", "1.5", "12x", " 1", "1.0", "-1"} {
		_, err := repo.GetByID(context.Background(), raw)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("GetByID(%q) error = %v, want ErrNotFound", raw, err)
		}
		var nf *NotFoundError
		if !errors.As(err, &nf) || nf.Status() != 404 {
			t.Errorf("GetByID(%q) error = %#v, want *NotFoundError with status 404", raw, err)
		}
	}
	if q.calls != 0 {
		t.Errorf("malformed ids issued %d statements, want 0", q.calls)
	}
}

func TestCustomerGetByID_Missing(t *testing.T) {
	repo := NewCustomerRepo(openTestDB(t))

	_, err := repo.GetByID(context.Background(), "42")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID(42) error = %v, want ErrNotFound", err)
	}
	if err.Error() != "no such customer: 42" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestCustomerListAll_Ordering(t *testing.T) {
	repo := NewCustomerRepo(openTestDB(t))
	mustSaveCustomer(t, repo, "Zoe", "Adams")
	mustSaveCustomer(t, repo, "John", "Smith")
	mustSaveCustomer(t, repo, "Anna", "Adams")
	mustSaveCustomer(t, repo, "Bea", "Jones")

	all, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	want := []string{"Anna Adams", "Zoe Adams", "Bea Jones", "John Smith"}
	if got := names(all); !equalStrings(got, want) {
		t.Errorf("ListAll = %v, want %v", got, want)
	}
}

func TestCustomerListAll_Empty(t *testing.T) {
	repo := NewCustomerRepo(openTestDB(t))
	all, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Errorf("ListAll = %v, want an empty slice", all)
	}
}

func TestCustomerSearch(t *testing.T) {
	repo := NewCustomerRepo(openTestDB(t))
	mustSaveCustomer(t, repo, "John", "Smith")
	mustSaveCustomer(t, repo, "Johnny", "Appleseed")
	mustSaveCustomer(t, repo, "Mary", "Smithers")
	mustSaveCustomer(t, repo, "Ann", "Lee")
	mustSaveCustomer(t, repo, "ÉMILE", "Zola")

	tests := []struct {
		term string
		want []string
	}{
		{"ohn sm", []string{"John Smith"}},
		{"JOHN", []string{"Johnny Appleseed", "John Smith"}},
		{"smith", []string{"John Smith", "Mary Smithers"}},
		{"", []string{"Johnny Appleseed", "Ann Lee", "John Smith", "Mary Smithers", "ÉMILE Zola"}},
		{"émile", []string{"ÉMILE Zola"}},
		{"Émile ZOLA", []string{"ÉMILE Zola"}},
		{"nobody", []string{}},
	}
	for _, tt := range tests {
		got, err := repo.Search(context.Background(), tt.term)
		if err != nil {
			t.Fatalf("Search(%q) failed: %v", tt.term, err)
		}
		if !equalStrings(names(got), tt.want) {
			t.Errorf("Search(%q) = %v, want %v", tt.term, names(got), tt.want)
		}
	}
}

func TestCustomerBestCustomers(t *testing.T) {
	db := openTestDB(t)
	customers := NewCustomerRepo(db)
	reservations := NewReservationRepo(db)
	at := time.Date(2023, time.April, 1, 18, 30, 0, 0, time.UTC)

	// Customer i (1-based) gets i reservations; one extra customer has none.
	var saved []*model.Customer
	for i := 1; i <= 12; i++ {
		c := mustSaveCustomer(t, customers, "Guest", string(rune('A'+i-1)))
		saved = append(saved, c)
		for j := 0; j < i; j++ {
			mustSaveReservation(t, reservations, c.ID, at.Add(time.Duration(j)*time.Hour), 2)
		}
	}
	idle := mustSaveCustomer(t, customers, "Idle", "Zed")

	best, err := customers.BestCustomers(context.Background())
	if err != nil {
		t.Fatalf("BestCustomers failed: %v", err)
	}
	if len(best) != 10 {
		t.Fatalf("BestCustomers returned %d customers, want 10", len(best))
	}
	for i, c := range best {
		want := saved[len(saved)-1-i]
		if c.ID != want.ID {
			t.Errorf("rank %d = customer %d, want %d", i+1, c.ID, want.ID)
		}
		if c.ID == idle.ID {
			t.Error("customer without reservations was ranked")
		}
	}
}

func TestCustomerBestCustomers_TiesByID(t *testing.T) {
	db := openTestDB(t)
	customers := NewCustomerRepo(db)
	reservations := NewReservationRepo(db)
	at := time.Date(2023, time.April, 1, 18, 30, 0, 0, time.UTC)

	a := mustSaveCustomer(t, customers, "Amy", "Able")
	b := mustSaveCustomer(t, customers, "Ben", "Baker")
	for _, c := range []*model.Customer{b, a} {
		mustSaveReservation(t, reservations, c.ID, at, 2)
	}

	best, err := customers.BestCustomers(context.Background())
	if err != nil {
		t.Fatalf("BestCustomers failed: %v", err)
	}
	if len(best) != 2 || best[0].ID != a.ID || best[1].ID != b.ID {
		t.Errorf("BestCustomers = %v, want [%d %d]", names(best), a.ID, b.ID)
	}
}

func TestCustomerReservations(t *testing.T) {
	db := openTestDB(t)
	customers := NewCustomerRepo(db)
	reservations := NewReservationRepo(db)

	c := mustSaveCustomer(t, customers, "John", "Smith")
	other := mustSaveCustomer(t, customers, "Jane", "Doe")
	late := mustSaveReservation(t, reservations, c.ID, time.Date(2023, time.May, 2, 20, 0, 0, 0, time.UTC), 2)
	early := mustSaveReservation(t, reservations, c.ID, time.Date(2023, time.April, 1, 18, 30, 0, 0, time.UTC), 4)
	mustSaveReservation(t, reservations, other.ID, time.Date(2023, time.April, 3, 19, 0, 0, 0, time.UTC), 3)

	got, err := customers.Reservations(context.Background(), c)
	if err != nil {
		t.Fatalf("Reservations failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Reservations returned %d rows, want 2", len(got))
	}
	if got[0].ID != early.ID || got[1].ID != late.ID {
		t.Errorf("Reservations order = [%d %d], want [%d %d]", got[0].ID, got[1].ID, early.ID, late.ID)
	}
	if got[0].NumGuests() != 4 || got[0].CustomerID != c.ID {
		t.Errorf("first reservation = %+v", got[0])
	}
	if !got[0].StartAt.Equal(early.StartAt) {
		t.Errorf("StartAt = %v, want %v", got[0].StartAt, early.StartAt)
	}
}

func TestReservationSave_SecondSaveUpdates(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	customers := NewCustomerRepo(db)
	reservations := NewReservationRepo(db)

	c := mustSaveCustomer(t, customers, "John", "Smith")
	res := mustSaveReservation(t, reservations, c.ID, time.Date(2023, time.April, 1, 18, 30, 0, 0, time.UTC), 2)
	id := res.ID
	if id == 0 {
		t.Fatal("expected Save to assign an id")
	}

	if err := res.SetNumGuests(6); err != nil {
		t.Fatalf("SetNumGuests failed: %v", err)
	}
	res.Notes = strPtr("birthday")
	if err := reservations.Save(ctx, res); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if res.ID != id {
		t.Errorf("ID changed from %d to %d", id, res.ID)
	}

	got, err := reservations.ForCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("ForCustomer failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ForCustomer returned %d rows, want 1", len(got))
	}
	if got[0].NumGuests() != 6 || got[0].Notes == nil || *got[0].Notes != "birthday" {
		t.Errorf("stored reservation = %+v, want 6 guests and notes", got[0])
	}
}

func TestReservationSave_NumericOffsetRoundTrips(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	customers := NewCustomerRepo(db)
	reservations := NewReservationRepo(db)

	c := mustSaveCustomer(t, customers, "John", "Smith")
	at, err := time.Parse(time.RFC3339, "2023-04-01T18:30:00-05:00")
	if err != nil {
		t.Fatalf("time.Parse failed: %v", err)
	}
	res := mustSaveReservation(t, reservations, c.ID, at, 2)

	later := at.Add(24 * time.Hour)
	res.StartAt = later
	if err := reservations.Save(ctx, res); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := customers.Reservations(ctx, c)
	if err != nil {
		t.Fatalf("Reservations failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Reservations returned %d rows, want 1", len(got))
	}
	if !got[0].StartAt.Equal(later) {
		t.Errorf("StartAt = %v, want %v", got[0].StartAt, later)
	}
}

func TestReservationSave_UnknownCustomer(t *testing.T) {
	reservations := NewReservationRepo(openTestDB(t))
	res, err := model.NewReservation(999, time.Now().UTC(), 2, nil)
	if err != nil {
		t.Fatalf("NewReservation failed: %v", err)
	}
	if err := reservations.Save(context.Background(), res); err == nil {
		t.Fatal("expected the store to reject an unknown customer")
	}
	if res.ID != 0 {
		t.Errorf("ID = %d after a failed insert, want 0", res.ID)
	}
}

func TestReservationForCustomer_InvalidStoredGuestCount(t *testing.T) {
	db := openTestDB(t)
	c := mustSaveCustomer(t, NewCustomerRepo(db), "John", "Smith")
	if _, err := db.Exec(`INSERT INTO reservations (customer_id, start_at, num_guests) VALUES (?, ?, 0)`,
		int64(c.ID), time.Now().UTC()); err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	_, err := NewReservationRepo(db).ForCustomer(context.Background(), c.ID)
	if !errors.Is(err, model.ErrInvalidGuestCount) {
		t.Errorf("ForCustomer error = %v, want ErrInvalidGuestCount", err)
	}
}

func TestRepositoriesRunInsideTx(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	mustSaveCustomer(t, NewCustomerRepo(tx), "Rolled", "Back")
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	all, err := NewCustomerRepo(db).ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("ListAll = %v after rollback, want none", names(all))
	}
}
