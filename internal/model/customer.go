package model

// Customer is a guest of the restaurant.  It corresponds to a row in the
// `customers` table.  Reservations are not held here; they are looked up
// on demand through the repository.
//
// Fields:
//  ID        – primary key identifier, zero until the customer is saved.
//  FirstName – given name.
//  LastName  – family name.
//  Phone     – contact number (nil when unknown).
//  Notes     – free-text notes kept by staff (nil when empty).
type Customer struct {
    ID        uint64  `json:"id"`         // customers.id
    FirstName string  `json:"first_name"` // customers.first_name
    LastName  string  `json:"last_name"`  // customers.last_name
    Phone     *string `json:"phone"`      // customers.phone (nullable)
    Notes     *string `json:"notes"`      // customers.notes (nullable)
}

// NewCustomer builds an unsaved customer from raw input.
func NewCustomer(firstName, lastName string, phone, notes *string) *Customer {
    return &Customer{
        FirstName: firstName,
        LastName:  lastName,
        Phone:     phone,
        Notes:     notes,
    }
}

// FullName joins the first and last name with a single space.
func (c *Customer) FullName() string {
    return c.FirstName + " " + c.LastName
}

// IsNew reports whether the customer has never been saved.
func (c *Customer) IsNew() bool { return c.ID == 0 }
