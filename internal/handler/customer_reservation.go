package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/StuFleisher/lunchly/internal/model"
    "github.com/StuFleisher/lunchly/internal/queue"
    "github.com/StuFleisher/lunchly/internal/repository"
)

// publishTimeout bounds how long a booking request waits on the broker.
const publishTimeout = 3 * time.Second

// EventPublisher sends reservation events to downstream consumers.
type EventPublisher interface {
    PublishReservationBooked(ctx context.Context, ev queue.ReservationBookedEvent) error
}

// CustomerHandler serves the customer and reservation endpoints.  Events
// may be nil, in which case no reservation events are published.
type CustomerHandler struct {
    Customers    *repository.CustomerRepo
    Reservations *repository.ReservationRepo
    Events       EventPublisher
}

// NewCustomerHandler constructs a CustomerHandler.  Both repositories must
// be non-nil.
func NewCustomerHandler(customers *repository.CustomerRepo, reservations *repository.ReservationRepo, events EventPublisher) *CustomerHandler {
    if customers == nil || reservations == nil {
        panic("nil repository passed to NewCustomerHandler")
    }
    return &CustomerHandler{Customers: customers, Reservations: reservations, Events: events}
}

// customerRequest is the body of POST /v1/customers and PUT /v1/customers/:id.
type customerRequest struct {
    FirstName string  `json:"first_name" validate:"required,max=100"`
    LastName  string  `json:"last_name" validate:"required,max=100"`
    Phone     *string `json:"phone" validate:"omitempty,max=30"`
    Notes     *string `json:"notes" validate:"omitempty,max=2000"`
}

// reservationRequest is the body of POST /v1/customers/:id/reservations.
// The guest count is checked by the model, not here, so that the rule
// lives in one place.
type reservationRequest struct {
    StartAt   time.Time `json:"start_at" validate:"required"`
    NumGuests int       `json:"num_guests"`
    Notes     *string   `json:"notes" validate:"omitempty,max=2000"`
}

// customerView adds the derived full name to a customer.
type customerView struct {
    *model.Customer
    FullName string `json:"full_name"`
}

func viewOf(c *model.Customer) customerView {
    return customerView{Customer: c, FullName: c.FullName()}
}

func viewsOf(cs []*model.Customer) []customerView {
    out := make([]customerView, 0, len(cs))
    for _, c := range cs {
        out = append(out, viewOf(c))
    }
    return out
}

// bindValid binds the request body into dst and validates it.
func bindValid(c echo.Context, dst any) error {
    if err := c.Bind(dst); err != nil {
        return errInvalidBody
    }
    return c.Validate(dst)
}

// ListCustomers handles GET /v1/customers.  With a ?search= parameter the
// list is narrowed to customers whose full name contains the term.
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
    ctx := c.Request().Context()
    var (
        customers []*model.Customer
        err       error
    )
    if c.QueryParams().Has("search") {
        customers, err = h.Customers.Search(ctx, c.QueryParam("search"))
    } else {
        customers, err = h.Customers.ListAll(ctx)
    }
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": viewsOf(customers)})
}

// BestCustomers handles GET /v1/customers/best.
func (h *CustomerHandler) BestCustomers(c echo.Context) error {
    customers, err := h.Customers.BestCustomers(c.Request().Context())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": viewsOf(customers)})
}

// GetCustomer handles GET /v1/customers/:id.  The customer is returned
// with its reservations.
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
    ctx := c.Request().Context()
    customer, err := h.Customers.GetByID(ctx, c.Param("id"))
    if err != nil {
        return respondError(c, err)
    }
    reservations, err := h.Customers.Reservations(ctx, customer)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "customer":     viewOf(customer),
        "reservations": reservations,
    })
}

// CreateCustomer handles POST /v1/customers and answers 201 with the
// stored customer.
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
    var body customerRequest
    if err := bindValid(c, &body); err != nil {
        return respondError(c, err)
    }
    customer := model.NewCustomer(body.FirstName, body.LastName, body.Phone, body.Notes)
    if err := h.Customers.Save(c.Request().Context(), customer); err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, viewOf(customer))
}

// UpdateCustomer handles PUT /v1/customers/:id.  Every mutable field is
// replaced by the request body.
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
    ctx := c.Request().Context()
    customer, err := h.Customers.GetByID(ctx, c.Param("id"))
    if err != nil {
        return respondError(c, err)
    }
    var body customerRequest
    if err := bindValid(c, &body); err != nil {
        return respondError(c, err)
    }
    customer.FirstName = body.FirstName
    customer.LastName = body.LastName
    customer.Phone = body.Phone
    customer.Notes = body.Notes
    if err := h.Customers.Save(ctx, customer); err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, viewOf(customer))
}

// CreateReservation handles POST /v1/customers/:id/reservations.  It
// answers 404 for an unknown customer, 400 for a party smaller than one
// guest, and 201 with the stored reservation otherwise.  A
// ReservationBookedEvent is published afterwards; a publish failure is
// logged and does not fail the request.
func (h *CustomerHandler) CreateReservation(c echo.Context) error {
    ctx := c.Request().Context()
    customer, err := h.Customers.GetByID(ctx, c.Param("id"))
    if err != nil {
        return respondError(c, err)
    }
    var body reservationRequest
    if err := bindValid(c, &body); err != nil {
        return respondError(c, err)
    }
    res, err := model.NewReservation(customer.ID, body.StartAt.UTC(), body.NumGuests, body.Notes)
    if err != nil {
        return respondError(c, err)
    }
    if err := h.Reservations.Save(ctx, res); err != nil {
        return respondError(c, err)
    }

    if h.Events != nil {
        pctx, cancel := context.WithTimeout(ctx, publishTimeout)
        defer cancel()
        ev := queue.NewReservationBookedEvent(customer, res, time.Now())
        if err := h.Events.PublishReservationBooked(pctx, ev); err != nil {
            c.Logger().Warnf("reservation %d saved but event not published: %v", res.ID, err)
        }
    }
    return c.JSON(http.StatusCreated, res)
}
