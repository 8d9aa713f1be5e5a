package router

import (
	"github.com/labstack/echo/v4"

	"github.com/StuFleisher/lunchly/internal/handler"
)

// RegisterCustomer registers the customer and reservation endpoints under
// /v1.  writeLimit wraps the routes that create or change rows; reads are
// not limited.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, writeLimit echo.MiddlewareFunc) {
	g := e.Group("/v1/customers")

	g.GET("", h.ListCustomers)
	// Static segment; echo matches it before the :id route below.
	g.GET("/best", h.BestCustomers)
	g.GET("/:id", h.GetCustomer)

	g.POST("", h.CreateCustomer, writeLimit)
	g.PUT("/:id", h.UpdateCustomer, writeLimit)
	g.POST("/:id/reservations", h.CreateReservation, writeLimit)
}
