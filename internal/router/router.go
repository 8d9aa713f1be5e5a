package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/StuFleisher/lunchly/internal/handler"
)

// RegisterRoutes registers routes that sit outside the versioned API.
// At the moment it only exposes a health check backed by a store ping.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}
