package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terrace-reservation/internal/handler"
)

// RegisterResident registers the JSON API used by residents under /v1.
// The caller is identified by the device cookie, not by a token.  Only
// the reservation list is cached because it is the same for every device;
// the calendar carries per-device ownership.
func RegisterResident(e *echo.Echo, h *handler.TerraceHandler, mw Middleware) {
	mw = mw.withDefaults()
	g := e.Group("/v1", mw.Device)
	g.GET("/layout", h.BuildingLayout)
	g.GET("/calendar", h.Calendar)
	g.GET("/reservations", h.ListReservations, mw.Cache)
	g.POST("/reservations", h.CreateReservation, mw.RateLimit, mw.Purge)
	g.DELETE("/reservations/:id", h.DeleteReservation, mw.RateLimit, mw.Purge)
}
