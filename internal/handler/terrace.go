package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terrace-reservation/internal/booking"
	"github.com/iliyamo/terrace-reservation/internal/calendar"
	"github.com/iliyamo/terrace-reservation/internal/middleware"
	"github.com/iliyamo/terrace-reservation/internal/ownership"
	"github.com/iliyamo/terrace-reservation/internal/queue"
)

// requestTimeout bounds every backend round trip made for one request.
const requestTimeout = 5 * time.Second

// TerraceHandler serves the calendar pages and the resident JSON API.
// Each request gets its own booking.Manager bound to the calling device's
// ownership store, so no resident state lives in the handler.
type TerraceHandler struct {
	Reservations booking.Backend   // reservations table (MySQL or memory)
	Devices      ownership.Devices // per-device ownership stores
	Publisher    queue.Publisher   // reservation events
	Layout       booking.Layout    // floors and apartments offered in the dialog
	Now          func() time.Time  // clock, replaced in tests
}

// NewTerraceHandler wires the handler.  A nil publisher disables events.
func NewTerraceHandler(repo booking.Backend, devices ownership.Devices, pub queue.Publisher, layout booking.Layout) *TerraceHandler {
	if repo == nil || devices == nil {
		panic("nil dependency passed to NewTerraceHandler")
	}
	if pub == nil {
		pub = queue.Nop{}
	}
	return &TerraceHandler{Reservations: repo, Devices: devices, Publisher: pub, Layout: layout, Now: time.Now}
}

func (h *TerraceHandler) manager(c echo.Context) *booking.Manager {
	device := middleware.DeviceID(c)
	return booking.NewManager(h.Reservations, ownership.NewLedger(h.Devices.For(device)),
		booking.WithClock(h.Now),
		booking.WithPublisher(h.Publisher),
		booking.WithLayout(h.Layout),
		booking.WithDevice(device),
	)
}

func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// statusFor maps booking errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, booking.ErrIncompleteForm),
		errors.Is(err, booking.ErrInvalidFloor),
		errors.Is(err, booking.ErrInvalidApartment),
		errors.Is(err, booking.ErrInvalidDate),
		errors.Is(err, booking.ErrInvalidSlot),
		errors.Is(err, booking.ErrPastSlot),
		errors.Is(err, calendar.ErrNoSuchDay):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrSlotTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
