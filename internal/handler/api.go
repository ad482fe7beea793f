package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terrace-reservation/internal/booking"
	"github.com/iliyamo/terrace-reservation/internal/calendar"
	"github.com/iliyamo/terrace-reservation/internal/model"
)

// ----- DTOs -----

type slotResp struct {
	TimeSlot    model.TimeSlot     `json:"time_slot"`
	Label       string             `json:"label"`
	State       string             `json:"state"`
	Clickable   bool               `json:"clickable"`
	Owned       bool               `json:"owned"`
	Reservation *model.Reservation `json:"reservation,omitempty"`
}

type dayResp struct {
	Day   int        `json:"day"`
	Date  string     `json:"date"`
	Past  bool       `json:"past"`
	Slots []slotResp `json:"slots"`
}

type calendarResp struct {
	Month    string    `json:"month"`
	Title    string    `json:"title"`
	Prev     string    `json:"prev"`
	Next     string    `json:"next"`
	Today    string    `json:"today"`
	Weekdays []string  `json:"weekdays"`
	Leading  int       `json:"leading"`
	Days     []dayResp `json:"days"`
}

type createResp struct {
	ID          string            `json:"id"`
	Reservation model.Reservation `json:"reservation"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
}

// newCalendarResp converts a grid; reservation codes never leave the server.
func newCalendarResp(g calendar.Grid) calendarResp {
	out := calendarResp{
		Month:    g.Month.String(),
		Title:    g.Title(),
		Prev:     g.Month.Prev().String(),
		Next:     g.Month.Next().String(),
		Today:    g.Today,
		Weekdays: g.Weekdays(),
		Leading:  g.Leading,
		Days:     make([]dayResp, 0, len(g.Days())),
	}
	for _, cell := range g.Days() {
		d := dayResp{Day: cell.Day, Date: cell.Date, Past: cell.Past, Slots: make([]slotResp, 0, len(cell.Slots))}
		for _, s := range cell.Slots {
			sr := slotResp{
				TimeSlot:  s.TimeSlot,
				Label:     s.Label(),
				State:     s.State.String(),
				Clickable: s.State.Clickable(),
				Owned:     s.Owned,
			}
			if s.Reservation != nil {
				pub := s.Reservation.Public()
				sr.Reservation = &pub
			}
			d.Slots = append(d.Slots, sr)
		}
		out.Days = append(out.Days, d)
	}
	return out
}

// Calendar handles GET /v1/calendar?month=YYYY-MM and returns the grid as
// seen by the calling device.
func (h *TerraceHandler) Calendar(c echo.Context) error {
	m := h.manager(c)
	if s := c.QueryParam("month"); s != "" {
		month, err := calendar.ParseMonth(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid month, want YYYY-MM"})
		}
		m.SetMonth(month)
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := m.Refresh(ctx); err != nil {
		log.Printf("api: list reservations failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, newCalendarResp(m.Grid()))
}

// ListReservations handles GET /v1/reservations.  The response is the same
// for every device, which is what makes it cacheable.
func (h *TerraceHandler) ListReservations(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.Reservations.List(ctx)
	if err != nil {
		log.Printf("api: list reservations failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]model.Reservation, 0, len(list))
	for _, r := range list {
		out = append(out, r.Public())
	}
	return c.JSON(http.StatusOK, out)
}

// CreateReservation handles POST /v1/reservations.  The body is
// {date, time_slot, floor, apartment}; the reservation code is stored in
// the device store and not returned.
func (h *TerraceHandler) CreateReservation(c echo.Context) error {
	var f booking.Form
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	conf, err := h.manager(c).Book(ctx, f)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("api: create reservation failed: %v", err)
		}
		return c.JSON(status, echo.Map{"error": booking.Message(err)})
	}
	return c.JSON(http.StatusCreated, createResp{
		ID:          conf.Reservation.ID,
		Reservation: conf.Reservation.Public(),
		Title:       conf.Title,
		Message:     conf.Message,
	})
}

// DeleteReservation handles DELETE /v1/reservations/:id.  Only the device
// that booked the reservation may cancel it.
func (h *TerraceHandler) DeleteReservation(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.manager(c).Cancel(ctx, c.Param("id")); err != nil {
		return c.JSON(statusFor(err), echo.Map{"error": booking.Message(err)})
	}
	return c.NoContent(http.StatusNoContent)
}

// BuildingLayout handles GET /v1/layout.
func (h *TerraceHandler) BuildingLayout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"floors":     h.Layout.Floors,
		"apartments": h.Layout.Apartments,
	})
}
