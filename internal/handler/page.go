package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/terrace-reservation/internal/booking"
	"github.com/iliyamo/terrace-reservation/internal/calendar"
	"github.com/iliyamo/terrace-reservation/internal/model"
)

const loadFailedText = "No se pudieron cargar las reservas. Por favor recarga la página."

// pageData feeds every page template.
type pageData struct {
	Grid         calendar.Grid
	Month        string // displayed month, YYYY-MM
	Prev         string
	Next         string
	Notice       string
	Error        string
	Form         booking.Form
	Layout       booking.Layout
	Confirmation *booking.Confirmation
	Reservation  *model.Reservation
}

// monthOf returns the YYYY-MM month of a reservation date, or "" when the
// date does not parse.
func monthOf(date string) string {
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return ""
	}
	return calendar.MonthOf(d).String()
}

func (h *TerraceHandler) renderCalendar(c echo.Context, status int, m *booking.Manager, data pageData) error {
	g := m.Grid()
	data.Grid = g
	data.Month = g.Month.String()
	data.Prev = g.Month.Prev().String()
	data.Next = g.Month.Next().String()
	return c.Render(status, "calendar", data)
}

// Index handles GET /.  The reservation list is fetched once per render;
// ?month=YYYY-MM selects the displayed month and defaults to today's.
func (h *TerraceHandler) Index(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	m := h.manager(c)
	var data pageData
	if err := m.Refresh(ctx); err != nil {
		log.Printf("page: list reservations failed: %v", err)
		data.Error = loadFailedText
	}
	if s := c.QueryParam("month"); s != "" {
		if month, err := calendar.ParseMonth(s); err == nil {
			m.SetMonth(month)
		}
	}
	return h.renderCalendar(c, http.StatusOK, m, data)
}

// BookForm handles GET /book?date=&slot=, the click on a calendar slot.
// Free slots open the dialog, own reservations redirect to the cancel
// confirmation and anything else re-renders the calendar with a notice.
func (h *TerraceHandler) BookForm(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	m := h.manager(c)
	if err := m.Refresh(ctx); err != nil {
		log.Printf("page: list reservations failed: %v", err)
		return h.renderCalendar(c, http.StatusInternalServerError, m, pageData{Error: loadFailedText})
	}
	day, err := time.Parse(model.DateLayout, c.QueryParam("date"))
	if err != nil {
		return h.renderCalendar(c, http.StatusBadRequest, m, pageData{Notice: booking.Message(booking.ErrInvalidDate)})
	}
	m.SetMonth(calendar.MonthOf(day))

	action, err := m.Select(day.Day(), model.TimeSlot(c.QueryParam("slot")))
	if err != nil {
		return h.renderCalendar(c, statusFor(err), m, pageData{Notice: booking.Message(err)})
	}
	if action.Kind == calendar.ActionCancel {
		return c.Redirect(http.StatusSeeOther, "/cancel/"+action.Reservation.ID)
	}
	sel, _ := m.Selection()
	return c.Render(http.StatusOK, "book", pageData{
		Month:  m.Month().String(),
		Form:   booking.Form{Date: sel.Date, TimeSlot: sel.TimeSlot},
		Layout: h.Layout,
	})
}

// Book handles POST /book.  Validation and backend errors re-render the
// dialog with the submitted values and an inline message.
func (h *TerraceHandler) Book(c echo.Context) error {
	var f booking.Form
	if err := c.Bind(&f); err != nil {
		return c.Render(http.StatusBadRequest, "book", pageData{
			Month:  monthOf(f.Date),
			Form:   f,
			Layout: h.Layout,
			Error:  booking.Message(booking.ErrIncompleteForm),
		})
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	conf, err := h.manager(c).Book(ctx, f)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			log.Printf("page: create reservation failed: %v", err)
		}
		return c.Render(statusFor(err), "book", pageData{
			Month:  monthOf(f.Date),
			Form:   f,
			Layout: h.Layout,
			Error:  booking.Message(err),
		})
	}
	return c.Render(http.StatusOK, "confirm", pageData{
		Month:        monthOf(conf.Reservation.Date),
		Confirmation: &conf,
	})
}

// CancelForm handles GET /cancel/:id and shows the confirmation for a
// reservation owned by the calling device.
func (h *TerraceHandler) CancelForm(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	m := h.manager(c)
	res, err := m.Owned(ctx, c.Param("id"))
	if err != nil {
		if rerr := m.Refresh(ctx); rerr != nil {
			log.Printf("page: list reservations failed: %v", rerr)
		}
		return h.renderCalendar(c, statusFor(err), m, pageData{Notice: booking.Message(err)})
	}
	return c.Render(http.StatusOK, "cancel", pageData{Month: monthOf(res.Date), Reservation: &res})
}

// Cancel handles POST /cancel/:id.  On success the resident is sent back
// to the month of the cancelled reservation.
func (h *TerraceHandler) Cancel(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	m := h.manager(c)
	id := c.Param("id")
	res, err := m.Owned(ctx, id)
	if err != nil {
		if rerr := m.Refresh(ctx); rerr != nil {
			log.Printf("page: list reservations failed: %v", rerr)
		}
		return h.renderCalendar(c, statusFor(err), m, pageData{Notice: booking.Message(err)})
	}
	if err := m.Cancel(ctx, id); err != nil {
		return c.Render(statusFor(err), "cancel", pageData{
			Month:       monthOf(res.Date),
			Reservation: &res,
			Error:       booking.Message(err),
		})
	}
	return c.Redirect(http.StatusSeeOther, "/?month="+monthOf(res.Date))
}
