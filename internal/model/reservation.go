package model

import (
	"strconv"
	"time"
)

// DateLayout is the fixed calendar-date representation used for
// reservation_date values everywhere in the application (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// TimeSlot names one of the two half-day booking windows of a day.
type TimeSlot string

const (
	SlotMorning          TimeSlot = "morning"
	SlotAfternoonEvening TimeSlot = "afternoon_evening"
)

// Slots lists the booking windows in display order.
var Slots = []TimeSlot{SlotMorning, SlotAfternoonEvening}

// Valid reports whether s is one of the known booking windows.
func (s TimeSlot) Valid() bool {
	return s == SlotMorning || s == SlotAfternoonEvening
}

// Label returns the Spanish display text for the slot.
func (s TimeSlot) Label() string {
	if s == SlotMorning {
		return "Mañana"
	}
	return "Tarde/Noche"
}

// Short returns the one-letter label used on narrow layouts.
func (s TimeSlot) Short() string {
	if s == SlotMorning {
		return "M"
	}
	return "T"
}

// Reservation records one booking of the terrace for a single
// (date, slot) pair.  Reservations are never updated in place; they are
// created by a resident and deleted when cancelled.
//
// Fields:
//
//	ID        – opaque unique identifier (UUID string).
//	Date      – reservation date, formatted with DateLayout.
//	TimeSlot  – booked window.
//	Floor     – floor of the booking apartment.
//	Apartment – apartment letter on that floor.
//	Code      – reservation code generated at creation, used as ownership proof.
//	CreatedAt – creation timestamp.
type Reservation struct {
	ID        string    `json:"id"`                         // terrace_reservations.id
	Date      string    `json:"reservation_date"`           // terrace_reservations.reservation_date
	TimeSlot  TimeSlot  `json:"time_slot"`                  // terrace_reservations.time_slot
	Floor     int       `json:"floor"`                      // terrace_reservations.floor
	Apartment string    `json:"apartment"`                  // terrace_reservations.apartment
	Code      string    `json:"reservation_code,omitempty"` // terrace_reservations.reservation_code
	CreatedAt time.Time `json:"created_at"`                 // terrace_reservations.created_at
}

// Unit returns floor and apartment the way residents write it, e.g. "3A".
func (r Reservation) Unit() string {
	return strconv.Itoa(r.Floor) + r.Apartment
}

// Public returns a copy of the reservation without its code so it can be
// shown to any device.
func (r Reservation) Public() Reservation {
	r.Code = ""
	return r
}

// NewReservation carries the fields a resident submits when booking.  ID
// and Code are generated by the backend.
type NewReservation struct {
	Date      string
	TimeSlot  TimeSlot
	Floor     int
	Apartment string
}
