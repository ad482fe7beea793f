// Package repository defines error types that are reused across the
// reservation stores.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrSlotTaken signals that another resident already holds the
// requested date and slot, while ErrNotFound indicates that a reservation
// no longer exists (it may have been cancelled from another device).
package repository

import "errors"

// ErrSlotTaken is returned when an insert violates the unique key on
// (reservation_date, time_slot).  Handlers should translate this into an
// HTTP 409 response.
var ErrSlotTaken = errors.New("slot already reserved")

// ErrNotFound is returned when a reservation with the given id does not
// exist.  Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("reservation not found")
