// Package queue defines the reservation events exchanged over the message
// broker, the publisher that emits them and the consumer that records them.
package queue

import (
	"time"

	"github.com/iliyamo/terrace-reservation/internal/model"
)

// QueueName is the durable queue carrying reservation events.
const QueueName = "terrace.reservations"

// Event types.
const (
	TypeCreated   = "reservation.created"
	TypeCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a reservation is created or
// cancelled.  It holds enough to write an audit line or notify the
// building administration without querying the database.
type ReservationEvent struct {
	Type          string `json:"type"`
	ReservationID string `json:"reservation_id"`
	Date          string `json:"reservation_date"`
	TimeSlot      string `json:"time_slot"`
	Floor         int    `json:"floor"`
	Apartment     string `json:"apartment"`
	DeviceID      string `json:"device_id,omitempty"`
	Actor         string `json:"actor,omitempty"` // "resident" or "admin"
	OccurredAt    string `json:"occurred_at"`
}

// NewEvent builds an event of the given type for r.
func NewEvent(typ string, r model.Reservation, deviceID, actor string) ReservationEvent {
	return ReservationEvent{
		Type:          typ,
		ReservationID: r.ID,
		Date:          r.Date,
		TimeSlot:      string(r.TimeSlot),
		Floor:         r.Floor,
		Apartment:     r.Apartment,
		DeviceID:      deviceID,
		Actor:         actor,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
}
