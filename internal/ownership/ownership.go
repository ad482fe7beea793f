// Package ownership remembers which reservations were booked from a
// device.  When a reservation is created its code is written to the
// device's store under reservation_<id>; the calendar later compares the
// stored code with the one the backend returns to decide whether the
// device may cancel.
package ownership

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/iliyamo/terrace-reservation/internal/model"
)

// keyPrefix namespaces ownership entries inside a device store.
const keyPrefix = "reservation_"

// ErrNotExist is returned by Store.Get for unknown keys.
var ErrNotExist = errors.New("key not found")

// Store is a device-scoped persistent key/value map.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Key returns the store key for a reservation id.
func Key(reservationID string) string { return keyPrefix + reservationID }

// Code is the reservation code held by the device that booked it.  It is a
// capability token: holding it is what lets a device cancel.
//
// Security caveat: the code is an opaque random string, not a signature.
// It only prevents a resident from accidentally cancelling someone else's
// booking from their own device.  It is not a defence against an
// adversary who can read the code or call the backend directly.
type Code string

// Matches reports whether c proves ownership of a reservation whose
// stored code is actual.  Empty codes never match.
func (c Code) Matches(actual string) bool {
	if c == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c), []byte(actual)) == 1
}

// Codes maps reservation ids to the codes known to a device.
type Codes map[string]Code

// Owns reports whether the codes prove ownership of r.
func (cs Codes) Owns(r model.Reservation) bool {
	code, ok := cs[r.ID]
	return ok && code.Matches(r.Code)
}

// Ledger reads and writes ownership entries in a Store.
type Ledger struct {
	store Store
}

// NewLedger wraps store.
func NewLedger(store Store) *Ledger { return &Ledger{store: store} }

// Remember records the code returned for a freshly created reservation.
func (l *Ledger) Remember(ctx context.Context, r model.Reservation) error {
	return l.store.Set(ctx, Key(r.ID), r.Code)
}

// Forget drops the entry for a reservation id.  Missing entries are fine.
func (l *Ledger) Forget(ctx context.Context, reservationID string) error {
	err := l.store.Delete(ctx, Key(reservationID))
	if errors.Is(err, ErrNotExist) {
		return nil
	}
	return err
}

// CodeFor returns the stored code for a reservation id, or "" when the
// device never booked it.
func (l *Ledger) CodeFor(ctx context.Context, reservationID string) (Code, error) {
	v, err := l.store.Get(ctx, Key(reservationID))
	if errors.Is(err, ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return Code(v), nil
}

// Codes loads the stored codes for every reservation in the list.
func (l *Ledger) Codes(ctx context.Context, reservations []model.Reservation) (Codes, error) {
	codes := make(Codes)
	for _, r := range reservations {
		code, err := l.CodeFor(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		if code != "" {
			codes[r.ID] = code
		}
	}
	return codes, nil
}

// Owns reports whether the device holds the matching code for r.
func (l *Ledger) Owns(ctx context.Context, r model.Reservation) (bool, error) {
	code, err := l.CodeFor(ctx, r.ID)
	if err != nil {
		return false, err
	}
	return code.Matches(r.Code), nil
}
