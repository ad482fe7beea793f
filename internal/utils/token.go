package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// reservationCodeBytes gives 8 hex characters per code.
const reservationCodeBytes = 4

// NewReservationCode returns a random upper-case hex code stored with a
// reservation and handed to the booking device as its ownership proof.
func NewReservationCode() (string, error) {
	raw, err := randomHex(reservationCodeBytes)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(raw), nil
}

// randomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.  If the random number generator
// fails, an error is returned.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
