package booking

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/iliyamo/terrace-reservation/internal/model"
)

var (
	ErrIncompleteForm   = errors.New("floor and apartment are required")
	ErrInvalidFloor     = errors.New("unknown floor")
	ErrInvalidApartment = errors.New("unknown apartment")
	ErrInvalidDate      = errors.New("invalid reservation date")
)

// Layout lists the floors and apartment letters of the building.
type Layout struct {
	Floors     []int
	Apartments []string
}

// DefaultLayout is a six-floor building with apartments A and B.
func DefaultLayout() Layout {
	return Layout{Floors: []int{1, 2, 3, 4, 5, 6}, Apartments: []string{"A", "B"}}
}

// Form is the booking dialog.  Floor is 0 and Apartment is empty until the
// resident picks them.
type Form struct {
	Date      string         `json:"date" form:"date"`
	TimeSlot  model.TimeSlot `json:"time_slot" form:"time_slot"`
	Floor     int            `json:"floor" form:"floor"`
	Apartment string         `json:"apartment" form:"apartment"`
}

// Ready reports whether the submit button may be enabled.
func (f Form) Ready() bool { return f.Floor != 0 && strings.TrimSpace(f.Apartment) != "" }

// Validate checks the form against the building layout and returns the
// reservation to insert.  The date is re-rendered as YYYY-MM-DD from its
// calendar fields with no zone conversion.
func (f Form) Validate(layout Layout) (model.NewReservation, error) {
	if !f.Ready() {
		return model.NewReservation{}, ErrIncompleteForm
	}
	day, err := time.Parse(model.DateLayout, strings.TrimSpace(f.Date))
	if err != nil {
		return model.NewReservation{}, ErrInvalidDate
	}
	if !f.TimeSlot.Valid() {
		return model.NewReservation{}, ErrInvalidSlot
	}
	if !slices.Contains(layout.Floors, f.Floor) {
		return model.NewReservation{}, ErrInvalidFloor
	}
	apt := strings.ToUpper(strings.TrimSpace(f.Apartment))
	if !slices.Contains(layout.Apartments, apt) {
		return model.NewReservation{}, ErrInvalidApartment
	}
	return model.NewReservation{
		Date:      day.Format(model.DateLayout),
		TimeSlot:  f.TimeSlot,
		Floor:     f.Floor,
		Apartment: apt,
	}, nil
}
