// Package calendar builds the month grid of the terrace calendar.  Build is
// a pure function of the reservation list, the displayed month, today's
// date and the device's known reservation codes; rendering layers only
// read the resulting Grid.
package calendar

import (
	"errors"
	"time"

	"github.com/iliyamo/terrace-reservation/internal/model"
	"github.com/iliyamo/terrace-reservation/internal/ownership"
)

// NotOwnerNotice is shown when a resident clicks a slot booked by someone else.
const NotOwnerNotice = "Esta reserva pertenece a otro departamento. Solo quien reservó puede cancelarla."

var (
	ErrPastSlot    = errors.New("slot is in the past")
	ErrNotOwner    = errors.New("reservation belongs to another apartment")
	ErrNoSuchDay   = errors.New("day outside displayed month")
	ErrInvalidSlot = errors.New("unknown time slot")
)

// State classifies a slot for display and click handling.
type State int

const (
	StateFree State = iota
	StatePast
	StateOwn
	StateOther
)

func (s State) String() string {
	switch s {
	case StatePast:
		return "past"
	case StateOwn:
		return "own"
	case StateOther:
		return "other"
	}
	return "free"
}

// Clickable reports whether the slot reacts to a click.
func (s State) Clickable() bool { return s == StateFree || s == StateOwn }

// Slot is one bookable half-day of a cell.
type Slot struct {
	TimeSlot    model.TimeSlot
	Date        string
	State       State
	Owned       bool               // device holds the code, even on past days
	Reservation *model.Reservation // nil when nobody booked the slot
}

// Label is the text shown on the slot button.
func (s Slot) Label() string {
	if s.Reservation == nil {
		return s.TimeSlot.Label()
	}
	label := s.Reservation.Unit()
	if s.Owned {
		label += " ✓"
	}
	return label
}

// Cell is one day of the grid.  Padding cells have Day == 0 and no slots.
type Cell struct {
	Day   int
	Date  string
	Past  bool
	Slots []Slot
}

// Empty reports whether c is a leading padding cell.
func (c Cell) Empty() bool { return c.Day == 0 }

// Grid is the computed state of a displayed month.
type Grid struct {
	Month   Month
	Today   string
	Leading int
	Cells   []Cell
}

// Title renders the header, e.g. "Septiembre 2025".
func (g Grid) Title() string { return g.Month.Title() }

// Weekdays returns the column headers.
func (g Grid) Weekdays() []string { return WeekdayHeaders }

// Days returns the non-padding cells.
func (g Grid) Days() []Cell { return g.Cells[g.Leading:] }

// Slot returns the slot of a day in the displayed month.
func (g Grid) Slot(day int, slot model.TimeSlot) (Slot, error) {
	if !slot.Valid() {
		return Slot{}, ErrInvalidSlot
	}
	if day < 1 || day > len(g.Cells)-g.Leading {
		return Slot{}, ErrNoSuchDay
	}
	for _, s := range g.Cells[g.Leading+day-1].Slots {
		if s.TimeSlot == slot {
			return s, nil
		}
	}
	return Slot{}, ErrInvalidSlot
}

// ActionKind tells the caller which dialog a click opens.
type ActionKind int

const (
	ActionBook ActionKind = iota + 1
	ActionCancel
)

// Action is the result of clicking a clickable slot.
type Action struct {
	Kind        ActionKind
	Date        string
	TimeSlot    model.TimeSlot
	Reservation *model.Reservation // set for ActionCancel
}

// Click resolves a click on (day, slot).  Free slots open the booking
// dialog pre-filled with the slot, own reservations open the cancel
// confirmation, past slots and reservations of others are rejected.
func (g Grid) Click(day int, slot model.TimeSlot) (Action, error) {
	s, err := g.Slot(day, slot)
	if err != nil {
		return Action{}, err
	}
	switch s.State {
	case StatePast:
		return Action{}, ErrPastSlot
	case StateOther:
		return Action{}, ErrNotOwner
	case StateOwn:
		return Action{Kind: ActionCancel, Date: s.Date, TimeSlot: s.TimeSlot, Reservation: s.Reservation}, nil
	}
	return Action{Kind: ActionBook, Date: s.Date, TimeSlot: s.TimeSlot}, nil
}

type slotKey struct {
	date string
	slot model.TimeSlot
}

// Build computes the grid of month m.  today is truncated to its calendar
// date; a day strictly before it is past.  The reservation slice is only
// read.
func Build(reservations []model.Reservation, m Month, today time.Time, codes ownership.Codes) Grid {
	index := make(map[slotKey]int, len(reservations))
	for i, r := range reservations {
		k := slotKey{r.Date, r.TimeSlot}
		if _, dup := index[k]; !dup {
			index[k] = i
		}
	}

	todayStr := today.Format(model.DateLayout)
	leading := int(m.FirstWeekday())
	days := m.Days()
	g := Grid{
		Month:   m,
		Today:   todayStr,
		Leading: leading,
		Cells:   make([]Cell, leading, leading+days),
	}
	for day := 1; day <= days; day++ {
		date := m.Date(day)
		past := date < todayStr
		cell := Cell{Day: day, Date: date, Past: past, Slots: make([]Slot, 0, len(model.Slots))}
		for _, ts := range model.Slots {
			s := Slot{TimeSlot: ts, Date: date}
			if i, ok := index[slotKey{date, ts}]; ok {
				r := reservations[i]
				s.Reservation = &r
				s.Owned = codes.Owns(r)
			}
			s.State = classify(past, s.Reservation != nil, s.Owned)
			cell.Slots = append(cell.Slots, s)
		}
		g.Cells = append(g.Cells, cell)
	}
	return g
}

func classify(past, reserved, owned bool) State {
	switch {
	case past:
		return StatePast
	case !reserved:
		return StateFree
	case owned:
		return StateOwn
	}
	return StateOther
}
