// Package booking mediates between the calendar and the reservation
// backend.  A Manager owns the displayed month, the last fetched
// reservation list, the device's ownership codes and the current
// selection; it books and cancels on behalf of one device and notifies
// subscribers with a freshly built grid whenever any of those change.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/iliyamo/terrace-reservation/internal/calendar"
	"github.com/iliyamo/terrace-reservation/internal/model"
	"github.com/iliyamo/terrace-reservation/internal/ownership"
	"github.com/iliyamo/terrace-reservation/internal/queue"
	"github.com/iliyamo/terrace-reservation/internal/repository"
)

// Re-exported so callers can match on a single package.
var (
	ErrPastSlot    = calendar.ErrPastSlot
	ErrNotOwner    = calendar.ErrNotOwner
	ErrInvalidSlot = calendar.ErrInvalidSlot
	ErrSlotTaken   = repository.ErrSlotTaken
	ErrNotFound    = repository.ErrNotFound
)

// ErrCancelFailed wraps backend failures while deleting.
var ErrCancelFailed = errors.New("cancellation failed")

// Backend is the relational store holding reservations.
type Backend interface {
	List(ctx context.Context) ([]model.Reservation, error)
	GetByID(ctx context.Context, id string) (model.Reservation, error)
	Create(ctx context.Context, in model.NewReservation) (model.Reservation, error)
	Delete(ctx context.Context, id string) error
}

// Selection is the slot picked on the calendar, waiting for the booking
// dialog to be submitted.
type Selection struct {
	Date     string
	TimeSlot model.TimeSlot
}

// Confirmation is the view shown once a booking succeeds.  The code is
// kept in the device store and deliberately not part of the message.
type Confirmation struct {
	Reservation model.Reservation
	Title       string
	Message     string
}

const (
	confirmationTitle   = "¡Reserva Confirmada!"
	confirmationMessage = "Tu reserva ha sido creada exitosamente. Solamente podrás cancelar la reserva desde este dispositivo."
)

// Manager coordinates one device's view of the calendar.
type Manager struct {
	backend   Backend
	ledger    *ownership.Ledger
	publisher queue.Publisher
	layout    Layout
	deviceID  string
	now       func() time.Time

	mu           sync.Mutex
	reservations []model.Reservation
	codes        ownership.Codes
	month        calendar.Month
	selection    *Selection
	subs         map[int]func(calendar.Grid)
	nextSub      int
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// WithPublisher sets the event publisher.
func WithPublisher(p queue.Publisher) Option { return func(m *Manager) { m.publisher = p } }

// WithLayout sets the building layout used to validate the form.
func WithLayout(l Layout) Option { return func(m *Manager) { m.layout = l } }

// WithDevice tags published events with the device id.
func WithDevice(id string) Option { return func(m *Manager) { m.deviceID = id } }

// NewManager returns a manager showing the current month.  Call Refresh
// before reading the grid.
func NewManager(backend Backend, ledger *ownership.Ledger, opts ...Option) *Manager {
	m := &Manager{
		backend:   backend,
		ledger:    ledger,
		publisher: queue.Nop{},
		layout:    DefaultLayout(),
		now:       time.Now,
		codes:     ownership.Codes{},
		subs:      make(map[int]func(calendar.Grid)),
	}
	for _, o := range opts {
		o(m)
	}
	m.month = calendar.MonthOf(m.now())
	return m
}

// Layout returns the building layout offered in the dialog.
func (m *Manager) Layout() Layout { return m.layout }

// Subscribe registers fn to receive the grid after every change.  The
// returned function removes the subscription.
func (m *Manager) Subscribe(fn func(calendar.Grid)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// notify must be called without m.mu held.
func (m *Manager) notify() {
	m.mu.Lock()
	g := m.gridLocked()
	fns := make([]func(calendar.Grid), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(g)
	}
}

func (m *Manager) gridLocked() calendar.Grid {
	return calendar.Build(m.reservations, m.month, m.now(), m.codes)
}

// Grid builds the grid of the displayed month.
func (m *Manager) Grid() calendar.Grid {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gridLocked()
}

// Reservations returns a copy of the last fetched list.
func (m *Manager) Reservations() []model.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Reservation(nil), m.reservations...)
}

// Refresh re-fetches the full reservation list and the device's codes.
// The previous state is kept when the fetch fails.
func (m *Manager) Refresh(ctx context.Context) error {
	list, err := m.backend.List(ctx)
	if err != nil {
		return fmt.Errorf("list reservations: %w", err)
	}
	codes, err := m.ledger.Codes(ctx, list)
	if err != nil {
		return fmt.Errorf("load ownership codes: %w", err)
	}
	m.mu.Lock()
	m.reservations = list
	m.codes = codes
	m.mu.Unlock()
	m.notify()
	return nil
}

// Month returns the displayed month.
func (m *Manager) Month() calendar.Month {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.month
}

// SetMonth changes the displayed month without fetching.
func (m *Manager) SetMonth(month calendar.Month) {
	m.mu.Lock()
	m.month = month
	m.mu.Unlock()
	m.notify()
}

// NextMonth moves the calendar forward one month.
func (m *Manager) NextMonth() { m.SetMonth(m.Month().Next()) }

// PrevMonth moves the calendar back one month.
func (m *Manager) PrevMonth() { m.SetMonth(m.Month().Prev()) }

// Select handles a click on a slot of the displayed month.  A free slot
// becomes the current selection; an own reservation is returned for the
// cancel confirmation.
func (m *Manager) Select(day int, slot model.TimeSlot) (calendar.Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	action, err := m.gridLocked().Click(day, slot)
	if err != nil {
		return calendar.Action{}, err
	}
	if action.Kind == calendar.ActionBook {
		m.selection = &Selection{Date: action.Date, TimeSlot: action.TimeSlot}
	}
	return action, nil
}

// Selection returns the pending selection, if any.
func (m *Manager) Selection() (Selection, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selection == nil {
		return Selection{}, false
	}
	return *m.selection, true
}

// ClearSelection closes the booking dialog.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	m.selection = nil
	m.mu.Unlock()
}

func (m *Manager) today() string { return m.now().Format(model.DateLayout) }

// Book submits the dialog.  On success the reservation code is stored in
// the device store, an event is published and the list is re-fetched.  On
// failure nothing is changed so the resident can retry with the same form.
func (m *Manager) Book(ctx context.Context, f Form) (Confirmation, error) {
	in, err := f.Validate(m.layout)
	if err != nil {
		return Confirmation{}, err
	}
	if in.Date < m.today() {
		return Confirmation{}, ErrPastSlot
	}
	res, err := m.backend.Create(ctx, in)
	if err != nil {
		return Confirmation{}, err
	}
	if err := m.ledger.Remember(ctx, res); err != nil {
		return Confirmation{}, fmt.Errorf("remember reservation %s: %w", res.ID, err)
	}
	m.publish(ctx, queue.TypeCreated, res)

	m.mu.Lock()
	m.selection = nil
	m.mu.Unlock()
	if err := m.Refresh(ctx); err != nil {
		log.Printf("booking: refresh after create failed: %v", err)
	}
	return Confirmation{Reservation: res, Title: confirmationTitle, Message: confirmationMessage}, nil
}

// Cancel deletes a reservation owned by the device.  The ownership entry
// is removed once the backend confirms the delete, or reports the row is
// already gone.  A failed delete leaves both the list and the entry as
// they were.
func (m *Manager) Cancel(ctx context.Context, id string) error {
	res, err := m.lookup(ctx, id)
	if err != nil {
		return err
	}
	owns, err := m.ledger.Owns(ctx, res)
	if err != nil {
		return fmt.Errorf("check ownership: %w", err)
	}
	if !owns {
		return ErrNotOwner
	}
	if res.Date < m.today() {
		return ErrPastSlot
	}

	err = m.backend.Delete(ctx, id)
	switch {
	case err == nil:
		m.publish(ctx, queue.TypeCancelled, res)
	case errors.Is(err, ErrNotFound):
		// already gone; reconcile below
	default:
		log.Printf("booking: delete reservation %s failed: %v", id, err)
		return fmt.Errorf("%w: %v", ErrCancelFailed, err)
	}
	if err := m.ledger.Forget(ctx, id); err != nil {
		log.Printf("booking: forget reservation %s failed: %v", id, err)
	}
	if err := m.Refresh(ctx); err != nil {
		log.Printf("booking: refresh after cancel failed: %v", err)
	}
	return nil
}

// lookup prefers the fetched list and falls back to the backend.
func (m *Manager) lookup(ctx context.Context, id string) (model.Reservation, error) {
	m.mu.Lock()
	for _, r := range m.reservations {
		if r.ID == id {
			m.mu.Unlock()
			return r, nil
		}
	}
	m.mu.Unlock()
	return m.backend.GetByID(ctx, id)
}

// Owned returns the reservation if the device holds its code.
func (m *Manager) Owned(ctx context.Context, id string) (model.Reservation, error) {
	res, err := m.lookup(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	owns, err := m.ledger.Owns(ctx, res)
	if err != nil {
		return model.Reservation{}, err
	}
	if !owns {
		return model.Reservation{}, ErrNotOwner
	}
	return res, nil
}

func (m *Manager) publish(ctx context.Context, typ string, r model.Reservation) {
	if err := m.publisher.Publish(ctx, queue.NewEvent(typ, r, m.deviceID, "resident")); err != nil {
		log.Printf("booking: publish %s for %s failed: %v", typ, r.ID, err)
	}
}
