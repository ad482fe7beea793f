package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/terrace-reservation/internal/calendar"
	"github.com/iliyamo/terrace-reservation/internal/model"
	"github.com/iliyamo/terrace-reservation/internal/ownership"
	"github.com/iliyamo/terrace-reservation/internal/queue"
	"github.com/iliyamo/terrace-reservation/internal/repository"
)

func clock() time.Time { return time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC) }

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

// failingDelete wraps a backend and fails every delete.
type failingDelete struct {
	Backend
}

func (failingDelete) Delete(context.Context, string) error { return errors.New("connection reset") }

type fixture struct {
	repo  *repository.MemoryReservationRepo
	store *ownership.MemoryStore
	pub   *recordingPublisher
	mgr   *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:  repository.NewMemoryReservationRepo(),
		store: ownership.NewMemoryStore(),
		pub:   &recordingPublisher{},
	}
	f.mgr = NewManager(f.repo, ownership.NewLedger(f.store),
		WithClock(clock), WithPublisher(f.pub), WithDevice("dev-1"))
	require.NoError(t, f.mgr.Refresh(context.Background()))
	return f
}

func TestBookCreatesReservationAndRemembersCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	conf, err := f.mgr.Book(ctx, Form{Date: "2025-09-05", TimeSlot: model.SlotMorning, Floor: 3, Apartment: "A"})
	require.NoError(t, err)
	assert.Equal(t, "¡Reserva Confirmada!", conf.Title)
	assert.NotContains(t, conf.Message, conf.Reservation.Code)

	rows, err := f.repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "2025-09-05", row.Date)
	assert.Equal(t, model.SlotMorning, row.TimeSlot)
	assert.Equal(t, 3, row.Floor)
	assert.Equal(t, "A", row.Apartment)
	assert.NotEmpty(t, row.Code)

	stored, err := f.store.Get(ctx, "reservation_"+row.ID)
	require.NoError(t, err)
	assert.Equal(t, row.Code, stored)

	s, err := f.mgr.Grid().Slot(5, model.SlotMorning)
	require.NoError(t, err)
	assert.Equal(t, calendar.StateOwn, s.State)

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, queue.TypeCreated, f.pub.events[0].Type)
	assert.Equal(t, "dev-1", f.pub.events[0].DeviceID)
}

func TestBookValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		form Form
		want error
	}{
		{"missing floor", Form{Date: "2025-09-05", TimeSlot: model.SlotMorning, Apartment: "A"}, ErrIncompleteForm},
		{"missing apartment", Form{Date: "2025-09-05", TimeSlot: model.SlotMorning, Floor: 2}, ErrIncompleteForm},
		{"floor outside building", Form{Date: "2025-09-05", TimeSlot: model.SlotMorning, Floor: 9, Apartment: "A"}, ErrInvalidFloor},
		{"unknown apartment", Form{Date: "2025-09-05", TimeSlot: model.SlotMorning, Floor: 2, Apartment: "Z"}, ErrInvalidApartment},
		{"bad slot", Form{Date: "2025-09-05", TimeSlot: "night", Floor: 2, Apartment: "A"}, ErrInvalidSlot},
		{"bad date", Form{Date: "05/09/2025", TimeSlot: model.SlotMorning, Floor: 2, Apartment: "A"}, ErrInvalidDate},
		{"past date", Form{Date: "2025-08-31", TimeSlot: model.SlotMorning, Floor: 2, Apartment: "A"}, ErrPastSlot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.mgr.Book(context.Background(), tt.form)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.mgr.Reservations())
	assert.Zero(t, f.store.Len())
}

func TestBookConflictFromAnotherDevice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	other := NewManager(f.repo, ownership.NewLedger(ownership.NewMemoryStore()), WithClock(clock))

	form := Form{Date: "2025-09-20", TimeSlot: model.SlotAfternoonEvening, Floor: 1, Apartment: "B"}
	_, err := other.Book(ctx, form)
	require.NoError(t, err)

	// f has not refreshed, so its grid still shows the slot as free
	s, err := f.mgr.Grid().Slot(20, model.SlotAfternoonEvening)
	require.NoError(t, err)
	assert.Equal(t, calendar.StateFree, s.State)

	_, err = f.mgr.Book(ctx, form)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, "Este horario ya fue reservado", Message(err))
	assert.Zero(t, f.store.Len())
}

func TestCancelOwnReservation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	conf, err := f.mgr.Book(ctx, Form{Date: "2025-09-05", TimeSlot: model.SlotMorning, Floor: 3, Apartment: "A"})
	require.NoError(t, err)

	action, err := f.mgr.Select(5, model.SlotMorning)
	require.NoError(t, err)
	require.Equal(t, calendar.ActionCancel, action.Kind)

	require.NoError(t, f.mgr.Cancel(ctx, action.Reservation.ID))

	_, err = f.repo.GetByID(ctx, conf.Reservation.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.store.Get(ctx, "reservation_"+conf.Reservation.ID)
	assert.ErrorIs(t, err, ownership.ErrNotExist)

	s, err := f.mgr.Grid().Slot(5, model.SlotMorning)
	require.NoError(t, err)
	assert.Equal(t, calendar.StateFree, s.State)
	require.Len(t, f.pub.events, 2)
	assert.Equal(t, queue.TypeCancelled, f.pub.events[1].Type)
}

func TestCancelRejectsOtherDevices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	conf, err := f.mgr.Book(ctx, Form{Date: "2025-09-05", TimeSlot: model.SlotMorning, Floor: 3, Apartment: "A"})
	require.NoError(t, err)

	intruder := NewManager(f.repo, ownership.NewLedger(ownership.NewMemoryStore()), WithClock(clock))
	require.NoError(t, intruder.Refresh(ctx))

	_, err = intruder.Select(5, model.SlotMorning)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, intruder.Cancel(ctx, conf.Reservation.ID), ErrNotOwner)

	_, err = f.repo.GetByID(ctx, conf.Reservation.ID)
	assert.NoError(t, err)
}

func TestCancelFailureKeepsOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	conf, err := f.mgr.Book(ctx, Form{Date: "2025-09-05", TimeSlot: model.SlotMorning, Floor: 3, Apartment: "A"})
	require.NoError(t, err)

	broken := NewManager(failingDelete{f.repo}, ownership.NewLedger(f.store), WithClock(clock))
	require.NoError(t, broken.Refresh(ctx))

	err = broken.Cancel(ctx, conf.Reservation.ID)
	assert.ErrorIs(t, err, ErrCancelFailed)
	assert.Equal(t, "Error al cancelar la reserva. Por favor intenta nuevamente.", Message(err))

	v, err := f.store.Get(ctx, "reservation_"+conf.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, conf.Reservation.Code, v)
	assert.Len(t, broken.Reservations(), 1)
}

func TestCancelAlreadyDeletedForgetsCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	conf, err := f.mgr.Book(ctx, Form{Date: "2025-09-05", TimeSlot: model.SlotMorning, Floor: 3, Apartment: "A"})
	require.NoError(t, err)

	require.NoError(t, f.repo.Delete(ctx, conf.Reservation.ID))
	require.NoError(t, f.mgr.Cancel(ctx, conf.Reservation.ID))
	assert.Zero(t, f.store.Len())
}

func TestSelectAndSubscribe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var grids []calendar.Grid
	unsubscribe := f.mgr.Subscribe(func(g calendar.Grid) { grids = append(grids, g) })

	action, err := f.mgr.Select(15, model.SlotAfternoonEvening)
	require.NoError(t, err)
	assert.Equal(t, calendar.ActionBook, action.Kind)
	sel, ok := f.mgr.Selection()
	require.True(t, ok)
	assert.Equal(t, Selection{Date: "2025-09-15", TimeSlot: model.SlotAfternoonEvening}, sel)

	before := f.mgr.Reservations()
	f.mgr.NextMonth()
	f.mgr.PrevMonth()
	assert.Equal(t, before, f.mgr.Reservations())

	require.NoError(t, f.mgr.Refresh(ctx))
	require.Len(t, grids, 3)
	assert.Equal(t, "Octubre 2025", grids[0].Title())
	assert.Equal(t, "Septiembre 2025", grids[1].Title())

	unsubscribe()
	f.mgr.NextMonth()
	assert.Len(t, grids, 3)

	f.mgr.ClearSelection()
	_, ok = f.mgr.Selection()
	assert.False(t, ok)
}

func TestPublishFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker down")
	_, err := f.mgr.Book(context.Background(), Form{Date: "2025-09-30", TimeSlot: model.SlotMorning, Floor: 6, Apartment: "b"})
	require.NoError(t, err)
	rows := f.mgr.Reservations()
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0].Apartment)
}
