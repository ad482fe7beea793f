package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/terrace-reservation/internal/model"
	"github.com/iliyamo/terrace-reservation/internal/utils"
)

// MemoryReservationRepo keeps reservations in process memory.  It applies
// the same (date, slot) uniqueness rule as the MySQL schema and is used
// when STORAGE=memory and by tests.
type MemoryReservationRepo struct {
	mu    sync.Mutex
	byID  map[string]model.Reservation
	now   func() time.Time
	codes func() (string, error)
}

// NewMemoryReservationRepo returns an empty in-memory store.
func NewMemoryReservationRepo() *MemoryReservationRepo {
	return &MemoryReservationRepo{
		byID:  make(map[string]model.Reservation),
		now:   func() time.Time { return time.Now().UTC() },
		codes: utils.NewReservationCode,
	}
}

// List returns a snapshot ordered by date and then slot, morning first.
func (m *MemoryReservationRepo) List(_ context.Context) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Reservation, 0, len(m.byID))
	for _, r := range m.byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return slotRank(out[i].TimeSlot) < slotRank(out[j].TimeSlot)
	})
	return out, nil
}

// slotRank follows the ENUM declaration order MySQL sorts by.
func slotRank(s model.TimeSlot) int {
	for i, ts := range model.Slots {
		if ts == s {
			return i
		}
	}
	return len(model.Slots)
}

// GetByID returns ErrNotFound for unknown ids.
func (m *MemoryReservationRepo) GetByID(_ context.Context, id string) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return model.Reservation{}, ErrNotFound
	}
	return r, nil
}

// Create stores a new reservation or returns ErrSlotTaken.
func (m *MemoryReservationRepo) Create(_ context.Context, in model.NewReservation) (model.Reservation, error) {
	code, err := m.codes()
	if err != nil {
		return model.Reservation{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.byID {
		if r.Date == in.Date && r.TimeSlot == in.TimeSlot {
			return model.Reservation{}, ErrSlotTaken
		}
	}
	r := model.Reservation{
		ID:        uuid.NewString(),
		Date:      in.Date,
		TimeSlot:  in.TimeSlot,
		Floor:     in.Floor,
		Apartment: in.Apartment,
		Code:      code,
		CreatedAt: m.now(),
	}
	m.byID[r.ID] = r
	return r, nil
}

// Delete removes a reservation or returns ErrNotFound.
func (m *MemoryReservationRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}
