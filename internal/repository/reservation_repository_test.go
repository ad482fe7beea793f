package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/terrace-reservation/internal/model"
)

var reservationColumns = []string{"id", "reservation_date", "time_slot", "floor", "apartment", "reservation_code", "created_at"}

func newMockRepo(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewReservationRepo(db), mock
}

func day(s string) time.Time {
	t, _ := time.Parse(model.DateLayout, s)
	return t
}

func TestReservationRepoList(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(reservationColumns).
		AddRow("r1", day("2025-09-05"), "morning", 3, "A", "AB12CD34", created).
		AddRow("r2", day("2025-09-05"), "afternoon_evening", 1, "B", "ZZ99YY88", created)
	mock.ExpectQuery(regexp.QuoteMeta(selectColumns + ` ORDER BY reservation_date ASC, time_slot ASC`)).
		WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.Reservation{
		ID: "r1", Date: "2025-09-05", TimeSlot: model.SlotMorning,
		Floor: 3, Apartment: "A", Code: "AB12CD34", CreatedAt: created,
	}, got[0])
	assert.Equal(t, model.SlotAfternoonEvening, got[1].TimeSlot)
	assert.Equal(t, "3A", got[0].Unit())
}

func TestReservationRepoListEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectColumns)).WillReturnRows(sqlmock.NewRows(reservationColumns))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReservationRepoListScanError(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows(reservationColumns).
		AddRow("r1", "not-a-date", "morning", 3, "A", "AB12CD34", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(selectColumns)).WillReturnRows(rows)

	_, err := repo.List(context.Background())
	assert.Error(t, err)
}

func TestReservationRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC)
	in := model.NewReservation{Date: "2025-09-05", TimeSlot: model.SlotMorning, Floor: 3, Apartment: "A"}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO terrace_reservations`)).
		WithArgs(sqlmock.AnyArg(), "2025-09-05", "morning", 3, "A", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectColumns + ` WHERE id = ? LIMIT 1`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(reservationColumns).
			AddRow("r1", day("2025-09-05"), "morning", 3, "A", "AB12CD34", created))

	got, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-05", got.Date)
	assert.Equal(t, model.SlotMorning, got.TimeSlot)
	assert.NotEmpty(t, got.Code)
	assert.Equal(t, created, got.CreatedAt)
}

func TestReservationRepoCreateSlotTaken(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO terrace_reservations`)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '2025-09-05-morning' for key 'uq_terrace_slot'"})

	_, err := repo.Create(context.Background(), model.NewReservation{Date: "2025-09-05", TimeSlot: model.SlotMorning, Floor: 3, Apartment: "A"})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestReservationRepoCreateOtherError(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO terrace_reservations`)).WillReturnError(boom)

	_, err := repo.Create(context.Background(), model.NewReservation{Date: "2025-09-05", TimeSlot: model.SlotMorning, Floor: 3, Apartment: "A"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrSlotTaken)
}

func TestReservationRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectColumns + ` WHERE id = ? LIMIT 1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReservationRepoDelete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     error
	}{
		{"deleted", 1, nil},
		{"missing", 0, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM terrace_reservations WHERE id = ?`)).
				WithArgs("r1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.Delete(context.Background(), "r1")
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
