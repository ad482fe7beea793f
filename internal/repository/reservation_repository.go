package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/iliyamo/terrace-reservation/internal/model"
	"github.com/iliyamo/terrace-reservation/internal/utils"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// ReservationRepo provides list, insert and delete operations for the
// terrace_reservations table.  The table carries a composite unique key on
// (reservation_date, time_slot) so two devices racing for the same slot
// cannot both succeed; the loser receives ErrSlotTaken.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for health checks.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const selectColumns = `SELECT id, reservation_date, time_slot, floor, apartment, reservation_code, created_at FROM terrace_reservations`

// List returns every reservation ordered by date and then slot.  The
// calendar filters the full list in memory, so no month bounds are applied.
func (r *ReservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY reservation_date ASC, time_slot ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single reservation.  It returns ErrNotFound when no
// row matches.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (model.Reservation, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ? LIMIT 1`, id)
	res, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrNotFound
	}
	return res, err
}

// Create inserts a reservation.  The id and reservation code are generated
// here, mirroring a database default, and the stored row is read back so
// the caller sees server-side values such as created_at.
func (r *ReservationRepo) Create(ctx context.Context, in model.NewReservation) (model.Reservation, error) {
	code, err := utils.NewReservationCode()
	if err != nil {
		return model.Reservation{}, err
	}
	id := uuid.NewString()
	const q = `INSERT INTO terrace_reservations (id, reservation_date, time_slot, floor, apartment, reservation_code) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, id, in.Date, string(in.TimeSlot), in.Floor, in.Apartment, code); err != nil {
		if isDuplicate(err) {
			return model.Reservation{}, ErrSlotTaken
		}
		return model.Reservation{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a reservation by id.  It returns ErrNotFound when no row
// was affected.
func (r *ReservationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM terrace_reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner) (model.Reservation, error) {
	var (
		res  model.Reservation
		date time.Time
		slot string
	)
	if err := s.Scan(&res.ID, &date, &slot, &res.Floor, &res.Apartment, &res.Code, &res.CreatedAt); err != nil {
		return model.Reservation{}, err
	}
	// DATE columns arrive as UTC midnight (loc=UTC in the DSN).
	res.Date = date.Format(model.DateLayout)
	res.TimeSlot = model.TimeSlot(slot)
	return res, nil
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
