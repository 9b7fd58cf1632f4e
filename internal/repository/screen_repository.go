package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// ScreenRepo encapsulates database queries for screens.  A screen's
// seating grid is fixed at creation; shows copy its seat count when they
// are scheduled.
type ScreenRepo struct {
	db *sql.DB
}

// NewScreenRepo constructs a ScreenRepo with the provided DB handle.
func NewScreenRepo(db *sql.DB) *ScreenRepo { return &ScreenRepo{db: db} }

const screenColumns = `id, theatre_id, screen_number, seat_rows, seat_cols, is_active, created_at, updated_at`

// Create inserts a new screen and populates DB-default fields.
func (r *ScreenRepo) Create(ctx context.Context, s *model.Screen) error {
	const q = `INSERT INTO screens (theatre_id, screen_number, seat_rows, seat_cols) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.TheatreID, s.ScreenNumber, s.SeatRows, s.SeatCols)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	got, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *got
	return nil
}

// GetByID fetches a screen by ID.  Returns ErrScreenNotFound when no
// row matches.
func (r *ScreenRepo) GetByID(ctx context.Context, id uint64) (*model.Screen, error) {
	const q = `SELECT ` + screenColumns + ` FROM screens WHERE id = ?`
	var s model.Screen
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.TheatreID, &s.ScreenNumber, &s.SeatRows, &s.SeatCols, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreenNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByTheatre returns all screens of a theatre ordered by number.
func (r *ScreenRepo) ListByTheatre(ctx context.Context, theatreID uint64) ([]model.Screen, error) {
	const q = `SELECT ` + screenColumns + ` FROM screens WHERE theatre_id = ? ORDER BY screen_number`
	rows, err := r.db.QueryContext(ctx, q, theatreID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Screen
	for rows.Next() {
		var s model.Screen
		err := rows.Scan(&s.ID, &s.TheatreID, &s.ScreenNumber, &s.SeatRows, &s.SeatCols,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update changes the screen number or active flag.  The seat grid is
// immutable: shows and bookings derive seat labels from it, so resizing
// would silently invalidate sold seats.
func (r *ScreenRepo) Update(ctx context.Context, s *model.Screen) error {
	const q = `UPDATE screens SET screen_number = ?, is_active = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, s.ScreenNumber, s.IsActive, s.ID); err != nil {
		return err
	}
	got, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *got
	return nil
}

// Delete deactivates a screen.  Fails with ErrConflict while the screen
// still has upcoming shows.
func (r *ScreenRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shows WHERE screen_id = ? AND is_active = 1 AND starts_at > UTC_TIMESTAMP()`,
		id).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, `UPDATE screens SET is_active = 0 WHERE id = ?`, id)
	return err
}
