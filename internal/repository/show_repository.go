package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// ShowRepo manages catalog persistence for shows.  It never touches the
// available_seats counter after creation; only the reservation engine
// mutates availability.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the provided DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// Create schedules a show.  TotalSeats and AvailableSeats are derived
// from the screen layout at creation time; callers supply the rest.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show, screen *model.Screen) error {
	capacity := screen.Capacity()
	const q = `INSERT INTO shows (movie_id, theatre_id, screen_id, starts_at, format, language,
	                              seat_price_cents, total_seats, available_seats)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.MovieID, screen.TheatreID, screen.ID,
		s.StartsAt.UTC(), s.Format, s.Language, s.SeatPriceCents, capacity, capacity)
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

const showSelect = `SELECT s.id, s.movie_id, s.theatre_id, s.screen_id, s.starts_at,
       s.format, s.language, s.seat_price_cents, s.total_seats, s.available_seats,
       sc.seat_rows, sc.seat_cols, s.is_active, s.created_at, s.updated_at
       FROM shows s JOIN screens sc ON sc.id = s.screen_id`

// GetByID fetches a show with its layout.  Returns ErrShowNotFound when
// no row matches.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	var s model.Show
	err := r.db.QueryRowContext(ctx, showSelect+` WHERE s.id = ?`, id).Scan(
		&s.ID, &s.MovieID, &s.TheatreID, &s.ScreenID, &s.StartsAt,
		&s.Format, &s.Language, &s.SeatPriceCents, &s.TotalSeats, &s.AvailableSeats,
		&s.SeatRows, &s.SeatCols, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListUpcomingByMovie returns active shows for a movie that have not yet
// started, soonest first.
func (r *ShowRepo) ListUpcomingByMovie(ctx context.Context, movieID uint64) ([]model.Show, error) {
	const q = ` WHERE s.movie_id = ? AND s.is_active = 1 AND s.starts_at > UTC_TIMESTAMP()
	            ORDER BY s.starts_at`
	rows, err := r.db.QueryContext(ctx, showSelect+q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectShows(rows)
}

// ListAll returns every show for the admin catalog, newest first.
func (r *ShowRepo) ListAll(ctx context.Context) ([]model.Show, error) {
	rows, err := r.db.QueryContext(ctx, showSelect+` ORDER BY s.starts_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectShows(rows)
}

func collectShows(rows *sql.Rows) ([]model.Show, error) {
	var out []model.Show
	for rows.Next() {
		var s model.Show
		err := rows.Scan(
			&s.ID, &s.MovieID, &s.TheatreID, &s.ScreenID, &s.StartsAt,
			&s.Format, &s.Language, &s.SeatPriceCents, &s.TotalSeats, &s.AvailableSeats,
			&s.SeatRows, &s.SeatCols, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update changes scheduling fields of a show.  The seat counters stay
// untouched: a show referenced by bookings is immutable except for its
// availability, which belongs to the reservation engine.
func (r *ShowRepo) Update(ctx context.Context, id uint64, startsAt time.Time, format, language string, priceCents uint32, active bool) (*model.Show, error) {
	const q = `UPDATE shows SET starts_at = ?, format = ?, language = ?, seat_price_cents = ?, is_active = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, startsAt.UTC(), format, language, priceCents, active, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete deactivates a show.  Fails with ErrConflict while the show has
// pending or confirmed bookings, so held seats are never orphaned.
func (r *ShowRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE show_id = ? AND status IN ('pending', 'confirmed')`,
		id).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, `UPDATE shows SET is_active = 0 WHERE id = ?`, id)
	return err
}
