package repository

import (
	"context"
	"database/sql"
	"time"
)

// BookingQueryRepo serves the read side of bookings: customer history
// and admin listings with show and movie details joined in.  Lifecycle
// mutations never go through here; those belong to the reservation
// engine and its store.
type BookingQueryRepo struct {
	db *sql.DB
}

// NewBookingQueryRepo binds the repo to a database handle.
func NewBookingQueryRepo(db *sql.DB) *BookingQueryRepo { return &BookingQueryRepo{db: db} }

// BookingDetail is a booking with its show, movie and theatre context,
// shaped for display.
type BookingDetail struct {
	ID              uint64     `json:"id"`
	Code            string     `json:"booking_code"`
	UserID          uint64     `json:"user_id"`
	ShowID          uint64     `json:"show_id"`
	Status          string     `json:"status"`
	Seats           []string   `json:"seats"`
	TotalPriceCents uint32     `json:"total_price_cents"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ShowStartsAt    time.Time  `json:"show_starts_at"`
	MovieTitle      string     `json:"movie_title"`
	TheatreName     string     `json:"theatre_name"`
	ScreenNumber    uint32     `json:"screen_number"`
	UserEmail       string     `json:"user_email,omitempty"`
}

const detailSelect = `SELECT b.id, b.booking_code, b.user_id, b.show_id, b.status, b.total_price_cents,
       b.expires_at, b.created_at, s.starts_at, m.title, t.name, sc.screen_number, u.email
       FROM bookings b
       JOIN shows s ON s.id = b.show_id
       JOIN movies m ON m.id = s.movie_id
       JOIN theatres t ON t.id = s.theatre_id
       JOIN screens sc ON sc.id = s.screen_id
       JOIN users u ON u.id = b.user_id`

// ListByUser returns a page of the user's bookings, newest first, plus
// the total count for pagination.
func (r *BookingQueryRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]BookingDetail, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		detailSelect+` WHERE b.user_id = ? ORDER BY b.created_at DESC, b.id DESC LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := r.collect(ctx, rows)
	return out, total, err
}

// ListAll returns every booking for the admin view, newest first.
func (r *BookingQueryRepo) ListAll(ctx context.Context, limit, offset int) ([]BookingDetail, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		detailSelect+` ORDER BY b.created_at DESC, b.id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := r.collect(ctx, rows)
	return out, total, err
}

// GetByID loads one booking with its display context, used for ticket
// views and for enriching confirmation events.
func (r *BookingQueryRepo) GetByID(ctx context.Context, bookingID uint64) (*BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailSelect+` WHERE b.id = ?`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out, err := r.collect(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, sql.ErrNoRows
	}
	return &out[0], nil
}

func (r *BookingQueryRepo) collect(ctx context.Context, rows *sql.Rows) ([]BookingDetail, error) {
	var out []BookingDetail
	for rows.Next() {
		var (
			d       BookingDetail
			expires sql.NullTime
		)
		err := rows.Scan(&d.ID, &d.Code, &d.UserID, &d.ShowID, &d.Status, &d.TotalPriceCents,
			&expires, &d.CreatedAt, &d.ShowStartsAt, &d.MovieTitle, &d.TheatreName, &d.ScreenNumber, &d.UserEmail)
		if err != nil {
			return nil, err
		}
		if expires.Valid {
			t := expires.Time
			d.ExpiresAt = &t
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Attach seats per booking.  Listings are small pages, so one query
	// per row keeps the SQL simple.
	for i := range out {
		seats, err := r.seatsFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Seats = seats
	}
	return out, nil
}

func (r *BookingQueryRepo) seatsFor(ctx context.Context, bookingID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seat_label FROM booking_seats WHERE booking_id = ? ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}
