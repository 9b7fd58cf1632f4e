package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/booking"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// BookingStore is the MySQL implementation of booking.Store.  It keeps
// the engine's transaction in the context so every method transparently
// joins an open transaction, and uses SELECT ... FOR UPDATE on the shows
// and bookings rows to serialize reservations per show.
type BookingStore struct {
	db *sql.DB
}

// NewBookingStore binds the store to a database handle.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db} }

type txKey struct{}

// WithTx begins a transaction, stores it in the context and runs fn.
// The transaction commits when fn returns nil and rolls back otherwise.
// Nested calls join the outer transaction.
func (s *BookingStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// runner is satisfied by both *sql.DB and *sql.Tx.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *BookingStore) run(ctx context.Context) runner {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

const showColumns = `s.id, s.movie_id, s.theatre_id, s.screen_id, s.starts_at,
       s.format, s.language, s.seat_price_cents, s.total_seats, s.available_seats,
       sc.seat_rows, sc.seat_cols, s.is_active, s.created_at, s.updated_at`

// Show loads a show with its screen layout joined in.
func (s *BookingStore) Show(ctx context.Context, showID uint64) (*model.Show, error) {
	const q = `SELECT ` + showColumns + `
	           FROM shows s JOIN screens sc ON sc.id = s.screen_id
	           WHERE s.id = ?`
	return s.scanShow(s.run(ctx).QueryRowContext(ctx, q, showID))
}

// ShowForUpdate locks the show row, then loads it.  The lock is taken on
// the shows row alone; the layout join runs as a plain read afterwards
// since screens are immutable while shows reference them.
func (s *BookingStore) ShowForUpdate(ctx context.Context, showID uint64) (*model.Show, error) {
	tx := txFromContext(ctx)
	if tx == nil {
		return nil, errors.New("ShowForUpdate requires a transaction")
	}
	var id uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM shows WHERE id = ? FOR UPDATE`, showID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrShowNotFound
		}
		return nil, err
	}
	return s.Show(ctx, showID)
}

func (s *BookingStore) scanShow(row *sql.Row) (*model.Show, error) {
	var sh model.Show
	err := row.Scan(
		&sh.ID, &sh.MovieID, &sh.TheatreID, &sh.ScreenID, &sh.StartsAt,
		&sh.Format, &sh.Language, &sh.SeatPriceCents, &sh.TotalSeats, &sh.AvailableSeats,
		&sh.SeatRows, &sh.SeatCols, &sh.IsActive, &sh.CreatedAt, &sh.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrShowNotFound
		}
		return nil, err
	}
	return &sh, nil
}

// HeldSeats returns the seat labels of every pending or confirmed
// booking for the show.
func (s *BookingStore) HeldSeats(ctx context.Context, showID uint64) ([]string, error) {
	const q = `SELECT bs.seat_label
	           FROM booking_seats bs
	           JOIN bookings b ON b.id = bs.booking_id
	           WHERE bs.show_id = ? AND b.status IN ('pending', 'confirmed')`
	rows, err := s.run(ctx).QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var held []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		held = append(held, label)
	}
	return held, rows.Err()
}

// CreateBooking inserts the booking row and its seat rows, populating
// the generated ID and DB timestamps.  A duplicate booking code maps to
// booking.ErrCodeTaken so the engine can retry with a fresh one.
func (s *BookingStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	r := s.run(ctx)
	const ins = `INSERT INTO bookings (booking_code, user_id, show_id, status, total_price_cents, expires_at)
	             VALUES (?, ?, ?, ?, ?, ?)`
	var expires any
	if b.ExpiresAt != nil {
		expires = b.ExpiresAt.UTC()
	}
	res, err := r.ExecContext(ctx, ins, b.Code, b.UserID, b.ShowID, string(b.Status), b.TotalPriceCents, expires)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return booking.ErrCodeTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if len(b.Seats) > 0 {
		q := `INSERT INTO booking_seats (booking_id, show_id, seat_label) VALUES `
		args := make([]any, 0, len(b.Seats)*3)
		for i, seat := range b.Seats {
			if i > 0 {
				q += ","
			}
			q += "(?, ?, ?)"
			args = append(args, b.ID, b.ShowID, seat)
		}
		if _, err := r.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}

	// Read back DB-defaulted timestamps.
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	return r.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

const bookingColumns = `id, booking_code, user_id, show_id, status, total_price_cents,
       email, phone, payment_method, payment_ref, expires_at, created_at, updated_at`

// BookingByID loads a booking and its seats.
func (s *BookingStore) BookingByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return s.loadBooking(ctx, q, id)
}

// BookingForUpdate loads a booking under an exclusive row lock.
func (s *BookingStore) BookingForUpdate(ctx context.Context, id uint64) (*model.Booking, error) {
	if txFromContext(ctx) == nil {
		return nil, errors.New("BookingForUpdate requires a transaction")
	}
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	return s.loadBooking(ctx, q, id)
}

func (s *BookingStore) loadBooking(ctx context.Context, query string, id uint64) (*model.Booking, error) {
	r := s.run(ctx)
	var (
		b       model.Booking
		status  string
		email   sql.NullString
		phone   sql.NullString
		method  sql.NullString
		ref     sql.NullString
		expires sql.NullTime
	)
	err := r.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Code, &b.UserID, &b.ShowID, &status, &b.TotalPriceCents,
		&email, &phone, &method, &ref, &expires, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	b.Email = email.String
	b.Phone = phone.String
	b.PaymentMethod = method.String
	if ref.Valid {
		v := ref.String
		b.PaymentRef = &v
	}
	if expires.Valid {
		t := expires.Time
		b.ExpiresAt = &t
	}

	rows, err := r.QueryContext(ctx, `SELECT seat_label FROM booking_seats WHERE booking_id = ? ORDER BY id`, b.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		b.Seats = append(b.Seats, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &b, nil
}

// ConfirmBooking persists a confirmation.
func (s *BookingStore) ConfirmBooking(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings
	           SET status = ?, total_price_cents = ?, email = ?, phone = ?,
	               payment_method = ?, payment_ref = ?, expires_at = NULL
	           WHERE id = ?`
	var ref any
	if b.PaymentRef != nil {
		ref = *b.PaymentRef
	}
	_, err := s.run(ctx).ExecContext(ctx, q,
		string(b.Status), b.TotalPriceCents, b.Email, b.Phone, b.PaymentMethod, ref, b.ID)
	return err
}

// UpdateBookingStatus flips a booking's status.
func (s *BookingStore) UpdateBookingStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
	_, err := s.run(ctx).ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, string(status), id)
	return err
}

// AdjustAvailableSeats adds delta to the show's availability counter.
// The caller holds the show row lock, so the arithmetic cannot race.
func (s *BookingStore) AdjustAvailableSeats(ctx context.Context, showID uint64, delta int) error {
	_, err := s.run(ctx).ExecContext(ctx,
		`UPDATE shows SET available_seats = available_seats + ? WHERE id = ?`, delta, showID)
	return err
}

// ExpiredPendingIDs lists pending bookings whose hold lapsed at or
// before cutoff, oldest expiry first.
func (s *BookingStore) ExpiredPendingIDs(ctx context.Context, cutoff time.Time, limit int) ([]uint64, error) {
	const q = `SELECT id FROM bookings
	           WHERE status = 'pending' AND expires_at IS NOT NULL AND expires_at <= ?
	           ORDER BY expires_at LIMIT ?`
	rows, err := s.run(ctx).QueryContext(ctx, q, cutoff.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
