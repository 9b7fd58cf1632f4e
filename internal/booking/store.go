package booking

import (
	"context"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// Store is the durable state the engine coordinates through.  The MySQL
// implementation lives in internal/repository; tests use an in-memory
// fake.
//
// WithTx runs fn inside a database transaction; every other method joins
// the transaction carried by its context when one is present.  The
// *ForUpdate methods must take row locks so that, for a given show, the
// sequence "read holds, insert booking, adjust counter" executed under
// ShowForUpdate is serialized against concurrent reservations.  The lock
// is held from the ForUpdate read until WithTx commits or rolls back,
// and never across anything else.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Show loads a show with its screen layout joined in.  Returns
	// ErrShowNotFound when absent.
	Show(ctx context.Context, showID uint64) (*model.Show, error)

	// ShowForUpdate is Show with an exclusive row lock; must be called
	// inside WithTx.
	ShowForUpdate(ctx context.Context, showID uint64) (*model.Show, error)

	// HeldSeats returns the seat labels of every pending or confirmed
	// booking for the show.
	HeldSeats(ctx context.Context, showID uint64) ([]string, error)

	// CreateBooking inserts the booking and its seat rows, populating
	// the generated ID.  Returns ErrCodeTaken when the booking code
	// collides with an existing one.
	CreateBooking(ctx context.Context, b *model.Booking) error

	// BookingByID loads a booking with its seats.  Returns
	// ErrBookingNotFound when absent.
	BookingByID(ctx context.Context, id uint64) (*model.Booking, error)

	// BookingForUpdate is BookingByID with an exclusive row lock; must
	// be called inside WithTx.
	BookingForUpdate(ctx context.Context, id uint64) (*model.Booking, error)

	// ConfirmBooking persists the confirmation: status, contact info,
	// payment reference and final price.
	ConfirmBooking(ctx context.Context, b *model.Booking) error

	// UpdateBookingStatus flips the booking status.
	UpdateBookingStatus(ctx context.Context, id uint64, status model.BookingStatus) error

	// AdjustAvailableSeats adds delta to the show's available-seat
	// counter (negative on claim, positive on release).
	AdjustAvailableSeats(ctx context.Context, showID uint64, delta int) error

	// ExpiredPendingIDs lists ids of pending bookings whose expiry
	// timestamp is at or before cutoff, oldest first, capped at limit.
	ExpiredPendingIDs(ctx context.Context, cutoff time.Time, limit int) ([]uint64, error)
}
