package booking

import (
	"context"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/clock"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/payment"
)

// defaultHoldTTL is how long a pending booking keeps its seats before
// the sweeper may reclaim them.
const defaultHoldTTL = 10 * time.Minute

// codeAttempts bounds how many fresh booking codes are tried when the
// store reports a collision.
const codeAttempts = 5

// Engine orchestrates the booking lifecycle.  All seat-inventory
// mutations in the system flow through its three operations (reserve,
// cancel/expire, confirm); nothing else touches a show's availability
// counter.  Reservations are serialized per show by an exclusive lock on
// the show row: the first transaction to acquire it wins, later ones
// observe the committed holds and fail with SeatConflictError.  No
// automatic retry is performed on conflict.
type Engine struct {
	store   Store
	pay     payment.Processor
	clk     clock.Clock
	holdTTL time.Duration
}

// NewEngine wires the engine to its durable store, payment processor and
// clock.
func NewEngine(store Store, pay payment.Processor, clk clock.Clock, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		pay:     pay,
		clk:     clk,
		holdTTL: defaultHoldTTL,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Option configures an Engine.
type Option func(*Engine)

// WithHoldTTL overrides the default pending-hold duration.
func WithHoldTTL(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.holdTTL = d
		}
	}
}

// Reserve claims seats for a show on behalf of a user, producing a
// pending booking that expires unless confirmed within the hold TTL.
// Checks run in a fixed order inside one show-locked transaction: show
// exists and is upcoming, every label is in the layout, enough seats
// remain, and finally no requested seat is already held.  A conflict
// reports exactly the requested seats that are taken.
func (e *Engine) Reserve(ctx context.Context, userID, showID uint64, seats []string) (*model.Booking, error) {
	seats = dedupe(seats)
	if len(seats) == 0 {
		return nil, ErrNoSeats
	}

	now := e.clk.Now()
	var result *model.Booking

	err := e.store.WithTx(ctx, func(txCtx context.Context) error {
		show, err := e.store.ShowForUpdate(txCtx, showID)
		if err != nil {
			return err
		}
		if !show.IsActive {
			return ErrShowNotFound
		}
		if !show.StartsAt.After(now) {
			return ErrShowInPast
		}

		layout := show.Layout()
		var invalid []string
		for _, s := range seats {
			if !layout.Contains(s) {
				invalid = append(invalid, s)
			}
		}
		if len(invalid) > 0 {
			return &InvalidSeatsError{Seats: invalid}
		}

		if uint32(len(seats)) > show.AvailableSeats {
			return &InsufficientSeatsError{Requested: len(seats), Available: int(show.AvailableSeats)}
		}

		held, err := e.store.HeldSeats(txCtx, showID)
		if err != nil {
			return err
		}
		taken := make(map[string]struct{}, len(held))
		for _, s := range held {
			taken[s] = struct{}{}
		}
		var conflicts []string
		for _, s := range seats {
			if _, ok := taken[s]; ok {
				conflicts = append(conflicts, s)
			}
		}
		if len(conflicts) > 0 {
			return &SeatConflictError{Seats: conflicts}
		}

		expires := now.Add(e.holdTTL)
		b := &model.Booking{
			UserID:    userID,
			ShowID:    showID,
			Seats:     seats,
			Status:    model.BookingPending,
			ExpiresAt: &expires,
			CreatedAt: now,
			UpdatedAt: now,
		}
		for attempt := 0; ; attempt++ {
			b.Code = NewCode(now)
			err = e.store.CreateBooking(txCtx, b)
			if err == nil {
				break
			}
			if err != ErrCodeTaken || attempt+1 >= codeAttempts {
				return err
			}
		}

		if err := e.store.AdjustAvailableSeats(txCtx, showID, -len(seats)); err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConfirmInput carries the caller identity and contact details for
// confirming a pending booking.
type ConfirmInput struct {
	BookingID     uint64
	UserID        uint64
	Admin         bool // admins may confirm on behalf of any user
	Email         string
	Phone         string
	PaymentMethod string
}

// Confirm finalizes a pending booking: it charges the payment processor
// and, on approval, flips the booking to confirmed with the price
// computed from the show's current seat price.  A declined charge
// returns ErrPaymentDeclined and leaves the booking pending so the user
// can retry before the hold expires.  Confirming a booking that is no
// longer pending fails with NotPendingError regardless of caller role;
// this is also what the loser of a confirm/sweep race observes.
func (e *Engine) Confirm(ctx context.Context, in ConfirmInput) (*model.Booking, error) {
	var result *model.Booking

	err := e.store.WithTx(ctx, func(txCtx context.Context) error {
		b, err := e.store.BookingForUpdate(txCtx, in.BookingID)
		if err != nil {
			return err
		}
		if b.UserID != in.UserID && !in.Admin {
			return ErrForbidden
		}
		if b.Status != model.BookingPending {
			return &NotPendingError{Status: b.Status}
		}

		show, err := e.store.Show(txCtx, b.ShowID)
		if err != nil {
			return err
		}
		total := show.SeatPriceCents * uint32(len(b.Seats))

		ref, err := e.pay.Charge(txCtx, b.Code, total)
		if err != nil {
			if err == payment.ErrDeclined {
				return ErrPaymentDeclined
			}
			return err
		}

		b.Status = model.BookingConfirmed
		b.TotalPriceCents = total
		b.Email = in.Email
		b.Phone = in.Phone
		b.PaymentMethod = in.PaymentMethod
		b.PaymentRef = &ref
		b.ExpiresAt = nil
		b.UpdatedAt = e.clk.Now()
		if err := e.store.ConfirmBooking(txCtx, b); err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel transitions a booking to cancelled and releases every seat it
// held back to the show's availability.  The status flip and the counter
// release commit together, so there is no window where seats appear held
// by a cancelled booking.  Cancelling an already-cancelled booking fails
// with ErrAlreadyCancelled for every caller, admins included.
func (e *Engine) Cancel(ctx context.Context, bookingID, userID uint64, admin bool) (*model.Booking, error) {
	var result *model.Booking

	err := e.store.WithTx(ctx, func(txCtx context.Context) error {
		b, err := e.store.BookingForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != userID && !admin {
			return ErrForbidden
		}
		if b.Status == model.BookingCancelled {
			return ErrAlreadyCancelled
		}
		if err := e.release(txCtx, b); err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// release flips a seat-holding booking to cancelled and returns its
// seats to the pool.  Caller must hold the booking row lock; the show
// row is locked here before the counter is touched.  This is the single
// release path shared by user cancellation and the expiry sweeper.
func (e *Engine) release(txCtx context.Context, b *model.Booking) error {
	if _, err := e.store.ShowForUpdate(txCtx, b.ShowID); err != nil {
		return err
	}
	if err := e.store.UpdateBookingStatus(txCtx, b.ID, model.BookingCancelled); err != nil {
		return err
	}
	if err := e.store.AdjustAvailableSeats(txCtx, b.ShowID, len(b.Seats)); err != nil {
		return err
	}
	b.Status = model.BookingCancelled
	b.UpdatedAt = e.clk.Now()
	return nil
}

// sweepBatch caps how many expired holds one sweep pass processes.
const sweepBatch = 100

// ReleaseExpired cancels every pending booking whose hold has lapsed,
// releasing its seats through the same path as user cancellation.  Each
// booking is processed in its own transaction; one that was confirmed or
// cancelled between the scan and the lock is skipped, so racing a user
// confirmation is safe in either order.  Returns the number of bookings
// swept.
func (e *Engine) ReleaseExpired(ctx context.Context) (int, error) {
	now := e.clk.Now()
	ids, err := e.store.ExpiredPendingIDs(ctx, now, sweepBatch)
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, id := range ids {
		err := e.store.WithTx(ctx, func(txCtx context.Context) error {
			b, err := e.store.BookingForUpdate(txCtx, id)
			if err != nil {
				return err
			}
			if b.Status != model.BookingPending || b.ExpiresAt == nil || b.ExpiresAt.After(now) {
				return nil // lost the race to a confirm or an earlier sweep
			}
			if err := e.release(txCtx, b); err != nil {
				return err
			}
			swept++
			return nil
		})
		if err != nil {
			return swept, err
		}
	}
	return swept, nil
}

// AvailableSeats returns the show's free seat labels in layout order,
// i.e. the layout minus every seat held by a pending or confirmed
// booking.  It always reads committed state; this result is never served
// from a cache.
func (e *Engine) AvailableSeats(ctx context.Context, showID uint64) ([]string, error) {
	show, err := e.store.Show(ctx, showID)
	if err != nil {
		return nil, err
	}
	if !show.IsActive {
		return nil, ErrShowNotFound
	}
	held, err := e.store.HeldSeats(ctx, showID)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(held))
	for _, s := range held {
		taken[s] = struct{}{}
	}
	var free []string
	for _, s := range show.Layout().Labels() {
		if _, ok := taken[s]; !ok {
			free = append(free, s)
		}
	}
	return free, nil
}

// Booking returns a booking if the caller owns it or is an admin.
func (e *Engine) Booking(ctx context.Context, bookingID, userID uint64, admin bool) (*model.Booking, error) {
	b, err := e.store.BookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID && !admin {
		return nil, ErrForbidden
	}
	return b, nil
}

// dedupe drops empty and repeated labels while preserving first-seen
// order.
func dedupe(seats []string) []string {
	seen := make(map[string]struct{}, len(seats))
	out := make([]string, 0, len(seats))
	for _, s := range seats {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
