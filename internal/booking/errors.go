// Package booking implements the seat reservation engine: conflict
// checking, atomic seat claims, confirmation, cancellation and expiry of
// stale holds.  All failures surface as the typed errors in this file so
// handlers can map them to precise HTTP responses and clients can
// re-render seat selection without a full reload.
package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// ErrShowNotFound is returned when the requested show does not exist or
// is not open for booking.
var ErrShowNotFound = errors.New("show not found")

// ErrShowInPast is returned when attempting to reserve seats for a show
// whose start time has already passed.
var ErrShowInPast = errors.New("cannot book seats for past shows")

// ErrNoSeats is returned when a reservation request contains no usable
// seat labels.
var ErrNoSeats = errors.New("no seats requested")

// ErrBookingNotFound is returned when a booking lookup misses.
var ErrBookingNotFound = errors.New("booking not found")

// ErrForbidden is returned when the caller neither owns the booking nor
// holds the admin role.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyCancelled is returned when cancelling a booking that is
// already cancelled.
var ErrAlreadyCancelled = errors.New("booking is already cancelled")

// ErrPaymentDeclined is returned when the payment processor rejects the
// charge during confirmation.  The booking remains pending and may be
// retried until its hold expires.
var ErrPaymentDeclined = errors.New("payment declined")

// ErrCodeTaken is returned by the store when inserting a booking whose
// code collides with an existing one.  The engine retries with a fresh
// code; the error never reaches callers.
var ErrCodeTaken = errors.New("booking code already taken")

// SeatConflictError reports the subset of requested seats that are
// already held by another pending or confirmed booking.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already booked: %s", strings.Join(e.Seats, ", "))
}

// InvalidSeatsError reports requested seat labels that do not exist in
// the show's layout.
type InvalidSeatsError struct {
	Seats []string
}

func (e *InvalidSeatsError) Error() string {
	return fmt.Sprintf("invalid seats for this show: %s", strings.Join(e.Seats, ", "))
}

// InsufficientSeatsError is returned when fewer seats remain than were
// requested.  It is reported before any per-seat conflict check.
type InsufficientSeatsError struct {
	Requested int
	Available int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("only %d seats available", e.Available)
}

// NotPendingError is returned when an operation requires a pending
// booking but the booking has already reached a terminal status.
// Confirming twice is an error, never a silent no-op.
type NotPendingError struct {
	Status model.BookingStatus
}

func (e *NotPendingError) Error() string {
	return fmt.Sprintf("booking is not pending (status %s)", e.Status)
}
