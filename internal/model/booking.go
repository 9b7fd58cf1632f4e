package model

import "time"

// BookingStatus enumerates the booking lifecycle.  A booking is created
// pending, then either confirmed (terminal) or cancelled (terminal,
// reached by user cancellation or by the expiry sweeper).  Cancelled
// bookings never re-enter the lifecycle.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking records a user's seat purchase for a show.  Seats live in the
// booking_seats child table so held seats stay queryable per show; the
// Seats slice is populated by the store when the booking is loaded.
//
// Fields:
//
//	ID              – primary key identifier.
//	Code            – human-facing booking code ("BK" + 10 digits, unique).
//	UserID          – user who made the booking.
//	ShowID          – show being booked.
//	Seats           – seat labels held by this booking, in request order.
//	Status          – pending, confirmed or cancelled.
//	TotalPriceCents – final price; computed at confirmation time.
//	Email           – contact email supplied at confirmation.
//	Phone           – contact phone supplied at confirmation.
//	PaymentMethod   – payment method tag supplied at confirmation.
//	PaymentRef      – reference returned by the payment processor.
//	ExpiresAt       – when the pending hold lapses (null once terminal).
//	CreatedAt       – creation timestamp.
//	UpdatedAt       – last update timestamp.
type Booking struct {
	ID              uint64        // bookings.id
	Code            string        // bookings.booking_code
	UserID          uint64        // bookings.user_id
	ShowID          uint64        // bookings.show_id
	Seats           []string      // booking_seats.seat_label (ordered)
	Status          BookingStatus // bookings.status
	TotalPriceCents uint32        // bookings.total_price_cents
	Email           string        // bookings.email
	Phone           string        // bookings.phone
	PaymentMethod   string        // bookings.payment_method
	PaymentRef      *string       // bookings.payment_ref (nullable)
	ExpiresAt       *time.Time    // bookings.expires_at (nullable)
	CreatedAt       time.Time     // bookings.created_at
	UpdatedAt       time.Time     // bookings.updated_at
}

// HoldsSeats reports whether the booking currently keeps its seats out
// of the available pool.
func (b Booking) HoldsSeats() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}
