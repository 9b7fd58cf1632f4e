// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is paid for and moves to
// the confirmed state. It carries enough detail for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID       uint64   `json:"booking_id"`
	BookingCode     string   `json:"booking_code"`
	UserID          uint64   `json:"user_id"`
	ShowID          uint64   `json:"show_id"`
	MovieTitle      string   `json:"movie_title"`
	TheatreName     string   `json:"theatre_name"`
	ScreenName      string   `json:"screen_name"`
	StartsAt        string   `json:"starts_at"`
	Seats           []string `json:"seats"`
	TotalPriceCents uint32   `json:"total_price_cents"`
	PaymentRef      string   `json:"payment_ref"`
	ConfirmedAt     string   `json:"confirmed_at"`
}
