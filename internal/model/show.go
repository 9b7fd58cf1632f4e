package model

import "time"

// Show represents a scheduled screening of a movie on a particular
// screen.  The AvailableSeats counter is the serving-side summary of
// seat inventory; it is mutated exclusively by the reservation engine
// inside a show-scoped lock, never by catalog CRUD.
//
// Fields:
//
//	ID             – primary key identifier.
//	MovieID        – movie being screened.
//	TheatreID      – venue (denormalized from the screen for queries).
//	ScreenID       – screen where the show takes place.
//	StartsAt       – when the show begins (UTC).
//	Format         – presentation format (2D, 3D, IMAX).
//	Language       – audio language for this screening.
//	SeatPriceCents – price per seat in cents.
//	TotalSeats     – seat count derived from the screen layout at creation.
//	AvailableSeats – seats not held by a pending or confirmed booking.
//	SeatRows       – layout rows copied from the screen (loaded via join).
//	SeatCols       – layout columns copied from the screen (loaded via join).
//	IsActive       – whether the show is open for booking.
//	CreatedAt      – creation timestamp.
//	UpdatedAt      – last update timestamp.
type Show struct {
	ID             uint64    // shows.id
	MovieID        uint64    // shows.movie_id
	TheatreID      uint64    // shows.theatre_id
	ScreenID       uint64    // shows.screen_id
	StartsAt       time.Time // shows.starts_at
	Format         string    // shows.format
	Language       string    // shows.language
	SeatPriceCents uint32    // shows.seat_price_cents
	TotalSeats     uint32    // shows.total_seats
	AvailableSeats uint32    // shows.available_seats
	SeatRows       uint32    // screens.seat_rows (joined)
	SeatCols       uint32    // screens.seat_cols (joined)
	IsActive       bool      // shows.is_active
	CreatedAt      time.Time // shows.created_at
	UpdatedAt      time.Time // shows.updated_at
}

// Layout returns the seat grid for this show.
func (s Show) Layout() SeatLayout {
	return SeatLayout{Rows: s.SeatRows, Cols: s.SeatCols}
}
