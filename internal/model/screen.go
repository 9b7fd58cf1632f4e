package model

import "time"

// Screen is an auditorium inside a theatre.  Its seating layout is a
// simple grid of SeatRows × SeatCols from which seat labels are derived
// deterministically (see seat.go).  The layout is immutable once a show
// on this screen has bookings.
//
// Fields:
//
//	ID           – primary key identifier.
//	TheatreID    – theatre this screen belongs to.
//	ScreenNumber – 1-based number within the theatre.
//	SeatRows     – number of seat rows (max 26, lettered A..Z).
//	SeatCols     – number of seats per row.
//	IsActive     – whether the screen can host new shows.
//	CreatedAt    – creation timestamp.
//	UpdatedAt    – last update timestamp.
type Screen struct {
	ID           uint64    // screens.id
	TheatreID    uint64    // screens.theatre_id
	ScreenNumber uint32    // screens.screen_number
	SeatRows     uint32    // screens.seat_rows
	SeatCols     uint32    // screens.seat_cols
	IsActive     bool      // screens.is_active
	CreatedAt    time.Time // screens.created_at
	UpdatedAt    time.Time // screens.updated_at
}

// Capacity returns the total number of seats the layout provides.
func (s Screen) Capacity() uint32 {
	return s.SeatRows * s.SeatCols
}
