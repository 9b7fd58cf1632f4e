package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ReportRepo aggregates booking data for admin reporting.
type ReportRepo struct {
	db *sql.DB
}

// NewReportRepo binds the repo to a database handle.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// ShowStats summarizes one show's sales.
type ShowStats struct {
	ShowID        uint64  `json:"show_id"`
	TotalSeats    uint32  `json:"total_seats"`
	BookedSeats   uint32  `json:"booked_seats"`
	AvailableSeat uint32  `json:"available_seats"`
	BookingCount  uint32  `json:"booking_count"`
	RevenueCents  uint64  `json:"revenue_cents"`
	OccupancyPct  float64 `json:"occupancy_pct"`
}

// ShowStats reports seat and revenue figures for one show.  Revenue only
// counts confirmed bookings; booked seats include pending holds since
// those are unavailable to buyers.
func (r *ReportRepo) ShowStats(ctx context.Context, showID uint64) (*ShowStats, error) {
	var st ShowStats
	st.ShowID = showID
	err := r.db.QueryRowContext(ctx,
		`SELECT total_seats, available_seats FROM shows WHERE id = ?`, showID).
		Scan(&st.TotalSeats, &st.AvailableSeat)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	st.BookedSeats = st.TotalSeats - st.AvailableSeat

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_price_cents), 0)
		 FROM bookings WHERE show_id = ? AND status = 'confirmed'`, showID).
		Scan(&st.BookingCount, &st.RevenueCents)
	if err != nil {
		return nil, err
	}
	if st.TotalSeats > 0 {
		st.OccupancyPct = float64(st.BookedSeats) / float64(st.TotalSeats) * 100
	}
	return &st, nil
}

// DashboardSummary is the admin landing-page aggregate.
type DashboardSummary struct {
	Movies            uint32 `json:"movies"`
	Theatres          uint32 `json:"theatres"`
	UpcomingShows     uint32 `json:"upcoming_shows"`
	ConfirmedBookings uint32 `json:"confirmed_bookings"`
	PendingBookings   uint32 `json:"pending_bookings"`
	RevenueCents      uint64 `json:"revenue_cents"`
}

// Dashboard collects platform-wide counters.
func (r *ReportRepo) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var d DashboardSummary
	row := r.db.QueryRowContext(ctx, `
		SELECT
		  (SELECT COUNT(*) FROM movies WHERE is_active = 1),
		  (SELECT COUNT(*) FROM theatres WHERE is_active = 1),
		  (SELECT COUNT(*) FROM shows WHERE is_active = 1 AND starts_at > UTC_TIMESTAMP()),
		  (SELECT COUNT(*) FROM bookings WHERE status = 'confirmed'),
		  (SELECT COUNT(*) FROM bookings WHERE status = 'pending'),
		  (SELECT COALESCE(SUM(total_price_cents), 0) FROM bookings WHERE status = 'confirmed')`)
	if err := row.Scan(&d.Movies, &d.Theatres, &d.UpcomingShows,
		&d.ConfirmedBookings, &d.PendingBookings, &d.RevenueCents); err != nil {
		return nil, err
	}
	return &d, nil
}
