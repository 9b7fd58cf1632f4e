package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// stepClock is a clock the test can move forward.
type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func newExpiryEngine(t *testing.T) (*Engine, *fakeStore, *stepClock) {
	t.Helper()
	st := newFakeStore()
	st.shows[1] = &model.Show{
		ID:             1,
		StartsAt:       testNow.Add(2 * time.Hour),
		SeatPriceCents: 100,
		TotalSeats:     2,
		AvailableSeats: 2,
		SeatRows:       1,
		SeatCols:       2,
		IsActive:       true,
	}
	clk := &stepClock{now: testNow}
	return NewEngine(st, &approvingProcessor{}, clk), st, clk
}

func TestReleaseExpiredSweepsLapsedHolds(t *testing.T) {
	e, st, clk := newExpiryEngine(t)
	ctx := context.Background()

	b, err := e.Reserve(ctx, 10, 1, []string{"A1", "A2"})
	require.NoError(t, err)
	require.Equal(t, uint32(0), st.shows[1].AvailableSeats)

	// Before the hold lapses nothing is swept.
	n, err := e.ReleaseExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	clk.now = testNow.Add(11 * time.Minute)

	n, err = e.ReleaseExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, model.BookingCancelled, st.bookings[b.ID].Status)
	assert.Equal(t, uint32(2), st.shows[1].AvailableSeats)

	// A second pass finds nothing.
	n, err = e.ReleaseExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReleaseExpiredSkipsConfirmed(t *testing.T) {
	e, st, clk := newExpiryEngine(t)
	ctx := context.Background()

	b, err := e.Reserve(ctx, 10, 1, []string{"A1"})
	require.NoError(t, err)

	// Confirmation lands before the sweep runs; the sweeper must not
	// touch the booking even though its scan may have seen it pending.
	_, err = e.Confirm(ctx, ConfirmInput{BookingID: b.ID, UserID: 10})
	require.NoError(t, err)

	clk.now = testNow.Add(11 * time.Minute)

	n, err := e.ReleaseExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, model.BookingConfirmed, st.bookings[b.ID].Status)
	assert.Equal(t, uint32(1), st.shows[1].AvailableSeats)
}

func TestExpiredHoldCannotBeConfirmedAfterSweep(t *testing.T) {
	e, _, clk := newExpiryEngine(t)
	ctx := context.Background()

	b, err := e.Reserve(ctx, 10, 1, []string{"A1"})
	require.NoError(t, err)

	clk.now = testNow.Add(11 * time.Minute)
	_, err = e.ReleaseExpired(ctx)
	require.NoError(t, err)

	_, err = e.Confirm(ctx, ConfirmInput{BookingID: b.ID, UserID: 10})
	var notPending *NotPendingError
	require.ErrorAs(t, err, &notPending)
	assert.Equal(t, model.BookingCancelled, notPending.Status)
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	e, _, _ := newExpiryEngine(t)
	s := NewSweeper(e, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}
