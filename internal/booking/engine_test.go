package booking

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/clock"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/payment"
)

// fakeStore is an in-memory Store.  It does not simulate row locking;
// engine tests exercise the decision logic, the locking contract is the
// MySQL store's job.
type fakeStore struct {
	shows    map[uint64]*model.Show
	bookings map[uint64]*model.Booking
	nextID   uint64
	codes    map[string]bool

	failCreateWith error // next CreateBooking error, consumed once
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		shows:    make(map[uint64]*model.Show),
		bookings: make(map[uint64]*model.Booking),
		codes:    make(map[string]bool),
		nextID:   1,
	}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeStore) Show(_ context.Context, showID uint64) (*model.Show, error) {
	s, ok := f.shows[showID]
	if !ok {
		return nil, ErrShowNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) ShowForUpdate(ctx context.Context, showID uint64) (*model.Show, error) {
	return f.Show(ctx, showID)
}

func (f *fakeStore) HeldSeats(_ context.Context, showID uint64) ([]string, error) {
	var out []string
	for _, b := range f.bookings {
		if b.ShowID == showID && b.HoldsSeats() {
			out = append(out, b.Seats...)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateBooking(_ context.Context, b *model.Booking) error {
	if f.failCreateWith != nil {
		err := f.failCreateWith
		f.failCreateWith = nil
		return err
	}
	if f.codes[b.Code] {
		return ErrCodeTaken
	}
	f.codes[b.Code] = true
	b.ID = f.nextID
	f.nextID++
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeStore) BookingByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) BookingForUpdate(ctx context.Context, id uint64) (*model.Booking, error) {
	return f.BookingByID(ctx, id)
}

func (f *fakeStore) ConfirmBooking(_ context.Context, b *model.Booking) error {
	cur, ok := f.bookings[b.ID]
	if !ok {
		return ErrBookingNotFound
	}
	cp := *b
	cp.Seats = cur.Seats
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateBookingStatus(_ context.Context, id uint64, status model.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeStore) AdjustAvailableSeats(_ context.Context, showID uint64, delta int) error {
	s, ok := f.shows[showID]
	if !ok {
		return ErrShowNotFound
	}
	s.AvailableSeats = uint32(int(s.AvailableSeats) + delta)
	return nil
}

func (f *fakeStore) ExpiredPendingIDs(_ context.Context, cutoff time.Time, limit int) ([]uint64, error) {
	var ids []uint64
	for id, b := range f.bookings {
		if b.Status == model.BookingPending && b.ExpiresAt != nil && !b.ExpiresAt.After(cutoff) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// approvingProcessor always approves with a fixed reference.
type approvingProcessor struct{ refs int }

func (p *approvingProcessor) Charge(context.Context, string, uint32) (string, error) {
	p.refs++
	return "txn-ok", nil
}

// decliningProcessor always declines.
type decliningProcessor struct{}

func (decliningProcessor) Charge(context.Context, string, uint32) (string, error) {
	return "", payment.ErrDeclined
}

var testNow = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

// newTestEngine builds an engine over a fake store holding one show
// with a 1x2 layout (seats A1, A2) at 100 cents a seat.
func newTestEngine(t *testing.T, pay payment.Processor) (*Engine, *fakeStore) {
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
	return NewEngine(st, pay, clock.NewFixed(testNow)), st
}

func TestReserveHappyPath(t *testing.T) {
	e, st := newTestEngine(t, &approvingProcessor{})

	b, err := e.Reserve(context.Background(), 10, 1, []string{"A1"})
	require.NoError(t, err)
	assert.Equal(t, model.BookingPending, b.Status)
	assert.Equal(t, []string{"A1"}, b.Seats)
	require.NotNil(t, b.ExpiresAt)
	assert.Equal(t, testNow.Add(10*time.Minute), *b.ExpiresAt)
	assert.Regexp(t, `^BK\d{10}$`, b.Code)
	assert.Equal(t, uint32(1), st.shows[1].AvailableSeats)
}

func TestReserveConflictReportsOnlyTakenSeats(t *testing.T) {
	e, st := newTestEngine(t, &approvingProcessor{})
	ctx := context.Background()

	// Widen the row so two requested seats still fit the available
	// counter; otherwise the availability check fires first.
	st.shows[1].SeatCols = 3
	st.shows[1].TotalSeats = 3
	st.shows[1].AvailableSeats = 3

	_, err := e.Reserve(ctx, 10, 1, []string{"A1"})
	require.NoError(t, err)

	// Second buyer wants A1 and A2; only A1 is taken.
	_, err = e.Reserve(ctx, 20, 1, []string{"A1", "A2"})
	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"A1"}, conflict.Seats)

	// Retrying with just the free seat succeeds.
	b, err := e.Reserve(ctx, 20, 1, []string{"A2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A2"}, b.Seats)
}

func TestReserveChecksRunInOrder(t *testing.T) {
	e, st := newTestEngine(t, &approvingProcessor{})
	ctx := context.Background()

	// Unknown show.
	_, err := e.Reserve(ctx, 10, 99, []string{"A1"})
	assert.ErrorIs(t, err, ErrShowNotFound)

	// Inactive show behaves like a missing one.
	st.shows[1].IsActive = false
	_, err = e.Reserve(ctx, 10, 1, []string{"A1"})
	assert.ErrorIs(t, err, ErrShowNotFound)
	st.shows[1].IsActive = true

	// Past show.
	st.shows[1].StartsAt = testNow.Add(-time.Minute)
	_, err = e.Reserve(ctx, 10, 1, []string{"A1"})
	assert.ErrorIs(t, err, ErrShowInPast)
	st.shows[1].StartsAt = testNow.Add(2 * time.Hour)

	// Labels outside the 1x2 layout.
	_, err = e.Reserve(ctx, 10, 1, []string{"A3", "B1"})
	var invalid *InvalidSeatsError
	require.ErrorAs(t, err, &invalid)
	assert.ElementsMatch(t, []string{"A3", "B1"}, invalid.Seats)

	// Non-canonical labels are rejected too.
	_, err = e.Reserve(ctx, 10, 1, []string{"a1"})
	require.ErrorAs(t, err, &invalid)

	// Insufficient availability is reported before per-seat conflicts.
	_, err = e.Reserve(ctx, 10, 1, []string{"A1"})
	require.NoError(t, err)
	_, err = e.Reserve(ctx, 20, 1, []string{"A1", "A2"})
	var insufficient *InsufficientSeatsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Requested)
	assert.Equal(t, 1, insufficient.Available)

	// Empty request.
	_, err = e.Reserve(ctx, 10, 1, nil)
	assert.ErrorIs(t, err, ErrNoSeats)
}

func TestReserveDeduplicatesSeats(t *testing.T) {
	e, st := newTestEngine(t, &approvingProcessor{})

	b, err := e.Reserve(context.Background(), 10, 1, []string{"A1", "A1", "A2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, b.Seats)
	assert.Equal(t, uint32(0), st.shows[1].AvailableSeats)
}

func TestReserveRetriesOnCodeCollision(t *testing.T) {
	e, st := newTestEngine(t, &approvingProcessor{})
	st.failCreateWith = ErrCodeTaken

	b, err := e.Reserve(context.Background(), 10, 1, []string{"A1"})
	require.NoError(t, err)
	assert.Regexp(t, `^BK\d{10}$`, b.Code)
}

func TestConfirmComputesPriceAndClearsExpiry(t *testing.T) {
	pay := &approvingProcessor{}
	e, st := newTestEngine(t, pay)
	ctx := context.Background()

	b, err := e.Reserve(ctx, 10, 1, []string{"A1", "A2"})
	require.NoError(t, err)

	got, err := e.Confirm(ctx, ConfirmInput{
		BookingID:     b.ID,
		UserID:        10,
		Email:         "jo@example.com",
		Phone:         "5551234567",
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, got.Status)
	assert.Equal(t, uint32(200), got.TotalPriceCents)
	assert.Nil(t, got.ExpiresAt)
	require.NotNil(t, got.PaymentRef)
	assert.Equal(t, "txn-ok", *got.PaymentRef)
	assert.Equal(t, 1, pay.refs)

	// Confirmed seats stay off the market.
	assert.Equal(t, uint32(0), st.shows[1].AvailableSeats)

	// Confirming again is an error, not a no-op.
	_, err = e.Confirm(ctx, ConfirmInput{BookingID: b.ID, UserID: 10})
	var notPending *NotPendingError
	require.ErrorAs(t, err, &notPending)
	assert.Equal(t, model.BookingConfirmed, notPending.Status)
}

func TestConfirmDeclinedLeavesBookingPending(t *testing.T) {
	e, st := newTestEngine(t, decliningProcessor{})
	ctx := context.Background()

	b, err := e.Reserve(ctx, 10, 1, []string{"A1"})
	require.NoError(t, err)

	_, err = e.Confirm(ctx, ConfirmInput{BookingID: b.ID, UserID: 10})
	assert.ErrorIs(t, err, ErrPaymentDeclined)

	cur := st.bookings[b.ID]
	assert.Equal(t, model.BookingPending, cur.Status)
	// The seat stays held for a retry.
	assert.Equal(t, uint32(1), st.shows[1].AvailableSeats)
}

func TestConfirmOwnership(t *testing.T) {
	e, _ := newTestEngine(t, &approvingProcessor{})
	ctx := context.Background()

	b, err := e.Reserve(ctx, 10, 1, []string{"A1"})
	require.NoError(t, err)

	_, err = e.Confirm(ctx, ConfirmInput{BookingID: b.ID, UserID: 20})
	assert.ErrorIs(t, err, ErrForbidden)

	// An admin may confirm on behalf of the owner.
	_, err = e.Confirm(ctx, ConfirmInput{BookingID: b.ID, UserID: 20, Admin: true})
	assert.NoError(t, err)
}

func TestCancelReleasesSeats(t *testing.T) {
	e, st := newTestEngine(t, &approvingProcessor{})
	ctx := context.Background()

	b, err := e.Reserve(ctx, 10, 1, []string{"A1", "A2"})
	require.NoError(t, err)
	require.Equal(t, uint32(0), st.shows[1].AvailableSeats)

	got, err := e.Cancel(ctx, b.ID, 10, false)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, got.Status)
	assert.Equal(t, uint32(2), st.shows[1].AvailableSeats)

	// Seats are immediately reservable by someone else.
	_, err = e.Reserve(ctx, 20, 1, []string{"A1"})
	assert.NoError(t, err)

	// Double cancel is rejected.
	_, err = e.Cancel(ctx, b.ID, 10, false)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancelConfirmedBooking(t *testing.T) {
	e, st := newTestEngine(t, &approvingProcessor{})
	ctx := context.Background()

	b, err := e.Reserve(ctx, 10, 1, []string{"A1"})
	require.NoError(t, err)
	_, err = e.Confirm(ctx, ConfirmInput{BookingID: b.ID, UserID: 10})
	require.NoError(t, err)

	_, err = e.Cancel(ctx, b.ID, 10, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), st.shows[1].AvailableSeats)
}

func TestCancelOwnership(t *testing.T) {
	e, _ := newTestEngine(t, &approvingProcessor{})
	ctx := context.Background()

	b, err := e.Reserve(ctx, 10, 1, []string{"A1"})
	require.NoError(t, err)

	_, err = e.Cancel(ctx, b.ID, 20, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.Cancel(ctx, b.ID, 20, true)
	assert.NoError(t, err)
}

func TestAvailableSeats(t *testing.T) {
	e, _ := newTestEngine(t, &approvingProcessor{})
	ctx := context.Background()

	free, err := e.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, free)

	_, err = e.Reserve(ctx, 10, 1, []string{"A1"})
	require.NoError(t, err)

	free, err = e.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"A2"}, free)
}

func TestBookingOwnershipOnRead(t *testing.T) {
	e, _ := newTestEngine(t, &approvingProcessor{})
	ctx := context.Background()

	b, err := e.Reserve(ctx, 10, 1, []string{"A1"})
	require.NoError(t, err)

	_, err = e.Booking(ctx, b.ID, 20, false)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := e.Booking(ctx, b.ID, 20, true)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = e.Booking(ctx, 999, 10, false)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
