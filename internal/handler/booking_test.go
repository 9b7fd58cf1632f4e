package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/booking"
	"github.com/iliyamo/movie-ticket-booking/internal/clock"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/payment"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// memStore is the minimal in-memory booking.Store the handler tests
// drive the real engine with.
type memStore struct {
	show     *model.Show
	bookings map[uint64]*model.Booking
	nextID   uint64
}

func newMemStore() *memStore {
	return &memStore{
		show: &model.Show{
			ID:             1,
			StartsAt:       time.Now().UTC().Add(2 * time.Hour),
			SeatPriceCents: 100,
			TotalSeats:     2,
			AvailableSeats: 2,
			SeatRows:       1,
			SeatCols:       2,
			IsActive:       true,
		},
		bookings: make(map[uint64]*model.Booking),
		nextID:   1,
	}
}

func (m *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *memStore) Show(_ context.Context, showID uint64) (*model.Show, error) {
	if m.show == nil || m.show.ID != showID {
		return nil, booking.ErrShowNotFound
	}
	cp := *m.show
	return &cp, nil
}

func (m *memStore) ShowForUpdate(ctx context.Context, showID uint64) (*model.Show, error) {
	return m.Show(ctx, showID)
}

func (m *memStore) HeldSeats(_ context.Context, showID uint64) ([]string, error) {
	var out []string
	for _, b := range m.bookings {
		if b.ShowID == showID && b.HoldsSeats() {
			out = append(out, b.Seats...)
		}
	}
	return out, nil
}

func (m *memStore) CreateBooking(_ context.Context, b *model.Booking) error {
	b.ID = m.nextID
	m.nextID++
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStore) BookingByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) BookingForUpdate(ctx context.Context, id uint64) (*model.Booking, error) {
	return m.BookingByID(ctx, id)
}

func (m *memStore) ConfirmBooking(_ context.Context, b *model.Booking) error {
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStore) UpdateBookingStatus(_ context.Context, id uint64, status model.BookingStatus) error {
	m.bookings[id].Status = status
	return nil
}

func (m *memStore) AdjustAvailableSeats(_ context.Context, _ uint64, delta int) error {
	m.show.AvailableSeats = uint32(int(m.show.AvailableSeats) + delta)
	return nil
}

func (m *memStore) ExpiredPendingIDs(context.Context, time.Time, int) ([]uint64, error) {
	return nil, nil
}

func newBookingTestServer() (*echo.Echo, *BookingHandler, *memStore) {
	st := newMemStore()
	engine := booking.NewEngine(st, payment.NewSimulator(0), clock.NewSystem())
	h := NewBookingHandler(engine, repository.NewBookingQueryRepo(nil))

	e := echo.New()
	e.Validator = NewRequestValidator()
	return e, h, st
}

// doReserve invokes the Reserve handler as user uid for show 1.
func doReserve(t *testing.T, e *echo.Echo, h *BookingHandler, uid float64, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/shows/:id/reserve")
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("user_id", uid)
	c.Set("role", model.RoleCustomer)
	require.NoError(t, h.Reserve(c))
	return rec
}

func TestReserveEndpointCreatesPendingBooking(t *testing.T) {
	e, h, _ := newBookingTestServer()

	rec := doReserve(t, e, h, 10, `{"seats":["A1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp["status"])
	assert.Regexp(t, `^BK\d{10}$`, resp["booking_code"])
	assert.NotEmpty(t, resp["expires_at"])
}

func TestReserveEndpointConflictBody(t *testing.T) {
	e, h, _ := newBookingTestServer()

	rec := doReserve(t, e, h, 10, `{"seats":["A1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doReserve(t, e, h, 20, `{"seats":["A1"]}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Error string   `json:"error"`
		Seats []string `json:"seats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "seats already booked", resp.Error)
	assert.Equal(t, []string{"A1"}, resp.Seats)
}

func TestReserveEndpointInsufficientSeats(t *testing.T) {
	e, h, _ := newBookingTestServer()

	rec := doReserve(t, e, h, 10, `{"seats":["A1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doReserve(t, e, h, 20, `{"seats":["A1","A2"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "only 1 seats available")
}

func TestReserveEndpointRejectsEmptyBody(t *testing.T) {
	e, h, _ := newBookingTestServer()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"seats":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/shows/:id/reserve")
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("user_id", float64(10))
	c.Set("role", model.RoleCustomer)

	err := h.Reserve(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

// fakeQuery stubs the read side so Get can be exercised without a
// database.
type fakeQuery struct {
	detail *repository.BookingDetail
	err    error
}

func (f *fakeQuery) GetByID(context.Context, uint64) (*repository.BookingDetail, error) {
	return f.detail, f.err
}

func (f *fakeQuery) ListByUser(context.Context, uint64, int, int) ([]repository.BookingDetail, int, error) {
	return nil, 0, f.err
}

func doGet(t *testing.T, e *echo.Echo, h *BookingHandler, uid float64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/bookings/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("user_id", uid)
	c.Set("role", model.RoleCustomer)
	require.NoError(t, h.Get(c))
	return rec
}

func TestGetEndpointMissingBooking(t *testing.T) {
	e, h, _ := newBookingTestServer()
	h.Query = &fakeQuery{err: sql.ErrNoRows}

	rec := doGet(t, e, h, 10)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "booking not found")
}

func TestGetEndpointQueryFailureIsNot404(t *testing.T) {
	e, h, _ := newBookingTestServer()
	h.Query = &fakeQuery{err: errors.New("connection reset")}

	rec := doGet(t, e, h, 10)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "booking not found")
}

func TestGetEndpointOwnership(t *testing.T) {
	e, h, _ := newBookingTestServer()
	h.Query = &fakeQuery{detail: &repository.BookingDetail{ID: 1, UserID: 10}}

	rec := doGet(t, e, h, 10)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGet(t, e, h, 99)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCancelEndpointOwnership(t *testing.T) {
	e, h, st := newBookingTestServer()

	rec := doReserve(t, e, h, 10, `{"seats":["A1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/bookings/:id/cancel")
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("user_id", float64(99))
	c.Set("role", model.RoleCustomer)
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, model.BookingPending, st.bookings[1].Status)
}
