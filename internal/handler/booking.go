package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/booking"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	queue_publisher "github.com/iliyamo/movie-ticket-booking/internal/service"
)

// BookingQuery is the read side the handler needs for ticket views.
// *repository.BookingQueryRepo satisfies it.
type BookingQuery interface {
	GetByID(ctx context.Context, bookingID uint64) (*repository.BookingDetail, error)
	ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]repository.BookingDetail, int, error)
}

// BookingHandler exposes the reservation lifecycle over HTTP.  All seat
// state transitions are delegated to the engine; the handler's job is
// binding, auth context and mapping engine errors to status codes.
type BookingHandler struct {
	Engine *booking.Engine
	Query  BookingQuery
}

func NewBookingHandler(engine *booking.Engine, query BookingQuery) *BookingHandler {
	if engine == nil || query == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: engine, Query: query}
}

// ----- DTOs -----

type reserveReq struct {
	Seats []string `json:"seats" validate:"required,min=1,max=10,dive,required"`
}

type confirmReq struct {
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,min=7,max=20"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=card upi wallet cash"`
}

type bookingResp struct {
	ID              uint64     `json:"id"`
	Code            string     `json:"booking_code"`
	ShowID          uint64     `json:"show_id"`
	Seats           []string   `json:"seats"`
	Status          string     `json:"status"`
	TotalPriceCents uint32     `json:"total_price_cents,omitempty"`
	PaymentRef      *string    `json:"payment_ref,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:              b.ID,
		Code:            b.Code,
		ShowID:          b.ShowID,
		Seats:           b.Seats,
		Status:          string(b.Status),
		TotalPriceCents: b.TotalPriceCents,
		PaymentRef:      b.PaymentRef,
		ExpiresAt:       b.ExpiresAt,
	}
}

// Reserve handles POST /v1/shows/:id/reserve.  On success the seats are
// held and a pending booking with an expiry is returned.  A seat
// conflict yields 409 with the exact requested seats that are taken so
// the client can re-render its seat map.
func (h *BookingHandler) Reserve(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	b, err := h.Engine.Reserve(c.Request().Context(), userID, showID, req.Seats)
	if err != nil {
		return h.mapEngineErr(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// Confirm handles POST /v1/bookings/:id/confirm.  It charges the
// payment processor and flips the booking to confirmed.  A declined
// payment returns 402 and leaves the booking pending so the user may
// retry until the hold expires.
func (h *BookingHandler) Confirm(c echo.Context) error {
	userID, role, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req confirmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	b, err := h.Engine.Confirm(c.Request().Context(), booking.ConfirmInput{
		BookingID:     bookingID,
		UserID:        userID,
		Admin:         isAdmin(role),
		Email:         req.Email,
		Phone:         req.Phone,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return h.mapEngineErr(c, err)
	}

	go h.publishConfirmed(b)

	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Cancel handles POST /v1/bookings/:id/cancel.  Both pending and
// confirmed bookings can be cancelled; the held seats return to the
// pool atomically with the status change.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, role, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	b, err := h.Engine.Cancel(c.Request().Context(), bookingID, userID, isAdmin(role))
	if err != nil {
		return h.mapEngineErr(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Get handles GET /v1/bookings/:id, returning the full ticket view with
// movie, theatre and screen context.  Customers only see their own
// bookings.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, role, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	d, err := h.Query.GetByID(c.Request().Context(), bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if d.UserID != userID && !isAdmin(role) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, d)
}

// ListMine handles GET /v1/bookings, the customer's booking history.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit, offset := pageParams(c)

	items, total, err := h.Query.ListByUser(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bookings": items,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// mapEngineErr converts engine errors into HTTP responses.  Conflict
// payloads carry enough structure for clients to refresh their seat
// selection without another round trip.
func (h *BookingHandler) mapEngineErr(c echo.Context, err error) error {
	var (
		conflict     *booking.SeatConflictError
		invalid      *booking.InvalidSeatsError
		insufficient *booking.InsufficientSeatsError
		notPending   *booking.NotPendingError
	)
	switch {
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "seats already booked",
			"seats": conflict.Seats,
		})
	case errors.As(err, &invalid):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid seats for this show",
			"seats": invalid.Seats,
		})
	case errors.As(err, &insufficient):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":     "only " + strconv.Itoa(insufficient.Available) + " seats available",
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
	case errors.As(err, &notPending):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "booking is not pending",
			"status": string(notPending.Status),
		})
	case errors.Is(err, booking.ErrShowNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	case errors.Is(err, booking.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, booking.ErrShowInPast):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot book seats for past shows"})
	case errors.Is(err, booking.ErrNoSeats):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats required"})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, booking.ErrAlreadyCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is already cancelled"})
	case errors.Is(err, booking.ErrPaymentDeclined):
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment declined, booking still pending"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// publishConfirmed emits a booking.confirmed event.  Publishing is best
// effort and runs off the request path; the booking is already
// committed by the time this fires.
func (h *BookingHandler) publishConfirmed(b *model.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev := queue.BookingConfirmedEvent{
		BookingID:       b.ID,
		BookingCode:     b.Code,
		UserID:          b.UserID,
		ShowID:          b.ShowID,
		Seats:           b.Seats,
		TotalPriceCents: b.TotalPriceCents,
		ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if b.PaymentRef != nil {
		ev.PaymentRef = *b.PaymentRef
	}
	if d, err := h.Query.GetByID(ctx, b.ID); err == nil {
		ev.MovieTitle = d.MovieTitle
		ev.TheatreName = d.TheatreName
		ev.ScreenName = "Screen " + strconv.FormatUint(uint64(d.ScreenNumber), 10)
		ev.StartsAt = d.ShowStartsAt.UTC().Format(time.RFC3339)
	}
	if err := queue_publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("booking: publish confirmed event failed: %v", err)
	}
}
