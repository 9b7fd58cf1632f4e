package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/booking"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// PublicHandler serves the unauthenticated browse surface: movies,
// their upcoming shows and live seat availability.  Catalog listings
// may sit behind the response cache; the seats endpoint never does.
type PublicHandler struct {
	Movies *repository.MovieRepo
	Shows  *repository.ShowRepo
	Engine *booking.Engine
}

func NewPublicHandler(movies *repository.MovieRepo, shows *repository.ShowRepo, engine *booking.Engine) *PublicHandler {
	if movies == nil || shows == nil || engine == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Movies: movies, Shows: shows, Engine: engine}
}

type showResp struct {
	ID             uint64    `json:"id"`
	MovieID        uint64    `json:"movie_id"`
	TheatreID      uint64    `json:"theatre_id"`
	ScreenID       uint64    `json:"screen_id"`
	StartsAt       time.Time `json:"starts_at"`
	Format         string    `json:"format"`
	Language       string    `json:"language"`
	SeatPriceCents uint32    `json:"seat_price_cents"`
	TotalSeats     uint32    `json:"total_seats"`
	AvailableSeats uint32    `json:"available_seats"`
	SeatRows       uint32    `json:"seat_rows"`
	SeatCols       uint32    `json:"seat_cols"`
}

func toShowResp(s *model.Show) showResp {
	return showResp{
		ID:             s.ID,
		MovieID:        s.MovieID,
		TheatreID:      s.TheatreID,
		ScreenID:       s.ScreenID,
		StartsAt:       s.StartsAt,
		Format:         s.Format,
		Language:       s.Language,
		SeatPriceCents: s.SeatPriceCents,
		TotalSeats:     s.TotalSeats,
		AvailableSeats: s.AvailableSeats,
		SeatRows:       s.SeatRows,
		SeatCols:       s.SeatCols,
	}
}

// ListMovies handles GET /v1/movies, returning active movies only.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

// GetMovie handles GET /v1/movies/:id.
func (h *PublicHandler) GetMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !m.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	return c.JSON(http.StatusOK, m)
}

// ListShowsForMovie handles GET /v1/movies/:id/shows with the movie's
// upcoming active shows.
func (h *PublicHandler) ListShowsForMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	shows, err := h.Shows.ListUpcomingByMovie(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]showResp, 0, len(shows))
	for i := range shows {
		out = append(out, toShowResp(&shows[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": out})
}

// GetShow handles GET /v1/shows/:id.
func (h *PublicHandler) GetShow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	s, err := h.Shows.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !s.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	}
	return c.JSON(http.StatusOK, toShowResp(s))
}

// GetSeats handles GET /v1/shows/:id/seats.  It returns the free seat
// labels straight from committed booking state so a buyer picking from
// this list has the best possible odds of a conflict-free reserve.
func (h *PublicHandler) GetSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	free, err := h.Engine.AvailableSeats(c.Request().Context(), id)
	if err != nil {
		return h.mapErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"show_id":         id,
		"available_seats": free,
		"available_count": len(free),
	})
}

func (h *PublicHandler) mapErr(c echo.Context, err error) error {
	switch err {
	case booking.ErrShowNotFound, repository.ErrShowNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
