package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// AdminCatalogHandler manages the catalog: movies, theatres, screens
// and shows.  Routes using it sit behind the ADMIN role middleware.
// Seat availability is out of bounds here; show updates deliberately
// cannot touch the counters the reservation engine owns.
type AdminCatalogHandler struct {
	Movies   *repository.MovieRepo
	Theatres *repository.TheatreRepo
	Screens  *repository.ScreenRepo
	Shows    *repository.ShowRepo
}

func NewAdminCatalogHandler(m *repository.MovieRepo, t *repository.TheatreRepo, sc *repository.ScreenRepo, sh *repository.ShowRepo) *AdminCatalogHandler {
	if m == nil || t == nil || sc == nil || sh == nil {
		panic("nil repository passed to NewAdminCatalogHandler")
	}
	return &AdminCatalogHandler{Movies: m, Theatres: t, Screens: sc, Shows: sh}
}

// ----- movies -----

type movieReq struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	DurationMin uint32  `json:"duration_min" validate:"required,min=1,max=600"`
	Language    string  `json:"language" validate:"required,max=50"`
	Genre       string  `json:"genre" validate:"max=50"`
	PosterURL   *string `json:"poster_url" validate:"omitempty,url"`
	Rating      string  `json:"rating" validate:"max=10"`
	IsActive    *bool   `json:"is_active"`
}

func (req *movieReq) apply(m *model.Movie) {
	m.Title = req.Title
	m.Description = req.Description
	m.DurationMin = req.DurationMin
	m.Language = req.Language
	m.Genre = req.Genre
	m.PosterURL = req.PosterURL
	m.Rating = req.Rating
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
}

func (h *AdminCatalogHandler) CreateMovie(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	m := model.Movie{IsActive: true}
	req.apply(&m)
	if err := h.Movies.Create(c.Request().Context(), &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *AdminCatalogHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

func (h *AdminCatalogHandler) UpdateMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.mapErr(c, err)
	}
	req.apply(m)
	if err := h.Movies.Update(c.Request().Context(), m); err != nil {
		return h.mapErr(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *AdminCatalogHandler) DeleteMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
		return h.mapErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- theatres -----

type theatreReq struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	City     string `json:"city" validate:"required,max=100"`
	Address  string `json:"address" validate:"max=300"`
	IsActive *bool  `json:"is_active"`
}

func (h *AdminCatalogHandler) CreateTheatre(c echo.Context) error {
	var req theatreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	t := model.Theatre{Name: req.Name, City: req.City, Address: req.Address, IsActive: true}
	if err := h.Theatres.Create(c.Request().Context(), &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create theatre failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *AdminCatalogHandler) ListTheatres(c echo.Context) error {
	list, err := h.Theatres.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"theatres": list})
}

func (h *AdminCatalogHandler) UpdateTheatre(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theatre id"})
	}
	var req theatreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	t, err := h.Theatres.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.mapErr(c, err)
	}
	t.Name, t.City, t.Address = req.Name, req.City, req.Address
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if err := h.Theatres.Update(c.Request().Context(), t); err != nil {
		return h.mapErr(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *AdminCatalogHandler) DeleteTheatre(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theatre id"})
	}
	if err := h.Theatres.Delete(c.Request().Context(), id); err != nil {
		return h.mapErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- screens -----

type screenCreateReq struct {
	TheatreID    uint64 `json:"theatre_id" validate:"required,min=1"`
	ScreenNumber uint32 `json:"screen_number" validate:"required,min=1"`
	SeatRows     uint32 `json:"seat_rows" validate:"required,min=1,max=26"`
	SeatCols     uint32 `json:"seat_cols" validate:"required,min=1,max=99"`
}

type screenUpdateReq struct {
	ScreenNumber uint32 `json:"screen_number" validate:"required,min=1"`
	IsActive     *bool  `json:"is_active"`
}

func (h *AdminCatalogHandler) CreateScreen(c echo.Context) error {
	var req screenCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if _, err := h.Theatres.GetByID(c.Request().Context(), req.TheatreID); err != nil {
		return h.mapErr(c, err)
	}
	s := model.Screen{
		TheatreID:    req.TheatreID,
		ScreenNumber: req.ScreenNumber,
		SeatRows:     req.SeatRows,
		SeatCols:     req.SeatCols,
		IsActive:     true,
	}
	if err := h.Screens.Create(c.Request().Context(), &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create screen failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *AdminCatalogHandler) ListScreens(c echo.Context) error {
	theatreID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theatre id"})
	}
	list, err := h.Screens.ListByTheatre(c.Request().Context(), theatreID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"screens": list})
}

func (h *AdminCatalogHandler) UpdateScreen(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
	}
	var req screenUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	s, err := h.Screens.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.mapErr(c, err)
	}
	s.ScreenNumber = req.ScreenNumber
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	if err := h.Screens.Update(c.Request().Context(), s); err != nil {
		return h.mapErr(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *AdminCatalogHandler) DeleteScreen(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
	}
	if err := h.Screens.Delete(c.Request().Context(), id); err != nil {
		return h.mapErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- shows -----

type showCreateReq struct {
	MovieID        uint64    `json:"movie_id" validate:"required,min=1"`
	ScreenID       uint64    `json:"screen_id" validate:"required,min=1"`
	StartsAt       time.Time `json:"starts_at" validate:"required"`
	Format         string    `json:"format" validate:"required,oneof=2D 3D IMAX"`
	Language       string    `json:"language" validate:"required,max=50"`
	SeatPriceCents uint32    `json:"seat_price_cents" validate:"required,min=1"`
}

type showUpdateReq struct {
	StartsAt       time.Time `json:"starts_at" validate:"required"`
	Format         string    `json:"format" validate:"required,oneof=2D 3D IMAX"`
	Language       string    `json:"language" validate:"required,max=50"`
	SeatPriceCents uint32    `json:"seat_price_cents" validate:"required,min=1"`
	IsActive       *bool     `json:"is_active"`
}

func (h *AdminCatalogHandler) CreateShow(c echo.Context) error {
	var req showCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		return h.mapErr(c, err)
	}
	screen, err := h.Screens.GetByID(ctx, req.ScreenID)
	if err != nil {
		return h.mapErr(c, err)
	}
	if !screen.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "screen is not active"})
	}
	if !req.StartsAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be in the future"})
	}
	s := model.Show{
		MovieID:        req.MovieID,
		StartsAt:       req.StartsAt,
		Format:         req.Format,
		Language:       req.Language,
		SeatPriceCents: req.SeatPriceCents,
	}
	if err := h.Shows.Create(ctx, &s, screen); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create show failed"})
	}
	return c.JSON(http.StatusCreated, toShowResp(&s))
}

func (h *AdminCatalogHandler) ListShows(c echo.Context) error {
	shows, err := h.Shows.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]showResp, 0, len(shows))
	for i := range shows {
		out = append(out, toShowResp(&shows[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": out})
}

func (h *AdminCatalogHandler) UpdateShow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var req showUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	cur, err := h.Shows.GetByID(ctx, id)
	if err != nil {
		return h.mapErr(c, err)
	}
	active := cur.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}
	s, err := h.Shows.Update(ctx, id, req.StartsAt, req.Format, req.Language, req.SeatPriceCents, active)
	if err != nil {
		return h.mapErr(c, err)
	}
	return c.JSON(http.StatusOK, toShowResp(s))
}

func (h *AdminCatalogHandler) DeleteShow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	if err := h.Shows.Delete(c.Request().Context(), id); err != nil {
		return h.mapErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// mapErr translates repository sentinels into HTTP responses.
func (h *AdminCatalogHandler) mapErr(c echo.Context, err error) error {
	switch err {
	case repository.ErrMovieNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	case repository.ErrTheatreNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "theatre not found"})
	case repository.ErrScreenNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "screen not found"})
	case repository.ErrShowNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "resource has dependent bookings or shows"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
