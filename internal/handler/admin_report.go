package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// AdminReportHandler serves sales reporting and platform-wide booking
// listings for operators.
type AdminReportHandler struct {
	Reports  *repository.ReportRepo
	Bookings *repository.BookingQueryRepo
}

func NewAdminReportHandler(reports *repository.ReportRepo, bookings *repository.BookingQueryRepo) *AdminReportHandler {
	if reports == nil || bookings == nil {
		panic("nil repository passed to NewAdminReportHandler")
	}
	return &AdminReportHandler{Reports: reports, Bookings: bookings}
}

// ShowStats handles GET /v1/admin/reports/shows/:id with occupancy and
// revenue for one show.
func (h *AdminReportHandler) ShowStats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	st, err := h.Reports.ShowStats(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, st)
}

// Dashboard handles GET /v1/admin/reports/dashboard.
func (h *AdminReportHandler) Dashboard(c echo.Context) error {
	d, err := h.Reports.Dashboard(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, d)
}

// ListBookings handles GET /v1/admin/bookings, every booking on the
// platform with user emails included.
func (h *AdminReportHandler) ListBookings(c echo.Context) error {
	limit, offset := pageParams(c)
	items, total, err := h.Bookings.ListAll(c.Request().Context(), limit, offset)
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
