// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// RegisterRoutes registers routes that need no authentication or other
// middleware.  Currently that is only the health check used by load
// balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register, login
// and refresh live under /v1/auth without a session; /v1/me requires a
// valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints.  The
// cache middleware is applied only to the catalog listings; the seats
// endpoint stays uncached because stale availability would funnel
// buyers into seat conflicts.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/movies", p.ListMovies, cache)
	e.GET("/v1/movies/:id", p.GetMovie, cache)
	e.GET("/v1/movies/:id/shows", p.ListShowsForMovie, cache)
	e.GET("/v1/shows/:id", p.GetShow, cache)
	e.GET("/v1/shows/:id/seats", p.GetSeats)
}

// RegisterBooking registers the customer reservation lifecycle.  Every
// route requires an authenticated user; customers and admins are both
// allowed since admins may operate on any booking.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))

	g.POST("/shows/:id/reserve", b.Reserve)
	g.POST("/bookings/:id/confirm", b.Confirm)
	g.POST("/bookings/:id/cancel", b.Cancel)
	g.DELETE("/bookings/:id", b.Cancel)
	g.GET("/bookings/:id", b.Get)
	g.GET("/bookings", b.ListMine)
}

// RegisterAdmin registers catalog management and reporting under
// /v1/admin, restricted to the ADMIN role.
func RegisterAdmin(e *echo.Echo, cat *handler.AdminCatalogHandler, rep *handler.AdminReportHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/movies", cat.CreateMovie)
	g.GET("/movies", cat.ListMovies)
	g.PUT("/movies/:id", cat.UpdateMovie)
	g.DELETE("/movies/:id", cat.DeleteMovie)

	g.POST("/theatres", cat.CreateTheatre)
	g.GET("/theatres", cat.ListTheatres)
	g.PUT("/theatres/:id", cat.UpdateTheatre)
	g.DELETE("/theatres/:id", cat.DeleteTheatre)

	g.POST("/screens", cat.CreateScreen)
	g.GET("/theatres/:id/screens", cat.ListScreens)
	g.PUT("/screens/:id", cat.UpdateScreen)
	g.DELETE("/screens/:id", cat.DeleteScreen)

	g.POST("/shows", cat.CreateShow)
	g.GET("/shows", cat.ListShows)
	g.PUT("/shows/:id", cat.UpdateShow)
	g.DELETE("/shows/:id", cat.DeleteShow)

	g.GET("/reports/shows/:id", rep.ShowStats)
	g.GET("/reports/dashboard", rep.Dashboard)
	g.GET("/bookings", rep.ListBookings)
}
