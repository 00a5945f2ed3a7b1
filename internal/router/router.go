package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/handler"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/middleware"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
)

// Handlers bundles every handler the router needs.
type Handlers struct {
	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
	Booking *handler.BookingHandler
	Payment *handler.PaymentHandler
	Review  *handler.ReviewHandler
	Admin   *handler.AdminHandler
}

// Register wires all routes onto the Echo instance.
//
// Route groups:
//   - /healthz and the /v1 catalog endpoints are public,
//   - /v1/auth hosts registration, login and token exchange,
//   - authenticated customer routes carry JWTAuth,
//   - /v1/admin additionally requires the staff or admin role.
//
// claimLimiter, when non-nil, is the token-bucket rate limit applied to the
// seat-claim endpoint only; cache, when non-nil, wraps the public catalog
// reads with the Redis response cache.
func Register(e *echo.Echo, h Handlers, jwtSecret string, claimLimiter, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	// Public catalog, optionally response-cached.
	pub := e.Group("/v1")
	if cache != nil {
		pub.Use(cache)
	}
	pub.GET("/movies", h.Catalog.ListMovies)
	pub.GET("/movies/:id", h.Catalog.GetMovie)
	pub.GET("/movies/:id/showtimes", h.Catalog.ListShowtimesByMovie)
	pub.GET("/movies/:id/reviews", h.Review.List)
	pub.GET("/genres", h.Catalog.ListGenres)
	pub.GET("/cinemas", h.Catalog.ListCinemas)
	pub.GET("/showtimes/:id", h.Catalog.GetShowtime)
	pub.GET("/showtimes/:id/seats", h.Catalog.ListSeats)
	pub.GET("/payment/bank-accounts", h.Payment.BankAccounts)

	// Auth endpoints that do not require an existing session.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.POST("/logout", h.Auth.Logout)

	// Authenticated customer routes.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", h.Auth.Me)
	auth.PUT("/me", h.Auth.UpdateProfile)
	if claimLimiter != nil {
		auth.POST("/showtimes/:id/bookings", h.Booking.Claim, claimLimiter)
	} else {
		auth.POST("/showtimes/:id/bookings", h.Booking.Claim)
	}
	auth.GET("/bookings", h.Booking.ListMine)
	auth.GET("/bookings/:id", h.Booking.Get)
	auth.POST("/bookings/:id/payment", h.Payment.ChooseMethod)
	auth.POST("/bookings/:id/payment/confirm", h.Payment.Confirm)
	auth.GET("/bookings/:id/payment", h.Payment.Get)
	auth.POST("/movies/:id/reviews", h.Review.Create)
	auth.DELETE("/reviews/:id", h.Review.Delete)

	// Staff-only management routes.
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(string(model.UserTypeStaff), string(model.UserTypeAdmin)))
	admin.GET("/dashboard", h.Admin.Dashboard)
	admin.GET("/bookings", h.Admin.ListBookings)
	admin.PUT("/bookings/:id/status", h.Admin.OverrideStatus)
	admin.POST("/movies", h.Admin.CreateMovie)
	admin.POST("/showtimes", h.Admin.CreateShowtime)
	admin.GET("/cinemas/:id/screens", h.Admin.ListScreens)
}
