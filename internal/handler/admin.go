package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/repository"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/service"
)

// AdminHandler serves the staff-only management endpoints: the dashboard,
// the booking list, the payment-status override and catalog creation.
// Routes using it sit behind RequireRole(staff, admin).
type AdminHandler struct {
	Bookings  *service.BookingService
	Movies    *repository.MovieRepo
	Cinemas   *repository.CinemaRepo
	Showtimes *repository.ShowtimeRepo
	Seats     *repository.SeatRepo
}

func NewAdminHandler(b *service.BookingService, m *repository.MovieRepo, c *repository.CinemaRepo, st *repository.ShowtimeRepo, s *repository.SeatRepo) *AdminHandler {
	return &AdminHandler{Bookings: b, Movies: m, Cinemas: c, Showtimes: st, Seats: s}
}

// Dashboard returns the aggregate counters: movie and booking totals,
// pending bookings and revenue over paid bookings.
// GET /v1/admin/dashboard
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	stats, err := h.Bookings.Stats(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ListBookings returns every booking with user and showtime info.
// GET /v1/admin/bookings
func (h *AdminHandler) ListBookings(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type overrideStatusReq struct {
	PaymentStatus string `json:"payment_status"`
}

// OverrideStatus writes a booking's payment status.  The value is validated
// against the closed enum before anything mutates; the derived booking
// status, seat release and payment mirror all follow from the one write.
// PUT /v1/admin/bookings/:id/status
func (h *AdminHandler) OverrideStatus(c echo.Context) error {
	bookingID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req overrideStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.OverridePaymentStatus(ctx, bookingID, req.PaymentStatus)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newBookingResp(b))
}

type createMovieReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DurationMin uint32   `json:"duration_min"`
	ReleaseDate string   `json:"release_date"` // YYYY-MM-DD
	PosterURL   *string  `json:"poster_url"`
	GenreIDs    []uint64 `json:"genre_ids"`
}

// CreateMovie inserts a movie with its genre links.
// POST /v1/admin/movies
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" || req.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and duration_min required"})
	}
	release, err := time.Parse("2006-01-02", req.ReleaseDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "release_date must be YYYY-MM-DD"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := &model.Movie{
		Title:       req.Title,
		Description: req.Description,
		DurationMin: req.DurationMin,
		ReleaseDate: release,
		PosterURL:   req.PosterURL,
	}
	if err := h.Movies.Create(ctx, m, req.GenreIDs); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": m.ID})
}

type createShowtimeReq struct {
	MovieID    uint64 `json:"movie_id"`
	ScreenID   uint64 `json:"screen_id"`
	ShowDate   string `json:"show_date"` // YYYY-MM-DD
	ShowTime   string `json:"show_time"` // HH:MM
	PriceCents int64  `json:"price_cents"`
}

// CreateShowtime inserts a showtime and seeds its seat grid from the
// screen's layout in one transaction, so a showtime can never be visible
// without its seats.
// POST /v1/admin/showtimes
func (h *AdminHandler) CreateShowtime(c echo.Context) error {
	var req createShowtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	showDate, err := time.Parse("2006-01-02", req.ShowDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_date must be YYYY-MM-DD"})
	}
	if _, err := time.Parse("15:04", req.ShowTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_time must be HH:MM"})
	}
	if req.PriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must be positive"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		return writeError(c, err)
	}
	screen, err := h.Cinemas.GetScreen(ctx, req.ScreenID)
	if err != nil {
		return writeError(c, err)
	}

	tx, err := h.Showtimes.DB().BeginTx(ctx, nil)
	if err != nil {
		return writeError(c, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	s := &model.Showtime{
		MovieID:    req.MovieID,
		ScreenID:   req.ScreenID,
		ShowDate:   showDate,
		ShowTime:   req.ShowTime,
		PriceCents: req.PriceCents,
	}
	if err := h.Showtimes.CreateTx(ctx, tx, s); err != nil {
		return writeError(c, err)
	}
	if err := h.Seats.SeedForShowtimeTx(ctx, tx, s.ID, screen.SeatRows, screen.SeatCols); err != nil {
		return writeError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return writeError(c, err)
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"id":          s.ID,
		"seat_count":  screen.SeatRows * screen.SeatCols,
		"movie_id":    s.MovieID,
		"screen_id":   s.ScreenID,
		"show_date":   req.ShowDate,
		"show_time":   req.ShowTime,
		"price_cents": s.PriceCents,
	})
}

// ListScreens returns the screens of a cinema so staff can pick one when
// scheduling a showtime.
// GET /v1/admin/cinemas/:id/screens
func (h *AdminHandler) ListScreens(c echo.Context) error {
	cinemaID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	screens, err := h.Cinemas.ListScreens(ctx, cinemaID)
	if err != nil {
		return writeError(c, err)
	}
	type screenItem struct {
		ID       uint64 `json:"id"`
		CinemaID uint64 `json:"cinema_id"`
		Name     string `json:"name"`
		SeatRows uint32 `json:"seat_rows"`
		SeatCols uint32 `json:"seat_cols"`
	}
	items := make([]screenItem, 0, len(screens))
	for _, s := range screens {
		items = append(items, screenItem{ID: s.ID, CinemaID: s.CinemaID, Name: s.Name, SeatRows: s.SeatRows, SeatCols: s.SeatCols})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
