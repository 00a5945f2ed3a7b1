package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/repository"
)

// CatalogHandler serves the public browse endpoints: movies, genres, cinemas,
// showtimes and per-showtime seat availability.  All of these are read-only
// and sit behind the Redis response cache.
type CatalogHandler struct {
	Movies    *repository.MovieRepo
	Cinemas   *repository.CinemaRepo
	Showtimes *repository.ShowtimeRepo
	Seats     *repository.SeatRepo
}

func NewCatalogHandler(m *repository.MovieRepo, c *repository.CinemaRepo, st *repository.ShowtimeRepo, s *repository.SeatRepo) *CatalogHandler {
	return &CatalogHandler{Movies: m, Cinemas: c, Showtimes: st, Seats: s}
}

type movieItem struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DurationMin uint32   `json:"duration_min"`
	ReleaseDate string   `json:"release_date"`
	PosterURL   *string  `json:"poster_url,omitempty"`
	Rating      float64  `json:"rating"`
	Genres      []string `json:"genres"`
}

// ListMovies returns all movies, optionally filtered by ?q= title substring.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	movies, err := h.Movies.List(ctx, c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]movieItem, 0, len(movies))
	for _, m := range movies {
		item := movieItem{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			DurationMin: m.DurationMin,
			ReleaseDate: m.ReleaseDate.Format("2006-01-02"),
			PosterURL:   m.PosterURL,
			Rating:      m.Rating,
			Genres:      make([]string, 0, len(m.Genres)),
		}
		for _, g := range m.Genres {
			item.Genres = append(item.Genres, g.Name)
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMovie returns one movie with genres and the cached average rating.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	item := movieItem{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		DurationMin: m.DurationMin,
		ReleaseDate: m.ReleaseDate.Format("2006-01-02"),
		PosterURL:   m.PosterURL,
		Rating:      m.Rating,
		Genres:      make([]string, 0, len(m.Genres)),
	}
	for _, g := range m.Genres {
		item.Genres = append(item.Genres, g.Name)
	}
	return c.JSON(http.StatusOK, item)
}

// ListGenres returns every genre.
func (h *CatalogHandler) ListGenres(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	genres, err := h.Movies.ListGenres(ctx)
	if err != nil {
		return writeError(c, err)
	}
	type genreItem struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
	}
	items := make([]genreItem, 0, len(genres))
	for _, g := range genres {
		items = append(items, genreItem{ID: g.ID, Name: g.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListCinemas returns every cinema.
func (h *CatalogHandler) ListCinemas(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cinemas, err := h.Cinemas.ListAll(ctx)
	if err != nil {
		return writeError(c, err)
	}
	type cinemaItem struct {
		ID      uint64  `json:"id"`
		Name    string  `json:"name"`
		Address string  `json:"address"`
		Phone   *string `json:"phone,omitempty"`
	}
	items := make([]cinemaItem, 0, len(cinemas))
	for _, cn := range cinemas {
		items = append(items, cinemaItem{ID: cn.ID, Name: cn.Name, Address: cn.Address, Phone: cn.Phone})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListShowtimesByMovie returns the showtimes of a movie with screen and
// cinema names.
func (h *CatalogHandler) ListShowtimesByMovie(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, id); err != nil {
		return writeError(c, err)
	}
	listings, err := h.Showtimes.ListByMovie(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": listings})
}

// GetShowtime returns one showtime row.
func (h *CatalogHandler) GetShowtime(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Showtimes.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":          s.ID,
		"movie_id":    s.MovieID,
		"screen_id":   s.ScreenID,
		"show_date":   s.ShowDate.Format("2006-01-02"),
		"show_time":   s.ShowTime,
		"price_cents": s.PriceCents,
	})
}

// ListSeats returns the seat grid of a showtime with per-seat status so
// clients can render availability before claiming.
func (h *CatalogHandler) ListSeats(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Showtimes.GetByID(ctx, id); err != nil {
		return writeError(c, err)
	}
	seats, err := h.Seats.ListByShowtime(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	type seatItem struct {
		SeatID     uint64 `json:"seat_id"`
		SeatNumber string `json:"seat_number"`
		Status     string `json:"status"`
	}
	items := make([]seatItem, 0, len(seats))
	for _, s := range seats {
		items = append(items, seatItem{SeatID: s.ID, SeatNumber: s.SeatNumber, Status: string(s.Status)})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// reqCtx bounds handler-side repository calls the same way everywhere.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
