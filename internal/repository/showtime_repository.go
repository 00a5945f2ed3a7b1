package repository

import (
	"context"
	"database/sql"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
)

// ShowtimeRepo provides access to the showtimes table.  Showtimes are
// immutable once created; there are deliberately no update methods.
type ShowtimeRepo struct {
	db *sql.DB
}

func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

func (r *ShowtimeRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a showtime within an existing transaction and populates
// the generated id.  The caller seeds the seat rows in the same transaction
// and commits or rolls back.
func (r *ShowtimeRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Showtime) error {
	const q = `INSERT INTO showtimes (movie_id, screen_id, show_date, show_time, price_cents) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.MovieID, s.ScreenID,
		s.ShowDate.Format("2006-01-02"), s.ShowTime, s.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID returns a showtime by id, or ErrShowtimeNotFound.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	const q = `SELECT id, movie_id, screen_id, show_date, show_time, price_cents, created_at
	           FROM showtimes WHERE id = ?`
	var s model.Showtime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.MovieID, &s.ScreenID, &s.ShowDate, &s.ShowTime, &s.PriceCents, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrShowtimeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ShowtimeListing is a showtime row joined with its screen and cinema names
// for the public movie-detail page.
type ShowtimeListing struct {
	ID         uint64 `json:"id"`
	ShowDate   string `json:"show_date"`
	ShowTime   string `json:"show_time"`
	PriceCents int64  `json:"price_cents"`
	ScreenName string `json:"screen_name"`
	CinemaName string `json:"cinema_name"`
}

// ListByMovie returns upcoming showtimes of a movie ordered by date and
// start time.
func (r *ShowtimeRepo) ListByMovie(ctx context.Context, movieID uint64) ([]ShowtimeListing, error) {
	const q = `SELECT st.id, st.show_date, st.show_time, st.price_cents, sc.name, c.name
	           FROM showtimes st
	           JOIN screens sc ON sc.id = st.screen_id
	           JOIN cinemas c ON c.id = sc.cinema_id
	           WHERE st.movie_id = ?
	           ORDER BY st.show_date, st.show_time`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ShowtimeListing, 0)
	for rows.Next() {
		var l ShowtimeListing
		var date sql.NullTime
		if err := rows.Scan(&l.ID, &date, &l.ShowTime, &l.PriceCents, &l.ScreenName, &l.CinemaName); err != nil {
			return nil, err
		}
		if date.Valid {
			l.ShowDate = date.Time.Format("2006-01-02")
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
