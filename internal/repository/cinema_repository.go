package repository

import (
	"context"
	"database/sql"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
)

// CinemaRepo provides access to cinemas and their screens.
type CinemaRepo struct {
	db *sql.DB
}

func NewCinemaRepo(db *sql.DB) *CinemaRepo { return &CinemaRepo{db: db} }

// ListAll returns every cinema ordered by id.
func (r *CinemaRepo) ListAll(ctx context.Context) ([]model.Cinema, error) {
	const q = `SELECT id, name, address, phone, created_at, updated_at FROM cinemas ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Cinema, 0)
	for rows.Next() {
		var c model.Cinema
		var phone sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if phone.Valid {
			v := phone.String
			c.Phone = &v
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetScreen returns a screen by id, or ErrScreenNotFound.  The screen's grid
// dimensions seed the seat rows when a showtime is created on it.
func (r *CinemaRepo) GetScreen(ctx context.Context, id uint64) (*model.Screen, error) {
	const q = `SELECT id, cinema_id, name, seat_rows, seat_cols, created_at, updated_at
	           FROM screens WHERE id = ?`
	var s model.Screen
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.CinemaID, &s.Name, &s.SeatRows, &s.SeatCols, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrScreenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListScreens returns all screens of a cinema ordered by name.
func (r *CinemaRepo) ListScreens(ctx context.Context, cinemaID uint64) ([]model.Screen, error) {
	const q = `SELECT id, cinema_id, name, seat_rows, seat_cols, created_at, updated_at
	           FROM screens WHERE cinema_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, cinemaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Screen, 0)
	for rows.Next() {
		var s model.Screen
		if err := rows.Scan(&s.ID, &s.CinemaID, &s.Name, &s.SeatRows, &s.SeatCols, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
