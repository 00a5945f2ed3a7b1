package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
)

// MovieRepo provides access to movies, genres and the movie_genres join
// table.  The denormalized movies.rating column is written exclusively by
// ReviewRepo inside the review transaction; MovieRepo only reads it.
type MovieRepo struct {
	db *sql.DB
}

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

func (r *MovieRepo) DB() *sql.DB { return r.db }

// Create inserts a movie and attaches the given genre ids.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie, genreIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const q = `INSERT INTO movies (title, description, duration_min, release_date, poster_url) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, m.Title, m.Description, m.DurationMin,
		m.ReleaseDate.Format("2006-01-02"), m.PosterURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	if len(genreIDs) > 0 {
		query := `INSERT INTO movie_genres (movie_id, genre_id) VALUES `
		args := make([]interface{}, 0, len(genreIDs)*2)
		for i, gid := range genreIDs {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, m.ID, gid)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns a movie with its genres, or ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, title, description, duration_min, release_date, poster_url, rating, created_at, updated_at
	           FROM movies WHERE id = ?`
	var m model.Movie
	var poster sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.Title, &m.Description, &m.DurationMin, &m.ReleaseDate,
		&poster, &m.Rating, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}
	if poster.Valid {
		v := poster.String
		m.PosterURL = &v
	}
	genres, err := r.genresFor(ctx, []uint64{m.ID})
	if err != nil {
		return nil, err
	}
	m.Genres = genres[m.ID]
	return &m, nil
}

// List returns all movies ordered by release date descending, with genres
// populated in a single extra query.  An optional title filter performs a
// case-insensitive substring match.
func (r *MovieRepo) List(ctx context.Context, titleFilter string) ([]model.Movie, error) {
	q := `SELECT id, title, description, duration_min, release_date, poster_url, rating, created_at, updated_at
	      FROM movies`
	var args []interface{}
	if f := strings.TrimSpace(titleFilter); f != "" {
		q += ` WHERE LOWER(title) LIKE ?`
		args = append(args, "%"+strings.ToLower(f)+"%")
	}
	q += ` ORDER BY release_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		var m model.Movie
		var poster sql.NullString
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.DurationMin,
			&m.ReleaseDate, &poster, &m.Rating, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if poster.Valid {
			v := poster.String
			m.PosterURL = &v
		}
		movies = append(movies, m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return movies, nil
	}
	genres, err := r.genresFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range movies {
		movies[i].Genres = genres[movies[i].ID]
	}
	return movies, nil
}

// ListGenres returns all genres ordered by name.
func (r *MovieRepo) ListGenres(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM genres ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Genre, 0)
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// genresFor loads genres for a set of movie ids in one query and groups them
// by movie.
func (r *MovieRepo) genresFor(ctx context.Context, movieIDs []uint64) (map[uint64][]model.Genre, error) {
	placeholders := make([]string, 0, len(movieIDs))
	args := make([]interface{}, 0, len(movieIDs))
	for _, id := range movieIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT mg.movie_id, g.id, g.name
	      FROM movie_genres mg
	      JOIN genres g ON g.id = mg.genre_id
	      WHERE mg.movie_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY g.name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uint64][]model.Genre, len(movieIDs))
	for rows.Next() {
		var mid uint64
		var g model.Genre
		if err := rows.Scan(&mid, &g.ID, &g.Name); err != nil {
			return nil, err
		}
		out[mid] = append(out[mid], g)
	}
	return out, rows.Err()
}
