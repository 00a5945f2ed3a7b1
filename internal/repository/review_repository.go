package repository

import (
	"context"
	"database/sql"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
)

// ReviewRepo provides access to the reviews table and owns the denormalized
// movies.rating cache.  Every write recomputes the average inside the same
// transaction, so readers never observe a review without its effect on the
// cached rating.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Upsert creates or replaces the user's review of a movie and refreshes the
// movie's cached average rating in one transaction.  The (user_id, movie_id)
// unique key turns a second submission into an update of the existing row.
func (r *ReviewRepo) Upsert(ctx context.Context, rev *model.Review) error {
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

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ?`, rev.MovieID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrMovieNotFound
	}
	if err != nil {
		return err
	}

	const q = `INSERT INTO reviews (user_id, movie_id, rating, comment)
	           VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE rating = VALUES(rating), comment = VALUES(comment)`
	if _, err := tx.ExecContext(ctx, q, rev.UserID, rev.MovieID, rev.Rating, rev.Comment); err != nil {
		return err
	}
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM reviews WHERE user_id = ? AND movie_id = ?`,
		rev.UserID, rev.MovieID).Scan(&rev.ID); err != nil {
		return err
	}
	if err := recomputeRatingTx(ctx, tx, rev.MovieID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a review and refreshes the movie's cached rating in the same
// transaction.  Only the review's author may delete it unless force is set
// (staff moderation).
func (r *ReviewRepo) Delete(ctx context.Context, reviewID, requesterID uint64, force bool) error {
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

	var movieID, authorID uint64
	err = tx.QueryRowContext(ctx, `SELECT movie_id, user_id FROM reviews WHERE id = ?`, reviewID).
		Scan(&movieID, &authorID)
	if err == sql.ErrNoRows {
		return ErrReviewNotFound
	}
	if err != nil {
		return err
	}
	if !force && authorID != requesterID {
		return ErrForbidden
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, reviewID); err != nil {
		return err
	}
	if err := recomputeRatingTx(ctx, tx, movieID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// recomputeRatingTx reloads every rating of the movie and writes the rounded
// average back to movies.rating.  Zero reviews reset the cache to 0.
func recomputeRatingTx(ctx context.Context, tx *sql.Tx, movieID uint64) error {
	rows, err := tx.QueryContext(ctx, `SELECT rating FROM reviews WHERE movie_id = ?`, movieID)
	if err != nil {
		return err
	}
	defer rows.Close()
	var ratings []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return err
		}
		ratings = append(ratings, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE movies SET rating = ? WHERE id = ?`,
		model.AverageRating(ratings), movieID)
	return err
}

// ReviewListing is a review joined with its author's email for the movie
// detail page.
type ReviewListing struct {
	ID        uint64 `json:"id"`
	UserID    uint64 `json:"user_id"`
	UserEmail string `json:"user_email"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

// ListByMovie returns all reviews of a movie, newest first.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID uint64) ([]ReviewListing, error) {
	const q = `SELECT r.id, r.user_id, u.email, r.rating, r.comment, r.created_at
	           FROM reviews r
	           JOIN users u ON u.id = r.user_id
	           WHERE r.movie_id = ?
	           ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ReviewListing, 0)
	for rows.Next() {
		var l ReviewListing
		var created sql.NullTime
		if err := rows.Scan(&l.ID, &l.UserID, &l.UserEmail, &l.Rating, &l.Comment, &created); err != nil {
			return nil, err
		}
		if created.Valid {
			l.CreatedAt = created.Time.UTC().Format("2006-01-02 15:04:05")
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetByID returns one review, or ErrReviewNotFound.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	const q = `SELECT id, user_id, movie_id, rating, comment, created_at, updated_at
	           FROM reviews WHERE id = ?`
	var rev model.Review
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rev.ID, &rev.UserID, &rev.MovieID, &rev.Rating, &rev.Comment, &rev.CreatedAt, &rev.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}
