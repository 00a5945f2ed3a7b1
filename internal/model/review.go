package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// MinRating and MaxRating bound the review rating scale.
	MinRating = 1
	MaxRating = 5
	// MinCommentLen is the minimum trimmed comment length.
	MinCommentLen = 10
)

// ValidationError describes a rejected review field.  It is a recoverable
// condition surfaced to the caller; nothing is written when it occurs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// ValidateReview checks the rating range and the trimmed comment length.
// It returns a *ValidationError naming the first offending field.
func ValidateReview(rating int, comment string) error {
	if rating < MinRating || rating > MaxRating {
		return &ValidationError{Field: "rating", Reason: fmt.Sprintf("must be between %d and %d", MinRating, MaxRating)}
	}
	if len(strings.TrimSpace(comment)) < MinCommentLen {
		return &ValidationError{Field: "comment", Reason: fmt.Sprintf("must be at least %d characters", MinCommentLen)}
	}
	return nil
}

// AverageRating returns the mean of the given ratings rounded to one decimal
// place, or 0 when the slice is empty.  This is the value cached on
// movies.rating after every review write.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10
}

// Review is a user's rating and comment for a movie.  At most one review
// exists per (user, movie) pair, enforced by a unique key and upsert
// semantics in the repository.
type Review struct {
	ID        uint64    // reviews.id
	UserID    uint64    // reviews.user_id
	MovieID   uint64    // reviews.movie_id
	Rating    int       // reviews.rating (1..5)
	Comment   string    // reviews.comment
	CreatedAt time.Time // reviews.created_at
	UpdatedAt time.Time // reviews.updated_at
}
