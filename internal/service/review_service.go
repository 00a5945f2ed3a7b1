package service

import (
	"context"
	"strings"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/repository"
)

// ReviewService validates and stores movie reviews.  The rating recompute is
// a storage concern; the service only guards the inputs.
type ReviewService struct {
	store ReviewStore
}

func NewReviewService(store ReviewStore) *ReviewService {
	return &ReviewService{store: store}
}

// Submit upserts the user's review of a movie.  Validation failures return a
// *model.ValidationError and write nothing.
func (s *ReviewService) Submit(ctx context.Context, userID, movieID uint64, rating int, comment string) (*model.Review, error) {
	comment = strings.TrimSpace(comment)
	if err := model.ValidateReview(rating, comment); err != nil {
		return nil, err
	}
	rev := &model.Review{UserID: userID, MovieID: movieID, Rating: rating, Comment: comment}
	if err := s.store.Upsert(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

// Delete removes a review.  Customers may only delete their own; staff may
// delete any.
func (s *ReviewService) Delete(ctx context.Context, reviewID, requesterID uint64, staff bool) error {
	return s.store.Delete(ctx, reviewID, requesterID, staff)
}

// ListByMovie returns all reviews of a movie, newest first.
func (s *ReviewService) ListByMovie(ctx context.Context, movieID uint64) ([]repository.ReviewListing, error) {
	return s.store.ListByMovie(ctx, movieID)
}
