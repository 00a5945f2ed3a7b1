package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/repository"
)

func TestSubmitValidatesBeforeWriting(t *testing.T) {
	store := newFakeReviewStore(5)
	svc := NewReviewService(store)
	ctx := context.Background()

	_, err := svc.Submit(ctx, 7, 5, 0, "a perfectly long comment")
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "rating", ve.Field)
	assert.Empty(t, store.reviews)

	_, err = svc.Submit(ctx, 7, 5, 4, "   short   ")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "comment", ve.Field)
	assert.Empty(t, store.reviews)
}

func TestSubmitUpsertsAndRecomputesAverage(t *testing.T) {
	store := newFakeReviewStore(5)
	svc := NewReviewService(store)
	ctx := context.Background()

	_, err := svc.Submit(ctx, 1, 5, 3, "decent but unremarkable")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 2, 5, 4, "enjoyed it quite a lot")
	require.NoError(t, err)
	assert.Equal(t, 3.5, store.ratings[5])

	// Second submission by the same user replaces, not appends.
	rev, err := svc.Submit(ctx, 1, 5, 5, "rewatched and loved it")
	require.NoError(t, err)
	assert.Len(t, store.reviews, 2)
	assert.Equal(t, 4.5, store.ratings[5])

	listings, err := svc.ListByMovie(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, listings, 2)
	_ = rev
}

func TestSubmitUnknownMovie(t *testing.T) {
	svc := NewReviewService(newFakeReviewStore())
	_, err := svc.Submit(context.Background(), 1, 99, 4, "a perfectly long comment")
	assert.ErrorIs(t, err, repository.ErrMovieNotFound)
}

func TestDeleteOwnershipAndModeration(t *testing.T) {
	store := newFakeReviewStore(5)
	svc := NewReviewService(store)
	ctx := context.Background()

	rev, err := svc.Submit(ctx, 1, 5, 4, "enjoyed it quite a lot")
	require.NoError(t, err)

	err = svc.Delete(ctx, rev.ID, 2, false)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	// Staff moderation bypasses ownership.
	err = svc.Delete(ctx, rev.ID, 2, true)
	require.NoError(t, err)
	assert.Empty(t, store.reviews)
	assert.Equal(t, 0.0, store.ratings[5])

	err = svc.Delete(ctx, rev.ID, 2, true)
	assert.ErrorIs(t, err, repository.ErrReviewNotFound)
}
