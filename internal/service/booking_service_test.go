package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/repository"
)

func TestClaimDeduplicatesSeatIDs(t *testing.T) {
	store := newFakeBookingStore(10, 9000, 1, 2, 3)
	svc := NewBookingService(store, nil, 15*time.Minute)

	b, err := svc.Claim(context.Background(), 7, 10, []uint64{2, 1, 2, 1, 3})
	require.NoError(t, err)

	require.Len(t, store.claimCalls, 1)
	assert.Equal(t, []uint64{2, 1, 3}, store.claimCalls[0])
	assert.Equal(t, int64(27000), b.TotalAmountCents)
}

func TestClaimRejectsEmptyRequest(t *testing.T) {
	store := newFakeBookingStore(10, 9000, 1)
	svc := NewBookingService(store, nil, 0)

	_, err := svc.Claim(context.Background(), 7, 10, nil)
	assert.ErrorIs(t, err, ErrNoSeats)
	assert.Empty(t, store.claimCalls)
}

func TestClaimStampsExpiry(t *testing.T) {
	store := newFakeBookingStore(10, 9000, 1)
	svc := NewBookingService(store, nil, 15*time.Minute)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	b, err := svc.Claim(context.Background(), 7, 10, []uint64{1})
	require.NoError(t, err)
	require.NotNil(t, b.ExpiryDate)
	assert.Equal(t, base.Add(15*time.Minute), *b.ExpiryDate)
	assert.True(t, b.IsExpired(base.Add(16*time.Minute)))
	assert.False(t, b.IsExpired(base.Add(14*time.Minute)))
}

func TestClaimPassesThroughSeatErrors(t *testing.T) {
	store := newFakeBookingStore(10, 9000, 1, 2)
	svc := NewBookingService(store, nil, 0)
	ctx := context.Background()

	_, err := svc.Claim(ctx, 7, 10, []uint64{1, 99})
	var nf *repository.SeatNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []uint64{99}, nf.SeatIDs)

	_, err = svc.Claim(ctx, 7, 10, []uint64{1, 2})
	require.NoError(t, err)

	_, err = svc.Claim(ctx, 8, 10, []uint64{2})
	var unavail *repository.SeatUnavailableError
	require.ErrorAs(t, err, &unavail)
	assert.Equal(t, []uint64{2}, unavail.SeatIDs)
}

func TestGetEnforcesOwnership(t *testing.T) {
	store := newFakeBookingStore(10, 9000, 1)
	svc := NewBookingService(store, nil, 0)
	ctx := context.Background()

	b, err := svc.Claim(ctx, 7, 10, []uint64{1})
	require.NoError(t, err)

	_, err = svc.Get(ctx, b.ID, 8, false)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	det, err := svc.Get(ctx, b.ID, 8, true)
	require.NoError(t, err)
	assert.Equal(t, b.ID, det.ID)

	det, err = svc.Get(ctx, b.ID, 7, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), det.UserID)
}

func TestOverridePaymentStatusRejectsUnknownValue(t *testing.T) {
	store := newFakeBookingStore(10, 9000, 1)
	svc := NewBookingService(store, nil, 0)

	_, err := svc.OverridePaymentStatus(context.Background(), 1, "done")
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestApplyPaymentStatusConfirmsAndPublishesOnce(t *testing.T) {
	store := newFakeBookingStore(10, 9000, 1, 2)
	pub := &fakePublisher{}
	svc := NewBookingService(store, pub, 0)
	ctx := context.Background()

	b, err := svc.Claim(ctx, 7, 10, []uint64{1, 2})
	require.NoError(t, err)

	updated, err := svc.OverridePaymentStatus(ctx, b.ID, "paid")
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, updated.BookingStatus)
	assert.Equal(t, model.BookingPaymentPaid, updated.PaymentStatus)

	events := pub.published()
	require.Len(t, events, 1)
	assert.Equal(t, b.ID, events[0].BookingID)
	assert.Equal(t, int64(18000), events[0].TotalAmountCents)

	// Re-applying paid is idempotent and publishes no second event.
	_, err = svc.OverridePaymentStatus(ctx, b.ID, "paid")
	require.NoError(t, err)
	assert.Len(t, pub.published(), 1)
}

func TestApplyPaymentStatusCancelReleasesSeats(t *testing.T) {
	store := newFakeBookingStore(10, 9000, 1, 2)
	svc := NewBookingService(store, nil, 0)
	ctx := context.Background()

	b, err := svc.Claim(ctx, 7, 10, []uint64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, model.SeatBooked, store.seats[1])

	updated, err := svc.OverridePaymentStatus(ctx, b.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, updated.BookingStatus)
	assert.Equal(t, model.SeatAvailable, store.seats[1])
	assert.Equal(t, model.SeatAvailable, store.seats[2])

	// The freed seats can be claimed again.
	_, err = svc.Claim(ctx, 8, 10, []uint64{1, 2})
	require.NoError(t, err)
}

func TestApplyPaymentStatusExpiredStaysPending(t *testing.T) {
	store := newFakeBookingStore(10, 9000, 1)
	pub := &fakePublisher{}
	svc := NewBookingService(store, pub, 0)
	ctx := context.Background()

	b, err := svc.Claim(ctx, 7, 10, []uint64{1})
	require.NoError(t, err)

	updated, err := svc.OverridePaymentStatus(ctx, b.ID, "expired")
	require.NoError(t, err)
	assert.Equal(t, model.BookingPending, updated.BookingStatus)
	assert.Equal(t, model.SeatBooked, store.seats[1])
	assert.Empty(t, pub.published())
}

func TestApplyPaymentStatusPublishFailureDoesNotFailRequest(t *testing.T) {
	store := newFakeBookingStore(10, 9000, 1)
	pub := &fakePublisher{err: assert.AnError}
	svc := NewBookingService(store, pub, 0)
	ctx := context.Background()

	b, err := svc.Claim(ctx, 7, 10, []uint64{1})
	require.NoError(t, err)

	updated, err := svc.OverridePaymentStatus(ctx, b.ID, "paid")
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, updated.BookingStatus)
}
