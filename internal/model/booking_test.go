package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatusFor_Mapping(t *testing.T) {
	cases := []struct {
		payment BookingPaymentStatus
		want    BookingStatus
	}{
		{BookingPaymentPending, BookingPending},
		{BookingPaymentProcessing, BookingPending},
		{BookingPaymentPaid, BookingConfirmed},
		{BookingPaymentExpired, BookingPending},
		{BookingPaymentCancelled, BookingCancelled},
		{BookingPaymentRefunded, BookingCancelled},
	}
	for _, tc := range cases {
		t.Run(string(tc.payment), func(t *testing.T) {
			assert.Equal(t, tc.want, BookingStatusFor(tc.payment))
		})
	}
}

func TestBookingStatusFor_Idempotent(t *testing.T) {
	all := []BookingPaymentStatus{
		BookingPaymentPending, BookingPaymentProcessing, BookingPaymentPaid,
		BookingPaymentExpired, BookingPaymentCancelled, BookingPaymentRefunded,
	}
	for _, ps := range all {
		first := BookingStatusFor(ps)
		second := BookingStatusFor(ps)
		assert.Equal(t, first, second, "mapping must be stable for %s", ps)
	}
}

func TestParseBookingPaymentStatus(t *testing.T) {
	got, err := ParseBookingPaymentStatus("refunded")
	require.NoError(t, err)
	assert.Equal(t, BookingPaymentRefunded, got)

	_, err = ParseBookingPaymentStatus("PAID")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseBookingPaymentStatus("done")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestBookingIsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var b Booking
	assert.False(t, b.IsExpired(now), "no expiry date means never expired")

	past := now.Add(-time.Minute)
	b.ExpiryDate = &past
	assert.True(t, b.IsExpired(now))

	future := now.Add(time.Minute)
	b.ExpiryDate = &future
	assert.False(t, b.IsExpired(now))
}
