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

func paymentFixture(t *testing.T) (*PaymentService, *BookingService, *fakeBookingStore, *fakePaymentStore, *fakePublisher, *model.Booking) {
	t.Helper()
	store := newFakeBookingStore(10, 9000, 1, 2)
	pub := &fakePublisher{}
	bookings := NewBookingService(store, pub, 0)
	payments := newFakePaymentStore()
	svc := NewPaymentService(payments, bookings, store)

	b, err := bookings.Claim(context.Background(), 7, 10, []uint64{1, 2})
	require.NoError(t, err)
	return svc, bookings, store, payments, pub, b
}

func TestChooseMethodCreatesPendingPayment(t *testing.T) {
	svc, _, _, _, _, b := paymentFixture(t)

	p, err := svc.ChooseMethod(context.Background(), 7, b.ID, "momo")
	require.NoError(t, err)
	assert.Equal(t, model.MethodMomo, p.Method)
	assert.Equal(t, model.PaymentPending, p.Status)
	assert.Equal(t, b.TotalAmountCents, p.AmountCents)
}

func TestChooseMethodSwitchesInPlace(t *testing.T) {
	svc, _, _, _, _, b := paymentFixture(t)
	ctx := context.Background()

	first, err := svc.ChooseMethod(ctx, 7, b.ID, "momo")
	require.NoError(t, err)

	second, err := svc.ChooseMethod(ctx, 7, b.ID, "vnpay")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same record, method switched in place")
	assert.Equal(t, model.MethodVNPay, second.Method)
	assert.Equal(t, first.AmountCents, second.AmountCents)
}

func TestChooseMethodRejectsUnknownMethodAndForeignBooking(t *testing.T) {
	svc, _, _, _, _, b := paymentFixture(t)
	ctx := context.Background()

	_, err := svc.ChooseMethod(ctx, 7, b.ID, "paypal")
	assert.ErrorIs(t, err, model.ErrInvalidStatus)

	_, err = svc.ChooseMethod(ctx, 8, b.ID, "cash")
	assert.ErrorIs(t, err, repository.ErrForbidden)

	_, err = svc.ChooseMethod(ctx, 7, 999, "cash")
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestConfirmWithoutPaymentRecord(t *testing.T) {
	svc, _, _, _, _, b := paymentFixture(t)

	_, err := svc.Confirm(context.Background(), 7, b.ID, ConfirmRequest{})
	assert.ErrorIs(t, err, repository.ErrPaymentNotFound)
}

func TestConfirmValidatesMethodFields(t *testing.T) {
	tests := []struct {
		method  string
		req     ConfirmRequest
		missing string
	}{
		{"bank_transfer", ConfirmRequest{AccountNumber: "123", SenderName: "An"}, "bank_name"},
		{"bank_transfer", ConfirmRequest{BankName: "VCB", SenderName: "An"}, "account_number"},
		{"bank_transfer", ConfirmRequest{BankName: "VCB", AccountNumber: "123"}, "sender_name"},
		{"momo", ConfirmRequest{}, "phone_number"},
		{"vnpay", ConfirmRequest{CardHolder: "AN NGUYEN"}, "card_number"},
		{"vnpay", ConfirmRequest{CardNumber: "1234567890123456"}, "card_holder"},
	}
	for _, tt := range tests {
		t.Run(tt.method+"_"+tt.missing, func(t *testing.T) {
			svc, _, _, _, _, b := paymentFixture(t)
			ctx := context.Background()
			_, err := svc.ChooseMethod(ctx, 7, b.ID, tt.method)
			require.NoError(t, err)

			_, err = svc.Confirm(ctx, 7, b.ID, tt.req)
			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.missing, ve.Field)
		})
	}
}

func TestConfirmBankTransferStaysProcessing(t *testing.T) {
	svc, _, store, _, pub, b := paymentFixture(t)
	ctx := context.Background()

	_, err := svc.ChooseMethod(ctx, 7, b.ID, "bank_transfer")
	require.NoError(t, err)

	p, err := svc.Confirm(ctx, 7, b.ID, ConfirmRequest{
		BankName: "VCB", AccountNumber: "0123456789", SenderName: "Nguyen Van An",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentProcessing, p.Status)
	assert.Nil(t, p.PaymentDate)

	updated, err := store.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingPaymentProcessing, updated.PaymentStatus)
	assert.Equal(t, model.BookingPending, updated.BookingStatus)
	assert.Empty(t, pub.published())
}

func TestConfirmCashAutoCompletes(t *testing.T) {
	svc, _, store, _, pub, b := paymentFixture(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	_, err := svc.ChooseMethod(ctx, 7, b.ID, "cash")
	require.NoError(t, err)

	p, err := svc.Confirm(ctx, 7, b.ID, ConfirmRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, p.Status)
	require.NotNil(t, p.PaymentDate)
	assert.Equal(t, at, *p.PaymentDate)

	updated, err := store.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingPaymentPaid, updated.PaymentStatus)
	assert.Equal(t, model.BookingConfirmed, updated.BookingStatus)

	events := pub.published()
	require.Len(t, events, 1)
	assert.Equal(t, b.ID, events[0].BookingID)
}

func TestConfirmVNPayMasksCardNumber(t *testing.T) {
	svc, _, _, payments, _, b := paymentFixture(t)
	ctx := context.Background()

	_, err := svc.ChooseMethod(ctx, 7, b.ID, "vnpay")
	require.NoError(t, err)

	p, err := svc.Confirm(ctx, 7, b.ID, ConfirmRequest{
		CardNumber: "9704123456781234", CardHolder: "NGUYEN VAN AN",
	})
	require.NoError(t, err)
	require.NotNil(t, p.CardNumber)
	assert.Equal(t, "************1234", *p.CardNumber)

	stored, err := payments.GetByBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.NotContains(t, *stored.CardNumber, "970412")
}
