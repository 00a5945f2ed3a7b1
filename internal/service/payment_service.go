package service

import (
	"context"
	"strings"
	"time"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/repository"
)

// PaymentService drives the simulated payment lifecycle.  It owns the
// payment record; booking-level consequences of a payment (confirmation,
// cancellation) are delegated to the BookingService so the reconciliation
// rules live in exactly one place.
type PaymentService struct {
	payments PaymentStore
	bookings *BookingService
	store    BookingStore
	now      func() time.Time
}

func NewPaymentService(payments PaymentStore, bookings *BookingService, store BookingStore) *PaymentService {
	return &PaymentService{payments: payments, bookings: bookings, store: store, now: time.Now}
}

// ConfirmRequest carries the method-specific fields of a payment
// confirmation.  Only the fields belonging to the payment's method are
// validated and persisted.
type ConfirmRequest struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	SenderName    string `json:"sender_name"`
	PhoneNumber   string `json:"phone_number"`
	CardNumber    string `json:"card_number"`
	CardHolder    string `json:"card_holder"`
	TransactionID string `json:"transaction_id"`
}

// ChooseMethod gets or creates the booking's payment record with the given
// method.  A fresh record copies the amount from the booking total and starts
// pending; an existing pending record has its method switched in place.  A
// record already past pending is returned unchanged.  Customers may only
// touch their own bookings.
func (s *PaymentService) ChooseMethod(ctx context.Context, userID, bookingID uint64, rawMethod string) (*model.Payment, error) {
	method, err := model.ParsePaymentMethod(rawMethod)
	if err != nil {
		return nil, err
	}
	b, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, repository.ErrForbidden
	}
	p, err := s.payments.Ensure(ctx, bookingID, method, b.TotalAmountCents)
	if err != nil {
		return nil, err
	}
	if p.Method != method && p.Status == model.PaymentPending {
		if err := s.payments.SwitchMethod(ctx, bookingID, method); err != nil {
			return nil, err
		}
		return s.payments.GetByBooking(ctx, bookingID)
	}
	return p, nil
}

// Confirm records the method-specific details and moves the payment to
// processing.  Cash completes in the same flow: the payment is stamped
// completed with a payment date and the booking is reconciled to paid, which
// confirms it and publishes the booking.confirmed event.  Non-cash methods
// stay processing until a staff override.
func (s *PaymentService) Confirm(ctx context.Context, userID, bookingID uint64, req ConfirmRequest) (*model.Payment, error) {
	b, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, repository.ErrForbidden
	}
	p, err := s.payments.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := validateConfirm(p.Method, req); err != nil {
		return nil, err
	}
	details := repository.MethodDetails{TransactionID: strings.TrimSpace(req.TransactionID)}
	switch p.Method {
	case model.MethodBankTransfer:
		details.BankName = strings.TrimSpace(req.BankName)
		details.AccountNumber = strings.TrimSpace(req.AccountNumber)
		details.SenderName = strings.TrimSpace(req.SenderName)
	case model.MethodMomo:
		details.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	case model.MethodVNPay:
		details.CardNumber = strings.TrimSpace(req.CardNumber)
		details.CardHolder = strings.TrimSpace(req.CardHolder)
	}
	if err := s.payments.SetProcessing(ctx, bookingID, details); err != nil {
		return nil, err
	}
	if _, err := s.bookings.ApplyPaymentStatus(ctx, bookingID, model.BookingPaymentProcessing, false); err != nil {
		return nil, err
	}
	if p.Method == model.MethodCash {
		if err := s.payments.Complete(ctx, bookingID, s.now()); err != nil {
			return nil, err
		}
		if _, err := s.bookings.ApplyPaymentStatus(ctx, bookingID, model.BookingPaymentPaid, false); err != nil {
			return nil, err
		}
	}
	return s.payments.GetByBooking(ctx, bookingID)
}

// validateConfirm checks that the fields the payment's method requires are
// present.  It returns a *model.ValidationError naming the first missing
// field.
func validateConfirm(method model.PaymentMethod, req ConfirmRequest) error {
	missing := func(field string) error {
		return &model.ValidationError{Field: field, Reason: "required for method " + string(method)}
	}
	switch method {
	case model.MethodBankTransfer:
		if strings.TrimSpace(req.BankName) == "" {
			return missing("bank_name")
		}
		if strings.TrimSpace(req.AccountNumber) == "" {
			return missing("account_number")
		}
		if strings.TrimSpace(req.SenderName) == "" {
			return missing("sender_name")
		}
	case model.MethodMomo:
		if strings.TrimSpace(req.PhoneNumber) == "" {
			return missing("phone_number")
		}
	case model.MethodVNPay:
		if strings.TrimSpace(req.CardNumber) == "" {
			return missing("card_number")
		}
		if strings.TrimSpace(req.CardHolder) == "" {
			return missing("card_holder")
		}
	}
	return nil
}

// Get returns the payment record of a booking with the owner check applied.
func (s *PaymentService) Get(ctx context.Context, userID, bookingID uint64, staff bool) (*model.Payment, error) {
	b, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !staff && b.UserID != userID {
		return nil, repository.ErrForbidden
	}
	return s.payments.GetByBooking(ctx, bookingID)
}

// BankAccounts lists the venue's receiving accounts.
func (s *PaymentService) BankAccounts(ctx context.Context) ([]model.BankAccount, error) {
	return s.payments.ListBankAccounts(ctx)
}
