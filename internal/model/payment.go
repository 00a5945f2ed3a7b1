package model

import "time"

// PaymentMethod names one of the supported (simulated) payment channels.
// None of these integrate with a real gateway: bank transfer, MoMo and VNPay
// sit in processing until a staff member confirms them, cash completes at the
// counter.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodMomo         PaymentMethod = "momo"
	MethodVNPay        PaymentMethod = "vnpay"
)

// ParsePaymentMethod validates a raw method string.  Unknown values yield
// ErrInvalidStatus.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case MethodCash, MethodBankTransfer, MethodMomo, MethodVNPay:
		return PaymentMethod(s), nil
	}
	return "", ErrInvalidStatus
}

// PaymentStatus is the state of the payment record itself.  It is a separate
// enum from BookingPaymentStatus: a payment completing is what moves the
// booking to paid, not the other way around.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentRefunded   PaymentStatus = "refunded"
)

// Payment is the one-to-one payment record of a booking, created lazily when
// the user picks a method.  AmountCents is copied from the booking total at
// creation and never changes afterwards, even if the method is switched.
// The method-specific columns stay NULL for methods that do not use them.
//
// Fields:
//  ID            – primary key identifier.
//  BookingID     – owning booking (unique).
//  AmountCents   – amount due, copied from booking.total_amount_cents.
//  Method        – chosen payment method.
//  Status        – payment progress.
//  TransactionID – optional external reference.
//  PaymentDate   – set when the payment completes.
//  BankName, AccountNumber, SenderName – bank transfer details.
//  PhoneNumber   – MoMo e-wallet phone number.
//  CardNumber    – VNPay card number, stored masked.
//  CardHolder    – VNPay card holder name.
type Payment struct {
	ID            uint64        // payments.id
	BookingID     uint64        // payments.booking_id
	AmountCents   int64         // payments.amount_cents
	Method        PaymentMethod // payments.method
	Status        PaymentStatus // payments.status
	TransactionID *string       // payments.transaction_id (nullable)
	PaymentDate   *time.Time    // payments.payment_date (nullable)
	BankName      *string       // payments.bank_name (nullable)
	AccountNumber *string       // payments.account_number (nullable)
	SenderName    *string       // payments.sender_name (nullable)
	PhoneNumber   *string       // payments.phone_number (nullable)
	CardNumber    *string       // payments.card_number (nullable, masked)
	CardHolder    *string       // payments.card_holder (nullable)
	CreatedAt     time.Time     // payments.created_at
	UpdatedAt     time.Time     // payments.updated_at
}

// MaskCard keeps only the last four digits of a card number, replacing the
// rest with asterisks.  Short inputs are masked entirely.
func MaskCard(number string) string {
	if len(number) <= 4 {
		return "****"
	}
	masked := make([]byte, len(number))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(masked)-4:], number[len(number)-4:])
	return string(masked)
}

// BankAccount is one of the venue's receiving accounts, displayed on the
// bank-transfer instructions page.
type BankAccount struct {
	ID            uint64 // bank_accounts.id
	BankName      string // bank_accounts.bank_name
	AccountNumber string // bank_accounts.account_number
	AccountHolder string // bank_accounts.account_holder
}
