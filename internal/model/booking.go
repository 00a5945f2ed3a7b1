package model

import (
	"errors"
	"time"
)

// ErrInvalidStatus is returned when a caller supplies a status string outside
// the recognised enum, e.g. through the administrative override endpoint.
var ErrInvalidStatus = errors.New("invalid status value")

// BookingPaymentStatus tracks how far a booking has progressed through
// payment.  It is distinct from PaymentStatus on the payment record: the
// booking-level value is the one that drives BookingStatus.
type BookingPaymentStatus string

const (
	BookingPaymentPending    BookingPaymentStatus = "pending"
	BookingPaymentProcessing BookingPaymentStatus = "processing"
	BookingPaymentPaid       BookingPaymentStatus = "paid"
	BookingPaymentExpired    BookingPaymentStatus = "expired"
	BookingPaymentCancelled  BookingPaymentStatus = "cancelled"
	BookingPaymentRefunded   BookingPaymentStatus = "refunded"
)

// ParseBookingPaymentStatus validates a raw status string against the closed
// enum.  Unknown values yield ErrInvalidStatus so handlers can reject them
// with a 400 before any mutation happens.
func ParseBookingPaymentStatus(s string) (BookingPaymentStatus, error) {
	switch BookingPaymentStatus(s) {
	case BookingPaymentPending, BookingPaymentProcessing, BookingPaymentPaid,
		BookingPaymentExpired, BookingPaymentCancelled, BookingPaymentRefunded:
		return BookingPaymentStatus(s), nil
	}
	return "", ErrInvalidStatus
}

// BookingStatus is the customer-visible state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingStatusFor maps a payment status to the booking status it implies.
// The mapping is total and deterministic: paid confirms, cancelled or
// refunded cancels, everything else leaves the booking pending.  Applying it
// twice with the same input always yields the same output, which makes every
// status write idempotent.
func BookingStatusFor(ps BookingPaymentStatus) BookingStatus {
	switch ps {
	case BookingPaymentPaid:
		return BookingConfirmed
	case BookingPaymentCancelled, BookingPaymentRefunded:
		return BookingCancelled
	case BookingPaymentPending, BookingPaymentProcessing, BookingPaymentExpired:
		return BookingPending
	default:
		return BookingPending
	}
}

// Booking groups one or more seats claimed by a user for a showtime.
// TotalAmountCents is fixed at creation (showtime price × seat count) and is
// never recomputed.  Bookings are not deleted in normal operation; a
// cancellation is a status change that also releases the claimed seats.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – user who made the booking.
//  ShowtimeID       – showtime being booked.
//  TotalAmountCents – derived total, fixed at creation.
//  PaymentStatus    – payment progress (drives BookingStatus).
//  BookingStatus    – derived customer-visible state.
//  BookingDate      – creation timestamp.
//  ExpiryDate       – optional advisory payment deadline.
//  SeatIDs          – claimed seats (loaded separately).
type Booking struct {
	ID               uint64               // bookings.id
	UserID           uint64               // bookings.user_id
	ShowtimeID       uint64               // bookings.showtime_id
	TotalAmountCents int64                // bookings.total_amount_cents
	PaymentStatus    BookingPaymentStatus // bookings.payment_status
	BookingStatus    BookingStatus        // bookings.booking_status
	BookingDate      time.Time            // bookings.booking_date
	ExpiryDate       *time.Time           // bookings.expiry_date (nullable)
	SeatIDs          []uint64             // from booking_seats join
}

// IsExpired reports whether the booking's payment deadline has passed at the
// given instant.  The deadline is advisory: nothing mutates an expired
// booking automatically, callers only use this for display.
func (b *Booking) IsExpired(now time.Time) bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(now)
}
