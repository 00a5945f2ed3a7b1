// Package service holds the use-case layer between the HTTP handlers and the
// repositories.  Each service depends on small store interfaces rather than
// concrete repositories so the orchestration logic is testable with fakes.
package service

import (
	"context"
	"time"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/queue"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/repository"
)

// BookingStore is the persistence surface the booking service needs.
// *repository.BookingRepo satisfies it.
type BookingStore interface {
	ClaimSeats(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64, expiresAt *time.Time) (*model.Booking, error)
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	GetDetail(ctx context.Context, id uint64) (*repository.BookingDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]*repository.BookingDetail, error)
	ListAll(ctx context.Context) ([]*repository.BookingDetail, error)
	UpdatePaymentStatus(ctx context.Context, bookingID uint64, ps model.BookingPaymentStatus, bs model.BookingStatus, releaseSeats, mirrorPayment bool) (*model.Booking, error)
	Stats(ctx context.Context) (*repository.DashboardStats, error)
}

// PaymentStore is the persistence surface the payment service needs.
// *repository.PaymentRepo satisfies it.
type PaymentStore interface {
	Ensure(ctx context.Context, bookingID uint64, method model.PaymentMethod, amountCents int64) (*model.Payment, error)
	GetByBooking(ctx context.Context, bookingID uint64) (*model.Payment, error)
	SwitchMethod(ctx context.Context, bookingID uint64, method model.PaymentMethod) error
	SetProcessing(ctx context.Context, bookingID uint64, d repository.MethodDetails) error
	Complete(ctx context.Context, bookingID uint64, at time.Time) error
	ListBankAccounts(ctx context.Context) ([]model.BankAccount, error)
}

// ReviewStore is the persistence surface the review service needs.
// *repository.ReviewRepo satisfies it.
type ReviewStore interface {
	Upsert(ctx context.Context, rev *model.Review) error
	Delete(ctx context.Context, reviewID, requesterID uint64, force bool) error
	ListByMovie(ctx context.Context, movieID uint64) ([]repository.ReviewListing, error)
}

// EventPublisher sends domain events to the message broker.
// *queue.Publisher satisfies it.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error
}
