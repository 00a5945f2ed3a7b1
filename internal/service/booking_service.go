package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/queue"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/repository"
)

// ErrNoSeats is returned when a claim request contains no seat ids after
// deduplication.
var ErrNoSeats = errors.New("no seats requested")

// BookingService orchestrates seat claiming and the booking status
// reconciliation.  Every payment-status write goes through ApplyPaymentStatus
// so the derived booking status, the seat release on cancellation and the
// confirmed event can never diverge.
type BookingService struct {
	store  BookingStore
	events EventPublisher
	expiry time.Duration
	now    func() time.Time
}

// NewBookingService builds a BookingService.  expiry is the advisory payment
// deadline stamped on new bookings; zero disables the deadline.
func NewBookingService(store BookingStore, events EventPublisher, expiry time.Duration) *BookingService {
	return &BookingService{store: store, events: events, expiry: expiry, now: time.Now}
}

// Claim books the given seats of a showtime for a user.  Duplicate seat ids
// are collapsed before the claim; an empty request is rejected with
// ErrNoSeats.  The storage errors (showtime/seat not found, seats
// unavailable) pass through for the handler to translate.
func (s *BookingService) Claim(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64) (*model.Booking, error) {
	ids := dedupeIDs(seatIDs)
	if len(ids) == 0 {
		return nil, ErrNoSeats
	}
	var expiresAt *time.Time
	if s.expiry > 0 {
		t := s.now().Add(s.expiry).UTC()
		expiresAt = &t
	}
	return s.store.ClaimSeats(ctx, userID, showtimeID, ids, expiresAt)
}

// Get returns the detail view of one booking.  Customers may only read their
// own bookings; staff read any.
func (s *BookingService) Get(ctx context.Context, bookingID, requesterID uint64, staff bool) (*repository.BookingDetail, error) {
	det, err := s.store.GetDetail(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !staff && det.UserID != requesterID {
		return nil, repository.ErrForbidden
	}
	return det, nil
}

// ListMine returns the requester's bookings, newest first.
func (s *BookingService) ListMine(ctx context.Context, userID uint64) ([]*repository.BookingDetail, error) {
	return s.store.ListByUser(ctx, userID)
}

// ListAll returns every booking for the admin view.
func (s *BookingService) ListAll(ctx context.Context) ([]*repository.BookingDetail, error) {
	return s.store.ListAll(ctx)
}

// Stats returns the admin dashboard counters.
func (s *BookingService) Stats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.store.Stats(ctx)
}

// OverridePaymentStatus is the staff entry point: it validates the raw status
// against the closed enum before applying it, and mirrors the result onto the
// linked payment record.
func (s *BookingService) OverridePaymentStatus(ctx context.Context, bookingID uint64, rawStatus string) (*model.Booking, error) {
	ps, err := model.ParseBookingPaymentStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	return s.ApplyPaymentStatus(ctx, bookingID, ps, true)
}

// ApplyPaymentStatus writes a payment status and reconciles everything it
// implies: the derived booking status, the seat release when the booking
// becomes cancelled, the payment-record mirror when requested, and the
// booking.confirmed event when the booking transitions into confirmed.
// The mapping is idempotent; re-applying the current status is a no-op apart
// from the write itself, and no duplicate event is published.
func (s *BookingService) ApplyPaymentStatus(ctx context.Context, bookingID uint64, ps model.BookingPaymentStatus, mirrorPayment bool) (*model.Booking, error) {
	prev, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	bs := model.BookingStatusFor(ps)
	release := bs == model.BookingCancelled && prev.BookingStatus != model.BookingCancelled
	b, err := s.store.UpdatePaymentStatus(ctx, bookingID, ps, bs, release, mirrorPayment)
	if err != nil {
		return nil, err
	}
	if bs == model.BookingConfirmed && prev.BookingStatus != model.BookingConfirmed {
		s.publishConfirmed(ctx, bookingID)
	}
	return b, nil
}

// publishConfirmed emits the booking.confirmed event.  Publishing is
// best-effort: failures are logged and never fail the request that caused
// the confirmation.
func (s *BookingService) publishConfirmed(ctx context.Context, bookingID uint64) {
	if s.events == nil {
		return
	}
	det, err := s.store.GetDetail(ctx, bookingID)
	if err != nil {
		log.Printf("booking %d confirmed but event detail load failed: %v", bookingID, err)
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:        det.ID,
		UserID:           det.UserID,
		ShowtimeID:       det.ShowtimeID,
		MovieTitle:       det.MovieTitle,
		CinemaName:       det.CinemaName,
		ScreenName:       det.ScreenName,
		ShowDate:         det.ShowDate,
		ShowTime:         det.ShowTime,
		SeatNumbers:      det.SeatNumbers,
		TotalAmountCents: det.TotalAmountCents,
		ConfirmedAt:      s.now().UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("booking %d confirmed but event publish failed: %v", bookingID, err)
	}
}

// dedupeIDs collapses duplicate ids preserving first-seen order.
func dedupeIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
