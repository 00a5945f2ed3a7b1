package service

import (
	"context"
	"sync"
	"time"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/queue"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/repository"
)

// fakeBookingStore is an in-memory BookingStore that mimics the transactional
// semantics of the real repository closely enough for orchestration tests:
// claims are all-or-nothing against a seat map, and status updates release
// seats when asked to.
type fakeBookingStore struct {
	mu       sync.Mutex
	nextID   uint64
	bookings map[uint64]*model.Booking
	seats    map[uint64]model.SeatStatus // seat id -> status
	showtime struct {
		id         uint64
		priceCents int64
	}
	claimCalls [][]uint64
}

func newFakeBookingStore(showtimeID uint64, priceCents int64, seatIDs ...uint64) *fakeBookingStore {
	f := &fakeBookingStore{
		nextID:   1,
		bookings: make(map[uint64]*model.Booking),
		seats:    make(map[uint64]model.SeatStatus),
	}
	f.showtime.id = showtimeID
	f.showtime.priceCents = priceCents
	for _, id := range seatIDs {
		f.seats[id] = model.SeatAvailable
	}
	return f
}

func (f *fakeBookingStore) ClaimSeats(_ context.Context, userID, showtimeID uint64, seatIDs []uint64, expiresAt *time.Time) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimCalls = append(f.claimCalls, append([]uint64(nil), seatIDs...))
	if showtimeID != f.showtime.id {
		return nil, repository.ErrShowtimeNotFound
	}
	var missing, unavailable []uint64
	for _, id := range seatIDs {
		st, ok := f.seats[id]
		if !ok {
			missing = append(missing, id)
		} else if st != model.SeatAvailable {
			unavailable = append(unavailable, id)
		}
	}
	if len(missing) > 0 {
		return nil, &repository.SeatNotFoundError{SeatIDs: missing}
	}
	if len(unavailable) > 0 {
		return nil, &repository.SeatUnavailableError{SeatIDs: unavailable}
	}
	for _, id := range seatIDs {
		f.seats[id] = model.SeatBooked
	}
	b := &model.Booking{
		ID:               f.nextID,
		UserID:           userID,
		ShowtimeID:       showtimeID,
		TotalAmountCents: f.showtime.priceCents * int64(len(seatIDs)),
		PaymentStatus:    model.BookingPaymentPending,
		BookingStatus:    model.BookingPending,
		BookingDate:      time.Now(),
		ExpiryDate:       expiresAt,
		SeatIDs:          append([]uint64(nil), seatIDs...),
	}
	f.nextID++
	f.bookings[b.ID] = b
	return b, nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) GetDetail(_ context.Context, id uint64) (*repository.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return &repository.BookingDetail{
		ID:               b.ID,
		UserID:           b.UserID,
		ShowtimeID:       b.ShowtimeID,
		MovieTitle:       "Fixture Movie",
		CinemaName:       "Fixture Cinema",
		ScreenName:       "Screen 1",
		TotalAmountCents: b.TotalAmountCents,
		PaymentStatus:    string(b.PaymentStatus),
		BookingStatus:    string(b.BookingStatus),
		SeatNumbers:      []string{"A1"},
	}, nil
}

func (f *fakeBookingStore) ListByUser(_ context.Context, userID uint64) ([]*repository.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*repository.BookingDetail, 0)
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, &repository.BookingDetail{ID: b.ID, UserID: b.UserID})
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ListAll(_ context.Context) ([]*repository.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*repository.BookingDetail, 0)
	for _, b := range f.bookings {
		out = append(out, &repository.BookingDetail{ID: b.ID, UserID: b.UserID})
	}
	return out, nil
}

func (f *fakeBookingStore) UpdatePaymentStatus(_ context.Context, bookingID uint64, ps model.BookingPaymentStatus, bs model.BookingStatus, releaseSeats, _ bool) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	b.PaymentStatus = ps
	b.BookingStatus = bs
	if releaseSeats {
		for _, id := range b.SeatIDs {
			f.seats[id] = model.SeatAvailable
		}
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) Stats(context.Context) (*repository.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &repository.DashboardStats{Bookings: int64(len(f.bookings))}, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
	err    error
}

func (f *fakePublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakePublisher) published() []queue.BookingConfirmedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]queue.BookingConfirmedEvent(nil), f.events...)
}

// fakePaymentStore keeps one payment per booking in memory.
type fakePaymentStore struct {
	mu       sync.Mutex
	nextID   uint64
	payments map[uint64]*model.Payment // keyed by booking id
	accounts []model.BankAccount
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{nextID: 1, payments: make(map[uint64]*model.Payment)}
}

func (f *fakePaymentStore) Ensure(_ context.Context, bookingID uint64, method model.PaymentMethod, amountCents int64) (*model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.payments[bookingID]; ok {
		cp := *p
		return &cp, nil
	}
	p := &model.Payment{
		ID:          f.nextID,
		BookingID:   bookingID,
		AmountCents: amountCents,
		Method:      method,
		Status:      model.PaymentPending,
	}
	f.nextID++
	f.payments[bookingID] = p
	cp := *p
	return &cp, nil
}

func (f *fakePaymentStore) GetByBooking(_ context.Context, bookingID uint64) (*model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[bookingID]
	if !ok {
		return nil, repository.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentStore) SwitchMethod(_ context.Context, bookingID uint64, method model.PaymentMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[bookingID]
	if !ok || p.Status != model.PaymentPending {
		return repository.ErrPaymentNotFound
	}
	p.Method = method
	return nil
}

func (f *fakePaymentStore) SetProcessing(_ context.Context, bookingID uint64, d repository.MethodDetails) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[bookingID]
	if !ok {
		return repository.ErrPaymentNotFound
	}
	p.Status = model.PaymentProcessing
	set := func(dst **string, v string) {
		if v != "" {
			s := v
			*dst = &s
		}
	}
	set(&p.BankName, d.BankName)
	set(&p.AccountNumber, d.AccountNumber)
	set(&p.SenderName, d.SenderName)
	set(&p.PhoneNumber, d.PhoneNumber)
	if d.CardNumber != "" {
		masked := model.MaskCard(d.CardNumber)
		p.CardNumber = &masked
	}
	set(&p.CardHolder, d.CardHolder)
	set(&p.TransactionID, d.TransactionID)
	return nil
}

func (f *fakePaymentStore) Complete(_ context.Context, bookingID uint64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[bookingID]
	if !ok {
		return repository.ErrPaymentNotFound
	}
	p.Status = model.PaymentCompleted
	t := at
	p.PaymentDate = &t
	return nil
}

func (f *fakePaymentStore) ListBankAccounts(context.Context) ([]model.BankAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.BankAccount(nil), f.accounts...), nil
}

// fakeReviewStore keeps reviews keyed by (user, movie) and recomputes a
// per-movie average the way the real repository does.
type fakeReviewStore struct {
	mu      sync.Mutex
	nextID  uint64
	reviews map[[2]uint64]*model.Review // (userID, movieID)
	ratings map[uint64]float64          // movie id -> cached average
	movies  map[uint64]bool
}

func newFakeReviewStore(movieIDs ...uint64) *fakeReviewStore {
	f := &fakeReviewStore{
		nextID:  1,
		reviews: make(map[[2]uint64]*model.Review),
		ratings: make(map[uint64]float64),
		movies:  make(map[uint64]bool),
	}
	for _, id := range movieIDs {
		f.movies[id] = true
	}
	return f
}

func (f *fakeReviewStore) Upsert(_ context.Context, rev *model.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.movies[rev.MovieID] {
		return repository.ErrMovieNotFound
	}
	key := [2]uint64{rev.UserID, rev.MovieID}
	if existing, ok := f.reviews[key]; ok {
		existing.Rating = rev.Rating
		existing.Comment = rev.Comment
		rev.ID = existing.ID
	} else {
		rev.ID = f.nextID
		f.nextID++
		cp := *rev
		f.reviews[key] = &cp
	}
	f.recompute(rev.MovieID)
	return nil
}

func (f *fakeReviewStore) Delete(_ context.Context, reviewID, requesterID uint64, force bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, rev := range f.reviews {
		if rev.ID != reviewID {
			continue
		}
		if !force && rev.UserID != requesterID {
			return repository.ErrForbidden
		}
		delete(f.reviews, key)
		f.recompute(rev.MovieID)
		return nil
	}
	return repository.ErrReviewNotFound
}

func (f *fakeReviewStore) ListByMovie(_ context.Context, movieID uint64) ([]repository.ReviewListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.ReviewListing, 0)
	for _, rev := range f.reviews {
		if rev.MovieID == movieID {
			out = append(out, repository.ReviewListing{ID: rev.ID, UserID: rev.UserID, Rating: rev.Rating, Comment: rev.Comment})
		}
	}
	return out, nil
}

func (f *fakeReviewStore) recompute(movieID uint64) {
	var ratings []int
	for _, rev := range f.reviews {
		if rev.MovieID == movieID {
			ratings = append(ratings, rev.Rating)
		}
	}
	f.ratings[movieID] = model.AverageRating(ratings)
}
