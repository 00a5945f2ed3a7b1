package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/repository"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/service"
)

// stubBookingStore backs the handler tests with a single showtime and a
// fixed seat map.  Claims mutate the map all-or-nothing, mirroring the real
// transaction semantics.
type stubBookingStore struct {
	showtimeID uint64
	priceCents int64
	seats      map[uint64]model.SeatStatus
	nextID     uint64
	bookings   map[uint64]*model.Booking
}

func newStubBookingStore() *stubBookingStore {
	return &stubBookingStore{
		showtimeID: 10,
		priceCents: 9000,
		seats:      map[uint64]model.SeatStatus{1: model.SeatAvailable, 2: model.SeatAvailable, 3: model.SeatBooked},
		nextID:     1,
		bookings:   map[uint64]*model.Booking{},
	}
}

func (s *stubBookingStore) ClaimSeats(_ context.Context, userID, showtimeID uint64, seatIDs []uint64, expiresAt *time.Time) (*model.Booking, error) {
	if showtimeID != s.showtimeID {
		return nil, repository.ErrShowtimeNotFound
	}
	var missing, unavailable []uint64
	for _, id := range seatIDs {
		st, ok := s.seats[id]
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
		s.seats[id] = model.SeatBooked
	}
	b := &model.Booking{
		ID:               s.nextID,
		UserID:           userID,
		ShowtimeID:       showtimeID,
		TotalAmountCents: s.priceCents * int64(len(seatIDs)),
		PaymentStatus:    model.BookingPaymentPending,
		BookingStatus:    model.BookingPending,
		ExpiryDate:       expiresAt,
		SeatIDs:          seatIDs,
	}
	s.nextID++
	s.bookings[b.ID] = b
	return b, nil
}

func (s *stubBookingStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *stubBookingStore) GetDetail(_ context.Context, id uint64) (*repository.BookingDetail, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return &repository.BookingDetail{ID: b.ID, UserID: b.UserID, ShowtimeID: b.ShowtimeID,
		TotalAmountCents: b.TotalAmountCents, PaymentStatus: string(b.PaymentStatus), BookingStatus: string(b.BookingStatus)}, nil
}

func (s *stubBookingStore) ListByUser(_ context.Context, userID uint64) ([]*repository.BookingDetail, error) {
	out := make([]*repository.BookingDetail, 0)
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, &repository.BookingDetail{ID: b.ID, UserID: b.UserID})
		}
	}
	return out, nil
}

func (s *stubBookingStore) ListAll(context.Context) ([]*repository.BookingDetail, error) {
	out := make([]*repository.BookingDetail, 0)
	for _, b := range s.bookings {
		out = append(out, &repository.BookingDetail{ID: b.ID, UserID: b.UserID})
	}
	return out, nil
}

func (s *stubBookingStore) UpdatePaymentStatus(_ context.Context, bookingID uint64, ps model.BookingPaymentStatus, bs model.BookingStatus, releaseSeats, _ bool) (*model.Booking, error) {
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	b.PaymentStatus = ps
	b.BookingStatus = bs
	if releaseSeats {
		for _, id := range b.SeatIDs {
			s.seats[id] = model.SeatAvailable
		}
	}
	cp := *b
	return &cp, nil
}

func (s *stubBookingStore) Stats(context.Context) (*repository.DashboardStats, error) {
	return &repository.DashboardStats{Bookings: int64(len(s.bookings))}, nil
}

// newClaimContext builds an echo context for POST /v1/showtimes/:id/bookings
// with the user_id claim already injected, the way the JWT middleware does.
func newClaimContext(t *testing.T, body string, userID float64, showtimeID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/showtimes/"+showtimeID+"/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/showtimes/:id/bookings")
	c.SetParamNames("id")
	c.SetParamValues(showtimeID)
	c.Set("user_id", userID) // JWT numeric claims decode as float64
	c.Set("role", "customer")
	return c, rec
}

func TestClaimEndpointCreatesBooking(t *testing.T) {
	store := newStubBookingStore()
	h := NewBookingHandler(service.NewBookingService(store, nil, 15*time.Minute))

	c, rec := newClaimContext(t, `{"seat_ids":[1,2,1]}`, 7, "10")
	require.NoError(t, h.Claim(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID               uint64   `json:"id"`
		SeatIDs          []uint64 `json:"seat_ids"`
		TotalAmountCents int64    `json:"total_amount_cents"`
		PaymentStatus    string   `json:"payment_status"`
		BookingStatus    string   `json:"booking_status"`
		ExpiryDate       *string  `json:"expiry_date"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []uint64{1, 2}, resp.SeatIDs, "duplicates collapsed")
	assert.Equal(t, int64(18000), resp.TotalAmountCents)
	assert.Equal(t, "pending", resp.PaymentStatus)
	assert.Equal(t, "pending", resp.BookingStatus)
	assert.NotNil(t, resp.ExpiryDate)
}

func TestClaimEndpointSeatConflict(t *testing.T) {
	store := newStubBookingStore()
	h := NewBookingHandler(service.NewBookingService(store, nil, 0))

	c, rec := newClaimContext(t, `{"seat_ids":[1,3]}`, 7, "10")
	require.NoError(t, h.Claim(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		SeatIDs []uint64 `json:"seat_ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []uint64{3}, resp.SeatIDs)
	assert.Equal(t, model.SeatAvailable, store.seats[1], "no partial claim")
}

func TestClaimEndpointValidation(t *testing.T) {
	store := newStubBookingStore()
	h := NewBookingHandler(service.NewBookingService(store, nil, 0))

	c, rec := newClaimContext(t, `{"seat_ids":[]}`, 7, "10")
	require.NoError(t, h.Claim(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newClaimContext(t, `{"seat_ids":[99]}`, 7, "10")
	require.NoError(t, h.Claim(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newClaimContext(t, `{"seat_ids":[1]}`, 7, "999")
	require.NoError(t, h.Claim(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminOverrideStatusEndpoint(t *testing.T) {
	store := newStubBookingStore()
	svc := service.NewBookingService(store, nil, 0)
	admin := NewAdminHandler(svc, nil, nil, nil, nil)
	ctx := context.Background()

	b, err := svc.Claim(ctx, 7, 10, []uint64{1, 2})
	require.NoError(t, err)

	do := func(body, id string) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPut, "/v1/admin/bookings/"+id+"/status", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/admin/bookings/:id/status")
		c.SetParamNames("id")
		c.SetParamValues(id)
		c.Set("role", "staff")
		require.NoError(t, admin.OverrideStatus(c))
		return rec
	}

	rec := do(`{"payment_status":"done"}`, "1")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown enum value rejected before any write")
	got, _ := store.GetByID(ctx, b.ID)
	assert.Equal(t, model.BookingPaymentPending, got.PaymentStatus)

	rec = do(`{"payment_status":"paid"}`, "1")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		PaymentStatus string `json:"payment_status"`
		BookingStatus string `json:"booking_status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.Equal(t, "confirmed", resp.BookingStatus)

	rec = do(`{"payment_status":"refunded"}`, "1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.SeatAvailable, store.seats[1], "refund releases the seats")

	rec = do(`{"payment_status":"paid"}`, "999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
