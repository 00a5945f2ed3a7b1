package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/service"
)

// BookingHandler serves the customer booking endpoints.
type BookingHandler struct {
	Svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

type claimReq struct {
	SeatIDs []uint64 `json:"seat_ids"`
}

type bookingResp struct {
	ID               uint64   `json:"id"`
	ShowtimeID       uint64   `json:"showtime_id"`
	SeatIDs          []uint64 `json:"seat_ids"`
	TotalAmountCents int64    `json:"total_amount_cents"`
	PaymentStatus    string   `json:"payment_status"`
	BookingStatus    string   `json:"booking_status"`
	ExpiryDate       *string  `json:"expiry_date,omitempty"`
}

func newBookingResp(b *model.Booking) bookingResp {
	resp := bookingResp{
		ID:               b.ID,
		ShowtimeID:       b.ShowtimeID,
		SeatIDs:          b.SeatIDs,
		TotalAmountCents: b.TotalAmountCents,
		PaymentStatus:    string(b.PaymentStatus),
		BookingStatus:    string(b.BookingStatus),
	}
	if b.ExpiryDate != nil {
		iso := b.ExpiryDate.UTC().Format("2006-01-02T15:04:05Z07:00")
		resp.ExpiryDate = &iso
	}
	return resp
}

// Claim books the requested seats of a showtime for the current user.
// POST /v1/showtimes/:id/bookings
func (h *BookingHandler) Claim(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showtimeID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	var req claimReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Svc.Claim(ctx, uid, showtimeID, req.SeatIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newBookingResp(b))
}

// ListMine returns the current user's bookings, newest first.
// GET /v1/bookings
func (h *BookingHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Svc.ListMine(ctx, uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get returns the detail view of one booking.  Customers only see their own.
// GET /v1/bookings/:id
func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	det, err := h.Svc.Get(ctx, bookingID, uid, isStaff(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, det)
}
