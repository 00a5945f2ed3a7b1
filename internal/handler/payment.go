package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/service"
)

// PaymentHandler serves the simulated payment endpoints.
type PaymentHandler struct {
	Svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{Svc: svc}
}

type chooseMethodReq struct {
	Method string `json:"method"`
}

type paymentResp struct {
	ID            uint64  `json:"id"`
	BookingID     uint64  `json:"booking_id"`
	AmountCents   int64   `json:"amount_cents"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transaction_id,omitempty"`
	PaymentDate   *string `json:"payment_date,omitempty"`
	BankName      *string `json:"bank_name,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
	SenderName    *string `json:"sender_name,omitempty"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	CardNumber    *string `json:"card_number,omitempty"` // masked
	CardHolder    *string `json:"card_holder,omitempty"`
}

func newPaymentResp(p *model.Payment) paymentResp {
	resp := paymentResp{
		ID:            p.ID,
		BookingID:     p.BookingID,
		AmountCents:   p.AmountCents,
		Method:        string(p.Method),
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		BankName:      p.BankName,
		AccountNumber: p.AccountNumber,
		SenderName:    p.SenderName,
		PhoneNumber:   p.PhoneNumber,
		CardNumber:    p.CardNumber,
		CardHolder:    p.CardHolder,
	}
	if p.PaymentDate != nil {
		iso := p.PaymentDate.UTC().Format("2006-01-02T15:04:05Z07:00")
		resp.PaymentDate = &iso
	}
	return resp
}

// ChooseMethod gets or creates the booking's payment record with the chosen
// method.
// POST /v1/bookings/:id/payment
func (h *PaymentHandler) ChooseMethod(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req chooseMethodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Svc.ChooseMethod(ctx, uid, bookingID, req.Method)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newPaymentResp(p))
}

// Confirm submits the method-specific details.  Cash completes immediately
// and confirms the booking; other methods move to processing.
// POST /v1/bookings/:id/payment/confirm
func (h *PaymentHandler) Confirm(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req service.ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Svc.Confirm(ctx, uid, bookingID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newPaymentResp(p))
}

// Get returns the payment record of a booking.
// GET /v1/bookings/:id/payment
func (h *PaymentHandler) Get(c echo.Context) error {
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

	p, err := h.Svc.Get(ctx, uid, bookingID, isStaff(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newPaymentResp(p))
}

// BankAccounts lists the venue's receiving accounts for bank transfers.
// GET /v1/payment/bank-accounts
func (h *PaymentHandler) BankAccounts(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	accounts, err := h.Svc.BankAccounts(ctx)
	if err != nil {
		return writeError(c, err)
	}
	type accountItem struct {
		ID            uint64 `json:"id"`
		BankName      string `json:"bank_name"`
		AccountNumber string `json:"account_number"`
		AccountHolder string `json:"account_holder"`
	}
	items := make([]accountItem, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, accountItem{ID: a.ID, BankName: a.BankName, AccountNumber: a.AccountNumber, AccountHolder: a.AccountHolder})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
