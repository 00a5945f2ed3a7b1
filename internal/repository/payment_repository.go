package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
	"github.com/go-sql-driver/mysql"
)

// PaymentRepo provides access to the payments and bank_accounts tables.
// A payment row is one-to-one with its booking and created lazily the first
// time a method is chosen.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

func (r *PaymentRepo) DB() *sql.DB { return r.db }

// Ensure returns the payment record of a booking, creating a pending one with
// the given method and amount if none exists yet.  Concurrent calls race on
// the UNIQUE booking_id key; the loser re-reads the winner's row.
func (r *PaymentRepo) Ensure(ctx context.Context, bookingID uint64, method model.PaymentMethod, amountCents int64) (*model.Payment, error) {
	p, err := r.GetByBooking(ctx, bookingID)
	if err == nil {
		return p, nil
	}
	if err != ErrPaymentNotFound {
		return nil, err
	}
	const ins = `INSERT INTO payments (booking_id, amount_cents, method, status) VALUES (?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, ins, bookingID, amountCents, string(method), string(model.PaymentPending))
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			return r.GetByBooking(ctx, bookingID)
		}
		return nil, err
	}
	return r.GetByBooking(ctx, bookingID)
}

// GetByBooking returns the payment record of a booking, or ErrPaymentNotFound.
func (r *PaymentRepo) GetByBooking(ctx context.Context, bookingID uint64) (*model.Payment, error) {
	const q = `SELECT id, booking_id, amount_cents, method, status, transaction_id, payment_date,
	                  bank_name, account_number, sender_name, phone_number, card_number, card_holder,
	                  created_at, updated_at
	           FROM payments WHERE booking_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, bookingID))
}

// GetByID returns a payment by its own id, or ErrPaymentNotFound.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	const q = `SELECT id, booking_id, amount_cents, method, status, transaction_id, payment_date,
	                  bank_name, account_number, sender_name, phone_number, card_number, card_holder,
	                  created_at, updated_at
	           FROM payments WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *PaymentRepo) scanOne(row *sql.Row) (*model.Payment, error) {
	var p model.Payment
	var method, status string
	var txnID, bankName, accountNumber, senderName, phone, cardNumber, cardHolder sql.NullString
	var paymentDate sql.NullTime
	err := row.Scan(&p.ID, &p.BookingID, &p.AmountCents, &method, &status, &txnID, &paymentDate,
		&bankName, &accountNumber, &senderName, &phone, &cardNumber, &cardHolder,
		&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Method = model.PaymentMethod(method)
	p.Status = model.PaymentStatus(status)
	p.TransactionID = strPtr(txnID)
	p.BankName = strPtr(bankName)
	p.AccountNumber = strPtr(accountNumber)
	p.SenderName = strPtr(senderName)
	p.PhoneNumber = strPtr(phone)
	p.CardNumber = strPtr(cardNumber)
	p.CardHolder = strPtr(cardHolder)
	if paymentDate.Valid {
		t := paymentDate.Time
		p.PaymentDate = &t
	}
	return &p, nil
}

func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// SwitchMethod changes the method of a still-pending payment in place.  All
// other columns, including the amount, are left untouched.
func (r *PaymentRepo) SwitchMethod(ctx context.Context, bookingID uint64, method model.PaymentMethod) error {
	const q = `UPDATE payments SET method = ? WHERE booking_id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, string(method), bookingID, string(model.PaymentPending))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// MethodDetails carries the user-supplied fields of a payment confirmation.
// Only the fields belonging to the payment's method are persisted.
type MethodDetails struct {
	BankName      string
	AccountNumber string
	SenderName    string
	PhoneNumber   string
	CardNumber    string
	CardHolder    string
	TransactionID string
}

// SetProcessing records the method details and moves the payment to
// processing.  Card numbers are masked before they reach the database.
func (r *PaymentRepo) SetProcessing(ctx context.Context, bookingID uint64, d MethodDetails) error {
	const q = `UPDATE payments
	           SET status = ?, bank_name = NULLIF(?, ''), account_number = NULLIF(?, ''),
	               sender_name = NULLIF(?, ''), phone_number = NULLIF(?, ''),
	               card_number = NULLIF(?, ''), card_holder = NULLIF(?, ''),
	               transaction_id = NULLIF(?, '')
	           WHERE booking_id = ?`
	card := d.CardNumber
	if card != "" {
		card = model.MaskCard(card)
	}
	res, err := r.db.ExecContext(ctx, q, string(model.PaymentProcessing),
		d.BankName, d.AccountNumber, d.SenderName, d.PhoneNumber, card, d.CardHolder,
		d.TransactionID, bookingID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// Complete marks the payment completed with the given payment date.
func (r *PaymentRepo) Complete(ctx context.Context, bookingID uint64, at time.Time) error {
	const q = `UPDATE payments SET status = ?, payment_date = ? WHERE booking_id = ?`
	res, err := r.db.ExecContext(ctx, q, string(model.PaymentCompleted),
		at.UTC().Format("2006-01-02 15:04:05"), bookingID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// ListBankAccounts returns the venue's receiving accounts for the
// bank-transfer instructions page.
func (r *PaymentRepo) ListBankAccounts(ctx context.Context) ([]model.BankAccount, error) {
	const q = `SELECT id, bank_name, account_number, account_holder FROM bank_accounts ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.BankAccount, 0)
	for rows.Next() {
		var a model.BankAccount
		if err := rows.Scan(&a.ID, &a.BankName, &a.AccountNumber, &a.AccountHolder); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
