package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
)

// BookingRepo provides the booking workflow's persistence: the atomic seat
// claim, status updates and the joined detail views.  It composes SeatRepo
// for the seat-row primitives so both operate inside one transaction.
type BookingRepo struct {
	db    *sql.DB
	seats *SeatRepo
}

func NewBookingRepo(db *sql.DB, seats *SeatRepo) *BookingRepo {
	return &BookingRepo{db: db, seats: seats}
}

func (r *BookingRepo) DB() *sql.DB { return r.db }

// ClaimSeats atomically claims the given seats of a showtime for a user and
// creates the booking.  The whole operation is one transaction:
//
//  1. the showtime row is loaded for its price,
//  2. the requested seat rows are locked FOR UPDATE,
//  3. ids that matched no row of this showtime abort with SeatNotFoundError,
//  4. locked rows that are not available abort with SeatUnavailableError
//     naming the offenders,
//  5. a conditional UPDATE flips the rows to booked; an affected-row count
//     below the request size means a concurrent claim won the race, and the
//     transaction rolls back,
//  6. the booking and its booking_seats rows are inserted with
//     total = price × seat count and both statuses pending.
//
// Either every requested seat is claimed or none are.
func (r *BookingRepo) ClaimSeats(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64, expiresAt *time.Time) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var priceCents int64
	err = tx.QueryRowContext(ctx, `SELECT price_cents FROM showtimes WHERE id = ?`, showtimeID).Scan(&priceCents)
	if err == sql.ErrNoRows {
		return nil, ErrShowtimeNotFound
	}
	if err != nil {
		return nil, err
	}

	locked, err := r.seats.LockSeatsTx(ctx, tx, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}
	if len(locked) != len(seatIDs) {
		found := make(map[uint64]struct{}, len(locked))
		for _, s := range locked {
			found[s.ID] = struct{}{}
		}
		missing := make([]uint64, 0, len(seatIDs)-len(locked))
		for _, id := range seatIDs {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, &SeatNotFoundError{SeatIDs: missing}
	}
	var unavailable []uint64
	for _, s := range locked {
		if s.Status != model.SeatAvailable {
			unavailable = append(unavailable, s.ID)
		}
	}
	if len(unavailable) > 0 {
		return nil, &SeatUnavailableError{SeatIDs: unavailable}
	}

	affected, err := r.seats.MarkBookedTx(ctx, tx, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}
	if affected != int64(len(seatIDs)) {
		// Lost a race despite the locks; never commit a partial claim.
		return nil, &SeatUnavailableError{SeatIDs: seatIDs}
	}

	b := &model.Booking{
		UserID:           userID,
		ShowtimeID:       showtimeID,
		TotalAmountCents: priceCents * int64(len(seatIDs)),
		PaymentStatus:    model.BookingPaymentPending,
		BookingStatus:    model.BookingPending,
		ExpiryDate:       expiresAt,
		SeatIDs:          append([]uint64(nil), seatIDs...),
	}
	const ins = `INSERT INTO bookings (user_id, showtime_id, total_amount_cents, payment_status, booking_status, expiry_date)
	             VALUES (?, ?, ?, ?, ?, ?)`
	var exp interface{}
	if expiresAt != nil {
		exp = expiresAt.UTC().Format("2006-01-02 15:04:05")
	}
	res, err := tx.ExecContext(ctx, ins, b.UserID, b.ShowtimeID, b.TotalAmountCents,
		string(b.PaymentStatus), string(b.BookingStatus), exp)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	b.ID = uint64(id)

	query := `INSERT INTO booking_seats (booking_id, seat_id) VALUES `
	args := make([]interface{}, 0, len(seatIDs)*2)
	for i, sid := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, b.ID, sid)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}

	if err := tx.QueryRowContext(ctx, `SELECT booking_date FROM bookings WHERE id = ?`, b.ID).Scan(&b.BookingDate); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return b, nil
}

// GetByID returns a booking with its seat ids, or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, showtime_id, total_amount_cents, payment_status, booking_status, booking_date, expiry_date
	           FROM bookings WHERE id = ?`
	var b model.Booking
	var ps, bs string
	var exp sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.UserID, &b.ShowtimeID, &b.TotalAmountCents, &ps, &bs, &b.BookingDate, &exp)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	b.PaymentStatus = model.BookingPaymentStatus(ps)
	b.BookingStatus = model.BookingStatus(bs)
	if exp.Valid {
		t := exp.Time
		b.ExpiryDate = &t
	}
	rows, err := r.db.QueryContext(ctx, `SELECT seat_id FROM booking_seats WHERE booking_id = ? ORDER BY seat_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		b.SeatIDs = append(b.SeatIDs, sid)
	}
	return &b, rows.Err()
}

// UpdatePaymentStatus writes a new payment status and the booking status
// derived from it, in one transaction.  When releaseSeats is set (the
// booking was cancelled or refunded) the booking's seats revert to
// available.  When mirrorPayment is set, the linked payment record, if any,
// is moved in lockstep: paid completes it with a payment date, cancelled and
// refunded are copied through.  It returns the updated booking.
func (r *BookingRepo) UpdatePaymentStatus(ctx context.Context, bookingID uint64, ps model.BookingPaymentStatus, bs model.BookingStatus, releaseSeats, mirrorPayment bool) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET payment_status = ?, booking_status = ? WHERE id = ?`,
		string(ps), string(bs), bookingID)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		// Distinguish "no such booking" from "statuses already equal".
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id = ?`, bookingID).Scan(&exists); err == sql.ErrNoRows {
			return nil, ErrBookingNotFound
		} else if err != nil {
			return nil, err
		}
	}

	if releaseSeats {
		var showtimeID uint64
		if err := tx.QueryRowContext(ctx, `SELECT showtime_id FROM bookings WHERE id = ?`, bookingID).Scan(&showtimeID); err != nil {
			return nil, err
		}
		seatIDs, err := seatIDsForBookingTx(ctx, tx, bookingID)
		if err != nil {
			return nil, err
		}
		if err := r.seats.ReleaseTx(ctx, tx, showtimeID, seatIDs); err != nil {
			return nil, err
		}
	}

	if mirrorPayment {
		var mirrored model.PaymentStatus
		switch ps {
		case model.BookingPaymentPaid:
			mirrored = model.PaymentCompleted
		case model.BookingPaymentCancelled:
			mirrored = model.PaymentCancelled
		case model.BookingPaymentRefunded:
			mirrored = model.PaymentRefunded
		}
		if mirrored != "" {
			if mirrored == model.PaymentCompleted {
				_, err = tx.ExecContext(ctx,
					`UPDATE payments SET status = ?, payment_date = COALESCE(payment_date, UTC_TIMESTAMP()) WHERE booking_id = ?`,
					string(mirrored), bookingID)
			} else {
				_, err = tx.ExecContext(ctx,
					`UPDATE payments SET status = ? WHERE booking_id = ?`,
					string(mirrored), bookingID)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return r.GetByID(ctx, bookingID)
}

func seatIDsForBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT seat_id FROM booking_seats WHERE booking_id = ?`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uint64
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		out = append(out, sid)
	}
	return out, rows.Err()
}

// BookingDetail is a booking joined with movie, cinema and seat information
// for customer-facing responses and confirmed-booking events.
type BookingDetail struct {
	ID               uint64   `json:"id"`
	UserID           uint64   `json:"user_id"`
	ShowtimeID       uint64   `json:"showtime_id"`
	MovieTitle       string   `json:"movie_title"`
	CinemaName       string   `json:"cinema_name"`
	ScreenName       string   `json:"screen_name"`
	ShowDate         string   `json:"show_date"`
	ShowTime         string   `json:"show_time"`
	SeatNumbers      []string `json:"seats"`
	TotalAmountCents int64    `json:"total_amount_cents"`
	PaymentStatus    string   `json:"payment_status"`
	BookingStatus    string   `json:"booking_status"`
	BookingDate      string   `json:"booking_date"`
	ExpiryDate       *string  `json:"expiry_date,omitempty"`
	Expired          bool     `json:"expired"`
}

const bookingDetailQuery = `SELECT b.id, b.user_id, b.showtime_id, b.total_amount_cents,
        b.payment_status, b.booking_status, b.booking_date, b.expiry_date,
        m.title, sc.name, c.name, st.show_date, st.show_time
     FROM bookings b
     JOIN showtimes st ON st.id = b.showtime_id
     JOIN movies m ON m.id = st.movie_id
     JOIN screens sc ON sc.id = st.screen_id
     JOIN cinemas c ON c.id = sc.cinema_id`

// GetDetail returns the joined detail view of one booking.
func (r *BookingRepo) GetDetail(ctx context.Context, bookingID uint64) (*BookingDetail, error) {
	q := bookingDetailQuery + ` WHERE b.id = ?`
	row := r.db.QueryRowContext(ctx, q, bookingID)
	det, err := scanBookingDetail(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.fillSeatNumbers(ctx, []*BookingDetail{det}); err != nil {
		return nil, err
	}
	return det, nil
}

// ListByUser returns all bookings of a user, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]*BookingDetail, error) {
	q := bookingDetailQuery + ` WHERE b.user_id = ? ORDER BY b.booking_date DESC`
	return r.listDetails(ctx, q, userID)
}

// ListAll returns every booking, newest first, for the admin dashboard.
func (r *BookingRepo) ListAll(ctx context.Context) ([]*BookingDetail, error) {
	q := bookingDetailQuery + ` ORDER BY b.booking_date DESC`
	return r.listDetails(ctx, q)
}

func (r *BookingRepo) listDetails(ctx context.Context, q string, args ...interface{}) ([]*BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*BookingDetail, 0)
	for rows.Next() {
		det, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, det)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.fillSeatNumbers(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBookingDetail(row rowScanner) (*BookingDetail, error) {
	var det BookingDetail
	var bookingDate time.Time
	var showDate sql.NullTime
	var expiry sql.NullTime
	if err := row.Scan(
		&det.ID, &det.UserID, &det.ShowtimeID, &det.TotalAmountCents,
		&det.PaymentStatus, &det.BookingStatus, &bookingDate, &expiry,
		&det.MovieTitle, &det.ScreenName, &det.CinemaName, &showDate, &det.ShowTime,
	); err != nil {
		return nil, err
	}
	det.BookingDate = bookingDate.UTC().Format(time.RFC3339)
	if showDate.Valid {
		det.ShowDate = showDate.Time.Format("2006-01-02")
	}
	if expiry.Valid {
		iso := expiry.Time.UTC().Format(time.RFC3339)
		det.ExpiryDate = &iso
		det.Expired = expiry.Time.Before(time.Now().UTC())
	}
	det.SeatNumbers = []string{}
	return &det, nil
}

// fillSeatNumbers loads the seat numbers of many bookings in one query.
func (r *BookingRepo) fillSeatNumbers(ctx context.Context, details []*BookingDetail) error {
	if len(details) == 0 {
		return nil
	}
	index := make(map[uint64]*BookingDetail, len(details))
	placeholders := make([]string, 0, len(details))
	args := make([]interface{}, 0, len(details))
	for _, d := range details {
		index[d.ID] = d
		placeholders = append(placeholders, "?")
		args = append(args, d.ID)
	}
	q := `SELECT bs.booking_id, s.seat_number
	      FROM booking_seats bs
	      JOIN seats s ON s.id = bs.seat_id
	      WHERE bs.booking_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY bs.booking_id, LENGTH(s.seat_number), s.seat_number`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var bid uint64
		var num string
		if err := rows.Scan(&bid, &num); err != nil {
			return err
		}
		if d, ok := index[bid]; ok {
			d.SeatNumbers = append(d.SeatNumbers, num)
		}
	}
	return rows.Err()
}

// DashboardStats aggregates the counters shown on the admin dashboard.
type DashboardStats struct {
	Movies          int64 `json:"movies"`
	Bookings        int64 `json:"bookings"`
	PendingBookings int64 `json:"pending_bookings"`
	RevenueCents    int64 `json:"revenue_cents"`
}

// Stats computes the dashboard counters.  Revenue counts paid bookings only.
func (r *BookingRepo) Stats(ctx context.Context) (*DashboardStats, error) {
	var st DashboardStats
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&st.Movies); err != nil {
		return nil, err
	}
	const q = `SELECT COUNT(*),
	                  COALESCE(SUM(CASE WHEN booking_status = 'pending' THEN 1 ELSE 0 END), 0),
	                  COALESCE(SUM(CASE WHEN payment_status = 'paid' THEN total_amount_cents ELSE 0 END), 0)
	           FROM bookings`
	if err := r.db.QueryRowContext(ctx, q).Scan(&st.Bookings, &st.PendingBookings, &st.RevenueCents); err != nil {
		return nil, err
	}
	return &st, nil
}
