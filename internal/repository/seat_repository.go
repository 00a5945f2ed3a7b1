package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
)

// SeatRepo provides access to the per-showtime seats table.  The locking and
// conditional-update helpers here are the primitives the booking claim
// transaction is built from; nothing else may flip seat statuses.
type SeatRepo struct {
	db *sql.DB
}

func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// SeedForShowtimeTx bulk-inserts one available seat per grid position of the
// screen, labelled A1..A<cols>, B1.. and so on.  It runs inside the showtime
// creation transaction.
func (r *SeatRepo) SeedForShowtimeTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatRows, seatCols uint32) error {
	if seatRows == 0 || seatCols == 0 {
		return nil
	}
	query := `INSERT INTO seats (showtime_id, seat_number, status) VALUES `
	args := make([]interface{}, 0, int(seatRows*seatCols)*3)
	first := true
	for row := uint32(0); row < seatRows; row++ {
		for col := uint32(1); col <= seatCols; col++ {
			if !first {
				query += ","
			}
			first = false
			query += "(?, ?, ?)"
			args = append(args, showtimeID, fmt.Sprintf("%s%d", rowLabel(int(row)), col), model.SeatAvailable)
		}
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByShowtime returns all seats of a showtime ordered by seat number
// length then value, which yields A1..A10, B1.. in display order.
func (r *SeatRepo) ListByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	const q = `SELECT id, showtime_id, seat_number, status, created_at, updated_at
	           FROM seats WHERE showtime_id = ?
	           ORDER BY LENGTH(seat_number), seat_number`
	rows, err := r.db.QueryContext(ctx, q, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		var status string
		if err := rows.Scan(&s.ID, &s.ShowtimeID, &s.SeatNumber, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Status = model.SeatStatus(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

// LockSeatsTx selects the requested seat rows of a showtime FOR UPDATE,
// holding row locks until the surrounding transaction ends.  Requested ids
// that do not match a row of this showtime are simply absent from the result;
// the caller detects them and aborts.
func (r *SeatRepo) LockSeatsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]model.Seat, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := []interface{}{showtimeID}
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT id, showtime_id, seat_number, status, created_at, updated_at
	      FROM seats
	      WHERE showtime_id = ? AND id IN (` + strings.Join(placeholders, ",") + `)
	      FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Seat, 0, len(seatIDs))
	for rows.Next() {
		var s model.Seat
		var status string
		if err := rows.Scan(&s.ID, &s.ShowtimeID, &s.SeatNumber, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Status = model.SeatStatus(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

// MarkBookedTx flips the given seats to booked, but only rows that are still
// available.  It returns the number of rows actually updated; the caller
// must verify it equals len(seatIDs) and roll back otherwise.  Together with
// LockSeatsTx this makes the claim a single atomic check-and-set.
func (r *SeatRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) (int64, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := []interface{}{string(model.SeatBooked), showtimeID}
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	args = append(args, string(model.SeatAvailable))
	q := `UPDATE seats SET status = ?
	      WHERE showtime_id = ? AND id IN (` + strings.Join(placeholders, ",") + `) AND status = ?`
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseTx returns the given seats of a showtime to available.  Used when a
// booking is cancelled or refunded.
func (r *SeatRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := []interface{}{string(model.SeatAvailable), showtimeID}
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `UPDATE seats SET status = ?
	      WHERE showtime_id = ? AND id IN (` + strings.Join(placeholders, ",") + `)`
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// rowLabel converts a zero-based row index to an alphabetical label
// (A, B, .., Z, AA, AB, ..).
func rowLabel(i int) string {
	if i < 0 {
		return ""
	}
	var res []rune
	for {
		res = append(res, rune('A'+i%26))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
		res[j], res[k] = res[k], res[j]
	}
	return string(res)
}
