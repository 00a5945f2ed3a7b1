// Package repository implements the persistence layer over MySQL.  This file
// defines the error values shared across repositories so that handlers and
// services can distinguish failure scenarios with errors.Is / errors.As and
// translate them into HTTP responses.
package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMovieNotFound is returned when a movie id does not exist.
var ErrMovieNotFound = errors.New("movie not found")

// ErrShowtimeNotFound is returned when a showtime id does not exist.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrBookingNotFound is returned when a booking id does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrPaymentNotFound is returned when a booking has no payment record yet.
// Callers must select a payment method first.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrReviewNotFound is returned when a review id does not exist.
var ErrReviewNotFound = errors.New("review not found")

// ErrScreenNotFound is returned when a screen id does not exist.
var ErrScreenNotFound = errors.New("screen not found")

// ErrEmailExists is returned when registering with an already-used email.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into a 403.
var ErrForbidden = errors.New("forbidden")

// SeatNotFoundError reports seat ids that do not exist or do not belong to
// the showtime being claimed.  The claim aborts with no state change.
type SeatNotFoundError struct {
	SeatIDs []uint64
}

func (e *SeatNotFoundError) Error() string {
	return fmt.Sprintf("seats not found for showtime: %s", joinIDs(e.SeatIDs))
}

// SeatUnavailableError reports requested seats that are not available.  The
// claim rolls back atomically: no booking is created and no seat is flipped.
type SeatUnavailableError struct {
	SeatIDs []uint64
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seats unavailable: %s", joinIDs(e.SeatIDs))
}

func joinIDs(ids []uint64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(id, 10))
	}
	return strings.Join(parts, ",")
}
