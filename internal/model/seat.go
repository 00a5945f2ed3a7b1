package model

import "time"

// SeatStatus is the availability state of a seat within one showtime.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatBooked    SeatStatus = "booked"
	SeatReserved  SeatStatus = "reserved"
)

// ValidSeatStatus reports whether s names a known seat status.
func ValidSeatStatus(s string) bool {
	switch SeatStatus(s) {
	case SeatAvailable, SeatBooked, SeatReserved:
		return true
	}
	return false
}

// Seat belongs to exactly one showtime.  SeatNumber (e.g. "A1") is unique
// within the showtime.  Status must always reflect whether the seat is
// attached to an active booking; the claim transaction in the repository
// layer is the only place allowed to flip available seats to booked.
type Seat struct {
	ID         uint64     // seats.id
	ShowtimeID uint64     // seats.showtime_id
	SeatNumber string     // seats.seat_number
	Status     SeatStatus // seats.status
	CreatedAt  time.Time  // seats.created_at
	UpdatedAt  time.Time  // seats.updated_at
}
