package model

import "time"

// Cinema represents a theatre venue containing one or more screens.
type Cinema struct {
	ID        uint64    // cinemas.id
	Name      string    // cinemas.name
	Address   string    // cinemas.address
	Phone     *string   // cinemas.phone (nullable)
	CreatedAt time.Time // cinemas.created_at
	UpdatedAt time.Time // cinemas.updated_at
}

// Screen is an individual auditorium within a cinema.  SeatRows and SeatCols
// describe the seating grid used to seed per-showtime seat rows when a
// showtime is scheduled on this screen.
type Screen struct {
	ID        uint64    // screens.id
	CinemaID  uint64    // screens.cinema_id
	Name      string    // screens.name
	SeatRows  uint32    // screens.seat_rows
	SeatCols  uint32    // screens.seat_cols
	CreatedAt time.Time // screens.created_at
	UpdatedAt time.Time // screens.updated_at
}
