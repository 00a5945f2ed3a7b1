package model

import "time"

// Showtime schedules a movie on a specific screen at a specific date and
// time.  A showtime is immutable once created: price changes or reschedules
// are modelled as a new showtime.  Every showtime owns its own seat rows,
// seeded from the screen layout at creation.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  ScreenID   – screen the showtime runs on.
//  ShowDate   – calendar date of the screening.
//  ShowTime   – wall-clock start time (HH:MM).
//  PriceCents – ticket price per seat.
//  CreatedAt  – creation timestamp.
type Showtime struct {
	ID         uint64    // showtimes.id
	MovieID    uint64    // showtimes.movie_id
	ScreenID   uint64    // showtimes.screen_id
	ShowDate   time.Time // showtimes.show_date
	ShowTime   string    // showtimes.show_time
	PriceCents int64     // showtimes.price_cents
	CreatedAt  time.Time // showtimes.created_at
}
