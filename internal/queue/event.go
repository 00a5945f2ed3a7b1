// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking reaches the confirmed
// state, either through the cash flow or a staff status override.  It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type BookingConfirmedEvent struct {
	BookingID        uint64   `json:"booking_id"`
	UserID           uint64   `json:"user_id"`
	ShowtimeID       uint64   `json:"showtime_id"`
	MovieTitle       string   `json:"movie_title"`
	CinemaName       string   `json:"cinema_name"`
	ScreenName       string   `json:"screen_name"`
	ShowDate         string   `json:"show_date"`
	ShowTime         string   `json:"show_time"`
	SeatNumbers      []string `json:"seats"`
	TotalAmountCents int64    `json:"total_amount_cents"`
	ConfirmedAt      string   `json:"confirmed_at"`
}
