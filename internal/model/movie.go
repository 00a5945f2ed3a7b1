package model

import "time"

// Genre is a movie category.  Movies and genres form an m:n relation via the
// movie_genres join table.
type Genre struct {
	ID   uint64 // genres.id
	Name string // genres.name
}

// Movie represents a film shown at one or more cinemas.  Rating is a
// denormalized cache of the average review rating, rounded to one decimal,
// and is rewritten inside the same transaction as every review change so
// reads never observe a stale value.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title.
//  Description – synopsis text.
//  DurationMin – running time in minutes.
//  ReleaseDate – theatrical release date.
//  PosterURL   – optional poster image location.
//  Rating      – cached average review rating, 0 when unreviewed.
//  Genres      – attached genres (loaded separately).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	Description string    // movies.description
	DurationMin uint32    // movies.duration_min
	ReleaseDate time.Time // movies.release_date
	PosterURL   *string   // movies.poster_url (nullable)
	Rating      float64   // movies.rating
	Genres      []Genre   // from movie_genres join
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at
}
