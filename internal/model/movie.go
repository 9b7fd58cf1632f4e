package model

import "time"

// Movie is a film that can be scheduled for screenings.  Movies are
// managed through the admin catalog endpoints and referenced by shows.
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – display title.
//	Description – synopsis shown on detail pages.
//	DurationMin – runtime in minutes.
//	Language    – primary audio language.
//	Genre       – single genre tag.
//	PosterURL   – optional poster image URL.
//	Rating      – certification rating (e.g. PG-13).
//	IsActive    – whether the movie is listed publicly.
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – last update timestamp.
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	Description string    // movies.description
	DurationMin uint32    // movies.duration_min
	Language    string    // movies.language
	Genre       string    // movies.genre
	PosterURL   *string   // movies.poster_url (nullable)
	Rating      string    // movies.rating
	IsActive    bool      // movies.is_active
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at
}
