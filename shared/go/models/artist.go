package models

import "time"

// Artist is referenced by lineup entries, set times and collaborations.
// It is never deleted while any reference exists.
type Artist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Genres    []string  `json:"genres,omitempty"`
	Followers int64     `json:"followers"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ArtistFilter narrows artist listings.
type ArtistFilter struct {
	Search string // matches name, case-insensitive
	Page   PageRequest
}
