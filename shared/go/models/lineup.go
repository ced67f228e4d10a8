package models

import "time"

// LineupEntry links one artist to one event's bill. At most one entry
// exists per (event, artist) pair.
type LineupEntry struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	ArtistID  int64     `json:"artist_id"`
	Tier      string    `json:"tier,omitempty"`
	Headliner bool      `json:"headliner"`
	CreatedAt time.Time `json:"created_at"`

	// Populated via JOIN queries (not stored in event_lineups)
	ArtistName string `json:"artist_name,omitempty"`
}
