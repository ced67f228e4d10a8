package models

import "time"

// SetTime is a performance slot on a stage with one primary artist.
type SetTime struct {
	ID        int64     `json:"id"`
	StageID   int64     `json:"stage_id"`
	ArtistID  int64     `json:"artist_id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Collaboration adds a guest artist to a set time. The primary artist
// may not also appear as a collaborator, and each guest appears at most
// once per set time.
type Collaboration struct {
	ID        int64     `json:"id"`
	SetTimeID int64     `json:"set_time_id"`
	ArtistID  int64     `json:"artist_id"`
	CreatedAt time.Time `json:"created_at"`

	// Populated via JOIN queries
	ArtistName string `json:"artist_name,omitempty"`
}

// ScheduleEntry is a set time joined with its stage, primary artist and
// collaborators for event schedule listings.
type ScheduleEntry struct {
	SetTime
	StageName     string          `json:"stage_name"`
	ArtistName    string          `json:"artist_name"`
	Collaborators []Collaboration `json:"collaborators,omitempty"`
}
