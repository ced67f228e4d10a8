package models

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a festival or standalone show. It is the root of the
// resource tree: stages, lineup entries and set times all hang off it.
type Event struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Venue       string     `json:"venue"`
	StartsOn    time.Time  `json:"starts_on"`
	EndsOn      time.Time  `json:"ends_on"`
	Featured    bool       `json:"featured"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EventFilter narrows event listings.
type EventFilter struct {
	Search   string     // matches name or venue, case-insensitive
	Featured *bool
	From     *time.Time // events ending on or after this date
	To       *time.Time // events starting on or before this date
	Page     PageRequest
}
