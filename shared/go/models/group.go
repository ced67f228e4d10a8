package models

import (
	"time"

	"github.com/google/uuid"
)

// MemberStatus tracks an invitation's lifecycle.
type MemberStatus string

const (
	MemberStatusInvited  MemberStatus = "invited"
	MemberStatusAccepted MemberStatus = "accepted"
	MemberStatusDeclined MemberStatus = "declined"
)

// GroupSchedule is a user-created grouping tied to one event. Its
// creator always holds an accepted admin membership, written in the
// same logical unit as the group itself.
type GroupSchedule struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupMember links a group schedule to a user. At most one membership
// exists per (group, user) pair.
type GroupMember struct {
	ID        int64        `json:"id"`
	GroupID   int64        `json:"group_id"`
	UserID    uuid.UUID    `json:"user_id"`
	IsAdmin   bool         `json:"is_admin"`
	Status    MemberStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
