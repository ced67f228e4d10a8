// Package authz implements the single authorization chain every handler
// consults. A decision is recomputed from current store state on each
// request; nothing is cached.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ravesync/shared/go/models"
)

// ErrUnauthorized is surfaced when a subject holds no grant for the
// requested operation.
var ErrUnauthorized = errors.New("unauthorized")

// Operation classifies what the caller wants to do with a resource.
type Operation int

const (
	OpRead Operation = iota
	OpCreate
	OpUpdate
	OpDelete
	// OpManageMembers covers inviting, promoting and removing group
	// members, which group admins may do but ordinary members may not.
	OpManageMembers
)

// Kind identifies a resource family.
type Kind string

const (
	KindEvent         Kind = "event"
	KindStage         Kind = "stage"
	KindArtist        Kind = "artist"
	KindLineup        Kind = "lineup"
	KindSetTime       Kind = "set_time"
	KindCollaboration Kind = "collaboration"
	KindGroup         Kind = "group"
)

// Decision is the outcome of an authorization check. NotFound is
// distinct from Deny: existence is checked before permission, and
// ownership-scoped reads collapse denial into NotFound so callers
// cannot probe for resources they may not see.
type Decision int

const (
	Deny Decision = iota
	Allow
	NotFound
)

// Subject is the caller as seen by the chain: an optional user identity
// plus whether the administrative credential was presented. The two are
// independent trust levels; the administrative credential is not a
// superset of user trust.
type Subject struct {
	UserID        uuid.UUID
	Authenticated bool
	Admin         bool
}

// Resource names the target of a check. An ID of zero with OpCreate
// means the resource does not exist yet and only the kind-level rules
// apply.
type Resource struct {
	Kind Kind
	ID   int64
}

// Store captures the relationship lookups the chain walks. Each lookup
// reports ok=false when the row does not exist, reserving the error for
// store failure.
type Store interface {
	EventExists(ctx context.Context, id int64) (bool, error)
	ArtistExists(ctx context.Context, id int64) (bool, error)
	StageEventID(ctx context.Context, stageID int64) (int64, bool, error)
	LineupEventID(ctx context.Context, lineupID int64) (int64, bool, error)
	SetTimeStageID(ctx context.Context, setTimeID int64) (int64, bool, error)
	CollaborationSetTimeID(ctx context.Context, collaborationID int64) (int64, bool, error)
	GroupCreator(ctx context.Context, groupID int64) (uuid.UUID, bool, error)
	GroupMembership(ctx context.Context, groupID int64, userID uuid.UUID) (*models.GroupMember, bool, error)
}

// Check converts a decision into the caller's error space: nil for
// Allow, the resource's own not-found sentinel for NotFound, and
// ErrUnauthorized for Deny.
func Check(d Decision, notFound error) error {
	switch d {
	case Allow:
		return nil
	case NotFound:
		return notFound
	default:
		return ErrUnauthorized
	}
}

// Authorizer evaluates the ownership/membership rules for one request.
type Authorizer struct {
	store Store
}

// New builds an Authorizer over the given lookups.
func New(store Store) *Authorizer {
	return &Authorizer{store: store}
}

// Authorize walks the rule chain for the subject, resource and
// operation. Rule order: existence first, then grants, then denial.
func (a *Authorizer) Authorize(ctx context.Context, sub Subject, res Resource, op Operation) (Decision, error) {
	switch res.Kind {
	case KindEvent, KindStage, KindLineup, KindSetTime, KindCollaboration:
		return a.authorizeEventFamily(ctx, sub, res, op)
	case KindArtist:
		return a.authorizeArtist(ctx, sub, res, op)
	case KindGroup:
		return a.authorizeGroup(ctx, sub, res, op)
	default:
		return Deny, fmt.Errorf("unknown resource kind %q", res.Kind)
	}
}

// authorizeEventFamily covers events and every resource that
// transitively belongs to one. Authorization for a descendant reduces
// to the rules of its event: reads are public, mutations require the
// administrative credential.
func (a *Authorizer) authorizeEventFamily(ctx context.Context, sub Subject, res Resource, op Operation) (Decision, error) {
	if res.ID != 0 || op != OpCreate {
		ok, err := a.eventFamilyExists(ctx, res)
		if err != nil {
			return Deny, err
		}
		if !ok {
			return NotFound, nil
		}
	}

	if op == OpRead {
		return Allow, nil
	}
	if sub.Admin {
		return Allow, nil
	}
	return Deny, nil
}

// eventFamilyExists resolves the resource to its root event, following
// the foreign keys upward. A broken link anywhere on the path means the
// resource is absent.
func (a *Authorizer) eventFamilyExists(ctx context.Context, res Resource) (bool, error) {
	id := res.ID

	switch res.Kind {
	case KindCollaboration:
		setTimeID, ok, err := a.store.CollaborationSetTimeID(ctx, id)
		if err != nil || !ok {
			return false, err
		}
		id = setTimeID
		fallthrough
	case KindSetTime:
		stageID, ok, err := a.store.SetTimeStageID(ctx, id)
		if err != nil || !ok {
			return false, err
		}
		id = stageID
		fallthrough
	case KindStage:
		eventID, ok, err := a.store.StageEventID(ctx, id)
		if err != nil || !ok {
			return false, err
		}
		id = eventID
	case KindLineup:
		eventID, ok, err := a.store.LineupEventID(ctx, id)
		if err != nil || !ok {
			return false, err
		}
		id = eventID
	}

	return a.store.EventExists(ctx, id)
}

func (a *Authorizer) authorizeArtist(ctx context.Context, sub Subject, res Resource, op Operation) (Decision, error) {
	if res.ID != 0 || op != OpCreate {
		ok, err := a.store.ArtistExists(ctx, res.ID)
		if err != nil {
			return Deny, err
		}
		if !ok {
			return NotFound, nil
		}
	}

	if op == OpRead {
		return Allow, nil
	}
	if sub.Admin {
		return Allow, nil
	}
	return Deny, nil
}

// authorizeGroup applies the group schedule rules: creators hold every
// grant, accepted admin members may mutate but not delete, plain
// members may read, and everyone else sees nothing. The administrative
// credential carries no weight here.
func (a *Authorizer) authorizeGroup(ctx context.Context, sub Subject, res Resource, op Operation) (Decision, error) {
	if res.ID == 0 && op == OpCreate {
		if sub.Authenticated {
			return Allow, nil
		}
		return Deny, nil
	}

	creator, ok, err := a.store.GroupCreator(ctx, res.ID)
	if err != nil {
		return Deny, err
	}
	if !ok {
		return NotFound, nil
	}

	if !sub.Authenticated {
		if op == OpRead {
			return NotFound, nil
		}
		return Deny, nil
	}

	if creator == sub.UserID {
		return Allow, nil
	}

	member, isMember, err := a.store.GroupMembership(ctx, res.ID, sub.UserID)
	if err != nil {
		return Deny, err
	}

	switch op {
	case OpRead:
		if isMember {
			return Allow, nil
		}
		// Non-members cannot tell a forbidden group from an absent one.
		return NotFound, nil
	case OpUpdate, OpManageMembers:
		if isMember && member.IsAdmin && member.Status == models.MemberStatusAccepted {
			return Allow, nil
		}
		return Deny, nil
	default:
		// Deletion is creator-only; admin membership is insufficient.
		return Deny, nil
	}
}
