package groups

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ravesync/internal/authz"
	"ravesync/internal/saga"
	"ravesync/internal/store"
	"ravesync/shared/go/models"
)

var (
	// ErrInvalidGroup flags a missing or malformed required field.
	ErrInvalidGroup = errors.New("invalid group schedule")
	// ErrInvalidStatus rejects an invitation response that is neither
	// accepted nor declined.
	ErrInvalidStatus = errors.New("status must be accepted or declined")
	// ErrCreatorImmutable rejects removing the creator's membership.
	ErrCreatorImmutable = errors.New("group creator cannot be removed")
)

// DefaultPageSize bounds group listings when the caller does not pick a
// size.
const DefaultPageSize = 10

// Store captures the persistence needs for group schedule workflows.
type Store interface {
	CreateGroupSchedule(ctx context.Context, group *models.GroupSchedule) (*models.GroupSchedule, error)
	GetGroupSchedule(ctx context.Context, id int64) (*models.GroupSchedule, error)
	ListGroupSchedulesForUser(ctx context.Context, userID uuid.UUID, page models.PageRequest) ([]models.GroupSchedule, int64, error)
	UpdateGroupSchedule(ctx context.Context, id int64, name string) (*models.GroupSchedule, error)
	DeleteGroupSchedule(ctx context.Context, id int64) error
	AddGroupMember(ctx context.Context, member *models.GroupMember) (*models.GroupMember, error)
	ListGroupMembers(ctx context.Context, groupID int64) ([]models.GroupMember, error)
	GroupCreator(ctx context.Context, groupID int64) (uuid.UUID, bool, error)
	UpdateGroupMemberStatus(ctx context.Context, groupID int64, userID uuid.UUID, status models.MemberStatus) (*models.GroupMember, error)
	UpdateGroupMemberAdmin(ctx context.Context, groupID int64, userID uuid.UUID, isAdmin bool) (*models.GroupMember, error)
	RemoveGroupMember(ctx context.Context, groupID int64, userID uuid.UUID) error
	EventExists(ctx context.Context, id int64) (bool, error)
}

// Authorizer decides whether a subject may act on a resource.
type Authorizer interface {
	Authorize(ctx context.Context, sub authz.Subject, res authz.Resource, op authz.Operation) (authz.Decision, error)
}

// Service coordinates group schedules and their memberships.
type Service interface {
	Create(ctx context.Context, sub authz.Subject, group *models.GroupSchedule) (*models.GroupSchedule, error)
	Get(ctx context.Context, sub authz.Subject, id int64) (*models.GroupSchedule, error)
	ListForUser(ctx context.Context, sub authz.Subject, page models.PageRequest) ([]models.GroupSchedule, models.PageMeta, error)
	Update(ctx context.Context, sub authz.Subject, id int64, name string) (*models.GroupSchedule, error)
	Delete(ctx context.Context, sub authz.Subject, id int64) error

	InviteMember(ctx context.Context, sub authz.Subject, groupID int64, userID uuid.UUID) (*models.GroupMember, error)
	ListMembers(ctx context.Context, sub authz.Subject, groupID int64) ([]models.GroupMember, error)
	RespondToInvite(ctx context.Context, sub authz.Subject, groupID int64, status models.MemberStatus) (*models.GroupMember, error)
	SetMemberAdmin(ctx context.Context, sub authz.Subject, groupID int64, userID uuid.UUID, isAdmin bool) (*models.GroupMember, error)
	RemoveMember(ctx context.Context, sub authz.Subject, groupID int64, userID uuid.UUID) error
}

type service struct {
	store Store
	authz Authorizer
	log   zerolog.Logger
}

// New constructs a Service backed by the provided Store.
func New(store Store, authorizer Authorizer, log zerolog.Logger) Service {
	return &service{store: store, authz: authorizer, log: log}
}

// Create inserts the group and the creator's accepted admin membership
// as one unit. If the membership insert fails the group row is rolled
// back, so no group ever exists without its creator as a member.
func (s *service) Create(ctx context.Context, sub authz.Subject, group *models.GroupSchedule) (*models.GroupSchedule, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindGroup}, authz.OpCreate)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrGroupNotFound); err != nil {
		return nil, err
	}

	group.Name = strings.TrimSpace(group.Name)
	if group.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidGroup)
	}
	exists, err := s.store.EventExists(ctx, group.EventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrEventNotFound
	}
	group.CreatedBy = sub.UserID

	unit := saga.New(s.log)
	unit.Add(saga.Step{
		Name: "create group schedule",
		Run: func(ctx context.Context) error {
			_, err := s.store.CreateGroupSchedule(ctx, group)
			return err
		},
		Compensate: func(ctx context.Context) error {
			return s.store.DeleteGroupSchedule(ctx, group.ID)
		},
	})
	unit.Add(saga.Step{
		Name: "add creator membership",
		Run: func(ctx context.Context) error {
			_, err := s.store.AddGroupMember(ctx, &models.GroupMember{
				GroupID: group.ID,
				UserID:  sub.UserID,
				IsAdmin: true,
				Status:  models.MemberStatusAccepted,
			})
			return err
		},
	})
	if err := unit.Execute(ctx); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *service) Get(ctx context.Context, sub authz.Subject, id int64) (*models.GroupSchedule, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindGroup, ID: id}, authz.OpRead)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrGroupNotFound); err != nil {
		return nil, err
	}
	return s.store.GetGroupSchedule(ctx, id)
}

func (s *service) ListForUser(ctx context.Context, sub authz.Subject, page models.PageRequest) ([]models.GroupSchedule, models.PageMeta, error) {
	if !sub.Authenticated {
		return nil, models.PageMeta{}, authz.ErrUnauthorized
	}
	page = page.Normalize(DefaultPageSize)
	groups, total, err := s.store.ListGroupSchedulesForUser(ctx, sub.UserID, page)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	return groups, models.NewPageMeta(page, total), nil
}

func (s *service) Update(ctx context.Context, sub authz.Subject, id int64, name string) (*models.GroupSchedule, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindGroup, ID: id}, authz.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrGroupNotFound); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidGroup)
	}
	return s.store.UpdateGroupSchedule(ctx, id, name)
}

func (s *service) Delete(ctx context.Context, sub authz.Subject, id int64) error {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindGroup, ID: id}, authz.OpDelete)
	if err != nil {
		return err
	}
	if err := authz.Check(decision, store.ErrGroupNotFound); err != nil {
		return err
	}
	return s.store.DeleteGroupSchedule(ctx, id)
}

// InviteMember adds a pending membership. The invitee stays invisible
// to group reads until they accept.
func (s *service) InviteMember(ctx context.Context, sub authz.Subject, groupID int64, userID uuid.UUID) (*models.GroupMember, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindGroup, ID: groupID}, authz.OpManageMembers)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrGroupNotFound); err != nil {
		return nil, err
	}

	return s.store.AddGroupMember(ctx, &models.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		IsAdmin: false,
		Status:  models.MemberStatusInvited,
	})
}

func (s *service) ListMembers(ctx context.Context, sub authz.Subject, groupID int64) ([]models.GroupMember, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindGroup, ID: groupID}, authz.OpRead)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrGroupNotFound); err != nil {
		return nil, err
	}
	return s.store.ListGroupMembers(ctx, groupID)
}

// RespondToInvite records the caller's own answer to an invitation.
// Only the invitee can change their status; admins cannot answer for
// them.
func (s *service) RespondToInvite(ctx context.Context, sub authz.Subject, groupID int64, status models.MemberStatus) (*models.GroupMember, error) {
	if !sub.Authenticated {
		return nil, authz.ErrUnauthorized
	}
	if status != models.MemberStatusAccepted && status != models.MemberStatusDeclined {
		return nil, ErrInvalidStatus
	}
	return s.store.UpdateGroupMemberStatus(ctx, groupID, sub.UserID, status)
}

func (s *service) SetMemberAdmin(ctx context.Context, sub authz.Subject, groupID int64, userID uuid.UUID, isAdmin bool) (*models.GroupMember, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindGroup, ID: groupID}, authz.OpManageMembers)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrGroupNotFound); err != nil {
		return nil, err
	}

	creator, ok, err := s.store.GroupCreator(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if ok && creator == userID {
		return nil, ErrCreatorImmutable
	}
	return s.store.UpdateGroupMemberAdmin(ctx, groupID, userID, isAdmin)
}

// RemoveMember deletes a membership. Members may always remove
// themselves; removing anyone else requires the manage-members grant.
// The creator's membership is permanent.
func (s *service) RemoveMember(ctx context.Context, sub authz.Subject, groupID int64, userID uuid.UUID) error {
	if !sub.Authenticated {
		return authz.ErrUnauthorized
	}

	if sub.UserID != userID {
		decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindGroup, ID: groupID}, authz.OpManageMembers)
		if err != nil {
			return err
		}
		if err := authz.Check(decision, store.ErrGroupNotFound); err != nil {
			return err
		}
	}

	creator, ok, err := s.store.GroupCreator(ctx, groupID)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrGroupNotFound
	}
	if creator == userID {
		return ErrCreatorImmutable
	}

	return s.store.RemoveGroupMember(ctx, groupID, userID)
}
