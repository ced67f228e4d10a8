package schedule

import (
	"context"
	"errors"
	"fmt"

	"ravesync/internal/authz"
	"ravesync/internal/store"
	"ravesync/shared/go/models"
)

var (
	// ErrInvalidSetTime flags a missing or malformed required field.
	ErrInvalidSetTime = errors.New("invalid set time")
	// ErrCollaboratorIsPrimary rejects adding the set time's own artist
	// as a guest. Checked before any store write happens.
	ErrCollaboratorIsPrimary = errors.New("main artist cannot also be a collaborator")
)

// Store captures the persistence needs for schedule workflows.
type Store interface {
	EventSchedule(ctx context.Context, eventID int64) ([]models.ScheduleEntry, error)
	GetSetTime(ctx context.Context, id int64) (*models.SetTime, error)
	CreateSetTime(ctx context.Context, st *models.SetTime) (*models.SetTime, error)
	UpdateSetTime(ctx context.Context, id int64, st *models.SetTime) (*models.SetTime, error)
	DeleteSetTime(ctx context.Context, id int64) error
	AddCollaboration(ctx context.Context, setTimeID, artistID int64) (*models.Collaboration, error)
	RemoveCollaboration(ctx context.Context, setTimeID, artistID int64) error
	ArtistExists(ctx context.Context, id int64) (bool, error)
}

// Authorizer decides whether a subject may act on a resource.
type Authorizer interface {
	Authorize(ctx context.Context, sub authz.Subject, res authz.Resource, op authz.Operation) (authz.Decision, error)
}

// Service coordinates set times and collaborations.
type Service interface {
	EventSchedule(ctx context.Context, eventID int64) ([]models.ScheduleEntry, error)
	CreateSetTime(ctx context.Context, sub authz.Subject, st *models.SetTime) (*models.SetTime, error)
	UpdateSetTime(ctx context.Context, sub authz.Subject, id int64, st *models.SetTime) (*models.SetTime, error)
	DeleteSetTime(ctx context.Context, sub authz.Subject, id int64) error
	AddCollaborator(ctx context.Context, sub authz.Subject, setTimeID, artistID int64) (*models.Collaboration, error)
	RemoveCollaborator(ctx context.Context, sub authz.Subject, setTimeID, artistID int64) error
}

type service struct {
	store Store
	authz Authorizer
}

// New constructs a Service backed by the provided Store.
func New(store Store, authorizer Authorizer) Service {
	return &service{store: store, authz: authorizer}
}

func (s *service) EventSchedule(ctx context.Context, eventID int64) ([]models.ScheduleEntry, error) {
	decision, err := s.authz.Authorize(ctx, authz.Subject{}, authz.Resource{Kind: authz.KindEvent, ID: eventID}, authz.OpRead)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrEventNotFound); err != nil {
		return nil, err
	}
	return s.store.EventSchedule(ctx, eventID)
}

func (s *service) CreateSetTime(ctx context.Context, sub authz.Subject, st *models.SetTime) (*models.SetTime, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindStage, ID: st.StageID}, authz.OpCreate)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrStageNotFound); err != nil {
		return nil, err
	}

	if err := validateSetTime(st); err != nil {
		return nil, err
	}
	exists, err := s.store.ArtistExists(ctx, st.ArtistID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrArtistNotFound
	}

	return s.store.CreateSetTime(ctx, st)
}

func (s *service) UpdateSetTime(ctx context.Context, sub authz.Subject, id int64, st *models.SetTime) (*models.SetTime, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindSetTime, ID: id}, authz.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrSetTimeNotFound); err != nil {
		return nil, err
	}

	if err := validateSetTime(st); err != nil {
		return nil, err
	}
	return s.store.UpdateSetTime(ctx, id, st)
}

func (s *service) DeleteSetTime(ctx context.Context, sub authz.Subject, id int64) error {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindSetTime, ID: id}, authz.OpDelete)
	if err != nil {
		return err
	}
	if err := authz.Check(decision, store.ErrSetTimeNotFound); err != nil {
		return err
	}
	return s.store.DeleteSetTime(ctx, id)
}

func (s *service) AddCollaborator(ctx context.Context, sub authz.Subject, setTimeID, artistID int64) (*models.Collaboration, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindSetTime, ID: setTimeID}, authz.OpCreate)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrSetTimeNotFound); err != nil {
		return nil, err
	}

	st, err := s.store.GetSetTime(ctx, setTimeID)
	if err != nil {
		return nil, err
	}
	if st.ArtistID == artistID {
		return nil, ErrCollaboratorIsPrimary
	}

	exists, err := s.store.ArtistExists(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrArtistNotFound
	}

	return s.store.AddCollaboration(ctx, setTimeID, artistID)
}

func (s *service) RemoveCollaborator(ctx context.Context, sub authz.Subject, setTimeID, artistID int64) error {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindSetTime, ID: setTimeID}, authz.OpDelete)
	if err != nil {
		return err
	}
	if err := authz.Check(decision, store.ErrSetTimeNotFound); err != nil {
		return err
	}
	return s.store.RemoveCollaboration(ctx, setTimeID, artistID)
}

func validateSetTime(st *models.SetTime) error {
	if st.ArtistID == 0 {
		return fmt.Errorf("%w: artist_id is required", ErrInvalidSetTime)
	}
	if st.StartsAt.IsZero() || st.EndsAt.IsZero() {
		return fmt.Errorf("%w: starts_at and ends_at are required", ErrInvalidSetTime)
	}
	if !st.EndsAt.After(st.StartsAt) {
		return fmt.Errorf("%w: ends_at must be after starts_at", ErrInvalidSetTime)
	}
	return nil
}
