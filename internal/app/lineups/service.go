package lineups

import (
	"context"
	"errors"
	"fmt"

	"ravesync/internal/authz"
	"ravesync/internal/store"
	"ravesync/shared/go/models"
)

// ErrInvalidLineup flags a missing or malformed required field.
var ErrInvalidLineup = errors.New("invalid lineup entry")

// Store captures the persistence needs for lineup workflows.
type Store interface {
	ListLineup(ctx context.Context, eventID int64) ([]models.LineupEntry, error)
	AddLineupEntry(ctx context.Context, entry *models.LineupEntry) (*models.LineupEntry, error)
	UpdateLineupEntry(ctx context.Context, id int64, tier string, headliner bool) (*models.LineupEntry, error)
	DeleteLineupEntry(ctx context.Context, id int64) error
	ArtistExists(ctx context.Context, id int64) (bool, error)
}

// Authorizer decides whether a subject may act on a resource.
type Authorizer interface {
	Authorize(ctx context.Context, sub authz.Subject, res authz.Resource, op authz.Operation) (authz.Decision, error)
}

// Service coordinates event lineup operations.
type Service interface {
	ListByEvent(ctx context.Context, eventID int64) ([]models.LineupEntry, error)
	Add(ctx context.Context, sub authz.Subject, entry *models.LineupEntry) (*models.LineupEntry, error)
	Update(ctx context.Context, sub authz.Subject, id int64, tier string, headliner bool) (*models.LineupEntry, error)
	Delete(ctx context.Context, sub authz.Subject, id int64) error
}

type service struct {
	store Store
	authz Authorizer
}

// New constructs a Service backed by the provided Store.
func New(store Store, authorizer Authorizer) Service {
	return &service{store: store, authz: authorizer}
}

func (s *service) ListByEvent(ctx context.Context, eventID int64) ([]models.LineupEntry, error) {
	decision, err := s.authz.Authorize(ctx, authz.Subject{}, authz.Resource{Kind: authz.KindEvent, ID: eventID}, authz.OpRead)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrEventNotFound); err != nil {
		return nil, err
	}
	return s.store.ListLineup(ctx, eventID)
}

func (s *service) Add(ctx context.Context, sub authz.Subject, entry *models.LineupEntry) (*models.LineupEntry, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindEvent, ID: entry.EventID}, authz.OpCreate)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrEventNotFound); err != nil {
		return nil, err
	}

	if entry.ArtistID == 0 {
		return nil, fmt.Errorf("%w: artist_id is required", ErrInvalidLineup)
	}
	exists, err := s.store.ArtistExists(ctx, entry.ArtistID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrArtistNotFound
	}

	return s.store.AddLineupEntry(ctx, entry)
}

func (s *service) Update(ctx context.Context, sub authz.Subject, id int64, tier string, headliner bool) (*models.LineupEntry, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindLineup, ID: id}, authz.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrLineupNotFound); err != nil {
		return nil, err
	}
	return s.store.UpdateLineupEntry(ctx, id, tier, headliner)
}

func (s *service) Delete(ctx context.Context, sub authz.Subject, id int64) error {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindLineup, ID: id}, authz.OpDelete)
	if err != nil {
		return err
	}
	if err := authz.Check(decision, store.ErrLineupNotFound); err != nil {
		return err
	}
	return s.store.DeleteLineupEntry(ctx, id)
}
