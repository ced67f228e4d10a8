package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ravesync/internal/authz"
	"ravesync/internal/store"
	"ravesync/shared/go/models"
)

// ErrInvalidEvent flags a missing or malformed required field.
var ErrInvalidEvent = errors.New("invalid event")

// DefaultPageSize bounds event listings when the caller does not pick a
// size.
const DefaultPageSize = 20

// Store captures the persistence needs for event workflows.
type Store interface {
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, int64, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error)
	UpdateEvent(ctx context.Context, id int64, event *models.Event) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
}

// Authorizer decides whether a subject may act on a resource.
type Authorizer interface {
	Authorize(ctx context.Context, sub authz.Subject, res authz.Resource, op authz.Operation) (authz.Decision, error)
}

// Service coordinates event-related operations.
type Service interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, models.PageMeta, error)
	Get(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, sub authz.Subject, event *models.Event) (*models.Event, error)
	Update(ctx context.Context, sub authz.Subject, id int64, event *models.Event) (*models.Event, error)
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

func (s *service) List(ctx context.Context, filter models.EventFilter) ([]models.Event, models.PageMeta, error) {
	filter.Page = filter.Page.Normalize(DefaultPageSize)
	events, total, err := s.store.ListEvents(ctx, filter)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	return events, models.NewPageMeta(filter.Page, total), nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Event, error) {
	return s.store.GetEvent(ctx, id)
}

func (s *service) Create(ctx context.Context, sub authz.Subject, event *models.Event) (*models.Event, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindEvent}, authz.OpCreate)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrEventNotFound); err != nil {
		return nil, err
	}

	if err := validateEvent(event); err != nil {
		return nil, err
	}
	return s.store.CreateEvent(ctx, event)
}

func (s *service) Update(ctx context.Context, sub authz.Subject, id int64, event *models.Event) (*models.Event, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindEvent, ID: id}, authz.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrEventNotFound); err != nil {
		return nil, err
	}

	if err := validateEvent(event); err != nil {
		return nil, err
	}
	return s.store.UpdateEvent(ctx, id, event)
}

func (s *service) Delete(ctx context.Context, sub authz.Subject, id int64) error {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindEvent, ID: id}, authz.OpDelete)
	if err != nil {
		return err
	}
	if err := authz.Check(decision, store.ErrEventNotFound); err != nil {
		return err
	}
	return s.store.DeleteEvent(ctx, id)
}

func validateEvent(event *models.Event) error {
	event.Name = strings.TrimSpace(event.Name)
	event.Venue = strings.TrimSpace(event.Venue)

	if event.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEvent)
	}
	if event.Venue == "" {
		return fmt.Errorf("%w: venue is required", ErrInvalidEvent)
	}
	if event.StartsOn.IsZero() || event.EndsOn.IsZero() {
		return fmt.Errorf("%w: starts_on and ends_on are required", ErrInvalidEvent)
	}
	if event.EndsOn.Before(event.StartsOn) {
		return fmt.Errorf("%w: ends_on precedes starts_on", ErrInvalidEvent)
	}
	return nil
}
