package stages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ravesync/internal/authz"
	"ravesync/internal/store"
	"ravesync/shared/go/models"
)

// ErrInvalidStage flags a missing or malformed required field.
var ErrInvalidStage = errors.New("invalid stage")

// Store captures the persistence needs for stage workflows.
type Store interface {
	ListStagesByEvent(ctx context.Context, eventID int64) ([]models.Stage, error)
	GetStage(ctx context.Context, id int64) (*models.Stage, error)
	CreateStage(ctx context.Context, stage *models.Stage) (*models.Stage, error)
	UpdateStage(ctx context.Context, id int64, stage *models.Stage) (*models.Stage, error)
	DeleteStage(ctx context.Context, id int64) error
}

// Authorizer decides whether a subject may act on a resource.
type Authorizer interface {
	Authorize(ctx context.Context, sub authz.Subject, res authz.Resource, op authz.Operation) (authz.Decision, error)
}

// Service coordinates stage-related operations.
type Service interface {
	ListByEvent(ctx context.Context, eventID int64) ([]models.Stage, error)
	Get(ctx context.Context, id int64) (*models.Stage, error)
	Create(ctx context.Context, sub authz.Subject, stage *models.Stage) (*models.Stage, error)
	Update(ctx context.Context, sub authz.Subject, id int64, stage *models.Stage) (*models.Stage, error)
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

func (s *service) ListByEvent(ctx context.Context, eventID int64) ([]models.Stage, error) {
	decision, err := s.authz.Authorize(ctx, authz.Subject{}, authz.Resource{Kind: authz.KindEvent, ID: eventID}, authz.OpRead)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrEventNotFound); err != nil {
		return nil, err
	}
	return s.store.ListStagesByEvent(ctx, eventID)
}

func (s *service) Get(ctx context.Context, id int64) (*models.Stage, error) {
	return s.store.GetStage(ctx, id)
}

func (s *service) Create(ctx context.Context, sub authz.Subject, stage *models.Stage) (*models.Stage, error) {
	// Creating a stage mutates the parent event's resource tree, so the
	// check runs against the event.
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindEvent, ID: stage.EventID}, authz.OpCreate)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrEventNotFound); err != nil {
		return nil, err
	}

	if err := validateStage(stage); err != nil {
		return nil, err
	}
	return s.store.CreateStage(ctx, stage)
}

func (s *service) Update(ctx context.Context, sub authz.Subject, id int64, stage *models.Stage) (*models.Stage, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindStage, ID: id}, authz.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrStageNotFound); err != nil {
		return nil, err
	}

	if err := validateStage(stage); err != nil {
		return nil, err
	}
	return s.store.UpdateStage(ctx, id, stage)
}

func (s *service) Delete(ctx context.Context, sub authz.Subject, id int64) error {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindStage, ID: id}, authz.OpDelete)
	if err != nil {
		return err
	}
	if err := authz.Check(decision, store.ErrStageNotFound); err != nil {
		return err
	}
	return s.store.DeleteStage(ctx, id)
}

func validateStage(stage *models.Stage) error {
	stage.Name = strings.TrimSpace(stage.Name)
	if stage.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidStage)
	}
	return nil
}
