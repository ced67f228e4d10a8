package artists

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ravesync/internal/authz"
	"ravesync/internal/store"
	"ravesync/shared/go/models"
)

// ErrInvalidArtist flags a missing or malformed required field.
var ErrInvalidArtist = errors.New("invalid artist")

// DefaultPageSize bounds artist listings when the caller does not pick
// a size.
const DefaultPageSize = 10

// Store captures the persistence needs for artist workflows.
type Store interface {
	ListArtists(ctx context.Context, filter models.ArtistFilter) ([]models.Artist, int64, error)
	GetArtist(ctx context.Context, id int64) (*models.Artist, error)
	CreateArtist(ctx context.Context, artist *models.Artist) (*models.Artist, error)
	UpdateArtist(ctx context.Context, id int64, artist *models.Artist) (*models.Artist, error)
	DeleteArtist(ctx context.Context, id int64) error
}

// Authorizer decides whether a subject may act on a resource.
type Authorizer interface {
	Authorize(ctx context.Context, sub authz.Subject, res authz.Resource, op authz.Operation) (authz.Decision, error)
}

// Service coordinates artist catalogue operations.
type Service interface {
	List(ctx context.Context, filter models.ArtistFilter) ([]models.Artist, models.PageMeta, error)
	Get(ctx context.Context, id int64) (*models.Artist, error)
	Create(ctx context.Context, sub authz.Subject, artist *models.Artist) (*models.Artist, error)
	Update(ctx context.Context, sub authz.Subject, id int64, artist *models.Artist) (*models.Artist, error)
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

func (s *service) List(ctx context.Context, filter models.ArtistFilter) ([]models.Artist, models.PageMeta, error) {
	filter.Page = filter.Page.Normalize(DefaultPageSize)
	artists, total, err := s.store.ListArtists(ctx, filter)
	if err != nil {
		return nil, models.PageMeta{}, err
	}
	return artists, models.NewPageMeta(filter.Page, total), nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Artist, error) {
	return s.store.GetArtist(ctx, id)
}

func (s *service) Create(ctx context.Context, sub authz.Subject, artist *models.Artist) (*models.Artist, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindArtist}, authz.OpCreate)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrArtistNotFound); err != nil {
		return nil, err
	}

	if err := validateArtist(artist); err != nil {
		return nil, err
	}
	return s.store.CreateArtist(ctx, artist)
}

func (s *service) Update(ctx context.Context, sub authz.Subject, id int64, artist *models.Artist) (*models.Artist, error) {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindArtist, ID: id}, authz.OpUpdate)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(decision, store.ErrArtistNotFound); err != nil {
		return nil, err
	}

	if err := validateArtist(artist); err != nil {
		return nil, err
	}
	return s.store.UpdateArtist(ctx, id, artist)
}

func (s *service) Delete(ctx context.Context, sub authz.Subject, id int64) error {
	decision, err := s.authz.Authorize(ctx, sub, authz.Resource{Kind: authz.KindArtist, ID: id}, authz.OpDelete)
	if err != nil {
		return err
	}
	if err := authz.Check(decision, store.ErrArtistNotFound); err != nil {
		return err
	}
	return s.store.DeleteArtist(ctx, id)
}

func validateArtist(artist *models.Artist) error {
	artist.Name = strings.TrimSpace(artist.Name)
	if artist.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArtist)
	}
	if artist.Followers < 0 {
		return fmt.Errorf("%w: followers cannot be negative", ErrInvalidArtist)
	}
	return nil
}
