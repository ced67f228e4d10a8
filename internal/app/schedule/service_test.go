package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"ravesync/internal/authz"
	"ravesync/internal/store"
	"ravesync/shared/go/models"
)

type stubStore struct {
	events   map[int64]bool
	stages   map[int64]int64 // stage -> event
	setTimes map[int64]*models.SetTime
	artists  map[int64]bool

	createdSetTimes []models.SetTime
	addedCollabs    []models.Collaboration
}

func newStubStore() *stubStore {
	return &stubStore{
		events:   map[int64]bool{1: true},
		stages:   map[int64]int64{2: 1},
		setTimes: make(map[int64]*models.SetTime),
		artists:  make(map[int64]bool),
	}
}

func (s *stubStore) EventSchedule(_ context.Context, _ int64) ([]models.ScheduleEntry, error) {
	return nil, nil
}

func (s *stubStore) GetSetTime(_ context.Context, id int64) (*models.SetTime, error) {
	st, ok := s.setTimes[id]
	if !ok {
		return nil, store.ErrSetTimeNotFound
	}
	return st, nil
}

func (s *stubStore) CreateSetTime(_ context.Context, st *models.SetTime) (*models.SetTime, error) {
	st.ID = int64(len(s.setTimes) + 1)
	s.setTimes[st.ID] = st
	s.createdSetTimes = append(s.createdSetTimes, *st)
	return st, nil
}

func (s *stubStore) UpdateSetTime(_ context.Context, id int64, st *models.SetTime) (*models.SetTime, error) {
	existing, ok := s.setTimes[id]
	if !ok {
		return nil, store.ErrSetTimeNotFound
	}
	existing.ArtistID = st.ArtistID
	existing.StartsAt = st.StartsAt
	existing.EndsAt = st.EndsAt
	return existing, nil
}

func (s *stubStore) DeleteSetTime(_ context.Context, id int64) error {
	if _, ok := s.setTimes[id]; !ok {
		return store.ErrSetTimeNotFound
	}
	delete(s.setTimes, id)
	return nil
}

func (s *stubStore) AddCollaboration(_ context.Context, setTimeID, artistID int64) (*models.Collaboration, error) {
	collab := models.Collaboration{ID: int64(len(s.addedCollabs) + 1), SetTimeID: setTimeID, ArtistID: artistID}
	s.addedCollabs = append(s.addedCollabs, collab)
	return &collab, nil
}

func (s *stubStore) RemoveCollaboration(_ context.Context, _, _ int64) error { return nil }

func (s *stubStore) ArtistExists(_ context.Context, id int64) (bool, error) {
	return s.artists[id], nil
}

func (s *stubStore) EventExists(_ context.Context, id int64) (bool, error) {
	return s.events[id], nil
}

func (s *stubStore) StageEventID(_ context.Context, stageID int64) (int64, bool, error) {
	eventID, ok := s.stages[stageID]
	return eventID, ok, nil
}

func (s *stubStore) SetTimeStageID(_ context.Context, setTimeID int64) (int64, bool, error) {
	st, ok := s.setTimes[setTimeID]
	if !ok {
		return 0, false, nil
	}
	return st.StageID, true, nil
}

func (s *stubStore) LineupEventID(context.Context, int64) (int64, bool, error) {
	return 0, false, nil
}

func (s *stubStore) CollaborationSetTimeID(context.Context, int64) (int64, bool, error) {
	return 0, false, nil
}

func (s *stubStore) GroupCreator(context.Context, int64) (uuid.UUID, bool, error) {
	return uuid.Nil, false, nil
}

func (s *stubStore) GroupMembership(context.Context, int64, uuid.UUID) (*models.GroupMember, bool, error) {
	return nil, false, nil
}

func newService(st *stubStore) Service {
	return New(st, authz.New(st))
}

var adminSub = authz.Subject{Admin: true}

func TestAddCollaboratorRejectsPrimaryArtist(t *testing.T) {
	st := newStubStore()
	st.artists[7] = true
	st.setTimes[30] = &models.SetTime{ID: 30, StageID: 2, ArtistID: 7}
	svc := newService(st)

	_, err := svc.AddCollaborator(context.Background(), adminSub, 30, 7)
	if !errors.Is(err, ErrCollaboratorIsPrimary) {
		t.Fatalf("expected ErrCollaboratorIsPrimary, got %v", err)
	}
	// The rejection must happen before any write.
	if len(st.addedCollabs) != 0 {
		t.Fatalf("collaboration was written despite rejection: %+v", st.addedCollabs)
	}
}

func TestAddCollaboratorUnknownGuest(t *testing.T) {
	st := newStubStore()
	st.artists[7] = true
	st.setTimes[30] = &models.SetTime{ID: 30, StageID: 2, ArtistID: 7}
	svc := newService(st)

	_, err := svc.AddCollaborator(context.Background(), adminSub, 30, 99)
	if !errors.Is(err, store.ErrArtistNotFound) {
		t.Fatalf("expected ErrArtistNotFound, got %v", err)
	}
	if len(st.addedCollabs) != 0 {
		t.Fatalf("collaboration was written for unknown artist: %+v", st.addedCollabs)
	}
}

func TestAddCollaboratorSuccess(t *testing.T) {
	st := newStubStore()
	st.artists[7] = true
	st.artists[9] = true
	st.setTimes[30] = &models.SetTime{ID: 30, StageID: 2, ArtistID: 7}
	svc := newService(st)

	collab, err := svc.AddCollaborator(context.Background(), adminSub, 30, 9)
	if err != nil {
		t.Fatalf("AddCollaborator returned error: %v", err)
	}
	if collab.SetTimeID != 30 || collab.ArtistID != 9 {
		t.Fatalf("unexpected collaboration: %+v", collab)
	}
}

func TestCreateSetTimeWindowValidation(t *testing.T) {
	st := newStubStore()
	st.artists[7] = true
	svc := newService(st)

	base := time.Date(2026, 7, 18, 22, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		startsAt time.Time
		endsAt   time.Time
	}{
		{"ends before starts", base, base.Add(-time.Hour)},
		{"zero-length window", base, base},
		{"missing window", time.Time{}, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSetTime(context.Background(), adminSub, &models.SetTime{
				StageID:  2,
				ArtistID: 7,
				StartsAt: tt.startsAt,
				EndsAt:   tt.endsAt,
			})
			if !errors.Is(err, ErrInvalidSetTime) {
				t.Fatalf("expected ErrInvalidSetTime, got %v", err)
			}
			if len(st.createdSetTimes) != 0 {
				t.Fatalf("set time was written despite invalid window: %+v", st.createdSetTimes)
			}
		})
	}
}

func TestCreateSetTimeUnknownArtist(t *testing.T) {
	st := newStubStore()
	svc := newService(st)

	base := time.Date(2026, 7, 18, 22, 0, 0, 0, time.UTC)
	_, err := svc.CreateSetTime(context.Background(), adminSub, &models.SetTime{
		StageID:  2,
		ArtistID: 99,
		StartsAt: base,
		EndsAt:   base.Add(time.Hour),
	})
	if !errors.Is(err, store.ErrArtistNotFound) {
		t.Fatalf("expected ErrArtistNotFound, got %v", err)
	}
	if len(st.createdSetTimes) != 0 {
		t.Fatalf("set time was written for unknown artist: %+v", st.createdSetTimes)
	}
}

func TestCreateSetTimeWithoutAdminCredential(t *testing.T) {
	st := newStubStore()
	st.artists[7] = true
	svc := newService(st)

	base := time.Date(2026, 7, 18, 22, 0, 0, 0, time.UTC)
	_, err := svc.CreateSetTime(context.Background(), authz.Subject{Authenticated: true, UserID: uuid.New()}, &models.SetTime{
		StageID:  2,
		ArtistID: 7,
		StartsAt: base,
		EndsAt:   base.Add(time.Hour),
	})
	if !errors.Is(err, authz.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
