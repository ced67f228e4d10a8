package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"ravesync/internal/app/schedule"
	"ravesync/internal/auth"
	"ravesync/internal/authz"
	"ravesync/internal/store"
	"ravesync/shared/go/models"
)

type stubIdentity struct {
	identity auth.Identity
}

func (s stubIdentity) Resolve(*http.Request) auth.Identity { return s.identity }

type stubAdmin struct {
	ok bool
}

func (s stubAdmin) Verify(*http.Request) bool { return s.ok }

type stubEvents struct {
	events []models.Event
	meta   models.PageMeta
	err    error
}

func (s *stubEvents) List(context.Context, models.EventFilter) ([]models.Event, models.PageMeta, error) {
	return s.events, s.meta, s.err
}

func (s *stubEvents) Get(context.Context, int64) (*models.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.events[0], nil
}

func (s *stubEvents) Create(_ context.Context, sub authz.Subject, event *models.Event) (*models.Event, error) {
	if !sub.Admin {
		return nil, authz.ErrUnauthorized
	}
	event.ID = 1
	return event, nil
}

func (s *stubEvents) Update(_ context.Context, sub authz.Subject, id int64, event *models.Event) (*models.Event, error) {
	if !sub.Admin {
		return nil, authz.ErrUnauthorized
	}
	event.ID = id
	return event, nil
}

func (s *stubEvents) Delete(_ context.Context, sub authz.Subject, _ int64) error {
	if !sub.Admin {
		return authz.ErrUnauthorized
	}
	return s.err
}

type stubArtists struct {
	deleteErr error
}

func (s *stubArtists) List(context.Context, models.ArtistFilter) ([]models.Artist, models.PageMeta, error) {
	return nil, models.PageMeta{}, nil
}
func (s *stubArtists) Get(context.Context, int64) (*models.Artist, error) { return nil, nil }
func (s *stubArtists) Create(context.Context, authz.Subject, *models.Artist) (*models.Artist, error) {
	return nil, nil
}
func (s *stubArtists) Update(context.Context, authz.Subject, int64, *models.Artist) (*models.Artist, error) {
	return nil, nil
}
func (s *stubArtists) Delete(context.Context, authz.Subject, int64) error { return s.deleteErr }

type stubSchedule struct {
	collabErr error
}

func (s *stubSchedule) EventSchedule(context.Context, int64) ([]models.ScheduleEntry, error) {
	return nil, nil
}
func (s *stubSchedule) CreateSetTime(context.Context, authz.Subject, *models.SetTime) (*models.SetTime, error) {
	return nil, nil
}
func (s *stubSchedule) UpdateSetTime(context.Context, authz.Subject, int64, *models.SetTime) (*models.SetTime, error) {
	return nil, nil
}
func (s *stubSchedule) DeleteSetTime(context.Context, authz.Subject, int64) error { return nil }
func (s *stubSchedule) AddCollaborator(context.Context, authz.Subject, int64, int64) (*models.Collaboration, error) {
	return nil, s.collabErr
}
func (s *stubSchedule) RemoveCollaborator(context.Context, authz.Subject, int64, int64) error {
	return nil
}

type stubGroups struct {
	getErr error
}

func (s *stubGroups) Create(context.Context, authz.Subject, *models.GroupSchedule) (*models.GroupSchedule, error) {
	return nil, nil
}
func (s *stubGroups) Get(context.Context, authz.Subject, int64) (*models.GroupSchedule, error) {
	return nil, s.getErr
}
func (s *stubGroups) ListForUser(context.Context, authz.Subject, models.PageRequest) ([]models.GroupSchedule, models.PageMeta, error) {
	return nil, models.PageMeta{}, nil
}
func (s *stubGroups) Update(context.Context, authz.Subject, int64, string) (*models.GroupSchedule, error) {
	return nil, nil
}
func (s *stubGroups) Delete(context.Context, authz.Subject, int64) error { return nil }
func (s *stubGroups) InviteMember(context.Context, authz.Subject, int64, uuid.UUID) (*models.GroupMember, error) {
	return nil, nil
}
func (s *stubGroups) ListMembers(context.Context, authz.Subject, int64) ([]models.GroupMember, error) {
	return nil, nil
}
func (s *stubGroups) RespondToInvite(context.Context, authz.Subject, int64, models.MemberStatus) (*models.GroupMember, error) {
	return nil, nil
}
func (s *stubGroups) SetMemberAdmin(context.Context, authz.Subject, int64, uuid.UUID, bool) (*models.GroupMember, error) {
	return nil, nil
}
func (s *stubGroups) RemoveMember(context.Context, authz.Subject, int64, uuid.UUID) error {
	return nil
}

type serverStubs struct {
	events   *stubEvents
	artists  *stubArtists
	schedule *stubSchedule
	groups   *stubGroups
	admin    bool
}

func newTestServer(stubs serverStubs) http.Handler {
	if stubs.events == nil {
		stubs.events = &stubEvents{}
	}
	if stubs.artists == nil {
		stubs.artists = &stubArtists{}
	}
	if stubs.schedule == nil {
		stubs.schedule = &stubSchedule{}
	}
	if stubs.groups == nil {
		stubs.groups = &stubGroups{}
	}
	srv := New(
		stubIdentity{identity: auth.Identity{UserID: uuid.New(), Authenticated: true}},
		stubAdmin{ok: stubs.admin},
		stubs.events,
		nil,
		stubs.artists,
		nil,
		stubs.schedule,
		stubs.groups,
	)
	return srv.Routes()
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(serverStubs{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestListEventsEnvelope(t *testing.T) {
	handler := newTestServer(serverStubs{
		events: &stubEvents{
			events: []models.Event{
				{ID: 1, Name: "Pulse Weekender", Venue: "Pier 9", StartsOn: time.Now(), EndsOn: time.Now()},
			},
			meta: models.PageMeta{Page: 1, PageSize: 20, TotalCount: 1, TotalPages: 1},
		},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events?page=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data []models.Event `json:"data"`
		models.PageMeta
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Data) != 1 || body.TotalPages != 1 || body.PageSize != 20 {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestCreateEventWithoutAdminCredential(t *testing.T) {
	handler := newTestServer(serverStubs{admin: false})

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"name":"x","venue":"y"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateEventWithAdminCredential(t *testing.T) {
	handler := newTestServer(serverStubs{admin: true})

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"name":"x","venue":"y"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteArtistReportsDependencies(t *testing.T) {
	handler := newTestServer(serverStubs{
		admin: true,
		artists: &stubArtists{
			deleteErr: &store.ArtistInUseError{Dependencies: map[string]int64{
				"lineups":   2,
				"set_times": 1,
			}},
		},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/artists/9", nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Dependencies["lineups"] != 2 || body.Dependencies["set_times"] != 1 {
		t.Fatalf("unexpected dependencies: %+v", body.Dependencies)
	}
}

func TestAddCollaboratorPrimaryArtistRejected(t *testing.T) {
	handler := newTestServer(serverStubs{
		admin:    true,
		schedule: &stubSchedule{collabErr: schedule.ErrCollaboratorIsPrimary},
	})

	req := httptest.NewRequest(http.MethodPost, "/set-times/4/collaborators", strings.NewReader(`{"artist_id":11}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetGroupHiddenFromOutsiders(t *testing.T) {
	handler := newTestServer(serverStubs{
		groups: &stubGroups{getErr: store.ErrGroupNotFound},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups/12", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
