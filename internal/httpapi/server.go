package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"ravesync/internal/auth"
	"ravesync/internal/authz"
	"ravesync/shared/go/models"
)

// EventService coordinates event workflows.
type EventService interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, models.PageMeta, error)
	Get(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, sub authz.Subject, event *models.Event) (*models.Event, error)
	Update(ctx context.Context, sub authz.Subject, id int64, event *models.Event) (*models.Event, error)
	Delete(ctx context.Context, sub authz.Subject, id int64) error
}

// StageService coordinates stage workflows.
type StageService interface {
	ListByEvent(ctx context.Context, eventID int64) ([]models.Stage, error)
	Get(ctx context.Context, id int64) (*models.Stage, error)
	Create(ctx context.Context, sub authz.Subject, stage *models.Stage) (*models.Stage, error)
	Update(ctx context.Context, sub authz.Subject, id int64, stage *models.Stage) (*models.Stage, error)
	Delete(ctx context.Context, sub authz.Subject, id int64) error
}

// ArtistService coordinates artist catalogue workflows.
type ArtistService interface {
	List(ctx context.Context, filter models.ArtistFilter) ([]models.Artist, models.PageMeta, error)
	Get(ctx context.Context, id int64) (*models.Artist, error)
	Create(ctx context.Context, sub authz.Subject, artist *models.Artist) (*models.Artist, error)
	Update(ctx context.Context, sub authz.Subject, id int64, artist *models.Artist) (*models.Artist, error)
	Delete(ctx context.Context, sub authz.Subject, id int64) error
}

// LineupService coordinates event lineup workflows.
type LineupService interface {
	ListByEvent(ctx context.Context, eventID int64) ([]models.LineupEntry, error)
	Add(ctx context.Context, sub authz.Subject, entry *models.LineupEntry) (*models.LineupEntry, error)
	Update(ctx context.Context, sub authz.Subject, id int64, tier string, headliner bool) (*models.LineupEntry, error)
	Delete(ctx context.Context, sub authz.Subject, id int64) error
}

// ScheduleService coordinates set times and collaborations.
type ScheduleService interface {
	EventSchedule(ctx context.Context, eventID int64) ([]models.ScheduleEntry, error)
	CreateSetTime(ctx context.Context, sub authz.Subject, st *models.SetTime) (*models.SetTime, error)
	UpdateSetTime(ctx context.Context, sub authz.Subject, id int64, st *models.SetTime) (*models.SetTime, error)
	DeleteSetTime(ctx context.Context, sub authz.Subject, id int64) error
	AddCollaborator(ctx context.Context, sub authz.Subject, setTimeID, artistID int64) (*models.Collaboration, error)
	RemoveCollaborator(ctx context.Context, sub authz.Subject, setTimeID, artistID int64) error
}

// GroupService coordinates group schedules and memberships.
type GroupService interface {
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

// IdentityResolver maps a request to the caller's user identity.
type IdentityResolver interface {
	Resolve(req *http.Request) auth.Identity
}

// AdminChecker reports whether a request carries the administrative
// credential.
type AdminChecker interface {
	Verify(req *http.Request) bool
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	identity IdentityResolver
	admin    AdminChecker

	events   EventService
	stages   StageService
	artists  ArtistService
	lineups  LineupService
	schedule ScheduleService
	groups   GroupService
}

// New configures a Server over the given services.
func New(
	identity IdentityResolver,
	admin AdminChecker,
	events EventService,
	stages StageService,
	artists ArtistService,
	lineups LineupService,
	schedule ScheduleService,
	groups GroupService,
) *Server {
	return &Server{
		identity: identity,
		admin:    admin,
		events:   events,
		stages:   stages,
		artists:  artists,
		lineups:  lineups,
		schedule: schedule,
		groups:   groups,
	}
}

// subject resolves both trust levels for a request. A missing or bad
// token never fails the request here; the authorization chain decides
// what the resulting subject may do.
func (s *Server) subject(r *http.Request) authz.Subject {
	id := s.identity.Resolve(r)
	return authz.Subject{
		UserID:        id.UserID,
		Authenticated: id.Authenticated,
		Admin:         s.admin.Verify(r),
	}
}

// Routes builds the route table. More specific patterns are registered
// first; the router takes the first match.
func (s *Server) Routes() http.Handler {
	rt := NewRouter()

	rt.Handle(http.MethodGet, "/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Events
	rt.Handle(http.MethodGet, "/events", s.handleListEvents)
	rt.Handle(http.MethodPost, "/events", s.handleCreateEvent)
	rt.Handle(http.MethodGet, "/events/{id}", s.handleGetEvent)
	rt.Handle(http.MethodPut, "/events/{id}", s.handleUpdateEvent)
	rt.Handle(http.MethodDelete, "/events/{id}", s.handleDeleteEvent)

	// Stages
	rt.Handle(http.MethodGet, "/events/{id}/stages", s.handleListStages)
	rt.Handle(http.MethodPost, "/events/{id}/stages", s.handleCreateStage)
	rt.Handle(http.MethodGet, "/stages/{id}", s.handleGetStage)
	rt.Handle(http.MethodPut, "/stages/{id}", s.handleUpdateStage)
	rt.Handle(http.MethodDelete, "/stages/{id}", s.handleDeleteStage)

	// Artists
	rt.Handle(http.MethodGet, "/artists", s.handleListArtists)
	rt.Handle(http.MethodPost, "/artists", s.handleCreateArtist)
	rt.Handle(http.MethodGet, "/artists/{id}", s.handleGetArtist)
	rt.Handle(http.MethodPut, "/artists/{id}", s.handleUpdateArtist)
	rt.Handle(http.MethodDelete, "/artists/{id}", s.handleDeleteArtist)

	// Lineups
	rt.Handle(http.MethodGet, "/events/{id}/lineup", s.handleListLineup)
	rt.Handle(http.MethodPost, "/events/{id}/lineup", s.handleAddLineupEntry)
	rt.Handle(http.MethodPut, "/lineup/{id}", s.handleUpdateLineupEntry)
	rt.Handle(http.MethodDelete, "/lineup/{id}", s.handleDeleteLineupEntry)

	// Schedule: set times and collaborations. The festivals path is a
	// legacy synonym kept for older clients.
	rt.Handle(http.MethodGet, "/events/{id}/schedule", s.handleEventSchedule)
	rt.Handle(http.MethodGet, "/festivals/{id}/schedule", s.handleEventSchedule)
	rt.Handle(http.MethodPost, "/stages/{id}/set-times", s.handleCreateSetTime)
	rt.Handle(http.MethodPut, "/set-times/{id}", s.handleUpdateSetTime)
	rt.Handle(http.MethodDelete, "/set-times/{id}", s.handleDeleteSetTime)
	rt.Handle(http.MethodPost, "/set-times/{id}/collaborators", s.handleAddCollaborator)
	rt.Handle(http.MethodDelete, "/set-times/{id}/collaborators/{artistID}", s.handleRemoveCollaborator)

	// Group schedules
	rt.Handle(http.MethodGet, "/groups", s.handleListGroups)
	rt.Handle(http.MethodPost, "/groups", s.handleCreateGroup)
	rt.Handle(http.MethodGet, "/groups/{id}", s.handleGetGroup)
	rt.Handle(http.MethodPut, "/groups/{id}", s.handleUpdateGroup)
	rt.Handle(http.MethodDelete, "/groups/{id}", s.handleDeleteGroup)
	rt.Handle(http.MethodGet, "/groups/{id}/members", s.handleListGroupMembers)
	rt.Handle(http.MethodPost, "/groups/{id}/members", s.handleInviteGroupMember)
	rt.Handle(http.MethodPut, "/groups/{id}/members/{userID:uuid}", s.handleUpdateGroupMember)
	rt.Handle(http.MethodDelete, "/groups/{id}/members/{userID:uuid}", s.handleRemoveGroupMember)

	return rt
}
