package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"ravesync/internal/authz"
	"ravesync/shared/go/models"
)

type groupRequest struct {
	EventID int64  `json:"event_id"`
	Name    string `json:"name"`
}

type memberInviteRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

type memberUpdateRequest struct {
	Status  *models.MemberStatus `json:"status"`
	IsAdmin *bool                `json:"is_admin"`
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, meta, err := s.groups.ListForUser(r.Context(), s.subject(r), parsePage(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if groups == nil {
		groups = []models.GroupSchedule{}
	}

	writeJSON(w, http.StatusOK, struct {
		Data []models.GroupSchedule `json:"data"`
		models.PageMeta
	}{Data: groups, PageMeta: meta})
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	created, err := s.groups.Create(r.Context(), s.subject(r), &models.GroupSchedule{
		EventID: req.EventID,
		Name:    req.Name,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.Get(r.Context(), s.subject(r), pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	updated, err := s.groups.Update(r.Context(), s.subject(r), pathID(r, "id"), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.Delete(r.Context(), s.subject(r), pathID(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGroupMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.groups.ListMembers(r.Context(), s.subject(r), pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if members == nil {
		members = []models.GroupMember{}
	}
	writeJSON(w, http.StatusOK, struct {
		Data []models.GroupMember `json:"data"`
	}{Data: members})
}

func (s *Server) handleInviteGroupMember(w http.ResponseWriter, r *http.Request) {
	var req memberInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if req.UserID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}

	member, err := s.groups.InviteMember(r.Context(), s.subject(r), pathID(r, "id"), req.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

// handleUpdateGroupMember covers two distinct mutations on one route:
// a member answering their own invitation, and an admin flipping
// another member's admin flag.
func (s *Server) handleUpdateGroupMember(w http.ResponseWriter, r *http.Request) {
	var req memberUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	sub := s.subject(r)
	groupID := pathID(r, "id")
	userID := pathUUID(r, "userID")

	switch {
	case req.Status != nil:
		if userID != sub.UserID {
			writeError(w, r, authz.ErrUnauthorized)
			return
		}
		member, err := s.groups.RespondToInvite(r.Context(), sub, groupID, *req.Status)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, member)
	case req.IsAdmin != nil:
		member, err := s.groups.SetMemberAdmin(r.Context(), sub, groupID, userID, *req.IsAdmin)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, member)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "status or is_admin is required"})
	}
}

func (s *Server) handleRemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.RemoveMember(r.Context(), s.subject(r), pathID(r, "id"), pathUUID(r, "userID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
