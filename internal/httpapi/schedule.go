package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"ravesync/shared/go/models"
)

type setTimeRequest struct {
	ArtistID int64     `json:"artist_id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

type collaboratorRequest struct {
	ArtistID int64 `json:"artist_id"`
}

func (s *Server) handleEventSchedule(w http.ResponseWriter, r *http.Request) {
	entries, err := s.schedule.EventSchedule(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.ScheduleEntry{}
	}
	writeJSON(w, http.StatusOK, struct {
		Data []models.ScheduleEntry `json:"data"`
	}{Data: entries})
}

func (s *Server) handleCreateSetTime(w http.ResponseWriter, r *http.Request) {
	var req setTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	created, err := s.schedule.CreateSetTime(r.Context(), s.subject(r), &models.SetTime{
		StageID:  pathID(r, "id"),
		ArtistID: req.ArtistID,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateSetTime(w http.ResponseWriter, r *http.Request) {
	var req setTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	updated, err := s.schedule.UpdateSetTime(r.Context(), s.subject(r), pathID(r, "id"), &models.SetTime{
		ArtistID: req.ArtistID,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSetTime(w http.ResponseWriter, r *http.Request) {
	if err := s.schedule.DeleteSetTime(r.Context(), s.subject(r), pathID(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddCollaborator(w http.ResponseWriter, r *http.Request) {
	var req collaboratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	created, err := s.schedule.AddCollaborator(r.Context(), s.subject(r), pathID(r, "id"), req.ArtistID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleRemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	if err := s.schedule.RemoveCollaborator(r.Context(), s.subject(r), pathID(r, "id"), pathID(r, "artistID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
