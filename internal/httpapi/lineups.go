package httpapi

import (
	"encoding/json"
	"net/http"

	"ravesync/shared/go/models"
)

type lineupRequest struct {
	ArtistID  int64  `json:"artist_id"`
	Tier      string `json:"tier"`
	Headliner bool   `json:"headliner"`
}

func (s *Server) handleListLineup(w http.ResponseWriter, r *http.Request) {
	entries, err := s.lineups.ListByEvent(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.LineupEntry{}
	}
	writeJSON(w, http.StatusOK, struct {
		Data []models.LineupEntry `json:"data"`
	}{Data: entries})
}

func (s *Server) handleAddLineupEntry(w http.ResponseWriter, r *http.Request) {
	var req lineupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	created, err := s.lineups.Add(r.Context(), s.subject(r), &models.LineupEntry{
		EventID:   pathID(r, "id"),
		ArtistID:  req.ArtistID,
		Tier:      req.Tier,
		Headliner: req.Headliner,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateLineupEntry(w http.ResponseWriter, r *http.Request) {
	var req lineupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	updated, err := s.lineups.Update(r.Context(), s.subject(r), pathID(r, "id"), req.Tier, req.Headliner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteLineupEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.lineups.Delete(r.Context(), s.subject(r), pathID(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
