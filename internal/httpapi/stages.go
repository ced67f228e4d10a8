package httpapi

import (
	"encoding/json"
	"net/http"

	"ravesync/shared/go/models"
)

type stageRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleListStages(w http.ResponseWriter, r *http.Request) {
	stages, err := s.stages.ListByEvent(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if stages == nil {
		stages = []models.Stage{}
	}
	writeJSON(w, http.StatusOK, struct {
		Data []models.Stage `json:"data"`
	}{Data: stages})
}

func (s *Server) handleGetStage(w http.ResponseWriter, r *http.Request) {
	stage, err := s.stages.Get(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stage)
}

func (s *Server) handleCreateStage(w http.ResponseWriter, r *http.Request) {
	var req stageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	created, err := s.stages.Create(r.Context(), s.subject(r), &models.Stage{
		EventID:     pathID(r, "id"),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateStage(w http.ResponseWriter, r *http.Request) {
	var req stageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	updated, err := s.stages.Update(r.Context(), s.subject(r), pathID(r, "id"), &models.Stage{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteStage(w http.ResponseWriter, r *http.Request) {
	if err := s.stages.Delete(r.Context(), s.subject(r), pathID(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
