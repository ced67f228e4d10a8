package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"ravesync/shared/go/models"
)

type eventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartsOn    time.Time `json:"starts_on"`
	EndsOn      time.Time `json:"ends_on"`
	Featured    bool      `json:"featured"`
}

func (req eventRequest) model() *models.Event {
	return &models.Event{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		StartsOn:    req.StartsOn,
		EndsOn:      req.EndsOn,
		Featured:    req.Featured,
	}
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.EventFilter{
		Search: query.Get("search"),
		Page:   parsePage(query),
	}

	if featuredStr := query.Get("featured"); featuredStr != "" {
		featured, err := strconv.ParseBool(featuredStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid featured parameter"})
			return
		}
		filter.Featured = &featured
	}
	if fromStr := query.Get("from"); fromStr != "" {
		from, err := parseDate(fromStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid from parameter"})
			return
		}
		filter.From = &from
	}
	if toStr := query.Get("to"); toStr != "" {
		to, err := parseDate(toStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid to parameter"})
			return
		}
		filter.To = &to
	}

	events, meta, err := s.events.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	writeJSON(w, http.StatusOK, struct {
		Data []models.Event `json:"data"`
		models.PageMeta
	}{Data: events, PageMeta: meta})
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.events.Get(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	created, err := s.events.Create(r.Context(), s.subject(r), req.model())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	updated, err := s.events.Update(r.Context(), s.subject(r), pathID(r, "id"), req.model())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.events.Delete(r.Context(), s.subject(r), pathID(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
