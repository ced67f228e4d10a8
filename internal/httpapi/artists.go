package httpapi

import (
	"encoding/json"
	"net/http"

	"ravesync/shared/go/models"
)

type artistRequest struct {
	Name      string   `json:"name"`
	Genres    []string `json:"genres"`
	Followers int64    `json:"followers"`
	ImageURL  string   `json:"image_url"`
}

func (req artistRequest) model() *models.Artist {
	return &models.Artist{
		Name:      req.Name,
		Genres:    req.Genres,
		Followers: req.Followers,
		ImageURL:  req.ImageURL,
	}
}

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.ArtistFilter{
		Search: query.Get("search"),
		Page:   parsePage(query),
	}

	artists, meta, err := s.artists.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if artists == nil {
		artists = []models.Artist{}
	}

	writeJSON(w, http.StatusOK, struct {
		Data []models.Artist `json:"data"`
		models.PageMeta
	}{Data: artists, PageMeta: meta})
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := s.artists.Get(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleCreateArtist(w http.ResponseWriter, r *http.Request) {
	var req artistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	created, err := s.artists.Create(r.Context(), s.subject(r), req.model())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateArtist(w http.ResponseWriter, r *http.Request) {
	var req artistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	updated, err := s.artists.Update(r.Context(), s.subject(r), pathID(r, "id"), req.model())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteArtist(w http.ResponseWriter, r *http.Request) {
	if err := s.artists.Delete(r.Context(), s.subject(r), pathID(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
