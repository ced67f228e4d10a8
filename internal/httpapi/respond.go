package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"ravesync/internal/app/artists"
	"ravesync/internal/app/events"
	"ravesync/internal/app/groups"
	"ravesync/internal/app/lineups"
	"ravesync/internal/app/schedule"
	"ravesync/internal/app/stages"
	"ravesync/internal/authz"
	"ravesync/internal/store"
)

type errorResponse struct {
	Error        string           `json:"error"`
	Details      string           `json:"details,omitempty"`
	Suggestion   string           `json:"suggestion,omitempty"`
	Dependencies map[string]int64 `json:"dependencies,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeError is the single exit point for failed requests. Every
// service and store error is translated here so handlers never invent
// their own status mapping.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var inUse *store.ArtistInUseError

	switch {
	case errors.As(err, &inUse):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:        inUse.Error(),
			Dependencies: inUse.Dependencies,
		})

	case errors.Is(err, authz.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})

	case errors.Is(err, store.ErrAccessDenied):
		writeJSON(w, http.StatusForbidden, errorResponse{
			Error:      "access denied",
			Suggestion: "the database role lacks privileges for this write; check the service account's grants",
		})

	case errors.Is(err, store.ErrEventNotFound),
		errors.Is(err, store.ErrStageNotFound),
		errors.Is(err, store.ErrArtistNotFound),
		errors.Is(err, store.ErrLineupNotFound),
		errors.Is(err, store.ErrSetTimeNotFound),
		errors.Is(err, store.ErrCollaborationNotFound),
		errors.Is(err, store.ErrGroupNotFound),
		errors.Is(err, store.ErrMemberNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})

	case errors.Is(err, store.ErrLineupExists),
		errors.Is(err, store.ErrCollaborationExists),
		errors.Is(err, store.ErrMemberExists),
		errors.Is(err, groups.ErrCreatorImmutable):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})

	case errors.Is(err, events.ErrInvalidEvent),
		errors.Is(err, stages.ErrInvalidStage),
		errors.Is(err, artists.ErrInvalidArtist),
		errors.Is(err, lineups.ErrInvalidLineup),
		errors.Is(err, schedule.ErrInvalidSetTime),
		errors.Is(err, schedule.ErrCollaboratorIsPrimary),
		errors.Is(err, groups.ErrInvalidGroup),
		errors.Is(err, groups.ErrInvalidStatus):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

	default:
		log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
