package main

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"ravesync/internal/app/artists"
	"ravesync/internal/app/events"
	"ravesync/internal/app/groups"
	"ravesync/internal/app/lineups"
	"ravesync/internal/app/schedule"
	"ravesync/internal/app/stages"
	"ravesync/internal/auth"
	"ravesync/internal/authz"
	"ravesync/internal/httpapi"
	"ravesync/internal/store"
	"ravesync/shared/go/middleware"
)

func newHTTPHandler(cfg Config, dataStore *store.Store) (http.Handler, error) {
	identity := auth.NewResolver(cfg.JWTSecret)
	admin, err := auth.NewAdminVerifier(cfg.AdminAPIKey)
	if err != nil {
		return nil, err
	}

	authorizer := authz.New(dataStore)

	eventSvc := events.New(dataStore, authorizer)
	stageSvc := stages.New(dataStore, authorizer)
	artistSvc := artists.New(dataStore, authorizer)
	lineupSvc := lineups.New(dataStore, authorizer)
	scheduleSvc := schedule.New(dataStore, authorizer)
	groupSvc := groups.New(dataStore, authorizer, log.Logger)

	server := httpapi.New(identity, admin, eventSvc, stageSvc, artistSvc, lineupSvc, scheduleSvc, groupSvc)

	handler := withCORS(cfg.AllowedOrigins, server.Routes())
	handler = middleware.Recovery(handler)
	handler = middleware.RequestLogging(handler)
	return handler, nil
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization, X-Admin-Key")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
