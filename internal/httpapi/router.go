package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type ctxKey int

const paramsKey ctxKey = iota

// segment is one compiled element of a route pattern. A literal matches
// itself; a numeric parameter matches digits only, so a path with text
// in an ID position falls through to the next route instead of
// producing an "invalid ID" error.
type segment struct {
	literal string
	param   string
	isUUID  bool
}

type route struct {
	method   string
	segments []segment
	handler  http.HandlerFunc
}

// Router dispatches on method plus an ordered pattern table. Patterns
// use "{name}" for numeric parameters and "{name:uuid}" for UUID ones.
// The first matching route wins; register more specific patterns first.
// Anything unmatched gets a 405.
type Router struct {
	routes []route
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{}
}

// Handle registers a handler for the method and pattern.
func (rt *Router) Handle(method, pattern string, h http.HandlerFunc) {
	rt.routes = append(rt.routes, route{
		method:   method,
		segments: compile(pattern),
		handler:  h,
	})
}

func compile(pattern string) []segment {
	parts := strings.Split(strings.Trim(pattern, "/"), "/")
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := part[1 : len(part)-1]
			if rest, ok := strings.CutSuffix(name, ":uuid"); ok {
				segments = append(segments, segment{param: rest, isUUID: true})
			} else {
				segments = append(segments, segment{param: name})
			}
			continue
		}
		segments = append(segments, segment{literal: part})
	}
	return segments
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	for _, route := range rt.routes {
		if route.method != r.Method {
			continue
		}
		params, ok := match(route.segments, parts)
		if !ok {
			continue
		}
		if len(params) > 0 {
			r = r.WithContext(context.WithValue(r.Context(), paramsKey, params))
		}
		route.handler(w, r)
		return
	}

	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func match(segments []segment, parts []string) (map[string]string, bool) {
	if len(segments) != len(parts) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range segments {
		part := parts[i]
		if seg.param == "" {
			if seg.literal != part {
				return nil, false
			}
			continue
		}
		if seg.isUUID {
			if _, err := uuid.Parse(part); err != nil {
				return nil, false
			}
		} else if !isNumeric(part) {
			return nil, false
		}
		if params == nil {
			params = make(map[string]string, len(segments))
		}
		params[seg.param] = part
	}
	return params, true
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// pathID returns a numeric path parameter. The router only matches
// digits, so parsing cannot fail on a dispatched request.
func pathID(r *http.Request, name string) int64 {
	params, _ := r.Context().Value(paramsKey).(map[string]string)
	id, _ := strconv.ParseInt(params[name], 10, 64)
	return id
}

// pathUUID returns a UUID path parameter.
func pathUUID(r *http.Request, name string) uuid.UUID {
	params, _ := r.Context().Value(paramsKey).(map[string]string)
	id, _ := uuid.Parse(params[name])
	return id
}
