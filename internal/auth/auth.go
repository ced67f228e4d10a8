package auth

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the opaque authenticated user reference resolved from a
// bearer token. The zero value means "no identity".
type Identity struct {
	UserID        uuid.UUID
	Authenticated bool
}

// Resolver validates bearer tokens against a shared signing secret and
// extracts the subject claim as the user identity. It keeps no state
// between requests; every call re-resolves.
type Resolver struct {
	secret []byte
}

// NewResolver builds a Resolver for HS256-signed tokens.
func NewResolver(secret string) *Resolver {
	return &Resolver{secret: []byte(secret)}
}

// Resolve maps the request's Authorization header to an identity.
// Absent, malformed, expired or otherwise invalid credentials all
// degrade to the zero Identity; this path never fails a request on its
// own.
func (r *Resolver) Resolve(req *http.Request) Identity {
	raw := parseBearerToken(req.Header.Get("Authorization"))
	if raw == "" {
		return Identity{}
	}

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}
	}

	return Identity{UserID: userID, Authenticated: true}
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
