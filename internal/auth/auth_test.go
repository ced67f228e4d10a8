package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-signing-secret"

func signedToken(t *testing.T, secret string, sub string, expires time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestResolveValidToken(t *testing.T) {
	userID := uuid.New()
	token := signedToken(t, testSecret, userID.String(), time.Now().Add(time.Hour))

	req := httptest.NewRequest("GET", "/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	ident := NewResolver(testSecret).Resolve(req)
	if !ident.Authenticated {
		t.Fatalf("expected authenticated identity")
	}
	if ident.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, ident.UserID)
	}
}

func TestResolveDegradesToNoIdentity(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{
			name:   "wrong secret",
			header: "Bearer " + signedToken(t, "other-secret", userID.String(), time.Now().Add(time.Hour)),
		},
		{
			name:   "expired",
			header: "Bearer " + signedToken(t, testSecret, userID.String(), time.Now().Add(-time.Hour)),
		},
		{
			name:   "subject not a uuid",
			header: "Bearer " + signedToken(t, testSecret, "user-42", time.Now().Add(time.Hour)),
		},
	}

	resolver := NewResolver(testSecret)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/events", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if ident := resolver.Resolve(req); ident.Authenticated {
				t.Fatalf("expected no identity, got %+v", ident)
			}
		})
	}
}

func TestAdminVerifier(t *testing.T) {
	v, err := NewAdminVerifier("super-secret")
	if err != nil {
		t.Fatalf("NewAdminVerifier: %v", err)
	}

	req := httptest.NewRequest("POST", "/events", nil)
	req.Header.Set(AdminHeader, "super-secret")
	if !v.Verify(req) {
		t.Fatalf("expected correct key to verify")
	}

	req.Header.Set(AdminHeader, "wrong-key")
	if v.Verify(req) {
		t.Fatalf("expected wrong key to fail")
	}

	req.Header.Del(AdminHeader)
	if v.Verify(req) {
		t.Fatalf("expected missing key to fail")
	}
}
