package auth

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// AdminHeader carries the static administrative credential. It grants a
// distinct trust level independent of user identity, not a superset of
// it.
const AdminHeader = "X-Admin-Key"

// AdminVerifier checks the shared administrative secret. The configured
// key is hashed once at construction so verification runs in constant
// time and the plaintext is not kept around.
type AdminVerifier struct {
	hash []byte
}

// NewAdminVerifier builds a verifier for the configured key.
func NewAdminVerifier(key string) (*AdminVerifier, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AdminVerifier{hash: hash}, nil
}

// Verify reports whether the request carries the administrative
// credential.
func (v *AdminVerifier) Verify(req *http.Request) bool {
	key := req.Header.Get(AdminHeader)
	if key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.hash, []byte(key)) == nil
}
