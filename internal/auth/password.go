package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// Password digest schemes understood by PasswordHasher.
const (
	SchemeBcrypt       = "bcrypt"
	SchemeLegacySHA256 = "legacy-sha256"
)

// PasswordHasher produces and checks stored password digests.
//
// New digests use the configured scheme. Verify accepts both bcrypt digests
// and the unsalted legacy SHA-256 digests, so existing accounts keep working
// after the scheme changes.
type PasswordHasher struct {
	scheme string
}

// NewPasswordHasher creates a hasher for the given scheme. Unknown schemes fall
// back to bcrypt.
func NewPasswordHasher(scheme string) *PasswordHasher {
	if scheme != SchemeLegacySHA256 {
		scheme = SchemeBcrypt
	}
	return &PasswordHasher{scheme: scheme}
}

// Scheme reports the scheme used for new digests.
func (h *PasswordHasher) Scheme() string {
	return h.scheme
}

// Hash returns the digest to store for password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if h.scheme == SchemeLegacySHA256 {
		return LegacyDigest(password), nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored digest.
func (h *PasswordHasher) Verify(password, digest string) bool {
	if digest == "" {
		return false
	}
	if strings.HasPrefix(digest, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(LegacyDigest(password)), []byte(digest)) == 1
}

// LegacyDigest is base64(SHA-256(utf8(password))) with no salt.
func LegacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}
