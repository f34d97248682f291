// Package auth is the access gate: one shared secret for the whole
// system, checked at the API boundary, plus the session registry that
// tracks who is logged in for the inactivity logout.
package auth

import (
	"crypto/subtle"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Gate holds the process-wide shared secret. The secret loads once at
// startup; Rotate is the only mutation path and is reserved for the
// administrative surface, never exposed to normal operation.
type Gate struct {
	mu     sync.RWMutex
	secret string
}

// NewGate creates a gate around the configured secret. The secret may
// be stored either in the clear or as a bcrypt hash; a value with a
// bcrypt prefix is compared as a hash.
func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// Login verifies a submitted credential. A wrong credential is never
// an error: the result is a boolean plus a human-readable message.
// There is no lockout and no backoff.
func (g *Gate) Login(credential string) (bool, string) {
	g.mu.RLock()
	secret := g.secret
	g.mu.RUnlock()

	if secret == "" {
		return false, "no access secret configured"
	}
	if !verify(secret, credential) {
		return false, "invalid credential"
	}
	return true, ""
}

// Rotate replaces the shared secret. Administrative use only.
func (g *Gate) Rotate(secret string) {
	g.mu.Lock()
	g.secret = secret
	g.mu.Unlock()
}

func verify(secret, credential string) bool {
	if isBcrypt(secret) {
		return bcrypt.CompareHashAndPassword([]byte(secret), []byte(credential)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(credential)) == 1
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
