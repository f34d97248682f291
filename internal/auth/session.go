package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionRegistry tracks issued session tokens in memory. A session
// expires after ttl of inactivity; touching it on every authorized
// request keeps it alive. Sessions are lost on restart, which simply
// forces a re-login.
type SessionRegistry struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*session
	now      func() time.Time
}

type session struct {
	user     string
	lastSeen time.Time
}

// NewSessionRegistry creates a registry with the given inactivity TTL.
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		ttl:      ttl,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// Issue creates a session for user and returns its opaque token.
func (r *SessionRegistry) Issue(user string) string {
	token := uuid.NewString()
	r.mu.Lock()
	r.sessions[token] = &session{user: user, lastSeen: r.now()}
	r.mu.Unlock()
	return token
}

// Touch validates a token and refreshes its inactivity window,
// returning the session's user. An expired token is removed and
// reported as unknown.
func (r *SessionRegistry) Touch(token string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return "", false
	}
	now := r.now()
	if now.Sub(s.lastSeen) > r.ttl {
		delete(r.sessions, token)
		return "", false
	}
	s.lastSeen = now
	return s.user, true
}

// Revoke removes a token; unknown tokens are ignored.
func (r *SessionRegistry) Revoke(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}
