package cache

import (
	"sync"

	"invapp/models"
)

// UserSessionCache stores sessions by token. The cached copy carries the
// affirmative permission answers granted so far for that session.
type UserSessionCache struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewUserSessionCache() *UserSessionCache {
	return &UserSessionCache{sessions: make(map[string]models.Session)}
}

func (c *UserSessionCache) AddSession(s models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.ID] = s
}

func (c *UserSessionCache) FindSessionBySessionToken(token string) (models.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[token]
	return s, ok
}

func (c *UserSessionCache) DeleteSessionBySessionToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, token)
}

// GrantPermission records an affirmative permission answer on the cached
// session so repeat checks skip the database for the session's lifetime.
// The stored permission map is replaced, never mutated: request handlers
// read their session copy's map without holding the cache lock.
func (c *UserSessionCache) GrantPermission(token, permission string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[token]
	if !ok {
		return
	}
	if _, ok := s.Permissions[permission]; ok {
		return
	}
	next := make(map[string]struct{}, len(s.Permissions)+1)
	for name := range s.Permissions {
		next[name] = struct{}{}
	}
	next[permission] = struct{}{}
	s.Permissions = next
	c.sessions[token] = s
}

// DeleteSessionsByUserID evicts every cached session belonging to one user,
// used when an account is deactivated.
func (c *UserSessionCache) DeleteSessionsByUserID(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for token, s := range c.sessions {
		if s.UserID == userID {
			delete(c.sessions, token)
		}
	}
}
