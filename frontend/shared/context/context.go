// Package context carries the authenticated session on the request context
// between the auth middleware and page handlers.
package context

import (
	"context"

	"invapp/models"
)

type sessionKey struct{}

// NewContextWithSession stores the resolved session for downstream handlers.
func NewContextWithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session placed by the auth middleware.
// ok is false on routes that run outside the authenticated group.
func GetSessionFromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(models.Session)
	return s, ok
}
