// Package rbac answers permission questions by joining a user's roles to
// the permissions table. Affirmative answers are cached on the session for
// its lifetime; denials are re-checked on every ask.
package rbac

import (
	"context"

	"github.com/uptrace/bun"

	"invapp/infrastructure/cache"
	"invapp/infrastructure/sqlite"
	"invapp/models"
)

// Permission names used by page routes.
const (
	PermViewInventory    = "view_inventory"
	PermManageInventory  = "manage_inventory"
	PermManageCategories = "manage_categories"
	PermManageLocations  = "manage_locations"
	PermManageUsers      = "manage_users"
	PermViewAllRequests  = "view_all_requests"
)

// Service is the authorization oracle backed by the role/permission tables.
type Service struct {
	db           *sqlite.DB
	sessionCache *cache.UserSessionCache
}

func New(db *sqlite.DB, sessionCache *cache.UserSessionCache) *Service {
	return &Service{db: db, sessionCache: sessionCache}
}

// HasPermission reports whether the session's user holds the named
// permission. The session is passed explicitly; a cached affirmative
// answer short-circuits the database lookup.
func (s *Service) HasPermission(ctx context.Context, session models.Session, permission string) (bool, error) {
	if session.HasCachedPermission(permission) {
		return true, nil
	}

	granted, err := s.userHasPermission(ctx, session.UserID, permission)
	if err != nil {
		return false, err
	}
	if granted && s.sessionCache != nil {
		s.sessionCache.GrantPermission(session.ID, permission)
	}
	return granted, nil
}

func (s *Service) userHasPermission(ctx context.Context, userID int64, permission string) (bool, error) {
	var count int64
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT COUNT(*)
FROM permissions p
JOIN role_permissions rp ON p.id = rp.permission_id
JOIN user_roles ur ON rp.role_id = ur.role_id
WHERE ur.user_id = ? AND p.permission_name = ?`, userID, permission).Scan(ctx, &count)
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PermissionNames returns all permissions granted to the user, used to
// drive nav link visibility.
func (s *Service) PermissionNames(ctx context.Context, userID int64) (map[string]struct{}, error) {
	names := make([]string, 0)
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT DISTINCT p.permission_name
FROM permissions p
JOIN role_permissions rp ON p.id = rp.permission_id
JOIN user_roles ur ON rp.role_id = ur.role_id
WHERE ur.user_id = ?`, userID).Scan(ctx, &names)
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out, nil
}
