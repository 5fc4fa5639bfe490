package adminusers

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"invapp/frontend/login"
	"invapp/infrastructure/apperr"
	"invapp/infrastructure/argon"
	"invapp/infrastructure/sqlite"
	"invapp/models"
)

// UserRow joins a user with its assigned role for the listing table.
type UserRow struct {
	ID       int64  `bun:"id"`
	Username string `bun:"username"`
	Email    string `bun:"email"`
	IsActive bool   `bun:"is_active"`
	RoleID   int64  `bun:"role_id"`
	RoleName string `bun:"role_name"`
}

// AddUserInput carries the add-user form fields.
type AddUserInput struct {
	Username string
	Email    string
	Password string
	RoleID   int64
}

// EditUserInput carries the edit-user form fields. Password is optional;
// empty means keep the current hash.
type EditUserInput struct {
	ID       int64
	Username string
	Email    string
	Password string
	RoleID   int64
	IsActive bool
}

// ListUsers returns every account with its role, active first.
func ListUsers(ctx context.Context, db *sqlite.DB) ([]UserRow, error) {
	rows := make([]UserRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT u.id, u.username, u.email, u.is_active,
       COALESCE(ro.id, 0) AS role_id,
       COALESCE(ro.role_name, '') AS role_name
FROM users u
LEFT JOIN user_roles ur ON ur.user_id = u.id
LEFT JOIN roles ro ON ro.id = ur.role_id
ORDER BY u.is_active DESC, u.username ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

// ListRoles returns the grantable roles for the role picker.
func ListRoles(ctx context.Context, db *sqlite.DB) ([]models.Role, error) {
	roles := make([]models.Role, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&roles).Order("role_name ASC").Scan(ctx)
	})
	return roles, err
}

// AddUser creates an account with an argon2id password hash and a single
// role assignment.
func AddUser(ctx context.Context, db *sqlite.DB, in AddUserInput) error {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return apperr.Validation("username is required")
	}
	if in.RoleID <= 0 {
		return apperr.Validation("a role must be selected")
	}
	if err := login.ValidatePasswordPolicy(in.Password); err != nil {
		return apperr.Validation("%s", err.Error())
	}
	hash, err := argon.CreateHash(in.Password, nil)
	if err != nil {
		return apperr.Persistence("hash password", err)
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := ensureUsernameFree(ctx, tx, username, 0); err != nil {
			return err
		}
		if err := ensureRoleExists(ctx, tx, in.RoleID); err != nil {
			return err
		}

		user := &models.User{
			Username:     username,
			Email:        strings.TrimSpace(in.Email),
			PasswordHash: hash,
			IsActive:     true,
		}
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return apperr.Persistence("insert user", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)`, user.ID, in.RoleID); err != nil {
			return apperr.Persistence("assign role", err)
		}
		return nil
	})
}

// EditUser updates account details, optionally rehashes the password, and
// replaces the role assignment.
func EditUser(ctx context.Context, db *sqlite.DB, in EditUserInput) error {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return apperr.Validation("username is required")
	}
	if in.RoleID <= 0 {
		return apperr.Validation("a role must be selected")
	}

	hash := ""
	if in.Password != "" {
		if err := login.ValidatePasswordPolicy(in.Password); err != nil {
			return apperr.Validation("%s", err.Error())
		}
		h, err := argon.CreateHash(in.Password, nil)
		if err != nil {
			return apperr.Persistence("hash password", err)
		}
		hash = h
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*models.User)(nil)).Where("id = ?", in.ID).Exists(ctx)
		if err != nil {
			return apperr.Persistence("load user", err)
		}
		if !exists {
			return apperr.NotFound("user %d not found", in.ID)
		}
		if err := ensureUsernameFree(ctx, tx, username, in.ID); err != nil {
			return err
		}
		if err := ensureRoleExists(ctx, tx, in.RoleID); err != nil {
			return err
		}

		q := tx.NewUpdate().Model((*models.User)(nil)).
			Set("username = ?", username).
			Set("email = ?", strings.TrimSpace(in.Email)).
			Set("is_active = ?", in.IsActive).
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", in.ID)
		if hash != "" {
			q = q.Set("password_hash = ?", hash)
		}
		if _, err := q.Exec(ctx); err != nil {
			return apperr.Persistence("update user", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, in.ID); err != nil {
			return apperr.Persistence("clear roles", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)`, in.ID, in.RoleID); err != nil {
			return apperr.Persistence("assign role", err)
		}

		// Deactivation ends the user's sessions immediately.
		if !in.IsActive {
			if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, in.ID); err != nil {
				return apperr.Persistence("delete sessions", err)
			}
		}
		return nil
	})
}

// ensureUsernameFree rejects usernames already held by another account.
// The users.username column collates NOCASE so the check is case-insensitive.
func ensureUsernameFree(ctx context.Context, tx bun.Tx, username string, excludeID int64) error {
	var count int64
	if err := tx.NewRaw(
		`SELECT COUNT(*) FROM users WHERE username = ? AND id != ?`, username, excludeID).Scan(ctx, &count); err != nil {
		return apperr.Persistence("check username", err)
	}
	if count > 0 {
		return apperr.Conflict("username %q is already taken", username)
	}
	return nil
}

func ensureRoleExists(ctx context.Context, tx bun.Tx, roleID int64) error {
	exists, err := tx.NewSelect().Model((*models.Role)(nil)).Where("id = ?", roleID).Exists(ctx)
	if err != nil {
		return apperr.Persistence("load role", err)
	}
	if !exists {
		return apperr.Validation("unknown role")
	}
	return nil
}
