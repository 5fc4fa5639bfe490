package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/uptrace/bun"

	"invapp/frontend/login"
	"invapp/infrastructure/argon"
	"invapp/infrastructure/sqlite"
)

func main() {
	migrationsDir, err := resolveMigrationsDir()
	if err != nil {
		log.Fatalf("resolve migrations dir: %v", err)
	}

	defaultDBPath := filepath.Join(filepath.Dir(filepath.Dir(filepath.Dir(migrationsDir))), "invapp.db")
	dbPath := getenv("SQLITE_PATH", defaultDBPath)

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	adminPassword := getenv("ADMIN_PASSWORD", "Admin123!Inventory")
	if err := upsertAdmin(context.Background(), db, "admin", adminPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	fmt.Println("seeded admin user (username=admin)")
}

// upsertAdmin creates or resets the admin account and grants it the Admin
// role. Existing accounts keep their id; only the hash and active flag are
// replaced.
func upsertAdmin(ctx context.Context, db *sqlite.DB, username, password string) error {
	if err := login.ValidatePasswordPolicy(password); err != nil {
		return err
	}
	hash, err := argon.CreateHash(password, nil)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO users (username, email, password_hash, is_active, created_at, updated_at)
VALUES (?, '', ?, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT(username) DO UPDATE SET
    password_hash = excluded.password_hash,
    is_active = 1,
    updated_at = CURRENT_TIMESTAMP`, username, hash)
		if err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}

		var userID int64
		if err := tx.NewRaw(`SELECT id FROM users WHERE username = ?`, username).Scan(ctx, &userID); err != nil {
			return fmt.Errorf("load user id: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("clear roles: %w", err)
		}
		res, err := tx.ExecContext(ctx, `
INSERT INTO user_roles (user_id, role_id)
SELECT ?, id FROM roles WHERE role_name = 'Admin'`, userID)
		if err != nil {
			return fmt.Errorf("grant admin role: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("admin role missing; were migrations applied?")
		}
		return nil
	})
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func resolveMigrationsDir() (string, error) {
	candidates := []string{
		filepath.Join("infrastructure", "sqlite", "migrations"),
		filepath.Join("..", "..", "infrastructure", "sqlite", "migrations"),
	}

	if _, file, _, ok := runtime.Caller(0); ok {
		candidates = append(candidates, filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations"))
	}

	tried := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		absPath, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		tried = append(tried, absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			continue
		}
		if info.IsDir() {
			return absPath, nil
		}
	}

	return "", fmt.Errorf("migrations dir not found; tried: %s", strings.Join(tried, ", "))
}
