package dashboard

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"invapp/infrastructure/sqlite"
	"invapp/models"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	_, thisFile, _, _ := runtime.Caller(0)
	migrations := filepath.Join(filepath.Dir(thisFile), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrations); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestLoadSummaryRollsUpSubtrees(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	var userID int64
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		user := &models.User{Username: "viewer", PasswordHash: "x", IsActive: true}
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return err
		}
		userID = user.ID

		tools := &models.Category{Name: "Tools", IsActive: true}
		if _, err := tx.NewInsert().Model(tools).Exec(ctx); err != nil {
			return err
		}
		handTools := &models.Category{Name: "Hand Tools", ParentID: &tools.ID, IsActive: true}
		if _, err := tx.NewInsert().Model(handTools).Exec(ctx); err != nil {
			return err
		}
		consumables := &models.Category{Name: "Consumables", IsActive: true}
		if _, err := tx.NewInsert().Model(consumables).Exec(ctx); err != nil {
			return err
		}

		site := &models.Site{Name: "Depot", IsActive: true}
		if _, err := tx.NewInsert().Model(site).Exec(ctx); err != nil {
			return err
		}
		loc := &models.Location{SiteID: site.SiteID, Name: "Bay 1", IsActive: true}
		if _, err := tx.NewInsert().Model(loc).Exec(ctx); err != nil {
			return err
		}

		// Zero stock, lives in the Tools subtree via the child category.
		hammer := &models.Item{Name: "Hammer", CategoryID: handTools.ID, IsActive: true}
		if _, err := tx.NewInsert().Model(hammer).Exec(ctx); err != nil {
			return err
		}
		// Low stock directly under the Tools root.
		drill := &models.Item{Name: "Drill", CategoryID: tools.ID, IsActive: true}
		if _, err := tx.NewInsert().Model(drill).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(&models.ItemStock{ItemID: drill.ID, LocationID: loc.LocationID, Quantity: 2, ReorderThreshold: 5}).Exec(ctx); err != nil {
			return err
		}
		// Healthy item under the other root.
		tape := &models.Item{Name: "Tape", CategoryID: consumables.ID, IsActive: true}
		if _, err := tx.NewInsert().Model(tape).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(&models.ItemStock{ItemID: tape.ID, LocationID: loc.LocationID, Quantity: 10, ReorderThreshold: 5}).Exec(ctx); err != nil {
			return err
		}
		// Deactivated item stays out of every count.
		retired := &models.Item{Name: "Retired", CategoryID: tools.ID, IsActive: false}
		_, err := tx.NewInsert().Model(retired).Exec(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var itemID int64
		if err := tx.NewRaw(`SELECT id FROM items WHERE name = 'Drill'`).Scan(ctx, &itemID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO item_requests (item_id, requested_by, quantity_requested, priority, status)
VALUES (?, ?, 3, 'normal', 'pending'), (?, ?, 1, 'normal', 'completed')`, itemID, userID, itemID, userID)
		return err
	})
	if err != nil {
		t.Fatalf("seed requests: %v", err)
	}

	summary, err := LoadSummary(ctx, db)
	if err != nil {
		t.Fatalf("load summary: %v", err)
	}

	if summary.TotalItems != 3 {
		t.Fatalf("expected 3 active items, got %d", summary.TotalItems)
	}
	if summary.TotalZeroStock != 1 || summary.TotalLowStock != 1 {
		t.Fatalf("expected 1 zero and 1 low, got zero=%d low=%d", summary.TotalZeroStock, summary.TotalLowStock)
	}
	if summary.PendingRequests != 1 {
		t.Fatalf("expected 1 pending request, got %d", summary.PendingRequests)
	}

	if len(summary.Categories) != 2 {
		t.Fatalf("expected 2 category cards, got %+v", summary.Categories)
	}
	// Sorted by name: Consumables then Tools.
	if summary.Categories[0].CategoryName != "Consumables" || summary.Categories[0].ItemCount != 1 {
		t.Fatalf("unexpected first card %+v", summary.Categories[0])
	}
	tools := summary.Categories[1]
	if tools.CategoryName != "Tools" || tools.ItemCount != 2 || tools.ZeroStock != 1 || tools.LowStock != 1 {
		t.Fatalf("unexpected Tools card %+v", tools)
	}
}

func TestLoadSummaryEmptyDatabase(t *testing.T) {
	db := openTestDB(t)

	summary, err := LoadSummary(context.Background(), db)
	if err != nil {
		t.Fatalf("load summary: %v", err)
	}
	if summary.TotalItems != 0 || len(summary.Categories) != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}
