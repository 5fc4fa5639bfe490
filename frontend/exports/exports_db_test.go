package exports

import (
	"bytes"
	"context"
	"encoding/csv"
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

func seedStock(t *testing.T, db *sqlite.DB) (itemID, userID int64) {
	t.Helper()
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		user := &models.User{Username: "exporter", PasswordHash: "x", IsActive: true}
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return err
		}
		userID = user.ID
		cat := &models.Category{Name: "Medical", IsActive: true}
		if _, err := tx.NewInsert().Model(cat).Exec(ctx); err != nil {
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
		item := &models.Item{Name: "Gloves", CategoryID: cat.ID, SKU: "GLV-1", PartNumber: "PN-1", IsActive: true}
		if _, err := tx.NewInsert().Model(item).Exec(ctx); err != nil {
			return err
		}
		itemID = item.ID
		stock := &models.ItemStock{ItemID: item.ID, LocationID: loc.LocationID, Quantity: 7.5, ReorderThreshold: 3}
		_, err := tx.NewInsert().Model(stock).Exec(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return itemID, userID
}

func TestWriteStockCSV(t *testing.T) {
	db := openTestDB(t)
	seedStock(t, db)

	var buf bytes.Buffer
	if err := writeStockCSV(context.Background(), db, &buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d", len(records))
	}
	if records[0][0] != "item" || records[0][6] != "quantity" {
		t.Fatalf("unexpected header %v", records[0])
	}
	row := records[1]
	if row[0] != "Gloves" || row[1] != "GLV-1" || row[4] != "Depot" || row[5] != "Bay 1" || row[6] != "7.5" || row[7] != "3" {
		t.Fatalf("unexpected row %v", row)
	}
}

func TestWriteRequestsCSV(t *testing.T) {
	db := openTestDB(t)
	itemID, userID := seedStock(t, db)

	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO item_requests (item_id, requested_by, quantity_requested, priority, status, request_reason)
VALUES (?, ?, 4, 'high', 'pending', 'restock ward')`, itemID, userID)
		return err
	})
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}

	var buf bytes.Buffer
	if err := writeRequestsCSV(context.Background(), db, &buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d", len(records))
	}
	row := records[1]
	if row[1] != "Gloves" || row[3] != "exporter" || row[4] != "4" || row[6] != "high" || row[7] != "pending" || row[8] != "restock ward" {
		t.Fatalf("unexpected row %v", row)
	}
	if row[5] != "" || row[11] != "" {
		t.Fatalf("expected empty approved fields, got %v", row)
	}
}
