package history

import (
	"context"
	"encoding/json"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"invapp/infrastructure/sqlite"
)

func openHistoryTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestWriteStockAdjustedEntry(t *testing.T) {
	db := openHistoryTestDB(t)
	svc := NewService()

	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return svc.Write(ctx, tx, 7, 42, StockAdjusted{
			Action:      "Stock adjusted",
			LocationID:  3,
			OldQuantity: 10,
			NewQuantity: 4,
			Delta:       -6,
			Reason:      "cycle count",
		})
	})
	if err != nil {
		t.Fatalf("write history: %v", err)
	}

	var actionType, details string
	var performedBy int64
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT action_type, details, performed_by FROM item_history WHERE item_id = 42`).
			Scan(ctx, &actionType, &details, &performedBy)
	})
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if actionType != "stock_adjust" {
		t.Fatalf("expected action_type=stock_adjust, got %s", actionType)
	}
	if performedBy != 7 {
		t.Fatalf("expected performed_by=7, got %d", performedBy)
	}

	var decoded StockAdjusted
	if err := json.Unmarshal([]byte(details), &decoded); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if decoded.Delta != -6 || decoded.LocationID != 3 {
		t.Fatalf("unexpected decoded payload: %+v", decoded)
	}
}

func TestWriteRollsBackWithCallerTransaction(t *testing.T) {
	db := openHistoryTestDB(t)
	svc := NewService()

	wantErr := context.Canceled
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if err := svc.Write(ctx, tx, 1, 9, RequestSubmitted{
			Action:            "Item requested",
			RequestID:         1,
			QuantityRequested: 5,
			Priority:          "normal",
		}); err != nil {
			return err
		}
		return wantErr
	})
	if err == nil {
		t.Fatalf("expected error to surface from tx")
	}

	var count int
	if err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM item_history WHERE item_id = 9`).Scan(ctx, &count)
	}); err != nil {
		t.Fatalf("count history: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rolled-back history entry, count=%d", count)
	}
}
