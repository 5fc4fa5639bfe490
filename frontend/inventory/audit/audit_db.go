package audit

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"invapp/frontend/shared/stockstatus"
	"invapp/infrastructure/apperr"
	"invapp/infrastructure/history"
	"invapp/infrastructure/sqlite"
	"invapp/models"
)

// LocationItemRow is one item's stock at the audited location, classified
// with the single-location rules.
type LocationItemRow struct {
	ItemID           int64   `bun:"item_id"`
	ItemName         string  `bun:"item_name"`
	SKU              string  `bun:"sku"`
	Quantity         float64 `bun:"quantity"`
	ReorderThreshold int64   `bun:"reorder_threshold"`
	Status           stockstatus.Result
}

// LocationInventory lists active items holding a stock record at the
// location, ordered by item name.
func LocationInventory(ctx context.Context, db *sqlite.DB, locationID int64) ([]LocationItemRow, error) {
	rows := make([]LocationItemRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
			SELECT st.item_id AS item_id, i.name AS item_name, i.sku AS sku,
			       st.quantity AS quantity, st.reorder_threshold AS reorder_threshold
			FROM item_stocks st
			JOIN items i ON i.id = st.item_id
			WHERE st.location_id = ? AND i.is_active = 1
			ORDER BY i.name ASC`, locationID).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, err
	}
	for idx := range rows {
		rows[idx].Status = stockstatus.ClassifyAtLocation(rows[idx].Quantity, rows[idx].ReorderThreshold)
	}
	return rows, nil
}

// AdjustStock sets a new absolute quantity for the item at the location.
// The stock record must already exist; the update and its stock_adjust
// history entry commit atomically.
func AdjustStock(ctx context.Context, db *sqlite.DB, histSvc *history.Service, userID, itemID, locationID int64, newQuantity float64, reason string) error {
	if newQuantity < 0 {
		return apperr.Validation("quantity cannot be negative")
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var record models.ItemStock
		err := tx.NewSelect().Model(&record).
			Where("item_id = ? AND location_id = ?", itemID, locationID).
			Limit(1).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("no stock record for item %d at location %d", itemID, locationID)
		}
		if err != nil {
			return apperr.Persistence("load stock record", err)
		}

		now := time.Now()
		if _, err := tx.NewUpdate().Model((*models.ItemStock)(nil)).
			Set("quantity = ?", newQuantity).
			Set("last_adjusted_at = ?", now).
			Where("id = ?", record.ID).
			Exec(ctx); err != nil {
			return apperr.Persistence("update stock record", err)
		}

		return histSvc.Write(ctx, tx, userID, itemID, history.StockAdjusted{
			Action:      "stock adjusted",
			LocationID:  locationID,
			OldQuantity: record.Quantity,
			NewQuantity: newQuantity,
			Delta:       newQuantity - record.Quantity,
			Reason:      strings.TrimSpace(reason),
		})
	})
}

// RequestInput carries the item request form fields.
type RequestInput struct {
	ItemID            int64
	QuantityRequested float64
	Priority          string
	FromLocationID    *int64
	ToLocationID      *int64
	Reason            string
	NeededBy          string
}

// SubmitRequest files a pending item request and its assignment history
// entry in one transaction. Unrecognized priorities are normalized to
// normal; a needed-by date, when present, must be a valid YYYY-MM-DD date.
func SubmitRequest(ctx context.Context, db *sqlite.DB, histSvc *history.Service, requesterID int64, input RequestInput) (int64, error) {
	if input.QuantityRequested <= 0 {
		return 0, apperr.Validation("requested quantity must be greater than zero")
	}
	priority := input.Priority
	if !models.ValidRequestPriority(priority) {
		priority = models.PriorityNormal
	}
	var neededBy *time.Time
	if v := strings.TrimSpace(input.NeededBy); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return 0, apperr.Validation("needed-by date must be a valid date (YYYY-MM-DD)")
		}
		neededBy = &t
	}

	var requestID int64
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		req := &models.ItemRequest{
			ItemID:                input.ItemID,
			RequestedBy:           requesterID,
			RequestedFromLocation: input.FromLocationID,
			RequestedToLocation:   input.ToLocationID,
			QuantityRequested:     input.QuantityRequested,
			Priority:              priority,
			Status:                models.RequestPending,
			RequestReason:         strings.TrimSpace(input.Reason),
			NeededByDate:          neededBy,
			RequestedDate:         time.Now(),
		}
		if _, err := tx.NewInsert().Model(req).Exec(ctx); err != nil {
			return apperr.Persistence("insert item request", err)
		}
		requestID = req.ID

		return histSvc.Write(ctx, tx, requesterID, input.ItemID, history.RequestSubmitted{
			Action:            "request submitted",
			RequestID:         requestID,
			FromLocationID:    input.FromLocationID,
			ToLocationID:      input.ToLocationID,
			QuantityRequested: input.QuantityRequested,
			Priority:          priority,
			Reason:            strings.TrimSpace(input.Reason),
		})
	})
	return requestID, err
}
