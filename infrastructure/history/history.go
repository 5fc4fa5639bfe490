// Package history appends immutable audit records to item_history inside
// the caller's transaction, so a mutation and its trail commit atomically.
package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"

	"invapp/models"
)

// Details is implemented by the closed set of history payloads. Each
// variant maps to exactly one action_type.
type Details interface {
	ActionType() string
}

// ItemCreated records the initial item snapshot with location stock levels.
type ItemCreated struct {
	Action             string            `json:"action"`
	Name               string            `json:"name"`
	CategoryID         int64             `json:"category_id"`
	SKU                string            `json:"sku,omitempty"`
	UnitCost           float64           `json:"unit_cost"`
	LocationQuantities map[int64]float64 `json:"location_quantities,omitempty"`
	LocationThresholds map[int64]int64   `json:"location_thresholds,omitempty"`
}

func (ItemCreated) ActionType() string { return "create" }

// FieldChange is an old/new pair for one item field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// StockChange is an old/new pair for one location's stock record.
type StockChange struct {
	OldQuantity  float64 `json:"old_quantity"`
	NewQuantity  float64 `json:"new_quantity"`
	OldThreshold int64   `json:"old_threshold"`
	NewThreshold int64   `json:"new_threshold"`
}

// ItemUpdated records only the fields and stock records that changed.
type ItemUpdated struct {
	Action       string                 `json:"action"`
	FieldChanges map[string]FieldChange `json:"field_changes,omitempty"`
	StockChanges map[int64]StockChange  `json:"stock_changes,omitempty"`
}

func (ItemUpdated) ActionType() string { return "update" }

// ItemReactivated records an item being switched back to active.
type ItemReactivated struct {
	Action string `json:"action"`
}

func (ItemReactivated) ActionType() string { return "update" }

// StockAdjusted records a single stock adjustment at one location.
type StockAdjusted struct {
	Action      string  `json:"action"`
	LocationID  int64   `json:"location_id"`
	OldQuantity float64 `json:"old_quantity"`
	NewQuantity float64 `json:"new_quantity"`
	Delta       float64 `json:"adjustment_amount"`
	Reason      string  `json:"reason,omitempty"`
}

func (StockAdjusted) ActionType() string { return "stock_adjust" }

// RequestSubmitted records a new item request snapshot.
type RequestSubmitted struct {
	Action            string  `json:"action"`
	RequestID         int64   `json:"request_id"`
	FromLocationID    *int64  `json:"from_location_id"`
	ToLocationID      *int64  `json:"to_location_id"`
	QuantityRequested float64 `json:"quantity_requested"`
	Priority          string  `json:"priority"`
	Reason            string  `json:"reason,omitempty"`
}

func (RequestSubmitted) ActionType() string { return "assignment" }

// RequestStatusChanged records a request status transition.
type RequestStatusChanged struct {
	Action           string   `json:"action"`
	RequestID        int64    `json:"request_id"`
	OldStatus        string   `json:"old_status"`
	NewStatus        string   `json:"new_status"`
	QuantityApproved *float64 `json:"quantity_approved,omitempty"`
	ManagerNotes     string   `json:"manager_notes,omitempty"`
}

func (RequestStatusChanged) ActionType() string { return "assignment" }

// Service writes history records inside the caller transaction.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Write appends one item_history row. It must be called with the same
// transaction that performs the mutation being recorded.
func (s *Service) Write(ctx context.Context, tx bun.Tx, userID, itemID int64, details Details) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal history details: %w", err)
	}
	entry := &models.ItemHistory{
		ItemID:      itemID,
		ActionType:  details.ActionType(),
		Details:     string(payload),
		PerformedBy: userID,
	}
	_, err = tx.NewInsert().Model(entry).Exec(ctx)
	return err
}
