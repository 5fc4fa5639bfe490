package labels

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"invapp/infrastructure/apperr"
	"invapp/infrastructure/sqlite"
)

// ItemLabelData is everything printed on an item label.
type ItemLabelData struct {
	ItemID       int64  `bun:"item_id"`
	Name         string `bun:"name"`
	SKU          string `bun:"sku"`
	PartNumber   string `bun:"part_number"`
	CategoryName string `bun:"category_name"`
}

// LoadItemLabelData loads the label fields for one item.
func LoadItemLabelData(ctx context.Context, db *sqlite.DB, itemID int64) (ItemLabelData, error) {
	var data ItemLabelData
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT i.id AS item_id, i.name, i.sku, i.part_number, c.name AS category_name
FROM items i
JOIN categories c ON c.id = i.category_id
WHERE i.id = ?`, itemID).Scan(ctx, &data)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return ItemLabelData{}, apperr.NotFound("item %d not found", itemID)
	}
	if err != nil {
		return ItemLabelData{}, apperr.Persistence("load item label", err)
	}
	return data, nil
}
