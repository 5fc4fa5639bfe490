package dashboard

import (
	"context"
	"sort"

	"github.com/uptrace/bun"

	"invapp/frontend/shared/stockstatus"
	"invapp/infrastructure/sqlite"
)

// CategorySummary aggregates stock health for one top-level category and
// everything beneath it.
type CategorySummary struct {
	CategoryID   int64
	CategoryName string
	ItemCount    int64
	LowStock     int64
	ZeroStock    int64
}

// Summary is the dashboard payload.
type Summary struct {
	TotalItems      int64
	TotalLowStock   int64
	TotalZeroStock  int64
	PendingRequests int64
	Categories      []CategorySummary
}

type itemRoot struct {
	ItemID       int64   `bun:"item_id"`
	RootID       int64   `bun:"root_id"`
	RootName     string  `bun:"root_name"`
	FullQuantity int64   `bun:"full_quantity"`
	Total        float64 `bun:"total_quantity"`
}

type stockRow struct {
	ItemID           int64   `bun:"item_id"`
	Quantity         float64 `bun:"quantity"`
	ReorderThreshold int64   `bun:"reorder_threshold"`
}

// LoadSummary walks each active top-level category's subtree and counts
// items whose stock is low or gone, classified with the same rules the
// inventory listing uses.
func LoadSummary(ctx context.Context, db *sqlite.DB) (Summary, error) {
	var summary Summary
	items := make([]itemRoot, 0)
	stocks := make([]stockRow, 0)

	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewRaw(`
WITH RECURSIVE subtree (root_id, root_name, category_id) AS (
    SELECT id, name, id FROM categories WHERE parent_id IS NULL AND is_active = 1
    UNION ALL
    SELECT s.root_id, s.root_name, c.id
    FROM categories c
    JOIN subtree s ON c.parent_id = s.category_id
)
SELECT i.id AS item_id, s.root_id, s.root_name, i.full_quantity,
       COALESCE((SELECT SUM(st.quantity) FROM item_stocks st WHERE st.item_id = i.id), 0.0) AS total_quantity
FROM items i
JOIN subtree s ON i.category_id = s.category_id
WHERE i.is_active = 1`).Scan(ctx, &items); err != nil {
			return err
		}
		if err := tx.NewRaw(`
SELECT st.item_id, st.quantity, st.reorder_threshold
FROM item_stocks st
JOIN items i ON i.id = st.item_id
WHERE i.is_active = 1`).Scan(ctx, &stocks); err != nil {
			return err
		}
		return tx.NewRaw(`SELECT COUNT(*) FROM item_requests WHERE status = 'pending'`).
			Scan(ctx, &summary.PendingRequests)
	})
	if err != nil {
		return Summary{}, err
	}

	stocksByItem := make(map[int64][]stockstatus.LocationStock)
	for _, s := range stocks {
		stocksByItem[s.ItemID] = append(stocksByItem[s.ItemID], stockstatus.LocationStock{
			Quantity:         s.Quantity,
			ReorderThreshold: s.ReorderThreshold,
		})
	}

	byRoot := make(map[int64]*CategorySummary)
	for _, it := range items {
		cs, ok := byRoot[it.RootID]
		if !ok {
			cs = &CategorySummary{CategoryID: it.RootID, CategoryName: it.RootName}
			byRoot[it.RootID] = cs
		}
		cs.ItemCount++
		summary.TotalItems++

		status := stockstatus.Classify(stocksByItem[it.ItemID], it.Total, it.FullQuantity).Status
		switch status {
		case stockstatus.NoStock:
			cs.ZeroStock++
			summary.TotalZeroStock++
		case stockstatus.Critical, stockstatus.LowStock:
			cs.LowStock++
			summary.TotalLowStock++
		}
	}

	summary.Categories = make([]CategorySummary, 0, len(byRoot))
	for _, cs := range byRoot {
		summary.Categories = append(summary.Categories, *cs)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].CategoryName < summary.Categories[j].CategoryName
	})
	return summary, nil
}
