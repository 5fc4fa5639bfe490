package inventory

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"invapp/frontend/categories"
	"invapp/frontend/shared/stockstatus"
	"invapp/infrastructure/apperr"
	"invapp/infrastructure/history"
	"invapp/infrastructure/sqlite"
	"invapp/models"
)

// StockEntry is the desired stock record for one location on item create/edit.
type StockEntry struct {
	Quantity         float64
	ReorderThreshold int64
}

// ItemInput carries the item form fields.
type ItemInput struct {
	Name         string
	Description  string
	CategoryID   int64
	SKU          string
	UnitCost     float64
	FullQuantity int64
	SupplierInfo string
	PartNumber   string
	Stocks       map[int64]StockEntry
}

// LocationStockRow is one item's stock record joined with location and site
// names, used for display and the per-location JSON endpoint.
type LocationStockRow struct {
	ItemID           int64   `bun:"item_id" json:"-"`
	LocationID       int64   `bun:"location_id" json:"location_id"`
	LocationName     string  `bun:"location_name" json:"location_name"`
	SiteName         string  `bun:"site_name" json:"site_name"`
	Quantity         float64 `bun:"quantity" json:"quantity"`
	ReorderThreshold int64   `bun:"reorder_threshold" json:"reorder_threshold"`
}

// SiteQuantity sums an item's quantity per site.
type SiteQuantity struct {
	SiteName string
	Quantity float64
}

// ItemRow is the item list view model.
type ItemRow struct {
	Item          models.Item
	CategoryName  string
	TotalQuantity float64
	Stocks        []LocationStockRow
	SiteSummary   []SiteQuantity
	Status        stockstatus.Result
}

// Filters narrows the item list.
type Filters struct {
	Search       string
	CategoryID   int64
	LocationID   int64
	Status       string
	ShowInactive bool
}

// ListItems returns items with their joined category name, per-location
// stocks, per-site sums and derived stock status, filtered per f. The
// category filter matches the whole subtree rooted at f.CategoryID.
func ListItems(ctx context.Context, db *sqlite.DB, f Filters) ([]ItemRow, error) {
	var rows []ItemRow
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		cats := make([]models.Category, 0)
		if err := tx.NewSelect().Model(&cats).Scan(ctx); err != nil {
			return err
		}
		catNames := make(map[int64]string, len(cats))
		for _, c := range cats {
			catNames[c.ID] = c.Name
		}
		var subtree map[int64]struct{}
		if f.CategoryID > 0 {
			subtree = categories.DescendantIDs(cats, f.CategoryID)
		}

		items := make([]models.Item, 0)
		q := tx.NewSelect().Model(&items).Order("name ASC")
		if !f.ShowInactive {
			q = q.Where("is_active = 1")
		}
		if s := strings.TrimSpace(f.Search); s != "" {
			like := "%" + s + "%"
			q = q.Where("(name LIKE ? OR sku LIKE ? OR description LIKE ? OR part_number LIKE ?)", like, like, like, like)
		}
		if err := q.Scan(ctx); err != nil {
			return err
		}

		stocks := make([]LocationStockRow, 0)
		if err := tx.NewRaw(`
			SELECT st.item_id AS item_id, st.location_id AS location_id,
			       l.name AS location_name, si.name AS site_name,
			       st.quantity AS quantity, st.reorder_threshold AS reorder_threshold
			FROM item_stocks st
			JOIN locations l ON l.location_id = st.location_id
			JOIN sites si ON si.site_id = l.site_id
			ORDER BY si.name ASC, l.name ASC`).Scan(ctx, &stocks); err != nil {
			return err
		}
		byItem := make(map[int64][]LocationStockRow)
		for _, s := range stocks {
			byItem[s.ItemID] = append(byItem[s.ItemID], s)
		}

		rows = make([]ItemRow, 0, len(items))
		for _, item := range items {
			if subtree != nil {
				if _, ok := subtree[item.CategoryID]; !ok {
					continue
				}
			}
			itemStocks := byItem[item.ID]
			if f.LocationID > 0 && !hasLocation(itemStocks, f.LocationID) {
				continue
			}
			row := buildItemRow(item, catNames[item.CategoryID], itemStocks)
			if f.Status != "" && row.Status.Status != f.Status {
				continue
			}
			rows = append(rows, row)
		}
		return nil
	})
	return rows, err
}

func hasLocation(stocks []LocationStockRow, locationID int64) bool {
	for _, s := range stocks {
		if s.LocationID == locationID {
			return true
		}
	}
	return false
}

func buildItemRow(item models.Item, categoryName string, stocks []LocationStockRow) ItemRow {
	var total float64
	siteSums := make(map[string]float64)
	siteOrder := make([]string, 0)
	locStocks := make([]stockstatus.LocationStock, 0, len(stocks))
	for _, s := range stocks {
		total += s.Quantity
		if _, seen := siteSums[s.SiteName]; !seen {
			siteOrder = append(siteOrder, s.SiteName)
		}
		siteSums[s.SiteName] += s.Quantity
		locStocks = append(locStocks, stockstatus.LocationStock{
			LocationName:     s.LocationName,
			Quantity:         s.Quantity,
			ReorderThreshold: s.ReorderThreshold,
		})
	}
	summary := make([]SiteQuantity, 0, len(siteOrder))
	for _, name := range siteOrder {
		summary = append(summary, SiteQuantity{SiteName: name, Quantity: siteSums[name]})
	}
	return ItemRow{
		Item:          item,
		CategoryName:  categoryName,
		TotalQuantity: total,
		Stocks:        stocks,
		SiteSummary:   summary,
		Status:        stockstatus.Classify(locStocks, total, item.FullQuantity),
	}
}

// LoadItem fetches one item by id.
func LoadItem(ctx context.Context, db *sqlite.DB, itemID int64) (models.Item, error) {
	var item models.Item
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&item).Where("i.id = ?", itemID).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, apperr.NotFound("item %d not found", itemID)
	}
	return item, err
}

func validateItemInput(input ItemInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperr.Validation("item name is required")
	}
	if input.CategoryID <= 0 {
		return apperr.Validation("category is required")
	}
	if input.UnitCost < 0 {
		return apperr.Validation("unit cost cannot be negative")
	}
	if input.FullQuantity < 0 {
		return apperr.Validation("full quantity cannot be negative")
	}
	for _, entry := range input.Stocks {
		if entry.Quantity < 0 {
			return apperr.Validation("stock quantity cannot be negative")
		}
		if entry.ReorderThreshold < 0 {
			return apperr.Validation("reorder threshold cannot be negative")
		}
	}
	return nil
}

// CreateItem inserts an item with its initial stock records and a create
// history entry, all in one transaction.
func CreateItem(ctx context.Context, db *sqlite.DB, histSvc *history.Service, userID int64, input ItemInput) (int64, error) {
	if err := validateItemInput(input); err != nil {
		return 0, err
	}
	var itemID int64
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		item := &models.Item{
			Name:         strings.TrimSpace(input.Name),
			Description:  strings.TrimSpace(input.Description),
			CategoryID:   input.CategoryID,
			SKU:          strings.TrimSpace(input.SKU),
			UnitCost:     input.UnitCost,
			FullQuantity: input.FullQuantity,
			SupplierInfo: strings.TrimSpace(input.SupplierInfo),
			PartNumber:   strings.TrimSpace(input.PartNumber),
			IsActive:     true,
			CreatedBy:    userID,
			UpdatedBy:    userID,
		}
		if _, err := tx.NewInsert().Model(item).Exec(ctx); err != nil {
			return apperr.Persistence("insert item", err)
		}
		itemID = item.ID
		if err := replaceStockRecordsTx(ctx, tx, itemID, input.Stocks); err != nil {
			return err
		}

		details := history.ItemCreated{
			Action:     "item created",
			Name:       item.Name,
			CategoryID: item.CategoryID,
			SKU:        item.SKU,
			UnitCost:   item.UnitCost,
		}
		if len(input.Stocks) > 0 {
			details.LocationQuantities = make(map[int64]float64, len(input.Stocks))
			details.LocationThresholds = make(map[int64]int64, len(input.Stocks))
			for locID, entry := range input.Stocks {
				details.LocationQuantities[locID] = entry.Quantity
				details.LocationThresholds[locID] = entry.ReorderThreshold
			}
		}
		return histSvc.Write(ctx, tx, userID, itemID, details)
	})
	return itemID, err
}

// UpdateItem edits an item and replaces its stock records, recording a
// field-level and stock-level diff in history.
func UpdateItem(ctx context.Context, db *sqlite.DB, histSvc *history.Service, userID, itemID int64, input ItemInput) error {
	if err := validateItemInput(input); err != nil {
		return err
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var existing models.Item
		err := tx.NewSelect().Model(&existing).Where("i.id = ?", itemID).Limit(1).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("item %d not found", itemID)
		}
		if err != nil {
			return apperr.Persistence("load item", err)
		}

		oldStocks := make([]models.ItemStock, 0)
		if err := tx.NewSelect().Model(&oldStocks).Where("item_id = ?", itemID).Scan(ctx); err != nil {
			return apperr.Persistence("load item stocks", err)
		}

		updated := existing
		updated.Name = strings.TrimSpace(input.Name)
		updated.Description = strings.TrimSpace(input.Description)
		updated.CategoryID = input.CategoryID
		updated.SKU = strings.TrimSpace(input.SKU)
		updated.UnitCost = input.UnitCost
		updated.FullQuantity = input.FullQuantity
		updated.SupplierInfo = strings.TrimSpace(input.SupplierInfo)
		updated.PartNumber = strings.TrimSpace(input.PartNumber)
		updated.UpdatedBy = userID
		updated.UpdatedAt = time.Now()

		if _, err := tx.NewUpdate().Model(&updated).
			Column("name", "description", "category_id", "sku", "unit_cost",
				"full_quantity", "supplier_info", "part_number", "updated_by", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return apperr.Persistence("update item", err)
		}

		if err := replaceStockRecordsTx(ctx, tx, itemID, input.Stocks); err != nil {
			return err
		}

		details := history.ItemUpdated{
			Action:       "item updated",
			FieldChanges: diffItemFields(existing, updated),
			StockChanges: diffStocks(oldStocks, input.Stocks),
		}
		if len(details.FieldChanges) == 0 && len(details.StockChanges) == 0 {
			return nil
		}
		return histSvc.Write(ctx, tx, userID, itemID, details)
	})
}

func diffItemFields(before, after models.Item) map[string]history.FieldChange {
	changes := make(map[string]history.FieldChange)
	add := func(field string, oldV, newV any) {
		if oldV != newV {
			changes[field] = history.FieldChange{Old: oldV, New: newV}
		}
	}
	add("name", before.Name, after.Name)
	add("description", before.Description, after.Description)
	add("category_id", before.CategoryID, after.CategoryID)
	add("sku", before.SKU, after.SKU)
	add("unit_cost", before.UnitCost, after.UnitCost)
	add("full_quantity", before.FullQuantity, after.FullQuantity)
	add("supplier_info", before.SupplierInfo, after.SupplierInfo)
	add("part_number", before.PartNumber, after.PartNumber)
	return changes
}

func diffStocks(before []models.ItemStock, after map[int64]StockEntry) map[int64]history.StockChange {
	oldByLoc := make(map[int64]models.ItemStock, len(before))
	for _, s := range before {
		oldByLoc[s.LocationID] = s
	}
	changes := make(map[int64]history.StockChange)
	for locID, entry := range after {
		prev := oldByLoc[locID]
		if prev.Quantity != entry.Quantity || prev.ReorderThreshold != entry.ReorderThreshold {
			changes[locID] = history.StockChange{
				OldQuantity:  prev.Quantity,
				NewQuantity:  entry.Quantity,
				OldThreshold: prev.ReorderThreshold,
				NewThreshold: entry.ReorderThreshold,
			}
		}
	}
	for locID, prev := range oldByLoc {
		if _, kept := after[locID]; !kept && (prev.Quantity != 0 || prev.ReorderThreshold != 0) {
			changes[locID] = history.StockChange{
				OldQuantity:  prev.Quantity,
				OldThreshold: prev.ReorderThreshold,
			}
		}
	}
	return changes
}

// ReplaceStockRecords deletes every stock record for the item and inserts
// one per location where quantity or threshold is non-zero. A missing record
// and a zero/zero record are equivalent states.
func ReplaceStockRecords(ctx context.Context, db *sqlite.DB, itemID int64, stocks map[int64]StockEntry) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return replaceStockRecordsTx(ctx, tx, itemID, stocks)
	})
}

func replaceStockRecordsTx(ctx context.Context, tx bun.Tx, itemID int64, stocks map[int64]StockEntry) error {
	if _, err := tx.NewDelete().Model((*models.ItemStock)(nil)).Where("item_id = ?", itemID).Exec(ctx); err != nil {
		return apperr.Persistence("delete item stocks", err)
	}
	records := make([]models.ItemStock, 0, len(stocks))
	for locID, entry := range stocks {
		if entry.Quantity == 0 && entry.ReorderThreshold == 0 {
			continue
		}
		records = append(records, models.ItemStock{
			ItemID:           itemID,
			LocationID:       locID,
			Quantity:         entry.Quantity,
			ReorderThreshold: entry.ReorderThreshold,
		})
	}
	if len(records) == 0 {
		return nil
	}
	if _, err := tx.NewInsert().Model(&records).Exec(ctx); err != nil {
		return apperr.Persistence("insert item stocks", err)
	}
	return nil
}

// SetItemActive archives or restores an item, with a matching history entry.
func SetItemActive(ctx context.Context, db *sqlite.DB, histSvc *history.Service, userID, itemID int64, active bool) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*models.Item)(nil)).
			Set("is_active = ?", active).
			Set("updated_by = ?", userID).
			Set("updated_at = CURRENT_TIMESTAMP").
			Where("id = ?", itemID).
			Exec(ctx)
		if err != nil {
			return apperr.Persistence("update item", err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return apperr.NotFound("item %d not found", itemID)
		}
		if active {
			return histSvc.Write(ctx, tx, userID, itemID, history.ItemReactivated{Action: "item reactivated"})
		}
		return histSvc.Write(ctx, tx, userID, itemID, history.ItemUpdated{
			Action:       "item deactivated",
			FieldChanges: map[string]history.FieldChange{"is_active": {Old: true, New: false}},
		})
	})
}

// TotalStock sums an item's quantity across all locations. Items with no
// stock records total zero.
func TotalStock(ctx context.Context, db *sqlite.DB, itemID int64) (float64, error) {
	var total float64
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COALESCE(SUM(quantity), 0.0) FROM item_stocks WHERE item_id = ?`, itemID).
			Scan(ctx, &total)
	})
	return total, err
}

// ItemLocationStocks returns an item's per-location stock and threshold list.
func ItemLocationStocks(ctx context.Context, db *sqlite.DB, itemID int64) ([]LocationStockRow, error) {
	rows := make([]LocationStockRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
			SELECT st.item_id AS item_id, st.location_id AS location_id,
			       l.name AS location_name, si.name AS site_name,
			       st.quantity AS quantity, st.reorder_threshold AS reorder_threshold
			FROM item_stocks st
			JOIN locations l ON l.location_id = st.location_id
			JOIN sites si ON si.site_id = l.site_id
			WHERE st.item_id = ?
			ORDER BY si.name ASC, l.name ASC`, itemID).Scan(ctx, &rows)
	})
	return rows, err
}
