package exports

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/uptrace/bun"

	"invapp/infrastructure/sqlite"
)

// writeStockCSV writes one row per stock record with its item and location
// context, active items only.
func writeStockCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"item", "sku", "part_number", "category", "site", "location", "quantity", "reorder_threshold"}
	if err := writer.Write(header); err != nil {
		return err
	}

	type row struct {
		Item             string  `bun:"item"`
		SKU              string  `bun:"sku"`
		PartNumber       string  `bun:"part_number"`
		Category         string  `bun:"category"`
		Site             string  `bun:"site"`
		Location         string  `bun:"location"`
		Quantity         float64 `bun:"quantity"`
		ReorderThreshold int64   `bun:"reorder_threshold"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT i.name AS item, i.sku, i.part_number, c.name AS category,
       si.name AS site, l.name AS location,
       st.quantity, st.reorder_threshold
FROM item_stocks st
JOIN items i ON i.id = st.item_id
JOIN categories c ON c.id = i.category_id
JOIN locations l ON l.location_id = st.location_id
JOIN sites si ON si.site_id = l.site_id
WHERE i.is_active = 1
ORDER BY i.name ASC, si.name ASC, l.name ASC`).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.Item,
			r.SKU,
			r.PartNumber,
			r.Category,
			r.Site,
			r.Location,
			strconv.FormatFloat(r.Quantity, 'f', -1, 64),
			strconv.FormatInt(r.ReorderThreshold, 10),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

// writeRequestsCSV writes every item request with requester and approver
// names resolved.
func writeRequestsCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"id", "item", "sku", "requested_by", "quantity_requested", "quantity_approved", "priority", "status", "reason", "needed_by", "requested", "approved_by", "manager_notes"}
	if err := writer.Write(header); err != nil {
		return err
	}

	type row struct {
		ID                int64   `bun:"id"`
		Item              string  `bun:"item"`
		SKU               string  `bun:"sku"`
		RequestedBy       string  `bun:"requested_by"`
		QuantityRequested float64 `bun:"quantity_requested"`
		QuantityApproved  string  `bun:"quantity_approved"`
		Priority          string  `bun:"priority"`
		Status            string  `bun:"status"`
		Reason            string  `bun:"reason"`
		NeededBy          string  `bun:"needed_by"`
		Requested         string  `bun:"requested"`
		ApprovedBy        string  `bun:"approved_by"`
		ManagerNotes      string  `bun:"manager_notes"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT r.id, i.name AS item, i.sku,
       u.username AS requested_by,
       r.quantity_requested,
       COALESCE(CAST(r.quantity_approved AS TEXT), '') AS quantity_approved,
       r.priority, r.status, r.request_reason AS reason,
       COALESCE(strftime('%d/%m/%Y', r.needed_by_date), '') AS needed_by,
       strftime('%d/%m/%Y %H:%M', r.requested_date) AS requested,
       COALESCE(a.username, '') AS approved_by,
       r.manager_notes
FROM item_requests r
JOIN items i ON i.id = r.item_id
JOIN users u ON u.id = r.requested_by
LEFT JOIN users a ON a.id = r.approved_by
ORDER BY r.requested_date ASC, r.id ASC`).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			strconv.FormatInt(r.ID, 10),
			r.Item,
			r.SKU,
			r.RequestedBy,
			strconv.FormatFloat(r.QuantityRequested, 'f', -1, 64),
			r.QuantityApproved,
			r.Priority,
			r.Status,
			r.Reason,
			r.NeededBy,
			r.Requested,
			r.ApprovedBy,
			r.ManagerNotes,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}
