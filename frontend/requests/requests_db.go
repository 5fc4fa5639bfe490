package requests

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"invapp/infrastructure/apperr"
	"invapp/infrastructure/history"
	"invapp/infrastructure/sqlite"
	"invapp/models"
)

// RequestRow is an item request joined with its display fields.
type RequestRow struct {
	ID                int64      `bun:"id"`
	ItemID            int64      `bun:"item_id"`
	ItemName          string     `bun:"item_name"`
	SKU               string     `bun:"sku"`
	RequesterName     string     `bun:"requester_name"`
	ApproverName      string     `bun:"approver_name"`
	ToLocationLabel   string     `bun:"to_location_label"`
	QuantityRequested float64    `bun:"quantity_requested"`
	QuantityApproved  *float64   `bun:"quantity_approved"`
	CurrentStock      float64    `bun:"current_stock"`
	Priority          string     `bun:"priority"`
	Status            string     `bun:"status"`
	RequestReason     string     `bun:"request_reason"`
	ManagerNotes      string     `bun:"manager_notes"`
	NeededByDate      *time.Time `bun:"needed_by_date"`
	RequestedDate     time.Time  `bun:"requested_date"`
}

// Filters narrows the request list. Date bounds apply to requested_date and
// are inclusive.
type Filters struct {
	Status   string
	Priority string
	Search   string
	DateFrom time.Time
	DateTo   time.Time
}

// ListRequests returns requests matching f, most urgent first and oldest
// first within a priority. Search matches item name, reason and requester
// username.
func ListRequests(ctx context.Context, db *sqlite.DB, f Filters) ([]RequestRow, error) {
	rows := make([]RequestRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().
			TableExpr("item_requests AS r").
			ColumnExpr("r.id, r.item_id, i.name AS item_name, i.sku AS sku").
			ColumnExpr("u.username AS requester_name").
			ColumnExpr("COALESCE(a.username, '') AS approver_name").
			ColumnExpr("COALESCE(si.name || ' - ' || l.name, '') AS to_location_label").
			ColumnExpr("r.quantity_requested, r.quantity_approved").
			ColumnExpr("COALESCE((SELECT SUM(st.quantity) FROM item_stocks st WHERE st.item_id = r.item_id), 0.0) AS current_stock").
			ColumnExpr("r.priority, r.status, r.request_reason, r.manager_notes").
			ColumnExpr("r.needed_by_date, r.requested_date").
			Join("JOIN items i ON i.id = r.item_id").
			Join("JOIN users u ON u.id = r.requested_by").
			Join("LEFT JOIN users a ON a.id = r.approved_by").
			Join("LEFT JOIN locations l ON l.location_id = r.requested_to_location").
			Join("LEFT JOIN sites si ON si.site_id = l.site_id")

		if f.Status != "" {
			q = q.Where("r.status = ?", f.Status)
		}
		if f.Priority != "" {
			q = q.Where("r.priority = ?", f.Priority)
		}
		if s := strings.TrimSpace(f.Search); s != "" {
			like := "%" + s + "%"
			q = q.Where("(i.name LIKE ? OR r.request_reason LIKE ? OR u.username LIKE ?)", like, like, like)
		}
		if !f.DateFrom.IsZero() {
			q = q.Where("r.requested_date >= ?", f.DateFrom)
		}
		if !f.DateTo.IsZero() {
			q = q.Where("r.requested_date < ?", f.DateTo.AddDate(0, 0, 1))
		}

		q = q.OrderExpr(`CASE r.priority
			WHEN 'urgent' THEN 0
			WHEN 'high' THEN 1
			WHEN 'normal' THEN 2
			ELSE 3
		END, r.requested_date ASC`)
		return q.Scan(ctx, &rows)
	})
	return rows, err
}

// StatusUpdate carries the request status form fields. QuantityApproved is
// required when the new status approves the request.
type StatusUpdate struct {
	NewStatus        string
	NewPriority      string
	QuantityApproved *float64
	ManagerNotes     string
}

// UpdateRequestStatus transitions a request to a new status with the §4.4
// quantity rules, stamps approver or completer fields as the resulting
// status demands, updates priority only on change, and appends the history
// entry, all in one transaction.
//
// Setting status approved with a quantity below the requested amount is not
// an error: the status is silently corrected to partially_approved.
func UpdateRequestStatus(ctx context.Context, db *sqlite.DB, histSvc *history.Service, approverID, requestID int64, upd StatusUpdate) error {
	if !models.ValidRequestStatus(upd.NewStatus) {
		return apperr.Validation("unrecognized request status %q", upd.NewStatus)
	}
	if upd.NewPriority != "" && !models.ValidRequestPriority(upd.NewPriority) {
		return apperr.Validation("unrecognized request priority %q", upd.NewPriority)
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var req models.ItemRequest
		err := tx.NewSelect().Model(&req).Where("r.id = ?", requestID).Limit(1).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("request %d not found", requestID)
		}
		if err != nil {
			return apperr.Persistence("load request", err)
		}

		status := upd.NewStatus
		if status == models.RequestApproved || status == models.RequestPartiallyApproved {
			if upd.QuantityApproved == nil {
				return apperr.Validation("approved quantity is required")
			}
			qty := *upd.QuantityApproved
			if qty < 0 {
				return apperr.Validation("approved quantity cannot be negative")
			}
			if qty > req.QuantityRequested {
				return apperr.Validation("approved quantity cannot exceed the requested amount")
			}
			if status == models.RequestPartiallyApproved && qty >= req.QuantityRequested {
				return apperr.Validation("partial approval must be for less than the requested amount")
			}
			if status == models.RequestApproved && qty != req.QuantityRequested {
				status = models.RequestPartiallyApproved
			}
		}

		now := time.Now()
		q := tx.NewUpdate().Model((*models.ItemRequest)(nil)).
			Set("status = ?", status).
			Set("manager_notes = ?", strings.TrimSpace(upd.ManagerNotes)).
			Where("id = ?", requestID)

		switch status {
		case models.RequestApproved, models.RequestPartiallyApproved:
			q = q.Set("quantity_approved = ?", *upd.QuantityApproved).
				Set("approved_by = ?", approverID).
				Set("approved_date = ?", now)
		case models.RequestRejected:
			q = q.Set("approved_by = ?", approverID).
				Set("approved_date = ?", now)
		case models.RequestCompleted:
			q = q.Set("completed_by = ?", approverID).
				Set("completed_date = ?", now)
		}
		if upd.NewPriority != "" && upd.NewPriority != req.Priority {
			q = q.Set("priority = ?", upd.NewPriority)
		}
		if _, err := q.Exec(ctx); err != nil {
			return apperr.Persistence("update request", err)
		}

		return histSvc.Write(ctx, tx, approverID, req.ItemID, history.RequestStatusChanged{
			Action:           "request status updated",
			RequestID:        requestID,
			OldStatus:        req.Status,
			NewStatus:        status,
			QuantityApproved: upd.QuantityApproved,
			ManagerNotes:     strings.TrimSpace(upd.ManagerNotes),
		})
	})
}

// LoadRequest fetches one request by id.
func LoadRequest(ctx context.Context, db *sqlite.DB, requestID int64) (models.ItemRequest, error) {
	var req models.ItemRequest
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&req).Where("r.id = ?", requestID).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.ItemRequest{}, apperr.NotFound("request %d not found", requestID)
	}
	return req, err
}

// StatusColor maps a request status to its badge color.
func StatusColor(status string) string {
	switch status {
	case models.RequestPending:
		return "#f59e0b"
	case models.RequestApproved:
		return "#16a34a"
	case models.RequestPartiallyApproved:
		return "#0d9488"
	case models.RequestRejected:
		return "#dc2626"
	case models.RequestInProgress:
		return "#2563eb"
	case models.RequestCompleted:
		return "#4b5563"
	case models.RequestCancelled:
		return "#9ca3af"
	default:
		return "#6b7280"
	}
}

// PriorityColor maps a request priority to its badge color.
func PriorityColor(priority string) string {
	switch priority {
	case models.PriorityUrgent:
		return "#dc2626"
	case models.PriorityHigh:
		return "#ea580c"
	case models.PriorityNormal:
		return "#2563eb"
	case models.PriorityLow:
		return "#6b7280"
	default:
		return "#6b7280"
	}
}
