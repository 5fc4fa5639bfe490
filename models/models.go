package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User represents an authenticated app user.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,unique,notnull"`
	Email        string    `bun:"email"`
	PasswordHash string    `bun:"password_hash,notnull"`
	IsActive     bool      `bun:"is_active,notnull,default:true"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Role names a grantable role such as Admin or Staff.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:ro"`

	ID       int64  `bun:"id,pk,autoincrement"`
	RoleName string `bun:"role_name,unique,notnull"`
}

// Permission names a grantable capability such as view_inventory.
type Permission struct {
	bun.BaseModel `bun:"table:permissions,alias:pe"`

	ID             int64  `bun:"id,pk,autoincrement"`
	PermissionName string `bun:"permission_name,unique,notnull"`
}

// Session is used by middleware and auth handlers.
//
// Permissions holds the affirmative permission answers cached for the
// lifetime of this session. It is never persisted.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID          string              `bun:"id,pk"`
	UserID      int64               `bun:"user_id,notnull"`
	User        User                `bun:"rel:belongs-to,join:user_id=id"`
	Permissions map[string]struct{} `bun:"-"`
	ExpiresAt   time.Time           `bun:"expires_at,notnull"`
	CreatedAt   time.Time           `bun:"created_at,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// HasCachedPermission reports whether an affirmative permission answer has
// already been cached on this session.
func (s Session) HasCachedPermission(name string) bool {
	_, ok := s.Permissions[name]
	return ok
}

// Category is a node in the category forest. ParentID is nil for roots.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name,notnull"`
	ParentID    *int64    `bun:"parent_id"`
	Description string    `bun:"description"`
	IsActive    bool      `bun:"is_active,notnull,default:true"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Site is a physical facility grouping one or more locations.
type Site struct {
	bun.BaseModel `bun:"table:sites,alias:si"`

	SiteID      int64     `bun:"site_id,pk,autoincrement"`
	Name        string    `bun:"name,notnull"`
	Address     string    `bun:"address"`
	Description string    `bun:"description"`
	IsActive    bool      `bun:"is_active,notnull,default:true"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Location is a stock-keeping point within a site.
type Location struct {
	bun.BaseModel `bun:"table:locations,alias:l"`

	LocationID  int64     `bun:"location_id,pk,autoincrement"`
	SiteID      int64     `bun:"site_id,notnull"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	IsActive    bool      `bun:"is_active,notnull,default:true"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Item is the item master record.
//
// ReorderThreshold is the legacy item-global threshold kept for backward
// compatibility; per-location thresholds live on ItemStock.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID               int64     `bun:"id,pk,autoincrement"`
	Name             string    `bun:"name,notnull"`
	Description      string    `bun:"description"`
	CategoryID       int64     `bun:"category_id,notnull"`
	SKU              string    `bun:"sku"`
	UnitCost         float64   `bun:"unit_cost,notnull,default:0"`
	ReorderThreshold int64     `bun:"reorder_threshold,notnull,default:0"`
	FullQuantity     int64     `bun:"full_quantity,notnull,default:0"`
	SupplierInfo     string    `bun:"supplier_info"`
	PartNumber       string    `bun:"part_number"`
	IsActive         bool      `bun:"is_active,notnull,default:true"`
	CreatedBy        int64     `bun:"created_by"`
	UpdatedBy        int64     `bun:"updated_by"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt        time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// ItemStock is the per item/location stock ledger record. The pair
// (item_id, location_id) is unique; a missing row means quantity 0 with
// threshold 0.
type ItemStock struct {
	bun.BaseModel `bun:"table:item_stocks,alias:st"`

	ID               int64      `bun:"id,pk,autoincrement"`
	ItemID           int64      `bun:"item_id,notnull"`
	LocationID       int64      `bun:"location_id,notnull"`
	Quantity         float64    `bun:"quantity,notnull,default:0"`
	ReorderThreshold int64      `bun:"reorder_threshold,notnull,default:0"`
	LastAdjustedAt   *time.Time `bun:"last_adjusted_at"`
}

// Request statuses. Any status may be set to any other by an approver;
// completed/cancelled/rejected are terminal by convention only.
const (
	RequestPending           = "pending"
	RequestApproved          = "approved"
	RequestPartiallyApproved = "partially_approved"
	RequestRejected          = "rejected"
	RequestInProgress        = "in_progress"
	RequestCompleted         = "completed"
	RequestCancelled         = "cancelled"
)

// Request priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ValidRequestStatus reports whether status is one of the seven recognized
// request statuses.
func ValidRequestStatus(status string) bool {
	switch status {
	case RequestPending, RequestApproved, RequestPartiallyApproved,
		RequestRejected, RequestInProgress, RequestCompleted, RequestCancelled:
		return true
	default:
		return false
	}
}

// ValidRequestPriority reports whether priority is one of the four
// recognized priorities.
func ValidRequestPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// ItemRequest is a workflow record asking for quantity of an item to be
// moved or allocated to a location.
type ItemRequest struct {
	bun.BaseModel `bun:"table:item_requests,alias:r"`

	ID                    int64      `bun:"id,pk,autoincrement"`
	ItemID                int64      `bun:"item_id,notnull"`
	RequestedBy           int64      `bun:"requested_by,notnull"`
	RequestedFromLocation *int64     `bun:"requested_from_location"`
	RequestedToLocation   *int64     `bun:"requested_to_location"`
	QuantityRequested     float64    `bun:"quantity_requested,notnull"`
	QuantityApproved      *float64   `bun:"quantity_approved"`
	Priority              string     `bun:"priority,notnull,default:'normal'"`
	Status                string     `bun:"status,notnull,default:'pending'"`
	RequestReason         string     `bun:"request_reason"`
	NeededByDate          *time.Time `bun:"needed_by_date"`
	RequestedDate         time.Time  `bun:"requested_date,notnull,default:current_timestamp"`
	ApprovedBy            *int64     `bun:"approved_by"`
	ApprovedDate          *time.Time `bun:"approved_date"`
	CompletedBy           *int64     `bun:"completed_by"`
	CompletedDate         *time.Time `bun:"completed_date"`
	ManagerNotes          string     `bun:"manager_notes"`
}

// ItemHistory is the append-only audit trail of item mutations. Rows are
// written in the same transaction as the mutation they describe and are
// never updated or deleted.
type ItemHistory struct {
	bun.BaseModel `bun:"table:item_history,alias:h"`

	ID          int64     `bun:"id,pk,autoincrement"`
	ItemID      int64     `bun:"item_id,notnull"`
	ActionType  string    `bun:"action_type,notnull"`
	Details     string    `bun:"details,notnull"`
	PerformedBy int64     `bun:"performed_by,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
