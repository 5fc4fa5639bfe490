package inventory

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"invapp/frontend/categories"
	"invapp/frontend/locations"
	"invapp/frontend/shared/context"
	"invapp/frontend/shared/nav"
	"invapp/infrastructure/apperr"
	"invapp/infrastructure/history"
	"invapp/infrastructure/rbac"
	"invapp/infrastructure/sqlite"
)

// InventoryPageQueryHandler renders the item list with filters.
func InventoryPageQueryHandler(db *sqlite.DB, rbacSvc *rbac.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := context.GetSessionFromContext(r.Context())
		q := r.URL.Query()

		filters := Filters{
			Search:       strings.TrimSpace(q.Get("search")),
			Status:       strings.TrimSpace(q.Get("status")),
			ShowInactive: q.Get("show_inactive") != "",
		}
		if id, err := strconv.ParseInt(q.Get("category"), 10, 64); err == nil && id > 0 {
			filters.CategoryID = id
		}
		if id, err := strconv.ParseInt(q.Get("location"), 10, 64); err == nil && id > 0 {
			filters.LocationID = id
		}

		rows, err := ListItems(r.Context(), db, filters)
		if err != nil {
			http.Error(w, "failed to load items", http.StatusInternalServerError)
			return
		}
		cats, err := categories.ActiveCategories(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load categories", http.StatusInternalServerError)
			return
		}
		tree, err := categories.BuildTree(cats)
		if err != nil {
			http.Error(w, "category tree is corrupted: "+err.Error(), http.StatusInternalServerError)
			return
		}
		locs, err := locations.ActiveLocationOptions(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load locations", http.StatusInternalServerError)
			return
		}
		perms, err := rbacSvc.PermissionNames(r.Context(), session.UserID)
		if err != nil {
			http.Error(w, "failed to load permissions", http.StatusInternalServerError)
			return
		}
		_, canManage := perms[rbac.PermManageInventory]

		data := PageData{
			Nav:          nav.BuildTopNavData(session, perms, "/inventory"),
			Rows:         rows,
			CategoryTree: tree,
			Locations:    locs,
			Filters:      filters,
			CanManage:    canManage,
			Status:       strings.TrimSpace(q.Get("status_msg")),
			Error:        strings.TrimSpace(q.Get("error")),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := InventoryPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render inventory page", http.StatusInternalServerError)
			return
		}
	}
}

// CreateItemCommandHandler adds an item with its initial stock records.
func CreateItemCommandHandler(db *sqlite.DB, histSvc *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := context.GetSessionFromContext(r.Context())
		input, err := parseItemForm(r)
		if err != nil {
			redirectError(w, r, err.Error())
			return
		}
		if _, err := CreateItem(r.Context(), db, histSvc, session.UserID, input); err != nil {
			redirectError(w, r, errMessage(err, "failed to add item"))
			return
		}
		http.Redirect(w, r, "/inventory?status_msg="+url.QueryEscape("item added"), http.StatusSeeOther)
	}
}

// UpdateItemCommandHandler edits an item and replaces its stock records.
func UpdateItemCommandHandler(db *sqlite.DB, histSvc *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := context.GetSessionFromContext(r.Context())
		itemID, err := parseItemID(r)
		if err != nil {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}
		input, err := parseItemForm(r)
		if err != nil {
			redirectError(w, r, err.Error())
			return
		}
		if err := UpdateItem(r.Context(), db, histSvc, session.UserID, itemID, input); err != nil {
			redirectError(w, r, errMessage(err, "failed to update item"))
			return
		}
		http.Redirect(w, r, "/inventory?status_msg="+url.QueryEscape("item updated"), http.StatusSeeOther)
	}
}

// SetItemActiveCommandHandler archives or restores an item.
func SetItemActiveCommandHandler(db *sqlite.DB, histSvc *history.Service, active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := context.GetSessionFromContext(r.Context())
		itemID, err := parseItemID(r)
		if err != nil {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}
		if err := SetItemActive(r.Context(), db, histSvc, session.UserID, itemID, active); err != nil {
			redirectError(w, r, errMessage(err, "failed to update item"))
			return
		}
		msg := "item deactivated"
		if active {
			msg = "item reactivated"
		}
		http.Redirect(w, r, "/inventory?status_msg="+url.QueryEscape(msg), http.StatusSeeOther)
	}
}

// TotalStockQueryHandler returns an item's total quantity across locations.
func TotalStockQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := parseItemID(r)
		if err != nil {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}
		total, err := TotalStock(r.Context(), db, itemID)
		if err != nil {
			http.Error(w, "failed to load total stock", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"item_id": itemID, "total_quantity": total})
	}
}

// ItemStocksQueryHandler returns an item's per-location stock and threshold
// list.
func ItemStocksQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := parseItemID(r)
		if err != nil {
			http.Error(w, "invalid item id", http.StatusBadRequest)
			return
		}
		rows, err := ItemLocationStocks(r.Context(), db, itemID)
		if err != nil {
			http.Error(w, "failed to load item stocks", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	}
}

func parseItemID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parseItemForm reads the item fields plus the qty_<locationID> and
// threshold_<locationID> stock inputs.
func parseItemForm(r *http.Request) (ItemInput, error) {
	if err := r.ParseForm(); err != nil {
		return ItemInput{}, apperr.Validation("invalid form")
	}
	categoryID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("category_id")), 10, 64)
	if err != nil || categoryID <= 0 {
		return ItemInput{}, apperr.Validation("category is required")
	}
	input := ItemInput{
		Name:         r.FormValue("name"),
		Description:  r.FormValue("description"),
		CategoryID:   categoryID,
		SKU:          r.FormValue("sku"),
		SupplierInfo: r.FormValue("supplier_info"),
		PartNumber:   r.FormValue("part_number"),
		Stocks:       make(map[int64]StockEntry),
	}
	if v := strings.TrimSpace(r.FormValue("unit_cost")); v != "" {
		cost, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return ItemInput{}, apperr.Validation("invalid unit cost")
		}
		input.UnitCost = cost
	}
	if v := strings.TrimSpace(r.FormValue("full_quantity")); v != "" {
		fq, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return ItemInput{}, apperr.Validation("invalid full quantity")
		}
		input.FullQuantity = fq
	}

	for key := range r.Form {
		locIDStr, isQty := strings.CutPrefix(key, "qty_")
		if !isQty {
			continue
		}
		locID, err := strconv.ParseInt(locIDStr, 10, 64)
		if err != nil || locID <= 0 {
			continue
		}
		entry := StockEntry{}
		if v := strings.TrimSpace(r.FormValue(key)); v != "" {
			qty, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return ItemInput{}, apperr.Validation("invalid quantity for location")
			}
			entry.Quantity = qty
		}
		if v := strings.TrimSpace(r.FormValue("threshold_" + locIDStr)); v != "" {
			threshold, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ItemInput{}, apperr.Validation("invalid threshold for location")
			}
			entry.ReorderThreshold = threshold
		}
		input.Stocks[locID] = entry
	}
	return input, nil
}

func errMessage(err error, fallback string) string {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict, apperr.KindNotFound:
		return err.Error()
	}
	return fallback
}

func redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/inventory?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
