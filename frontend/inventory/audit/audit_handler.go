package audit

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"invapp/frontend/locations"
	"invapp/frontend/shared/context"
	"invapp/frontend/shared/nav"
	"invapp/infrastructure/apperr"
	"invapp/infrastructure/history"
	"invapp/infrastructure/rbac"
	"invapp/infrastructure/sqlite"
)

// AuditPageQueryHandler renders the stock audit screen for one location.
func AuditPageQueryHandler(db *sqlite.DB, rbacSvc *rbac.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := context.GetSessionFromContext(r.Context())

		var selected int64
		if id, err := strconv.ParseInt(r.URL.Query().Get("location"), 10, 64); err == nil && id > 0 {
			selected = id
		}

		opts, err := locations.ActiveLocationOptions(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load locations", http.StatusInternalServerError)
			return
		}
		var rows []LocationItemRow
		if selected > 0 {
			rows, err = LocationInventory(r.Context(), db, selected)
			if err != nil {
				http.Error(w, "failed to load location inventory", http.StatusInternalServerError)
				return
			}
		}
		perms, err := rbacSvc.PermissionNames(r.Context(), session.UserID)
		if err != nil {
			http.Error(w, "failed to load permissions", http.StatusInternalServerError)
			return
		}

		data := PageData{
			Nav:              nav.BuildTopNavData(session, perms, "/inventory/audit"),
			Locations:        opts,
			SelectedLocation: selected,
			Rows:             rows,
			Status:           strings.TrimSpace(r.URL.Query().Get("status")),
			Error:            strings.TrimSpace(r.URL.Query().Get("error")),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := AuditPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render audit page", http.StatusInternalServerError)
			return
		}
	}
}

// AdjustStockCommandHandler applies an absolute quantity adjustment.
func AdjustStockCommandHandler(db *sqlite.DB, histSvc *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := context.GetSessionFromContext(r.Context())
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, 0, "invalid form")
			return
		}
		locationID, _ := strconv.ParseInt(r.FormValue("location"), 10, 64)
		itemID, err := strconv.ParseInt(r.FormValue("item_id"), 10, 64)
		if err != nil || itemID <= 0 || locationID <= 0 {
			redirectError(w, r, locationID, "invalid item or location")
			return
		}
		qty, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("new_quantity")), 64)
		if err != nil {
			redirectError(w, r, locationID, "invalid quantity")
			return
		}
		if err := AdjustStock(r.Context(), db, histSvc, session.UserID, itemID, locationID, qty, r.FormValue("reason")); err != nil {
			redirectError(w, r, locationID, errMessage(err, "failed to adjust stock"))
			return
		}
		redirectStatus(w, r, locationID, "stock adjusted")
	}
}

// RequestItemCommandHandler files an item request targeting the audited
// location.
func RequestItemCommandHandler(db *sqlite.DB, histSvc *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := context.GetSessionFromContext(r.Context())
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, 0, "invalid form")
			return
		}
		locationID, _ := strconv.ParseInt(r.FormValue("location"), 10, 64)
		itemID, err := strconv.ParseInt(r.FormValue("item_id"), 10, 64)
		if err != nil || itemID <= 0 {
			redirectError(w, r, locationID, "invalid item")
			return
		}
		qty, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("quantity")), 64)
		if err != nil {
			redirectError(w, r, locationID, "invalid quantity")
			return
		}

		input := RequestInput{
			ItemID:            itemID,
			QuantityRequested: qty,
			Priority:          r.FormValue("priority"),
			Reason:            r.FormValue("reason"),
			NeededBy:          r.FormValue("needed_by"),
		}
		if locationID > 0 {
			input.ToLocationID = &locationID
		}
		if _, err := SubmitRequest(r.Context(), db, histSvc, session.UserID, input); err != nil {
			redirectError(w, r, locationID, errMessage(err, "failed to submit request"))
			return
		}
		redirectStatus(w, r, locationID, "request submitted")
	}
}

func auditURL(locationID int64, key, msg string) string {
	u := "/inventory/audit"
	params := url.Values{}
	if locationID > 0 {
		params.Set("location", strconv.FormatInt(locationID, 10))
	}
	params.Set(key, msg)
	return u + "?" + params.Encode()
}

func redirectStatus(w http.ResponseWriter, r *http.Request, locationID int64, msg string) {
	http.Redirect(w, r, auditURL(locationID, "status", msg), http.StatusSeeOther)
}

func redirectError(w http.ResponseWriter, r *http.Request, locationID int64, msg string) {
	http.Redirect(w, r, auditURL(locationID, "error", msg), http.StatusSeeOther)
}

func errMessage(err error, fallback string) string {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict, apperr.KindNotFound:
		return err.Error()
	}
	return fallback
}
