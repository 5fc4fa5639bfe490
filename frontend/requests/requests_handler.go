package requests

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"invapp/frontend/shared/context"
	"invapp/frontend/shared/nav"
	"invapp/infrastructure/apperr"
	"invapp/infrastructure/history"
	"invapp/infrastructure/rbac"
	"invapp/infrastructure/sqlite"
)

// RequestsPageQueryHandler renders the request queue. The requested-date
// range defaults to the last month when neither bound is given.
func RequestsPageQueryHandler(db *sqlite.DB, rbacSvc *rbac.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := context.GetSessionFromContext(r.Context())
		q := r.URL.Query()

		filters := Filters{
			Status:   strings.TrimSpace(q.Get("filter_status")),
			Priority: strings.TrimSpace(q.Get("filter_priority")),
			Search:   strings.TrimSpace(q.Get("search")),
		}
		fromStr := strings.TrimSpace(q.Get("date_from"))
		toStr := strings.TrimSpace(q.Get("date_to"))
		dateErr := ""
		if fromStr == "" && toStr == "" {
			filters.DateFrom = time.Now().AddDate(0, -1, 0)
			fromStr = filters.DateFrom.Format("2006-01-02")
		} else {
			var err error
			filters.DateFrom, filters.DateTo, err = parseDateRange(fromStr, toStr)
			if err != nil {
				dateErr = err.Error()
			}
		}

		rows, err := ListRequests(r.Context(), db, filters)
		if err != nil {
			http.Error(w, "failed to load requests", http.StatusInternalServerError)
			return
		}
		perms, err := rbacSvc.PermissionNames(r.Context(), session.UserID)
		if err != nil {
			http.Error(w, "failed to load permissions", http.StatusInternalServerError)
			return
		}

		data := PageData{
			Nav:      nav.BuildTopNavData(session, perms, "/requests"),
			Rows:     rows,
			Filters:  filters,
			DateFrom: fromStr,
			DateTo:   toStr,
			Status:   strings.TrimSpace(q.Get("status")),
			Error:    strings.TrimSpace(q.Get("error")),
		}
		if data.Error == "" {
			data.Error = dateErr
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := RequestsPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render requests page", http.StatusInternalServerError)
			return
		}
	}
}

// parseDateRange validates the requested-date filter bounds.
// Either bound may be empty.
func parseDateRange(fromStr, toStr string) (from, to time.Time, err error) {
	if fromStr != "" {
		if from, err = time.Parse("2006-01-02", fromStr); err != nil {
			return from, to, apperr.Validation("invalid from date %q; use YYYY-MM-DD", fromStr)
		}
	}
	if toStr != "" {
		if to, err = time.Parse("2006-01-02", toStr); err != nil {
			return from, to, apperr.Validation("invalid to date %q; use YYYY-MM-DD", toStr)
		}
	}
	return from, to, nil
}

// UpdateRequestStatusCommandHandler transitions a request's status.
func UpdateRequestStatusCommandHandler(db *sqlite.DB, histSvc *history.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := context.GetSessionFromContext(r.Context())
		requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid request id", http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, "invalid form")
			return
		}

		upd := StatusUpdate{
			NewStatus:    strings.TrimSpace(r.FormValue("new_status")),
			NewPriority:  strings.TrimSpace(r.FormValue("new_priority")),
			ManagerNotes: r.FormValue("manager_notes"),
		}
		if v := strings.TrimSpace(r.FormValue("quantity_approved")); v != "" {
			qty, err := strconv.ParseFloat(v, 64)
			if err != nil {
				redirectError(w, r, "invalid approved quantity")
				return
			}
			upd.QuantityApproved = &qty
		}

		if err := UpdateRequestStatus(r.Context(), db, histSvc, session.UserID, requestID, upd); err != nil {
			redirectError(w, r, errMessage(err, "failed to update request"))
			return
		}
		http.Redirect(w, r, "/requests?status="+url.QueryEscape("request updated"), http.StatusSeeOther)
	}
}

func errMessage(err error, fallback string) string {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict, apperr.KindNotFound:
		return err.Error()
	}
	return fallback
}

func redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/requests?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
