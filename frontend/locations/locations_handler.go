package locations

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"invapp/frontend/shared/context"
	"invapp/frontend/shared/nav"
	"invapp/infrastructure/apperr"
	"invapp/infrastructure/rbac"
	"invapp/infrastructure/sqlite"
)

// LocationsPageQueryHandler renders the sites and locations screen.
func LocationsPageQueryHandler(db *sqlite.DB, rbacSvc *rbac.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := context.GetSessionFromContext(r.Context())
		showInactive := r.URL.Query().Get("show_inactive") != ""

		groups, err := GroupedLocations(r.Context(), db, showInactive)
		if err != nil {
			http.Error(w, "failed to load locations", http.StatusInternalServerError)
			return
		}
		perms, err := rbacSvc.PermissionNames(r.Context(), session.UserID)
		if err != nil {
			http.Error(w, "failed to load permissions", http.StatusInternalServerError)
			return
		}

		data := PageData{
			Nav:          nav.BuildTopNavData(session, perms, "/locations"),
			Groups:       groups,
			ShowInactive: showInactive,
			Status:       strings.TrimSpace(r.URL.Query().Get("status")),
			Error:        strings.TrimSpace(r.URL.Query().Get("error")),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := LocationsPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render locations page", http.StatusInternalServerError)
			return
		}
	}
}

// CreateSiteCommandHandler adds a site.
func CreateSiteCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, "invalid form")
			return
		}
		if err := CreateSite(r.Context(), db, r.FormValue("name"), r.FormValue("address"), r.FormValue("description")); err != nil {
			redirectError(w, r, errMessage(err, "failed to add site"))
			return
		}
		http.Redirect(w, r, "/locations?status="+url.QueryEscape("site added"), http.StatusSeeOther)
	}
}

// UpdateSiteCommandHandler edits a site.
func UpdateSiteCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid site id", http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, "invalid form")
			return
		}
		if err := UpdateSite(r.Context(), db, id, r.FormValue("name"), r.FormValue("address"), r.FormValue("description")); err != nil {
			redirectError(w, r, errMessage(err, "failed to update site"))
			return
		}
		http.Redirect(w, r, "/locations?status="+url.QueryEscape("site updated"), http.StatusSeeOther)
	}
}

// DeactivateSiteCommandHandler archives a site and its locations.
func DeactivateSiteCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid site id", http.StatusBadRequest)
			return
		}
		if err := DeactivateSite(r.Context(), db, id); err != nil {
			redirectError(w, r, errMessage(err, "failed to deactivate site"))
			return
		}
		http.Redirect(w, r, "/locations?status="+url.QueryEscape("site deactivated"), http.StatusSeeOther)
	}
}

// ReactivateSiteCommandHandler restores a site.
func ReactivateSiteCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid site id", http.StatusBadRequest)
			return
		}
		if err := ReactivateSite(r.Context(), db, id); err != nil {
			redirectError(w, r, errMessage(err, "failed to reactivate site"))
			return
		}
		http.Redirect(w, r, "/locations?show_inactive=1&status="+url.QueryEscape("site reactivated"), http.StatusSeeOther)
	}
}

// CreateLocationCommandHandler adds a location to a site.
func CreateLocationCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, "invalid form")
			return
		}
		siteID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("site_id")), 10, 64)
		if err != nil || siteID <= 0 {
			redirectError(w, r, "invalid site")
			return
		}
		if err := CreateLocation(r.Context(), db, siteID, r.FormValue("name"), r.FormValue("description")); err != nil {
			redirectError(w, r, errMessage(err, "failed to add location"))
			return
		}
		http.Redirect(w, r, "/locations?status="+url.QueryEscape("location added"), http.StatusSeeOther)
	}
}

// UpdateLocationCommandHandler edits a location.
func UpdateLocationCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid location id", http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, "invalid form")
			return
		}
		if err := UpdateLocation(r.Context(), db, id, r.FormValue("name"), r.FormValue("description")); err != nil {
			redirectError(w, r, errMessage(err, "failed to update location"))
			return
		}
		http.Redirect(w, r, "/locations?status="+url.QueryEscape("location updated"), http.StatusSeeOther)
	}
}

// SetLocationActiveCommandHandler archives or restores a location.
func SetLocationActiveCommandHandler(db *sqlite.DB, active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r)
		if err != nil {
			http.Error(w, "invalid location id", http.StatusBadRequest)
			return
		}
		if err := SetLocationActive(r.Context(), db, id, active); err != nil {
			redirectError(w, r, errMessage(err, "failed to update location"))
			return
		}
		msg := "location deactivated"
		if active {
			msg = "location reactivated"
		}
		http.Redirect(w, r, "/locations?status="+url.QueryEscape(msg), http.StatusSeeOther)
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func errMessage(err error, fallback string) string {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict, apperr.KindNotFound:
		return err.Error()
	}
	return fallback
}

func redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/locations?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
