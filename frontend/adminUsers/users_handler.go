package adminusers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"invapp/frontend/shared/context"
	"invapp/frontend/shared/nav"
	"invapp/infrastructure/apperr"
	"invapp/infrastructure/cache"
	"invapp/infrastructure/rbac"
	"invapp/infrastructure/sqlite"
)

// UsersPageQueryHandler renders the user administration screen.
func UsersPageQueryHandler(db *sqlite.DB, rbacSvc *rbac.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := context.GetSessionFromContext(r.Context())

		users, err := ListUsers(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load users", http.StatusInternalServerError)
			return
		}
		roles, err := ListRoles(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load roles", http.StatusInternalServerError)
			return
		}
		perms, err := rbacSvc.PermissionNames(r.Context(), session.UserID)
		if err != nil {
			http.Error(w, "failed to load permissions", http.StatusInternalServerError)
			return
		}

		options := make([]RoleOption, 0, len(roles))
		for _, role := range roles {
			options = append(options, RoleOption{ID: role.ID, Name: role.RoleName})
		}

		data := PageData{
			Nav:    nav.BuildTopNavData(session, perms, "/users"),
			Users:  users,
			Roles:  options,
			Status: strings.TrimSpace(r.URL.Query().Get("status")),
			Error:  strings.TrimSpace(r.URL.Query().Get("error")),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := UsersPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render users page", http.StatusInternalServerError)
			return
		}
	}
}

// AddUserCommandHandler creates an account from the add-user form.
func AddUserCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, "invalid form")
			return
		}
		roleID, _ := strconv.ParseInt(r.FormValue("role_id"), 10, 64)
		in := AddUserInput{
			Username: r.FormValue("username"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			RoleID:   roleID,
		}
		if err := AddUser(r.Context(), db, in); err != nil {
			redirectError(w, r, errMessage(err, "failed to add user"))
			return
		}
		http.Redirect(w, r, "/users?status="+url.QueryEscape("user added"), http.StatusSeeOther)
	}
}

// EditUserCommandHandler updates an account from the edit form. Deactivating
// an account also evicts its cached sessions so access ends immediately.
func EditUserCommandHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, "invalid form")
			return
		}
		roleID, _ := strconv.ParseInt(r.FormValue("role_id"), 10, 64)
		in := EditUserInput{
			ID:       id,
			Username: r.FormValue("username"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			RoleID:   roleID,
			IsActive: r.FormValue("is_active") != "",
		}
		if err := EditUser(r.Context(), db, in); err != nil {
			redirectError(w, r, errMessage(err, "failed to update user"))
			return
		}
		if !in.IsActive {
			sessionCache.DeleteSessionsByUserID(id)
		}
		http.Redirect(w, r, "/users?status="+url.QueryEscape("user updated"), http.StatusSeeOther)
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
	http.Redirect(w, r, "/users?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
