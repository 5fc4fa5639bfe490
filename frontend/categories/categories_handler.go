package categories

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

// CategoriesPageQueryHandler renders the category management screen.
func CategoriesPageQueryHandler(db *sqlite.DB, rbacSvc *rbac.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := context.GetSessionFromContext(r.Context())
		showInactive := r.URL.Query().Get("show_inactive") != ""

		cats, err := ListCategories(r.Context(), db, showInactive)
		if err != nil {
			http.Error(w, "failed to load categories", http.StatusInternalServerError)
			return
		}
		tree, err := BuildTree(cats)
		if err != nil {
			http.Error(w, "category tree is corrupted: "+err.Error(), http.StatusInternalServerError)
			return
		}
		parents, err := ActiveCategories(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load categories", http.StatusInternalServerError)
			return
		}
		inactive, err := InactiveCount(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load categories", http.StatusInternalServerError)
			return
		}

		perms, err := rbacSvc.PermissionNames(r.Context(), session.UserID)
		if err != nil {
			http.Error(w, "failed to load permissions", http.StatusInternalServerError)
			return
		}

		data := PageData{
			Nav:           nav.BuildTopNavData(session, perms, "/categories"),
			Tree:          tree,
			ParentOptions: parents,
			ShowInactive:  showInactive,
			InactiveCount: inactive,
			Status:        strings.TrimSpace(r.URL.Query().Get("status")),
			Error:         strings.TrimSpace(r.URL.Query().Get("error")),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := CategoriesPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render categories page", http.StatusInternalServerError)
			return
		}
	}
}

// CreateCategoryCommandHandler adds a category.
func CreateCategoryCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, "invalid form")
			return
		}
		parentID, err := parseOptionalID(r.FormValue("parent_id"))
		if err != nil {
			redirectError(w, r, "invalid parent category")
			return
		}
		if err := CreateCategory(r.Context(), db, r.FormValue("name"), parentID, r.FormValue("description")); err != nil {
			redirectError(w, r, errMessage(err, "failed to add category"))
			return
		}
		http.Redirect(w, r, "/categories?status="+url.QueryEscape("category added"), http.StatusSeeOther)
	}
}

// UpdateCategoryCommandHandler edits a category.
func UpdateCategoryCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseCategoryID(r)
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, "invalid form")
			return
		}
		parentID, err := parseOptionalID(r.FormValue("parent_id"))
		if err != nil {
			redirectError(w, r, "invalid parent category")
			return
		}
		if err := UpdateCategory(r.Context(), db, id, r.FormValue("name"), parentID, r.FormValue("description")); err != nil {
			redirectError(w, r, errMessage(err, "failed to update category"))
			return
		}
		http.Redirect(w, r, "/categories?status="+url.QueryEscape("category updated"), http.StatusSeeOther)
	}
}

// DeactivateCategoryCommandHandler archives a category and its direct children.
func DeactivateCategoryCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseCategoryID(r)
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		if err := DeactivateCategory(r.Context(), db, id); err != nil {
			redirectError(w, r, errMessage(err, "failed to deactivate category"))
			return
		}
		http.Redirect(w, r, "/categories?status="+url.QueryEscape("category deactivated"), http.StatusSeeOther)
	}
}

// ReactivateCategoryCommandHandler restores an archived category.
func ReactivateCategoryCommandHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseCategoryID(r)
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		if err := ReactivateCategory(r.Context(), db, id); err != nil {
			redirectError(w, r, errMessage(err, "failed to reactivate category"))
			return
		}
		http.Redirect(w, r, "/categories?show_inactive=1&status="+url.QueryEscape("category reactivated"), http.StatusSeeOther)
	}
}

func parseCategoryID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func parseOptionalID(v string) (*int64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, strconv.ErrRange
	}
	return &id, nil
}

// errMessage surfaces user-caused errors verbatim and hides everything else
// behind a generic message.
func errMessage(err error, fallback string) string {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict, apperr.KindNotFound:
		return err.Error()
	}
	return fallback
}

func redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/categories?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
