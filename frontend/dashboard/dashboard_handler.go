package dashboard

import (
	"net/http"
	"strings"

	"invapp/frontend/shared/context"
	"invapp/frontend/shared/nav"
	"invapp/infrastructure/rbac"
	"invapp/infrastructure/sqlite"
)

// DashboardPageQueryHandler renders the landing page.
func DashboardPageQueryHandler(db *sqlite.DB, rbacSvc *rbac.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := context.GetSessionFromContext(r.Context())

		summary, err := LoadSummary(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
			return
		}
		perms, err := rbacSvc.PermissionNames(r.Context(), session.UserID)
		if err != nil {
			http.Error(w, "failed to load permissions", http.StatusInternalServerError)
			return
		}

		data := PageData{
			Nav:     nav.BuildTopNavData(session, perms, "/dashboard"),
			Summary: summary,
			Status:  strings.TrimSpace(r.URL.Query().Get("status")),
			Error:   strings.TrimSpace(r.URL.Query().Get("error")),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := DashboardPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
			return
		}
	}
}
