// Package accessdenied renders the page shown when a permission check
// turns a user away from a route.
package accessdenied

import (
	"context"
	stdhtml "html"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	sessioncontext "invapp/frontend/shared/context"
	"invapp/frontend/shared/html"
	"invapp/frontend/shared/nav"
	"invapp/infrastructure/rbac"
)

// AccessDeniedPageQueryHandler renders the access-denied screen with the
// user's nav intact so they can get back to somewhere useful.
func AccessDeniedPageQueryHandler(rbacSvc *rbac.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())

		perms, err := rbacSvc.PermissionNames(r.Context(), session.UserID)
		if err != nil {
			http.Error(w, "failed to load permissions", http.StatusInternalServerError)
			return
		}

		from := strings.TrimSpace(r.URL.Query().Get("from"))
		navData := nav.BuildTopNavData(session, perms, "")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := accessDeniedPage(navData, from).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render page", http.StatusInternalServerError)
			return
		}
	}
}

func accessDeniedPage(navData nav.TopNavData, from string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="flex flex-col items-center mt-20 gap-3">`)
		b.WriteString(`<h1 class="text-3xl font-semibold">Access denied</h1>`)
		b.WriteString(`<p class="opacity-70">You do not have permission to view`)
		if from != "" {
			b.WriteString(` <code>`)
			b.WriteString(stdhtml.EscapeString(from))
			b.WriteString(`</code>`)
		} else {
			b.WriteString(` this page`)
		}
		b.WriteString(`.</p>`)
		b.WriteString(`<a class="btn btn-primary" href="/dashboard">Back to dashboard</a>`)
		b.WriteString(`</div>`)

		_, err := io.WriteString(w, html.RenderLayout("Access denied", nav.Render(navData), b.String()))
		return err
	})
}
