package login

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"invapp/infrastructure/cache"
	sessioncookie "invapp/infrastructure/session"
	"invapp/infrastructure/sqlite"
	"invapp/models"
)

// GetLoginScreenHandler renders the login screen.
func GetLoginScreenHandler(w http.ResponseWriter, r *http.Request) {
	errorMessage := r.URL.Query().Get("error")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := LoginScreen(errorMessage).Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render login screen", http.StatusInternalServerError)
		return
	}
}

// CreateLoginHandler authenticates the user and issues a session cookie.
func CreateLoginHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache, userCache *cache.UserCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectLoginError(w, r, "invalid form data")
			return
		}

		username := strings.TrimSpace(r.FormValue("username"))
		password := strings.TrimSpace(r.FormValue("password"))
		if username == "" || password == "" {
			redirectLoginError(w, r, "username and password are required")
			return
		}

		user, err := authenticateUser(r.Context(), db, username, password)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInactiveAccount):
				redirectLoginError(w, r, err.Error())
			default:
				redirectLoginError(w, r, "authentication failed")
			}
			return
		}

		session := newSession(user)
		if err := persistSession(r.Context(), db, session); err != nil {
			redirectLoginError(w, r, "failed to create session")
			return
		}

		sessionCache.AddSession(session)
		userCache.Add(user.Username, user)

		http.SetCookie(w, sessioncookie.SessionCookie(session.ID, 12*60*60))
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

// LogoutHandler removes session state and clears the cookie.
func LogoutHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessioncookie.CookieName)
		if err == nil && cookie.Value != "" {
			sessionCache.DeleteSessionBySessionToken(cookie.Value)
			_ = DeleteSessionByToken(r.Context(), db, cookie.Value)
		}
		http.SetCookie(w, sessioncookie.SessionCookie("", -1))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func newSession(user models.User) models.Session {
	return models.Session{
		ID:          newSessionToken(),
		UserID:      user.ID,
		User:        user,
		Permissions: make(map[string]struct{}),
		ExpiresAt:   sessioncookie.DefaultExpiry(),
	}
}

func redirectLoginError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/login?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
