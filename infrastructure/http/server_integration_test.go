package http

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"invapp/infrastructure/argon"
	"invapp/infrastructure/cache"
	"invapp/infrastructure/history"
	"invapp/infrastructure/rbac"
	"invapp/infrastructure/sqlite"
	"invapp/models"
)

const (
	adminPassword = "Admin123!Inventory"
	staffPassword = "Staff123!Inventory"
)

type integrationEnv struct {
	server *httptest.Server
	db     *sqlite.DB
}

func setupIntegrationServer(t *testing.T) (*integrationEnv, *http.Client) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "server-integration.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	seedUserWithRole(t, db, "admin", adminPassword, "Admin")
	seedUserWithRole(t, db, "staff1", staffPassword, "Staff")

	sessionCache := cache.NewUserSessionCache()
	userCache := cache.NewUserCache()
	rbacSvc := rbac.New(db, sessionCache)
	histSvc := history.NewService()

	s := NewServer("127.0.0.1:0", db, sessionCache, userCache, rbacSvc, histSvc)
	ts := httptest.NewServer(s.router)
	env := &integrationEnv{server: ts, db: db}
	t.Cleanup(func() {
		env.server.Close()
		_ = env.db.Close()
	})

	return env, newHTTPClient(t)
}

func seedUserWithRole(t *testing.T, db *sqlite.DB, username, password, roleName string) {
	t.Helper()
	hash, err := argon.CreateHash(password, nil)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{Username: username, PasswordHash: hash, IsActive: true}
	err = db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO user_roles (user_id, role_id)
SELECT ?, id FROM roles WHERE role_name = ?`, user.ID, roleName)
		return err
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
}

func newHTTPClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, client *http.Client, baseURL, path string, data url.Values) *http.Response {
	t.Helper()
	if data == nil {
		data = url.Values{}
	}
	if token := csrfToken(t, client, baseURL); token != "" {
		data.Set("_csrf", token)
	}
	resp, err := client.PostForm(baseURL+path, data)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

func get(t *testing.T, client *http.Client, baseURL, path string) *http.Response {
	t.Helper()
	resp, err := client.Get(baseURL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	_ = resp.Body.Close()
	return string(body)
}

func csrfToken(t *testing.T, client *http.Client, baseURL string) string {
	t.Helper()
	u, err := url.Parse(baseURL)
	if err != nil {
		t.Fatalf("parse base url: %v", err)
	}
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "X-CSRF-Token" {
			return c.Value
		}
	}
	return ""
}

func loginAs(t *testing.T, client *http.Client, baseURL, username, password string) {
	t.Helper()

	resp := get(t, client, baseURL, "/login")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected login page 200, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = postForm(t, client, baseURL, "/login", url.Values{
		"username": {username},
		"password": {password},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected login 303, got %d", resp.StatusCode)
	}
	if location := resp.Header.Get("Location"); location != "/dashboard" {
		t.Fatalf("unexpected login redirect: %s", location)
	}
	_ = resp.Body.Close()
}

func roleIDByName(t *testing.T, db *sqlite.DB, name string) int64 {
	t.Helper()
	var id int64
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT id FROM roles WHERE role_name = ?`, name).Scan(ctx, &id)
	})
	if err != nil {
		t.Fatalf("load role id for %s: %v", name, err)
	}
	return id
}

func userRoleByUsername(t *testing.T, db *sqlite.DB, username string) (string, bool) {
	t.Helper()
	var role string
	var count int64
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewRaw(`SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(ctx, &count); err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		return tx.NewRaw(`
SELECT ro.role_name
FROM roles ro
JOIN user_roles ur ON ur.role_id = ro.id
JOIN users u ON u.id = ur.user_id
WHERE u.username = ?`, username).Scan(ctx, &role)
	})
	if err != nil {
		t.Fatalf("load role for user %s: %v", username, err)
	}
	return role, count > 0
}

func TestCSRFPostWithoutTokenRejected(t *testing.T) {
	env, client := setupIntegrationServer(t)

	// No GET first: no CSRF token available in cookie or form.
	resp, err := client.PostForm(env.server.URL+"/login", url.Values{
		"username": {"admin"},
		"password": {adminPassword},
	})
	if err != nil {
		t.Fatalf("post login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for missing csrf, got %d", resp.StatusCode)
	}
}

func TestLoginLogoutFlow(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "admin", adminPassword)

	resp := get(t, client, env.server.URL, "/")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/dashboard" {
		t.Fatalf("expected root redirect to dashboard, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
	_ = resp.Body.Close()

	resp = get(t, client, env.server.URL, "/dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected dashboard 200, got %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, `href="/users"`) {
		t.Fatalf("expected admin navigation to include users link")
	}

	resp = postForm(t, client, env.server.URL, "/logout", nil)
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected logout redirect to login, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
	_ = resp.Body.Close()

	resp = get(t, client, env.server.URL, "/dashboard")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected dashboard after logout to redirect to login, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
	_ = resp.Body.Close()
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env, client := setupIntegrationServer(t)

	resp := get(t, client, env.server.URL, "/login")
	_ = resp.Body.Close()

	resp = postForm(t, client, env.server.URL, "/login", url.Values{
		"username": {"admin"},
		"password": {"not-the-password"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected failed login 303, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Location"), "/login?error=") {
		t.Fatalf("expected error redirect back to login, got %s", resp.Header.Get("Location"))
	}
	_ = resp.Body.Close()
}

func TestUnauthenticatedRequestsRedirectToLogin(t *testing.T) {
	env, client := setupIntegrationServer(t)

	for _, path := range []string{"/dashboard", "/inventory", "/requests", "/users"} {
		resp := get(t, client, env.server.URL, path)
		if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
			t.Fatalf("expected %s to redirect to login, got %d %s", path, resp.StatusCode, resp.Header.Get("Location"))
		}
		_ = resp.Body.Close()
	}
}

func TestStaffDeniedAdminScreens(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "staff1", staffPassword)

	resp := get(t, client, env.server.URL, "/dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected staff dashboard 200, got %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if strings.Contains(body, `href="/users"`) || strings.Contains(body, `href="/categories"`) {
		t.Fatalf("staff navigation should not include admin links")
	}

	for _, path := range []string{"/users", "/categories", "/locations", "/requests"} {
		resp = get(t, client, env.server.URL, path)
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("expected staff %s denied with 303, got %d", path, resp.StatusCode)
		}
		location := resp.Header.Get("Location")
		if !strings.Contains(location, "/access-denied?from="+url.QueryEscape(path)) {
			t.Fatalf("expected %s to redirect to access denied, got %s", path, location)
		}
		_ = resp.Body.Close()
	}

	resp = get(t, client, env.server.URL, "/access-denied?from=%2Fusers")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected access denied page 200, got %d", resp.StatusCode)
	}
	body = readBody(t, resp)
	if !strings.Contains(body, "Access denied") {
		t.Fatalf("expected access denied heading on page")
	}

	resp = postForm(t, client, env.server.URL, "/inventory/items", url.Values{
		"name": {"Should Not Exist"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected staff create item denied with 303, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Location"), "/access-denied") {
		t.Fatalf("expected staff create item redirect to access denied, got %s", resp.Header.Get("Location"))
	}
	_ = resp.Body.Close()
}

func TestAdminCreatesUserThroughRoute(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "admin", adminPassword)

	managerRole := roleIDByName(t, env.db, "Manager")
	resp := postForm(t, client, env.server.URL, "/users", url.Values{
		"username": {"morgan"},
		"email":    {"morgan@example.com"},
		"password": {"Manager123!Inventory"},
		"role_id":  {strconv.FormatInt(managerRole, 10)},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected create user 303, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Location"), "/users?status=") {
		t.Fatalf("expected success redirect to users page, got %s", resp.Header.Get("Location"))
	}
	_ = resp.Body.Close()

	role, found := userRoleByUsername(t, env.db, "morgan")
	if !found {
		t.Fatalf("expected created user to exist")
	}
	if role != "Manager" {
		t.Fatalf("expected created user role Manager, got %s", role)
	}

	// The new account can sign in and reach pages its role permits.
	managerClient := newHTTPClient(t)
	loginAs(t, managerClient, env.server.URL, "morgan", "Manager123!Inventory")
	resp = get(t, managerClient, env.server.URL, "/requests")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected manager requests page 200, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = get(t, managerClient, env.server.URL, "/users")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected manager users page denied with 303, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestDeactivatedUserLosesAccess(t *testing.T) {
	env, client := setupIntegrationServer(t)
	staffClient := newHTTPClient(t)
	loginAs(t, client, env.server.URL, "admin", adminPassword)
	loginAs(t, staffClient, env.server.URL, "staff1", staffPassword)

	var staffID int64
	err := env.db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT id FROM users WHERE username = 'staff1'`).Scan(ctx, &staffID)
	})
	if err != nil {
		t.Fatalf("load staff id: %v", err)
	}

	staffRole := roleIDByName(t, env.db, "Staff")
	resp := postForm(t, client, env.server.URL, "/users/"+strconv.FormatInt(staffID, 10)+"/edit", url.Values{
		"username": {"staff1"},
		"role_id":  {strconv.FormatInt(staffRole, 10)},
		// is_active left unchecked: deactivate the account.
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected edit user 303, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	// The live session is revoked immediately, not at next expiry.
	resp = get(t, staffClient, env.server.URL, "/dashboard")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected deactivated session to redirect to login, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
	_ = resp.Body.Close()

	resp = postForm(t, staffClient, env.server.URL, "/logout", nil)
	_ = resp.Body.Close()
	resp = get(t, staffClient, env.server.URL, "/login")
	_ = resp.Body.Close()
	resp = postForm(t, staffClient, env.server.URL, "/login", url.Values{
		"username": {"staff1"},
		"password": {staffPassword},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected inactive login 303, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Location"), "/login?error=") {
		t.Fatalf("expected inactive account error redirect, got %s", resp.Header.Get("Location"))
	}
	_ = resp.Body.Close()
}

func TestStockExportCSVRoute(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "admin", adminPassword)

	resp := get(t, client, env.server.URL, "/inventory/export.csv")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected export 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected csv content type, got %s", ct)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "item,sku,part_number,category,site,location,quantity,reorder_threshold") {
		t.Fatalf("missing stock csv header, got %q", body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	env, client := setupIntegrationServer(t)

	resp := get(t, client, env.server.URL, "/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected health 200, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); body != "ok" {
		t.Fatalf("unexpected health body %q", body)
	}
}
