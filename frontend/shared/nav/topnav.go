package nav

import (
	"html"
	"strings"

	"invapp/infrastructure/rbac"
	"invapp/models"
)

// TopNavData drives the shared navigation bar. Link visibility follows the
// signed-in user's permission set.
type TopNavData struct {
	Username        string
	ActivePath      string
	CanManageInv    bool
	CanManageCats   bool
	CanManageLocs   bool
	CanManageUsers  bool
	CanViewRequests bool
}

// BuildTopNavData derives nav visibility from the permission names granted to
// the session's user.
func BuildTopNavData(session models.Session, permissions map[string]struct{}, activePath string) TopNavData {
	has := func(name string) bool {
		_, ok := permissions[name]
		return ok
	}
	return TopNavData{
		Username:        session.User.Username,
		ActivePath:      activePath,
		CanManageInv:    has(rbac.PermManageInventory),
		CanManageCats:   has(rbac.PermManageCategories),
		CanManageLocs:   has(rbac.PermManageLocations),
		CanManageUsers:  has(rbac.PermManageUsers),
		CanViewRequests: has(rbac.PermViewAllRequests),
	}
}

type navLink struct {
	Href  string
	Label string
	Show  bool
}

// Render produces the top navigation markup for authenticated pages.
func Render(data TopNavData) string {
	links := []navLink{
		{Href: "/dashboard", Label: "Dashboard", Show: true},
		{Href: "/inventory", Label: "Inventory", Show: true},
		{Href: "/inventory/audit", Label: "Stock Audit", Show: true},
		{Href: "/requests", Label: "Requests", Show: data.CanViewRequests},
		{Href: "/categories", Label: "Categories", Show: data.CanManageCats},
		{Href: "/locations", Label: "Locations", Show: data.CanManageLocs},
		{Href: "/users", Label: "Users", Show: data.CanManageUsers},
	}

	var b strings.Builder
	b.WriteString(`<nav class="navbar bg-base-100 shadow-sm"><div class="flex-1"><a href="/dashboard" class="btn btn-ghost text-xl">Inventory</a><ul class="menu menu-horizontal px-1">`)
	for _, l := range links {
		if !l.Show {
			continue
		}
		b.WriteString(`<li><a href="`)
		b.WriteString(l.Href)
		if l.Href == data.ActivePath {
			b.WriteString(`" class="active">`)
		} else {
			b.WriteString(`">`)
		}
		b.WriteString(l.Label)
		b.WriteString(`</a></li>`)
	}
	b.WriteString(`</ul></div><div class="flex-none gap-2"><span class="text-sm opacity-70">`)
	b.WriteString(html.EscapeString(data.Username))
	b.WriteString(`</span><form method="POST" action="/logout" class="inline"><button class="btn btn-ghost btn-sm" type="submit">Log out</button></form></div></nav>`)
	return b.String()
}
