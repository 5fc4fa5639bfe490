package adminusers

import (
	"context"
	stdhtml "html"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"invapp/frontend/shared/html"
	"invapp/frontend/shared/nav"
)

// UsersPage renders the account list with add and edit forms.
func UsersPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1 class="text-2xl font-semibold mb-4">Users</h1>`)
		b.WriteString(html.StatusBanner(data.Status, data.Error))

		b.WriteString(`<div class="card bg-base-100 shadow-sm mb-6"><div class="card-body"><h2 class="card-title text-base">Add User</h2>`)
		b.WriteString(`<form method="POST" action="/users" class="flex flex-wrap items-end gap-3">`)
		b.WriteString(`<label class="form-control"><span class="label-text">Username</span><input class="input input-bordered" type="text" name="username" required></label>`)
		b.WriteString(`<label class="form-control"><span class="label-text">Email</span><input class="input input-bordered" type="email" name="email"></label>`)
		b.WriteString(`<label class="form-control"><span class="label-text">Password</span><input class="input input-bordered" type="password" name="password" required></label>`)
		b.WriteString(`<label class="form-control"><span class="label-text">Role</span>`)
		b.WriteString(roleSelect(data.Roles, 0))
		b.WriteString(`</label>`)
		b.WriteString(`<button class="btn btn-primary" type="submit">Add</button>`)
		b.WriteString(`</form></div></div>`)

		b.WriteString(`<div class="overflow-x-auto"><table class="table bg-base-100"><thead><tr><th>Username</th><th>Email</th><th>Role</th><th>Status</th><th class="text-right">Actions</th></tr></thead><tbody>`)
		for _, user := range data.Users {
			writeUserRow(&b, user, data.Roles)
		}
		if len(data.Users) == 0 {
			b.WriteString(`<tr><td colspan="5" class="text-center opacity-60">No users yet</td></tr>`)
		}
		b.WriteString(`</tbody></table></div>`)

		_, err := io.WriteString(w, html.RenderLayout("Users", nav.Render(data.Nav), b.String()))
		return err
	})
}

func writeUserRow(b *strings.Builder, user UserRow, roles []RoleOption) {
	id := strconv.FormatInt(user.ID, 10)
	b.WriteString(`<tr><td>`)
	b.WriteString(stdhtml.EscapeString(user.Username))
	b.WriteString(`</td><td>`)
	b.WriteString(stdhtml.EscapeString(user.Email))
	b.WriteString(`</td><td>`)
	b.WriteString(stdhtml.EscapeString(user.RoleName))
	b.WriteString(`</td><td>`)
	if user.IsActive {
		b.WriteString(`<span class="badge badge-success badge-sm">active</span>`)
	} else {
		b.WriteString(`<span class="badge badge-ghost badge-sm">inactive</span>`)
	}
	b.WriteString(`</td><td class="text-right">`)

	b.WriteString(`<details class="dropdown dropdown-end"><summary class="btn btn-ghost btn-xs">Edit</summary><div class="dropdown-content z-10 card bg-base-100 shadow-lg p-4 w-72">`)
	b.WriteString(`<form method="POST" action="/users/` + id + `/edit" class="flex flex-col gap-2">`)
	b.WriteString(`<input class="input input-bordered input-sm" type="text" name="username" value="`)
	b.WriteString(stdhtml.EscapeString(user.Username))
	b.WriteString(`" required>`)
	b.WriteString(`<input class="input input-bordered input-sm" type="email" name="email" value="`)
	b.WriteString(stdhtml.EscapeString(user.Email))
	b.WriteString(`" placeholder="Email">`)
	b.WriteString(`<input class="input input-bordered input-sm" type="password" name="password" placeholder="New password (leave blank to keep)">`)
	b.WriteString(roleSelect(roles, user.RoleID))
	b.WriteString(`<label class="label cursor-pointer justify-start gap-2"><input type="checkbox" name="is_active" value="1"`)
	if user.IsActive {
		b.WriteString(` checked`)
	}
	b.WriteString(` class="checkbox checkbox-sm"><span class="label-text">Active</span></label>`)
	b.WriteString(`<button class="btn btn-primary btn-sm" type="submit">Save</button>`)
	b.WriteString(`</form></div></details>`)
	b.WriteString(`</td></tr>`)
}

func roleSelect(roles []RoleOption, selected int64) string {
	var b strings.Builder
	b.WriteString(`<select class="select select-bordered select-sm" name="role_id" required><option value="">Select role</option>`)
	for _, role := range roles {
		b.WriteString(`<option value="`)
		b.WriteString(strconv.FormatInt(role.ID, 10))
		if role.ID == selected {
			b.WriteString(`" selected>`)
		} else {
			b.WriteString(`">`)
		}
		b.WriteString(stdhtml.EscapeString(role.Name))
		b.WriteString(`</option>`)
	}
	b.WriteString(`</select>`)
	return b.String()
}
