package categories

import (
	"context"
	stdhtml "html"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"invapp/frontend/shared/html"
	"invapp/frontend/shared/nav"
	"invapp/models"
)

// CategoriesPage renders the category tree with add, edit and archive forms.
func CategoriesPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1 class="text-2xl font-semibold mb-4">Categories</h1>`)
		b.WriteString(html.StatusBanner(data.Status, data.Error))

		b.WriteString(`<div class="card bg-base-100 shadow-sm mb-6"><div class="card-body"><h2 class="card-title text-base">Add Category</h2>`)
		b.WriteString(`<form method="POST" action="/categories" class="flex flex-wrap items-end gap-3">`)
		b.WriteString(`<label class="form-control"><span class="label-text">Name</span><input class="input input-bordered" type="text" name="name" required></label>`)
		b.WriteString(`<label class="form-control"><span class="label-text">Parent</span>`)
		b.WriteString(parentSelect("parent_id", nil, data.ParentOptions, 0))
		b.WriteString(`</label>`)
		b.WriteString(`<label class="form-control"><span class="label-text">Description</span><input class="input input-bordered" type="text" name="description"></label>`)
		b.WriteString(`<button class="btn btn-primary" type="submit">Add</button>`)
		b.WriteString(`</form></div></div>`)

		if data.ShowInactive {
			b.WriteString(`<a class="btn btn-ghost btn-sm mb-2" href="/categories">Hide inactive</a>`)
		} else if data.InactiveCount > 0 {
			b.WriteString(`<a class="btn btn-ghost btn-sm mb-2" href="/categories?show_inactive=1">Show inactive (`)
			b.WriteString(strconv.FormatInt(data.InactiveCount, 10))
			b.WriteString(`)</a>`)
		}

		b.WriteString(`<div class="overflow-x-auto"><table class="table bg-base-100"><thead><tr><th>Name</th><th>Description</th><th>Status</th><th class="text-right">Actions</th></tr></thead><tbody>`)
		for _, node := range data.Tree {
			writeCategoryRow(&b, node, data.ParentOptions)
		}
		if len(data.Tree) == 0 {
			b.WriteString(`<tr><td colspan="4" class="text-center opacity-60">No categories yet</td></tr>`)
		}
		b.WriteString(`</tbody></table></div>`)

		_, err := io.WriteString(w, html.RenderLayout("Categories", nav.Render(data.Nav), b.String()))
		return err
	})
}

func writeCategoryRow(b *strings.Builder, node Node, parents []models.Category) {
	id := strconv.FormatInt(node.Category.ID, 10)
	b.WriteString(`<tr>`)

	b.WriteString(`<td><span style="padding-left:`)
	b.WriteString(strconv.Itoa(node.Level * 24))
	b.WriteString(`px">`)
	if node.Level > 0 {
		b.WriteString(`&#8627; `)
	}
	b.WriteString(stdhtml.EscapeString(node.Category.Name))
	b.WriteString(`</span></td><td>`)
	b.WriteString(stdhtml.EscapeString(node.Category.Description))
	b.WriteString(`</td><td>`)
	if node.Category.IsActive {
		b.WriteString(`<span class="badge badge-success badge-sm">active</span>`)
	} else {
		b.WriteString(`<span class="badge badge-ghost badge-sm">inactive</span>`)
	}
	b.WriteString(`</td><td class="text-right">`)

	b.WriteString(`<details class="dropdown dropdown-end"><summary class="btn btn-ghost btn-xs">Edit</summary><div class="dropdown-content z-10 card bg-base-100 shadow-lg p-4 w-72">`)
	b.WriteString(`<form method="POST" action="/categories/` + id + `/edit" class="flex flex-col gap-2">`)
	b.WriteString(`<input class="input input-bordered input-sm" type="text" name="name" value="`)
	b.WriteString(stdhtml.EscapeString(node.Category.Name))
	b.WriteString(`" required>`)
	b.WriteString(parentSelect("parent_id", node.Category.ParentID, parents, node.Category.ID))
	b.WriteString(`<input class="input input-bordered input-sm" type="text" name="description" value="`)
	b.WriteString(stdhtml.EscapeString(node.Category.Description))
	b.WriteString(`" placeholder="Description">`)
	b.WriteString(`<button class="btn btn-primary btn-sm" type="submit">Save</button>`)
	b.WriteString(`</form></div></details>`)

	if node.Category.IsActive {
		b.WriteString(`<form method="POST" action="/categories/` + id + `/deactivate" class="inline" onsubmit="return confirm('Deactivate this category and its direct sub-categories?')"><button class="btn btn-ghost btn-xs text-error" type="submit">Deactivate</button></form>`)
	} else {
		b.WriteString(`<form method="POST" action="/categories/` + id + `/reactivate" class="inline"><button class="btn btn-ghost btn-xs" type="submit">Reactivate</button></form>`)
	}
	b.WriteString(`</td></tr>`)
}

// parentSelect renders a parent picker. The category being edited is skipped
// so the form cannot offer it as its own parent.
func parentSelect(name string, selected *int64, options []models.Category, skipID int64) string {
	var b strings.Builder
	b.WriteString(`<select class="select select-bordered select-sm" name="`)
	b.WriteString(name)
	b.WriteString(`"><option value="">No parent</option>`)
	for _, opt := range options {
		if opt.ID == skipID {
			continue
		}
		b.WriteString(`<option value="`)
		b.WriteString(strconv.FormatInt(opt.ID, 10))
		if selected != nil && *selected == opt.ID {
			b.WriteString(`" selected>`)
		} else {
			b.WriteString(`">`)
		}
		b.WriteString(stdhtml.EscapeString(opt.Name))
		b.WriteString(`</option>`)
	}
	b.WriteString(`</select>`)
	return b.String()
}
