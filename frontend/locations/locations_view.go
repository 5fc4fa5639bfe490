package locations

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

// LocationsPage renders sites with their locations and the management forms.
func LocationsPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1 class="text-2xl font-semibold mb-4">Sites &amp; Locations</h1>`)
		b.WriteString(html.StatusBanner(data.Status, data.Error))

		b.WriteString(`<div class="card bg-base-100 shadow-sm mb-6"><div class="card-body"><h2 class="card-title text-base">Add Site</h2>`)
		b.WriteString(`<form method="POST" action="/locations/sites" class="flex flex-wrap items-end gap-3">`)
		b.WriteString(`<label class="form-control"><span class="label-text">Name</span><input class="input input-bordered" type="text" name="name" required></label>`)
		b.WriteString(`<label class="form-control"><span class="label-text">Address</span><input class="input input-bordered" type="text" name="address"></label>`)
		b.WriteString(`<label class="form-control"><span class="label-text">Description</span><input class="input input-bordered" type="text" name="description"></label>`)
		b.WriteString(`<button class="btn btn-primary" type="submit">Add Site</button>`)
		b.WriteString(`</form></div></div>`)

		if data.ShowInactive {
			b.WriteString(`<a class="btn btn-ghost btn-sm mb-2" href="/locations">Hide inactive</a>`)
		} else {
			b.WriteString(`<a class="btn btn-ghost btn-sm mb-2" href="/locations?show_inactive=1">Show inactive</a>`)
		}

		for _, group := range data.Groups {
			writeSiteCard(&b, group)
		}
		if len(data.Groups) == 0 {
			b.WriteString(`<p class="opacity-60">No sites yet</p>`)
		}

		_, err := io.WriteString(w, html.RenderLayout("Sites & Locations", nav.Render(data.Nav), b.String()))
		return err
	})
}

func writeSiteCard(b *strings.Builder, group SiteGroup) {
	siteID := strconv.FormatInt(group.Site.SiteID, 10)

	b.WriteString(`<div class="card bg-base-100 shadow-sm mb-4"><div class="card-body"><div class="flex items-center justify-between"><h2 class="card-title text-base">`)
	b.WriteString(stdhtml.EscapeString(group.Site.Name))
	if !group.Site.IsActive {
		b.WriteString(` <span class="badge badge-ghost badge-sm">inactive</span>`)
	}
	b.WriteString(`</h2><div>`)

	b.WriteString(`<details class="dropdown dropdown-end"><summary class="btn btn-ghost btn-xs">Edit</summary><div class="dropdown-content z-10 card bg-base-100 shadow-lg p-4 w-72">`)
	b.WriteString(`<form method="POST" action="/locations/sites/` + siteID + `/edit" class="flex flex-col gap-2">`)
	b.WriteString(`<input class="input input-bordered input-sm" type="text" name="name" value="` + stdhtml.EscapeString(group.Site.Name) + `" required>`)
	b.WriteString(`<input class="input input-bordered input-sm" type="text" name="address" value="` + stdhtml.EscapeString(group.Site.Address) + `" placeholder="Address">`)
	b.WriteString(`<input class="input input-bordered input-sm" type="text" name="description" value="` + stdhtml.EscapeString(group.Site.Description) + `" placeholder="Description">`)
	b.WriteString(`<button class="btn btn-primary btn-sm" type="submit">Save</button></form></div></details>`)

	if group.Site.IsActive {
		b.WriteString(`<form method="POST" action="/locations/sites/` + siteID + `/deactivate" class="inline" onsubmit="return confirm('Deactivate this site and all of its locations?')"><button class="btn btn-ghost btn-xs text-error" type="submit">Deactivate</button></form>`)
	} else {
		b.WriteString(`<form method="POST" action="/locations/sites/` + siteID + `/reactivate" class="inline"><button class="btn btn-ghost btn-xs" type="submit">Reactivate</button></form>`)
	}
	b.WriteString(`</div></div>`)

	b.WriteString(`<table class="table table-sm"><thead><tr><th>Location</th><th>Description</th><th>Status</th><th class="text-right">Actions</th></tr></thead><tbody>`)
	for _, loc := range group.Locations {
		writeLocationRow(b, loc)
	}
	if len(group.Locations) == 0 {
		b.WriteString(`<tr><td colspan="4" class="opacity-60">No locations</td></tr>`)
	}
	b.WriteString(`</tbody></table>`)

	if group.Site.IsActive {
		b.WriteString(`<form method="POST" action="/locations" class="flex flex-wrap items-end gap-3 mt-2">`)
		b.WriteString(`<input type="hidden" name="site_id" value="` + siteID + `">`)
		b.WriteString(`<input class="input input-bordered input-sm" type="text" name="name" placeholder="Location name" required>`)
		b.WriteString(`<input class="input input-bordered input-sm" type="text" name="description" placeholder="Description">`)
		b.WriteString(`<button class="btn btn-sm" type="submit">Add Location</button></form>`)
	}
	b.WriteString(`</div></div>`)
}

func writeLocationRow(b *strings.Builder, loc models.Location) {
	id := strconv.FormatInt(loc.LocationID, 10)
	b.WriteString(`<tr><td>`)
	b.WriteString(stdhtml.EscapeString(loc.Name))
	b.WriteString(`</td><td>`)
	b.WriteString(stdhtml.EscapeString(loc.Description))
	b.WriteString(`</td><td>`)
	if loc.IsActive {
		b.WriteString(`<span class="badge badge-success badge-sm">active</span>`)
	} else {
		b.WriteString(`<span class="badge badge-ghost badge-sm">inactive</span>`)
	}
	b.WriteString(`</td><td class="text-right">`)

	b.WriteString(`<details class="dropdown dropdown-end"><summary class="btn btn-ghost btn-xs">Edit</summary><div class="dropdown-content z-10 card bg-base-100 shadow-lg p-4 w-64">`)
	b.WriteString(`<form method="POST" action="/locations/` + id + `/edit" class="flex flex-col gap-2">`)
	b.WriteString(`<input class="input input-bordered input-sm" type="text" name="name" value="` + stdhtml.EscapeString(loc.Name) + `" required>`)
	b.WriteString(`<input class="input input-bordered input-sm" type="text" name="description" value="` + stdhtml.EscapeString(loc.Description) + `" placeholder="Description">`)
	b.WriteString(`<button class="btn btn-primary btn-sm" type="submit">Save</button></form></div></details>`)

	if loc.IsActive {
		b.WriteString(`<form method="POST" action="/locations/` + id + `/deactivate" class="inline"><button class="btn btn-ghost btn-xs text-error" type="submit">Deactivate</button></form>`)
	} else {
		b.WriteString(`<form method="POST" action="/locations/` + id + `/reactivate" class="inline"><button class="btn btn-ghost btn-xs" type="submit">Reactivate</button></form>`)
	}
	b.WriteString(`</td></tr>`)
}
