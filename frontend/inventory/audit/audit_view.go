package audit

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

// AuditPage renders the location selector and the per-item adjust and
// request forms for the chosen location.
func AuditPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1 class="text-2xl font-semibold mb-4">Stock Audit</h1>`)
		b.WriteString(html.StatusBanner(data.Status, data.Error))

		b.WriteString(`<form method="GET" action="/inventory/audit" class="flex items-end gap-3 mb-4">`)
		b.WriteString(`<label class="form-control"><span class="label-text">Location</span><select class="select select-bordered select-sm" name="location"><option value="">Select a location</option>`)
		for _, opt := range data.Locations {
			b.WriteString(`<option value="` + strconv.FormatInt(opt.LocationID, 10))
			if opt.LocationID == data.SelectedLocation {
				b.WriteString(`" selected>`)
			} else {
				b.WriteString(`">`)
			}
			b.WriteString(stdhtml.EscapeString(opt.Label))
			b.WriteString(`</option>`)
		}
		b.WriteString(`</select></label><button class="btn btn-sm" type="submit">Load</button></form>`)

		if data.SelectedLocation > 0 {
			writeLocationTable(&b, data)
		} else {
			b.WriteString(`<p class="opacity-60">Choose a location to audit its stock.</p>`)
		}

		_, err := io.WriteString(w, html.RenderLayout("Stock Audit", nav.Render(data.Nav), b.String()))
		return err
	})
}

func writeLocationTable(b *strings.Builder, data PageData) {
	locID := strconv.FormatInt(data.SelectedLocation, 10)
	b.WriteString(`<div class="overflow-x-auto"><table class="table bg-base-100"><thead><tr><th>Item</th><th>SKU</th><th>Quantity</th><th>Min</th><th>Status</th><th class="text-right">Actions</th></tr></thead><tbody>`)
	for _, row := range data.Rows {
		itemID := strconv.FormatInt(row.ItemID, 10)
		b.WriteString(`<tr><td>` + stdhtml.EscapeString(row.ItemName) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(row.SKU) + `</td>`)
		b.WriteString(`<td>` + strconv.FormatFloat(row.Quantity, 'f', -1, 64) + `</td>`)
		b.WriteString(`<td>` + strconv.FormatInt(row.ReorderThreshold, 10) + `</td>`)
		b.WriteString(`<td><span class="badge badge-sm" style="background-color:` + row.Status.Color + `;color:#fff">` + stdhtml.EscapeString(row.Status.Status) + `</span></td>`)
		b.WriteString(`<td class="text-right">`)

		b.WriteString(`<details class="dropdown dropdown-end"><summary class="btn btn-ghost btn-xs">Adjust</summary><div class="dropdown-content z-10 card bg-base-100 shadow-lg p-4 w-64">`)
		b.WriteString(`<form method="POST" action="/inventory/audit/adjust" class="flex flex-col gap-2">`)
		b.WriteString(`<input type="hidden" name="item_id" value="` + itemID + `"><input type="hidden" name="location" value="` + locID + `">`)
		b.WriteString(`<label class="form-control"><span class="label-text">New quantity</span><input class="input input-bordered input-sm" type="number" step="0.01" min="0" name="new_quantity" value="` + strconv.FormatFloat(row.Quantity, 'f', -1, 64) + `" required></label>`)
		b.WriteString(`<input class="input input-bordered input-sm" type="text" name="reason" placeholder="Reason" required>`)
		b.WriteString(`<button class="btn btn-primary btn-sm" type="submit">Adjust</button></form></div></details>`)

		b.WriteString(`<details class="dropdown dropdown-end"><summary class="btn btn-ghost btn-xs">Request</summary><div class="dropdown-content z-10 card bg-base-100 shadow-lg p-4 w-64">`)
		b.WriteString(`<form method="POST" action="/inventory/audit/request" class="flex flex-col gap-2">`)
		b.WriteString(`<input type="hidden" name="item_id" value="` + itemID + `"><input type="hidden" name="location" value="` + locID + `">`)
		b.WriteString(`<label class="form-control"><span class="label-text">Quantity</span><input class="input input-bordered input-sm" type="number" step="0.01" min="0.01" name="quantity" required></label>`)
		b.WriteString(`<select class="select select-bordered select-sm" name="priority">`)
		for _, p := range []string{models.PriorityLow, models.PriorityNormal, models.PriorityHigh, models.PriorityUrgent} {
			if p == models.PriorityNormal {
				b.WriteString(`<option value="` + p + `" selected>` + p + `</option>`)
			} else {
				b.WriteString(`<option value="` + p + `">` + p + `</option>`)
			}
		}
		b.WriteString(`</select>`)
		b.WriteString(`<label class="form-control"><span class="label-text">Needed by</span><input class="input input-bordered input-sm" type="date" name="needed_by"></label>`)
		b.WriteString(`<input class="input input-bordered input-sm" type="text" name="reason" placeholder="Reason">`)
		b.WriteString(`<button class="btn btn-primary btn-sm" type="submit">Submit Request</button></form></div></details>`)

		b.WriteString(`</td></tr>`)
	}
	if len(data.Rows) == 0 {
		b.WriteString(`<tr><td colspan="6" class="text-center opacity-60">No stock records at this location</td></tr>`)
	}
	b.WriteString(`</tbody></table></div>`)
}
