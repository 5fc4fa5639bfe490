package requests

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

var allStatuses = []string{
	models.RequestPending,
	models.RequestApproved,
	models.RequestPartiallyApproved,
	models.RequestRejected,
	models.RequestInProgress,
	models.RequestCompleted,
	models.RequestCancelled,
}

var allPriorities = []string{
	models.PriorityLow,
	models.PriorityNormal,
	models.PriorityHigh,
	models.PriorityUrgent,
}

// RequestsPage renders the request queue with filters and status update
// forms.
func RequestsPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="flex justify-between items-center mb-4"><h1 class="text-2xl font-semibold">Item Requests</h1>`)
		b.WriteString(`<a class="btn btn-ghost btn-sm" href="/requests/export.csv">Export CSV</a></div>`)
		b.WriteString(html.StatusBanner(data.Status, data.Error))

		writeRequestFilters(&b, data)

		b.WriteString(`<div class="overflow-x-auto"><table class="table bg-base-100"><thead><tr><th>Item</th><th>Requested By</th><th>To</th><th>Qty</th><th>In Stock</th><th>Priority</th><th>Status</th><th>Needed By</th><th class="text-right">Actions</th></tr></thead><tbody>`)
		for _, row := range data.Rows {
			writeRequestRow(&b, row)
		}
		if len(data.Rows) == 0 {
			b.WriteString(`<tr><td colspan="9" class="text-center opacity-60">No requests match the current filters</td></tr>`)
		}
		b.WriteString(`</tbody></table></div>`)

		_, err := io.WriteString(w, html.RenderLayout("Item Requests", nav.Render(data.Nav), b.String()))
		return err
	})
}

func writeRequestFilters(b *strings.Builder, data PageData) {
	b.WriteString(`<form method="GET" action="/requests" class="flex flex-wrap items-end gap-3 mb-4">`)

	b.WriteString(`<select class="select select-bordered select-sm" name="filter_status"><option value="">Any status</option>`)
	for _, s := range allStatuses {
		writeOption(b, s, s == data.Filters.Status)
	}
	b.WriteString(`</select>`)

	b.WriteString(`<select class="select select-bordered select-sm" name="filter_priority"><option value="">Any priority</option>`)
	for _, p := range allPriorities {
		writeOption(b, p, p == data.Filters.Priority)
	}
	b.WriteString(`</select>`)

	b.WriteString(`<input class="input input-bordered input-sm" type="text" name="search" placeholder="Item, reason or requester" value="` + stdhtml.EscapeString(data.Filters.Search) + `">`)
	b.WriteString(`<label class="form-control"><span class="label-text">From</span><input class="input input-bordered input-sm" type="date" name="date_from" value="` + stdhtml.EscapeString(data.DateFrom) + `"></label>`)
	b.WriteString(`<label class="form-control"><span class="label-text">To</span><input class="input input-bordered input-sm" type="date" name="date_to" value="` + stdhtml.EscapeString(data.DateTo) + `"></label>`)
	b.WriteString(`<button class="btn btn-sm" type="submit">Filter</button><a class="btn btn-ghost btn-sm" href="/requests">Reset</a></form>`)
}

func writeRequestRow(b *strings.Builder, row RequestRow) {
	id := strconv.FormatInt(row.ID, 10)
	b.WriteString(`<tr><td>` + stdhtml.EscapeString(row.ItemName))
	if row.SKU != "" {
		b.WriteString(`<br><span class="text-xs opacity-60">` + stdhtml.EscapeString(row.SKU) + `</span>`)
	}
	if row.RequestReason != "" {
		b.WriteString(`<br><span class="text-xs opacity-60">` + stdhtml.EscapeString(row.RequestReason) + `</span>`)
	}
	b.WriteString(`</td>`)
	b.WriteString(`<td>` + stdhtml.EscapeString(row.RequesterName) + `</td>`)
	b.WriteString(`<td>` + stdhtml.EscapeString(row.ToLocationLabel) + `</td>`)
	b.WriteString(`<td>` + strconv.FormatFloat(row.QuantityRequested, 'f', -1, 64))
	if row.QuantityApproved != nil {
		b.WriteString(` <span class="text-xs opacity-60">(` + strconv.FormatFloat(*row.QuantityApproved, 'f', -1, 64) + ` approved)</span>`)
	}
	b.WriteString(`</td>`)
	b.WriteString(`<td>` + strconv.FormatFloat(row.CurrentStock, 'f', -1, 64) + `</td>`)
	b.WriteString(`<td><span class="badge badge-sm" style="background-color:` + PriorityColor(row.Priority) + `;color:#fff">` + stdhtml.EscapeString(row.Priority) + `</span></td>`)
	b.WriteString(`<td><span class="badge badge-sm" style="background-color:` + StatusColor(row.Status) + `;color:#fff">` + stdhtml.EscapeString(row.Status) + `</span>`)
	if row.ApproverName != "" {
		b.WriteString(`<br><span class="text-xs opacity-60">by ` + stdhtml.EscapeString(row.ApproverName) + `</span>`)
	}
	b.WriteString(`</td>`)
	b.WriteString(`<td>`)
	if row.NeededByDate != nil {
		b.WriteString(row.NeededByDate.Format("2006-01-02"))
	}
	b.WriteString(`</td>`)

	b.WriteString(`<td class="text-right"><details class="dropdown dropdown-end"><summary class="btn btn-ghost btn-xs">Update</summary><div class="dropdown-content z-10 card bg-base-100 shadow-lg p-4 w-72">`)
	b.WriteString(`<form method="POST" action="/requests/` + id + `/status" class="flex flex-col gap-2">`)
	b.WriteString(`<select class="select select-bordered select-sm" name="new_status">`)
	for _, s := range allStatuses {
		writeOption(b, s, s == row.Status)
	}
	b.WriteString(`</select>`)
	b.WriteString(`<select class="select select-bordered select-sm" name="new_priority">`)
	for _, p := range allPriorities {
		writeOption(b, p, p == row.Priority)
	}
	b.WriteString(`</select>`)
	b.WriteString(`<label class="form-control"><span class="label-text">Approved quantity</span><input class="input input-bordered input-sm" type="number" step="0.01" min="0" name="quantity_approved"`)
	if row.QuantityApproved != nil {
		b.WriteString(` value="` + strconv.FormatFloat(*row.QuantityApproved, 'f', -1, 64) + `"`)
	}
	b.WriteString(`></label>`)
	b.WriteString(`<textarea class="textarea textarea-bordered textarea-sm" name="manager_notes" placeholder="Notes">` + stdhtml.EscapeString(row.ManagerNotes) + `</textarea>`)
	b.WriteString(`<button class="btn btn-primary btn-sm" type="submit">Save</button></form></div></details></td></tr>`)
}

func writeOption(b *strings.Builder, value string, selected bool) {
	b.WriteString(`<option value="` + stdhtml.EscapeString(value))
	if selected {
		b.WriteString(`" selected>`)
	} else {
		b.WriteString(`">`)
	}
	b.WriteString(stdhtml.EscapeString(strings.ReplaceAll(value, "_", " ")))
	b.WriteString(`</option>`)
}
