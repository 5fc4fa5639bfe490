package inventory

import (
	"context"
	stdhtml "html"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"invapp/frontend/categories"
	"invapp/frontend/locations"
	"invapp/frontend/shared/html"
	"invapp/frontend/shared/nav"
	"invapp/frontend/shared/stockstatus"
)

// InventoryPage renders the filterable item list with add/edit forms.
func InventoryPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="flex justify-between items-center mb-4"><h1 class="text-2xl font-semibold">Inventory</h1>`)
		b.WriteString(`<a class="btn btn-ghost btn-sm" href="/inventory/export.csv">Export CSV</a></div>`)
		b.WriteString(html.StatusBanner(data.Status, data.Error))

		writeFilterForm(&b, data)
		if data.CanManage {
			writeAddItemForm(&b, data)
		}

		b.WriteString(`<div class="overflow-x-auto"><table class="table bg-base-100"><thead><tr><th>Item</th><th>Category</th><th>SKU</th><th>Total</th><th>By Site</th><th>Status</th><th class="text-right">Actions</th></tr></thead><tbody>`)
		for _, row := range data.Rows {
			writeItemRow(&b, row, data)
		}
		if len(data.Rows) == 0 {
			b.WriteString(`<tr><td colspan="7" class="text-center opacity-60">No items match the current filters</td></tr>`)
		}
		b.WriteString(`</tbody></table></div>`)

		_, err := io.WriteString(w, html.RenderLayout("Inventory", nav.Render(data.Nav), b.String()))
		return err
	})
}

func writeFilterForm(b *strings.Builder, data PageData) {
	b.WriteString(`<form method="GET" action="/inventory" class="flex flex-wrap items-end gap-3 mb-4">`)
	b.WriteString(`<input class="input input-bordered input-sm" type="text" name="search" placeholder="Search name, SKU, part number" value="`)
	b.WriteString(stdhtml.EscapeString(data.Filters.Search))
	b.WriteString(`">`)

	b.WriteString(`<select class="select select-bordered select-sm" name="category"><option value="">All categories</option>`)
	b.WriteString(treeSelectOptions(data.CategoryTree, data.Filters.CategoryID))
	b.WriteString(`</select>`)

	b.WriteString(locationSelect("location", data.Locations, data.Filters.LocationID, "All locations", "select select-bordered select-sm"))

	b.WriteString(`<select class="select select-bordered select-sm" name="status"><option value="">Any status</option>`)
	for _, s := range []string{stockstatus.NoStock, stockstatus.Critical, stockstatus.LowStock, stockstatus.OkStock, stockstatus.FullStock, stockstatus.OverStock} {
		b.WriteString(`<option value="` + stdhtml.EscapeString(s))
		if s == data.Filters.Status {
			b.WriteString(`" selected>`)
		} else {
			b.WriteString(`">`)
		}
		b.WriteString(stdhtml.EscapeString(s))
		b.WriteString(`</option>`)
	}
	b.WriteString(`</select>`)

	b.WriteString(`<label class="label cursor-pointer gap-2"><span class="label-text">Show inactive</span><input type="checkbox" name="show_inactive" value="1" class="checkbox checkbox-sm"`)
	if data.Filters.ShowInactive {
		b.WriteString(` checked`)
	}
	b.WriteString(`></label>`)
	b.WriteString(`<button class="btn btn-sm" type="submit">Filter</button><a class="btn btn-ghost btn-sm" href="/inventory">Reset</a></form>`)
}

func writeAddItemForm(b *strings.Builder, data PageData) {
	b.WriteString(`<details class="collapse collapse-arrow bg-base-100 shadow-sm mb-4"><summary class="collapse-title font-medium">Add Item</summary><div class="collapse-content">`)
	b.WriteString(`<form method="POST" action="/inventory/items">`)
	writeItemFields(b, data, ItemRow{}, false)
	b.WriteString(`<button class="btn btn-primary btn-sm mt-2" type="submit">Add Item</button></form></div></details>`)
}

func writeItemFields(b *strings.Builder, data PageData, row ItemRow, edit bool) {
	item := row.Item
	b.WriteString(`<div class="grid grid-cols-1 md:grid-cols-4 gap-3">`)
	b.WriteString(`<label class="form-control"><span class="label-text">Name</span><input class="input input-bordered input-sm" type="text" name="name" value="` + stdhtml.EscapeString(item.Name) + `" required></label>`)

	selectedCat := int64(0)
	if edit {
		selectedCat = item.CategoryID
	}
	b.WriteString(`<label class="form-control"><span class="label-text">Category</span><select class="select select-bordered select-sm" name="category_id" required><option value="">Select</option>`)
	b.WriteString(treeSelectOptions(data.CategoryTree, selectedCat))
	b.WriteString(`</select></label>`)

	b.WriteString(`<label class="form-control"><span class="label-text">SKU</span><input class="input input-bordered input-sm" type="text" name="sku" value="` + stdhtml.EscapeString(item.SKU) + `"></label>`)
	b.WriteString(`<label class="form-control"><span class="label-text">Part Number</span><input class="input input-bordered input-sm" type="text" name="part_number" value="` + stdhtml.EscapeString(item.PartNumber) + `"></label>`)
	b.WriteString(`<label class="form-control"><span class="label-text">Unit Cost</span><input class="input input-bordered input-sm" type="number" step="0.01" min="0" name="unit_cost" value="` + trimFloat(item.UnitCost) + `"></label>`)
	b.WriteString(`<label class="form-control"><span class="label-text">Full Quantity</span><input class="input input-bordered input-sm" type="number" min="0" name="full_quantity" value="` + strconv.FormatInt(item.FullQuantity, 10) + `"></label>`)
	b.WriteString(`<label class="form-control"><span class="label-text">Supplier</span><input class="input input-bordered input-sm" type="text" name="supplier_info" value="` + stdhtml.EscapeString(item.SupplierInfo) + `"></label>`)
	b.WriteString(`<label class="form-control"><span class="label-text">Description</span><input class="input input-bordered input-sm" type="text" name="description" value="` + stdhtml.EscapeString(item.Description) + `"></label>`)
	b.WriteString(`</div>`)

	stockByLoc := make(map[int64]LocationStockRow, len(row.Stocks))
	for _, s := range row.Stocks {
		stockByLoc[s.LocationID] = s
	}
	b.WriteString(`<div class="mt-3"><span class="label-text font-medium">Stock by location</span><div class="grid grid-cols-1 md:grid-cols-3 gap-2 mt-1">`)
	for _, opt := range data.Locations {
		existing := stockByLoc[opt.LocationID]
		locID := strconv.FormatInt(opt.LocationID, 10)
		b.WriteString(`<div class="flex items-center gap-2"><span class="text-sm w-40 truncate">` + stdhtml.EscapeString(opt.Label) + `</span>`)
		b.WriteString(`<input class="input input-bordered input-xs w-20" type="number" step="0.01" min="0" name="qty_` + locID + `" placeholder="Qty" value="` + trimFloatOrEmpty(existing.Quantity) + `">`)
		b.WriteString(`<input class="input input-bordered input-xs w-20" type="number" min="0" name="threshold_` + locID + `" placeholder="Min" value="` + trimIntOrEmpty(existing.ReorderThreshold) + `">`)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div></div>`)
}

func writeItemRow(b *strings.Builder, row ItemRow, data PageData) {
	id := strconv.FormatInt(row.Item.ID, 10)
	b.WriteString(`<tr>`)
	b.WriteString(`<td>` + stdhtml.EscapeString(row.Item.Name))
	if !row.Item.IsActive {
		b.WriteString(` <span class="badge badge-ghost badge-sm">inactive</span>`)
	}
	b.WriteString(`</td>`)
	b.WriteString(`<td>` + stdhtml.EscapeString(row.CategoryName) + `</td>`)
	b.WriteString(`<td>` + stdhtml.EscapeString(row.Item.SKU) + `</td>`)
	b.WriteString(`<td>` + trimFloat(row.TotalQuantity) + `</td>`)
	b.WriteString(`<td class="text-xs">`)
	for i, sq := range row.SiteSummary {
		if i > 0 {
			b.WriteString(`<br>`)
		}
		b.WriteString(stdhtml.EscapeString(sq.SiteName) + `: ` + trimFloat(sq.Quantity))
	}
	b.WriteString(`</td>`)
	b.WriteString(`<td><span class="badge badge-sm" style="background-color:` + row.Status.Color + `;color:#fff" title="` + stdhtml.EscapeString(row.Status.Details) + `">` + stdhtml.EscapeString(row.Status.Status) + `</span></td>`)
	b.WriteString(`<td class="text-right">`)

	if data.CanManage {
		b.WriteString(`<details class="dropdown dropdown-end"><summary class="btn btn-ghost btn-xs">Edit</summary><div class="dropdown-content z-10 card bg-base-100 shadow-lg p-4 w-[36rem]">`)
		b.WriteString(`<form method="POST" action="/inventory/items/` + id + `/edit">`)
		writeItemFields(b, data, row, true)
		b.WriteString(`<button class="btn btn-primary btn-sm mt-2" type="submit">Save</button></form></div></details>`)
		if row.Item.IsActive {
			b.WriteString(`<form method="POST" action="/inventory/items/` + id + `/deactivate" class="inline" onsubmit="return confirm('Deactivate this item?')"><button class="btn btn-ghost btn-xs text-error" type="submit">Deactivate</button></form>`)
		} else {
			b.WriteString(`<form method="POST" action="/inventory/items/` + id + `/reactivate" class="inline"><button class="btn btn-ghost btn-xs" type="submit">Reactivate</button></form>`)
		}
		b.WriteString(`<a class="btn btn-ghost btn-xs" href="/inventory/items/` + id + `/label">Label</a>`)
	}
	b.WriteString(`</td></tr>`)
}

// locationSelect is shared with the audit page.
func locationSelect(name string, opts []locations.LocationOption, selected int64, blankLabel, class string) string {
	var b strings.Builder
	b.WriteString(`<select class="` + class + `" name="` + name + `">`)
	if blankLabel != "" {
		b.WriteString(`<option value="">` + stdhtml.EscapeString(blankLabel) + `</option>`)
	}
	for _, opt := range opts {
		b.WriteString(`<option value="` + strconv.FormatInt(opt.LocationID, 10))
		if opt.LocationID == selected {
			b.WriteString(`" selected>`)
		} else {
			b.WriteString(`">`)
		}
		b.WriteString(stdhtml.EscapeString(opt.Label))
		b.WriteString(`</option>`)
	}
	b.WriteString(`</select>`)
	return b.String()
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func trimFloatOrEmpty(v float64) string {
	if v == 0 {
		return ""
	}
	return trimFloat(v)
}

func trimIntOrEmpty(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

// treeSelectOptions renders indented category options in tree order.
func treeSelectOptions(nodes []categories.Node, selected int64) string {
	var b strings.Builder
	for _, node := range nodes {
		b.WriteString(`<option value="` + strconv.FormatInt(node.Category.ID, 10))
		if node.Category.ID == selected {
			b.WriteString(`" selected>`)
		} else {
			b.WriteString(`">`)
		}
		b.WriteString(strings.Repeat("&nbsp;&nbsp;", node.Level))
		b.WriteString(stdhtml.EscapeString(node.Category.Name))
		b.WriteString(`</option>`)
	}
	return b.String()
}
