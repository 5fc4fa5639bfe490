package dashboard

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

// DashboardPage renders stock-health cards per top-level category.
func DashboardPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1 class="text-2xl font-semibold mb-4">Dashboard</h1>`)
		b.WriteString(html.StatusBanner(data.Status, data.Error))

		b.WriteString(`<div class="stats shadow mb-6 bg-base-100">`)
		writeStat(&b, "Active items", data.Summary.TotalItems, "")
		writeStat(&b, "Low stock", data.Summary.TotalLowStock, "text-warning")
		writeStat(&b, "Out of stock", data.Summary.TotalZeroStock, "text-error")
		writeStat(&b, "Pending requests", data.Summary.PendingRequests, "")
		b.WriteString(`</div>`)

		b.WriteString(`<div class="grid grid-cols-1 md:grid-cols-2 lg:grid-cols-3 gap-4">`)
		for _, cat := range data.Summary.Categories {
			b.WriteString(`<div class="card bg-base-100 shadow-sm"><div class="card-body">`)
			b.WriteString(`<h2 class="card-title text-base"><a class="link link-hover" href="/inventory?category_id=`)
			b.WriteString(strconv.FormatInt(cat.CategoryID, 10))
			b.WriteString(`">`)
			b.WriteString(stdhtml.EscapeString(cat.CategoryName))
			b.WriteString(`</a></h2>`)
			b.WriteString(`<p>`)
			b.WriteString(strconv.FormatInt(cat.ItemCount, 10))
			b.WriteString(` items</p><p class="text-warning">`)
			b.WriteString(strconv.FormatInt(cat.LowStock, 10))
			b.WriteString(` low stock</p><p class="text-error">`)
			b.WriteString(strconv.FormatInt(cat.ZeroStock, 10))
			b.WriteString(` out of stock</p>`)
			b.WriteString(`</div></div>`)
		}
		if len(data.Summary.Categories) == 0 {
			b.WriteString(`<p class="opacity-60">No categories with items yet.</p>`)
		}
		b.WriteString(`</div>`)

		_, err := io.WriteString(w, html.RenderLayout("Dashboard", nav.Render(data.Nav), b.String()))
		return err
	})
}

func writeStat(b *strings.Builder, label string, value int64, valueClass string) {
	b.WriteString(`<div class="stat"><div class="stat-title">`)
	b.WriteString(label)
	b.WriteString(`</div><div class="stat-value `)
	b.WriteString(valueClass)
	b.WriteString(`">`)
	b.WriteString(strconv.FormatInt(value, 10))
	b.WriteString(`</div></div>`)
}
