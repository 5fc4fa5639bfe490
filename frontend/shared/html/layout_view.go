package html

import (
	"html"
	"strings"
)

// RenderLayout wraps page body markup in the shared document shell. The nav
// argument is pre-rendered markup from the nav package and may be empty for
// unauthenticated pages.
func RenderLayout(title, nav, body string) string {
	var b strings.Builder
	b.WriteString(`<!doctype html><html lang="en" data-theme="corporate"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
	b.WriteString(html.EscapeString(title))
	b.WriteString(`</title><link rel="stylesheet" href="/assets/app.css"></head><body class="min-h-screen bg-base-200">`)
	b.WriteString(nav)
	b.WriteString(`<main class="mx-auto max-w-7xl p-4">`)
	b.WriteString(body)
	b.WriteString(`</main>`)
	b.WriteString(CSRFFormScript())
	b.WriteString(`</body></html>`)
	return b.String()
}

// StatusBanner renders the post-redirect status and error messages carried in
// the query string.
func StatusBanner(status, errMsg string) string {
	var b strings.Builder
	if s := strings.TrimSpace(status); s != "" {
		b.WriteString(`<div class="alert alert-success mb-4"><span>`)
		b.WriteString(html.EscapeString(s))
		b.WriteString(`</span></div>`)
	}
	if e := strings.TrimSpace(errMsg); e != "" {
		b.WriteString(`<div class="alert alert-error mb-4"><span>`)
		b.WriteString(html.EscapeString(e))
		b.WriteString(`</span></div>`)
	}
	return b.String()
}
