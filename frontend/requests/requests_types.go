package requests

import "invapp/frontend/shared/nav"

// PageData feeds the request management page.
type PageData struct {
	Nav      nav.TopNavData
	Rows     []RequestRow
	Filters  Filters
	DateFrom string
	DateTo   string
	Status   string
	Error    string
}
