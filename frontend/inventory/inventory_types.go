package inventory

import (
	"invapp/frontend/categories"
	"invapp/frontend/locations"
	"invapp/frontend/shared/nav"
)

// PageData feeds the inventory list page.
type PageData struct {
	Nav          nav.TopNavData
	Rows         []ItemRow
	CategoryTree []categories.Node
	Locations    []locations.LocationOption
	Filters      Filters
	CanManage    bool
	Status       string
	Error        string
}
