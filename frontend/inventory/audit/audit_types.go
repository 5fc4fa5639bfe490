package audit

import (
	"invapp/frontend/locations"
	"invapp/frontend/shared/nav"
)

// PageData feeds the per-location stock audit page.
type PageData struct {
	Nav              nav.TopNavData
	Locations        []locations.LocationOption
	SelectedLocation int64
	Rows             []LocationItemRow
	Status           string
	Error            string
}
