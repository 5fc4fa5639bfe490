package locations

import "invapp/frontend/shared/nav"

// PageData feeds the sites and locations management page.
type PageData struct {
	Nav          nav.TopNavData
	Groups       []SiteGroup
	ShowInactive bool
	Status       string
	Error        string
}
