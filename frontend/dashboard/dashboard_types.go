package dashboard

import "invapp/frontend/shared/nav"

type PageData struct {
	Nav     nav.TopNavData
	Summary Summary
	Status  string
	Error   string
}
