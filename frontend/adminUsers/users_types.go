package adminusers

import "invapp/frontend/shared/nav"

type PageData struct {
	Nav    nav.TopNavData
	Users  []UserRow
	Roles  []RoleOption
	Status string
	Error  string
}

type RoleOption struct {
	ID   int64
	Name string
}
