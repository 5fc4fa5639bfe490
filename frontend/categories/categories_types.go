package categories

import (
	"invapp/frontend/shared/nav"
	"invapp/models"
)

// PageData feeds the category management page.
type PageData struct {
	Nav           nav.TopNavData
	Tree          []Node
	ParentOptions []models.Category
	ShowInactive  bool
	InactiveCount int64
	Status        string
	Error         string
}
