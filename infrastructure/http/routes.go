package http

import (
	"github.com/go-chi/chi/v5"

	"invapp/frontend/accessdenied"
	adminusers "invapp/frontend/adminUsers"
	"invapp/frontend/categories"
	"invapp/frontend/dashboard"
	"invapp/frontend/exports"
	"invapp/frontend/inventory"
	"invapp/frontend/inventory/audit"
	"invapp/frontend/labels"
	"invapp/frontend/locations"
	"invapp/frontend/login"
	"invapp/frontend/requests"
	"invapp/infrastructure/rbac"
)

// RegisterLoginRoutes registers login/logout routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.SessionCache, s.UserCache))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache))
}

// RegisterFrontendRoutes registers all authenticated routes grouped by the
// permission that guards them.
func (s *Server) RegisterFrontendRoutes(r chi.Router) chi.Router {
	r.Get("/access-denied", accessdenied.AccessDeniedPageQueryHandler(s.Rbac))

	r.Group(func(r chi.Router) {
		r.Use(s.RequirePermission(rbac.PermViewInventory))

		r.Get("/dashboard", dashboard.DashboardPageQueryHandler(s.DB, s.Rbac))

		r.Get("/inventory", inventory.InventoryPageQueryHandler(s.DB, s.Rbac))
		r.Get("/inventory/items/{id}/label", labels.ItemLabelQueryHandler(s.DB))
		r.Get("/inventory/items/{id}/total-stock", inventory.TotalStockQueryHandler(s.DB))
		r.Get("/inventory/items/{id}/stocks", inventory.ItemStocksQueryHandler(s.DB))
		r.Get("/inventory/export.csv", exports.StockExportCSVHandler(s.DB))

		r.Get("/inventory/audit", audit.AuditPageQueryHandler(s.DB, s.Rbac))
		r.Post("/inventory/audit/request", audit.RequestItemCommandHandler(s.DB, s.History))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.RequirePermission(rbac.PermManageInventory))

		r.Post("/inventory/items", inventory.CreateItemCommandHandler(s.DB, s.History))
		r.Post("/inventory/items/{id}/edit", inventory.UpdateItemCommandHandler(s.DB, s.History))
		r.Post("/inventory/items/{id}/deactivate", inventory.SetItemActiveCommandHandler(s.DB, s.History, false))
		r.Post("/inventory/items/{id}/reactivate", inventory.SetItemActiveCommandHandler(s.DB, s.History, true))
		r.Post("/inventory/audit/adjust", audit.AdjustStockCommandHandler(s.DB, s.History))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.RequirePermission(rbac.PermViewAllRequests))

		r.Get("/requests", requests.RequestsPageQueryHandler(s.DB, s.Rbac))
		r.Post("/requests/{id}/status", requests.UpdateRequestStatusCommandHandler(s.DB, s.History))
		r.Get("/requests/export.csv", exports.RequestsExportCSVHandler(s.DB))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.RequirePermission(rbac.PermManageCategories))

		r.Get("/categories", categories.CategoriesPageQueryHandler(s.DB, s.Rbac))
		r.Post("/categories", categories.CreateCategoryCommandHandler(s.DB))
		r.Post("/categories/{id}/edit", categories.UpdateCategoryCommandHandler(s.DB))
		r.Post("/categories/{id}/deactivate", categories.DeactivateCategoryCommandHandler(s.DB))
		r.Post("/categories/{id}/reactivate", categories.ReactivateCategoryCommandHandler(s.DB))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.RequirePermission(rbac.PermManageLocations))

		r.Get("/locations", locations.LocationsPageQueryHandler(s.DB, s.Rbac))
		r.Post("/locations", locations.CreateLocationCommandHandler(s.DB))
		r.Post("/locations/{id}/edit", locations.UpdateLocationCommandHandler(s.DB))
		r.Post("/locations/{id}/deactivate", locations.SetLocationActiveCommandHandler(s.DB, false))
		r.Post("/locations/{id}/reactivate", locations.SetLocationActiveCommandHandler(s.DB, true))
		r.Post("/locations/sites", locations.CreateSiteCommandHandler(s.DB))
		r.Post("/locations/sites/{id}/edit", locations.UpdateSiteCommandHandler(s.DB))
		r.Post("/locations/sites/{id}/deactivate", locations.DeactivateSiteCommandHandler(s.DB))
		r.Post("/locations/sites/{id}/reactivate", locations.ReactivateSiteCommandHandler(s.DB))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.RequirePermission(rbac.PermManageUsers))

		r.Get("/users", adminusers.UsersPageQueryHandler(s.DB, s.Rbac))
		r.Post("/users", adminusers.AddUserCommandHandler(s.DB))
		r.Post("/users/{id}/edit", adminusers.EditUserCommandHandler(s.DB, s.SessionCache))
	})

	return r
}
