package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Notifications  *handlers.NotificationsHandler
	Catalog        *handlers.CatalogHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password-reset", cfg.Users.RequestPasswordReset)
	authGroup.Post("/change-password", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Users.ChangePassword)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	api.Get("/users/me", cfg.Users.Me)
	users := api.Group("/users", auth.RequireCapability(domain.CapManageUsers))
	users.Post("/", cfg.Users.Create)
	users.Get("/", cfg.Users.List)
	users.Patch("/:id", cfg.Users.Update)
	users.Put("/:id/role", cfg.Users.SetRole)
	users.Delete("/:id", cfg.Users.Delete)

	api.Get("/technicians", auth.RequireRole(domain.RoleAdmin, domain.RoleTechnician), cfg.Users.ListTechnicians)

	tickets := api.Group("/tickets")
	tickets.Post("/", auth.RequireCapability(domain.CapCreateTicket), cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleTechnician), cfg.Tickets.Update)
	tickets.Delete("/:id", auth.RequireCapability(domain.CapDeleteTicket), cfg.Tickets.Delete)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Post("/:id/rating", auth.RequireCapability(domain.CapRateTicket), cfg.Tickets.Rate)

	notifications := api.Group("/notifications")
	notifications.Get("/", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
	notifications.Delete("/", cfg.Notifications.DeleteAll)

	api.Get("/catalog", cfg.Catalog.Snapshot)
	api.Get("/catalog/categories/:id/subcategories", cfg.Catalog.Subcategories)

	catalog := api.Group("/catalog", auth.RequireCapability(domain.CapManageCatalog))
	catalog.Post("/categories", cfg.Catalog.CreateCategory)
	catalog.Patch("/categories/:id", cfg.Catalog.UpdateCategory)
	catalog.Post("/subcategories", cfg.Catalog.CreateSubcategory)
	catalog.Patch("/subcategories/:id", cfg.Catalog.UpdateSubcategory)
	catalog.Post("/priorities", cfg.Catalog.CreatePriority)
	catalog.Patch("/priorities/:id", cfg.Catalog.UpdatePriority)
	catalog.Post("/statuses", cfg.Catalog.CreateStatus)
	catalog.Patch("/statuses/:id", cfg.Catalog.UpdateStatus)
	catalog.Post("/areas", cfg.Catalog.CreateArea)
	catalog.Patch("/areas/:id", cfg.Catalog.UpdateArea)

	api.Get("/reports/overview", auth.RequireCapability(domain.CapViewReports), cfg.Reports.Overview)
}
