package user

import (
	"estate-crm/internal/authz"
	"estate-crm/internal/config"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
	principals middleware.PrincipalSource
}

func NewUserApi(controller *UserController, config *config.Config, principals middleware.PrincipalSource) *UserApi {
	return &UserApi{
		controller: controller,
		config:     config,
		principals: principals,
	}
}

// Setup registers all user-related routes
func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth), middleware.TenantMiddleware())

	users.Post("/", middleware.RequirePermission(h.principals, authz.ModuleUsers, authz.ActionCreate), h.controller.CreateUser)
	users.Get("/", middleware.RequirePermission(h.principals, authz.ModuleUsers, authz.ActionView), h.controller.ListUsers)
	users.Get("/roles", middleware.RequirePermission(h.principals, authz.ModuleUsers, authz.ActionView), h.controller.ListRoles)
	users.Get("/:id", middleware.RequirePermission(h.principals, authz.ModuleUsers, authz.ActionView), h.controller.GetUser)
	users.Put("/:id", middleware.RequirePermission(h.principals, authz.ModuleUsers, authz.ActionEdit), h.controller.UpdateUser)
	users.Put("/:id/permissions", middleware.RequirePermission(h.principals, authz.ModuleUsers, authz.ActionEdit), h.controller.UpdateUserPermissions)
	users.Delete("/:id", middleware.RequirePermission(h.principals, authz.ModuleUsers, authz.ActionDelete), h.controller.DeleteUser)
}
