package organization

import (
	"estate-crm/internal/authz"
	"estate-crm/internal/config"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type OrganizationApi struct {
	controller *OrganizationController
	config     *config.Config
	principals middleware.PrincipalSource
}

func NewOrganizationApi(controller *OrganizationController, config *config.Config, principals middleware.PrincipalSource) *OrganizationApi {
	return &OrganizationApi{
		controller: controller,
		config:     config,
		principals: principals,
	}
}

// Setup registers organization routes. Company records hang off the users
// module: whoever administers users administers the company record.
func (h *OrganizationApi) Setup(app *fiber.App) {
	orgs := app.Group("/api/organizations", middleware.AuthMiddleware(h.config.SkipAuth), middleware.TenantMiddleware())

	orgs.Get("/", middleware.RequirePermission(h.principals, authz.ModuleUsers, authz.ActionView), h.controller.ListOrganizations)
	orgs.Get("/:id", middleware.RequirePermission(h.principals, authz.ModuleUsers, authz.ActionView), h.controller.GetOrganization)
	orgs.Put("/:id", middleware.RequirePermission(h.principals, authz.ModuleUsers, authz.ActionEdit), h.controller.UpdateOrganization)
}
