package importer

import (
	"estate-crm/internal/authz"
	"estate-crm/internal/config"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ImportApi struct {
	controller *ImportController
	config     *config.Config
	principals middleware.PrincipalSource
}

func NewImportApi(controller *ImportController, config *config.Config, principals middleware.PrincipalSource) *ImportApi {
	return &ImportApi{
		controller: controller,
		config:     config,
		principals: principals,
	}
}

// Setup registers import routes. Preview and analyze only read project data,
// so they gate on view; apply writes and gates on edit.
func (h *ImportApi) Setup(app *fiber.App) {
	imports := app.Group("/api/imports", middleware.AuthMiddleware(h.config.SkipAuth), middleware.TenantMiddleware())

	imports.Post("/preview", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionView), h.controller.Preview)
	imports.Post("/analyze", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionView), h.controller.Analyze)
	imports.Post("/:id/apply", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionEdit), h.controller.Apply)
	imports.Get("/", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionView), h.controller.ListJobs)
	imports.Get("/:id", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionView), h.controller.GetJob)
}
