package project

import (
	"estate-crm/internal/authz"
	"estate-crm/internal/config"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ProjectApi struct {
	controller *ProjectController
	config     *config.Config
	principals middleware.PrincipalSource
}

func NewProjectApi(controller *ProjectController, config *config.Config, principals middleware.PrincipalSource) *ProjectApi {
	return &ProjectApi{
		controller: controller,
		config:     config,
		principals: principals,
	}
}

// Setup registers project routes
func (h *ProjectApi) Setup(app *fiber.App) {
	projects := app.Group("/api/projects", middleware.AuthMiddleware(h.config.SkipAuth), middleware.TenantMiddleware())

	projects.Get("/", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionView), h.controller.ListProjects)
	projects.Get("/export", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionExport), h.controller.ExportProjects)
	projects.Get("/:id", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionView), h.controller.GetProject)
	projects.Post("/", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionCreate), h.controller.CreateProject)
	projects.Put("/:id", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionEdit), h.controller.UpdateProject)
	projects.Delete("/:id", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionDelete), h.controller.DeleteProject)
}
