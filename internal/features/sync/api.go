package sync

import (
	"estate-crm/internal/authz"
	"estate-crm/internal/config"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SyncApi struct {
	controller *SyncController
	config     *config.Config
	principals middleware.PrincipalSource
}

func NewSyncApi(controller *SyncController, config *config.Config, principals middleware.PrincipalSource) *SyncApi {
	return &SyncApi{
		controller: controller,
		config:     config,
		principals: principals,
	}
}

// Setup registers sync routes. A sync run analyzes project data, so it
// shares the import gating: configuration and runs need projects.edit.
func (h *SyncApi) Setup(app *fiber.App) {
	syncs := app.Group("/api/sync", middleware.AuthMiddleware(h.config.SkipAuth), middleware.TenantMiddleware())

	syncs.Get("/", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionView), h.controller.ListSettings)
	syncs.Get("/:id", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionView), h.controller.GetSetting)
	syncs.Post("/", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionEdit), h.controller.SaveSetting)
	syncs.Delete("/:id", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionEdit), h.controller.DeleteSetting)
	syncs.Post("/:id/test", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionEdit), h.controller.TestSetting)
	syncs.Post("/:id/run", middleware.RequirePermission(h.principals, authz.ModuleProjects, authz.ActionView), h.controller.Run)
}
