package unit

import (
	"estate-crm/internal/authz"
	"estate-crm/internal/config"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UnitApi struct {
	controller *UnitController
	config     *config.Config
	principals middleware.PrincipalSource
}

func NewUnitApi(controller *UnitController, config *config.Config, principals middleware.PrincipalSource) *UnitApi {
	return &UnitApi{
		controller: controller,
		config:     config,
		principals: principals,
	}
}

// Setup registers unit routes
func (h *UnitApi) Setup(app *fiber.App) {
	units := app.Group("/api/units", middleware.AuthMiddleware(h.config.SkipAuth), middleware.TenantMiddleware())

	units.Get("/", middleware.RequirePermission(h.principals, authz.ModuleInventory, authz.ActionView), h.controller.ListUnits)
	units.Get("/export", middleware.RequirePermission(h.principals, authz.ModuleInventory, authz.ActionExport), h.controller.ExportUnits)
	units.Get("/:id", middleware.RequirePermission(h.principals, authz.ModuleInventory, authz.ActionView), h.controller.GetUnit)
	units.Post("/", middleware.RequirePermission(h.principals, authz.ModuleInventory, authz.ActionCreate), h.controller.CreateUnit)
	units.Put("/:id", middleware.RequirePermission(h.principals, authz.ModuleInventory, authz.ActionEdit), h.controller.UpdateUnit)
	units.Post("/:id/status", middleware.RequirePermission(h.principals, authz.ModuleInventory, authz.ActionStatus), h.controller.ChangeStatus)
	units.Delete("/:id", middleware.RequirePermission(h.principals, authz.ModuleInventory, authz.ActionDelete), h.controller.DeleteUnit)
}
