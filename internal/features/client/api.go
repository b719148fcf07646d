package client

import (
	"estate-crm/internal/authz"
	"estate-crm/internal/config"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ClientApi struct {
	controller *ClientController
	config     *config.Config
	principals middleware.PrincipalSource
}

func NewClientApi(controller *ClientController, config *config.Config, principals middleware.PrincipalSource) *ClientApi {
	return &ClientApi{
		controller: controller,
		config:     config,
		principals: principals,
	}
}

// Setup registers client routes. Clients ride on the quotations module: the
// roles that can quote are the roles that manage buyers.
func (h *ClientApi) Setup(app *fiber.App) {
	clients := app.Group("/api/clients", middleware.AuthMiddleware(h.config.SkipAuth), middleware.TenantMiddleware())

	clients.Get("/", middleware.RequirePermission(h.principals, authz.ModuleQuotations, authz.ActionView), h.controller.ListClients)
	clients.Get("/:id", middleware.RequirePermission(h.principals, authz.ModuleQuotations, authz.ActionView), h.controller.GetClient)
	clients.Post("/", middleware.RequirePermission(h.principals, authz.ModuleQuotations, authz.ActionCreate), h.controller.CreateClient)
	clients.Put("/:id", middleware.RequirePermission(h.principals, authz.ModuleQuotations, authz.ActionEdit), h.controller.UpdateClient)
	clients.Delete("/:id", middleware.RequirePermission(h.principals, authz.ModuleQuotations, authz.ActionDelete), h.controller.DeleteClient)
}
