package quotation

import (
	"estate-crm/internal/authz"
	"estate-crm/internal/config"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type QuotationApi struct {
	controller *QuotationController
	config     *config.Config
	principals middleware.PrincipalSource
}

func NewQuotationApi(controller *QuotationController, config *config.Config, principals middleware.PrincipalSource) *QuotationApi {
	return &QuotationApi{
		controller: controller,
		config:     config,
		principals: principals,
	}
}

// Setup registers quotation routes. Pricing-rule editing is an edit-level
// concern: whoever may change quotations may change how they are priced.
func (h *QuotationApi) Setup(app *fiber.App) {
	quotations := app.Group("/api/quotations", middleware.AuthMiddleware(h.config.SkipAuth), middleware.TenantMiddleware())

	quotations.Get("/", middleware.RequirePermission(h.principals, authz.ModuleQuotations, authz.ActionView), h.controller.ListQuotations)
	quotations.Get("/pricing-rule", middleware.RequirePermission(h.principals, authz.ModuleQuotations, authz.ActionView), h.controller.GetPricingRule)
	quotations.Put("/pricing-rule", middleware.RequirePermission(h.principals, authz.ModuleQuotations, authz.ActionEdit), h.controller.SavePricingRule)
	quotations.Get("/:id", middleware.RequirePermission(h.principals, authz.ModuleQuotations, authz.ActionView), h.controller.GetQuotation)
	quotations.Post("/", middleware.RequirePermission(h.principals, authz.ModuleQuotations, authz.ActionCreate), h.controller.CreateQuotation)
	quotations.Put("/:id", middleware.RequirePermission(h.principals, authz.ModuleQuotations, authz.ActionEdit), h.controller.UpdateQuotation)
	quotations.Delete("/:id", middleware.RequirePermission(h.principals, authz.ModuleQuotations, authz.ActionDelete), h.controller.DeleteQuotation)
}
