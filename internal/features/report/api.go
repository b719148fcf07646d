package report

import (
	"estate-crm/internal/authz"
	"estate-crm/internal/config"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	service    ReportService
	config     *config.Config
	principals middleware.PrincipalSource
}

func NewReportApi(service ReportService, config *config.Config, principals middleware.PrincipalSource) *ReportApi {
	return &ReportApi{
		service:    service,
		config:     config,
		principals: principals,
	}
}

// Setup registers report routes
func (h *ReportApi) Setup(app *fiber.App) {
	reports := app.Group("/api/reports", middleware.AuthMiddleware(h.config.SkipAuth), middleware.TenantMiddleware())

	reports.Get("/funnel", middleware.RequirePermission(h.principals, authz.ModuleReports, authz.ActionView), func(c *fiber.Ctx) error {
		funnel, err := h.service.Funnel(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to build report",
			})
		}
		return c.JSON(funnel)
	})
}
