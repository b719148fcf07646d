package county

import (
	"estate-crm/internal/config"
	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CountyApi struct {
	repo   CountyRepository
	config *config.Config
}

func NewCountyApi(repo CountyRepository, config *config.Config) *CountyApi {
	return &CountyApi{
		repo:   repo,
		config: config,
	}
}

// Setup registers the read-only lookup routes. Any authenticated user may
// read the geography table.
func (h *CountyApi) Setup(app *fiber.App) {
	counties := app.Group("/api/counties", middleware.AuthMiddleware(h.config.SkipAuth))

	counties.Get("/", func(c *fiber.Ctx) error {
		list, err := h.repo.List(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch counties",
			})
		}
		return c.JSON(fiber.Map{"counties": list})
	})
}
