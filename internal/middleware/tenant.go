package middleware

import (
	"context"

	"estate-crm/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

// TenantMiddleware lets dev setups without a token pick an organization via
// the X-Organization-Id header. A tenant already set by AuthMiddleware from
// the token claims wins.
func TenantMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.UserContext().Value(models.TenantIDKey).(string); ok {
			return c.Next()
		}
		if org := c.Get("X-Organization-Id"); org != "" {
			ctx := context.WithValue(c.UserContext(), models.TenantIDKey, org)
			c.SetUserContext(ctx)
		}
		return c.Next()
	}
}
