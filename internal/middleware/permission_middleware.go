package middleware

import (
	"context"

	"estate-crm/internal/authz"
	"estate-crm/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// PrincipalSource resolves a user id to its permission-relevant fields
// (role plus custom overrides). Implemented by the user service.
type PrincipalSource interface {
	Principal(ctx context.Context, userID string) (authz.Principal, error)
}

// RequirePermission gates a route on one (module, action) pair. The check is
// a boolean: any failure to resolve the principal denies, it never errors
// through to the handler.
func RequirePermission(source PrincipalSource, module authz.Module, action authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		principal, err := source.Principal(c.UserContext(), claims.UserID)
		if err != nil {
			// Fall back to the bare role from the token. Fail-closed: an
			// unknown role resolves to no access.
			principal = authz.Principal{Role: authz.RoleID(claims.Role)}
		}

		if !authz.PermissionForUser(principal, module, action) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied: Insufficient permissions for this action",
			})
		}

		return c.Next()
	}
}
