package notification

import (
	"estate-crm/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type NotificationApi struct {
	hub *Hub
	log *zap.Logger
}

func NewNotificationApi(hub *Hub, log *zap.Logger) *NotificationApi {
	return &NotificationApi{
		hub: hub,
		log: log,
	}
}

// Setup registers the push channel. Browsers cannot set an Authorization
// header on the upgrade request, so the token rides in the query string.
func (h *NotificationApi) Setup(app *fiber.App) {
	app.Use("/api/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		claims, err := utils.ValidateToken(c.Query("token"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}
		c.Locals("tenant_id", claims.OrganizationID)
		return c.Next()
	})

	app.Get("/api/ws", websocket.New(func(conn *websocket.Conn) {
		tenantID, _ := conn.Locals("tenant_id").(string)
		if tenantID == "" {
			conn.Close()
			return
		}

		h.hub.register(tenantID, conn)
		defer func() {
			h.hub.unregister(tenantID, conn)
			conn.Close()
		}()

		// Reads only keep the connection alive; pushes come from the hub.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
