package handler

import (
	"os"

	"vc-intel-be/internal/pkg/logger"
	internalWS "vc-intel-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NotificationHandler upgrades authenticated requests to persistent
// notification connections.
type NotificationHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewNotificationHandler(hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		hub:    hub,
		logger: log,
	}
}

// RegisterRoutes registers the notification routes. The websocket
// route authenticates inside ServeWs, not via the JWT middleware,
// because browsers pass the token as a query param on upgrade.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notif := router.Group("/notifications")
	notif.Get("/ws", h.ServeWs)
}

// ServeWs handles the websocket handshake. The token is accepted from
// the "token" query param (browsers cannot set headers on a websocket
// handshake) or from the Authorization header.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("NotificationHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	subscriberStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}
	subscriberID, err := uuid.Parse(subscriberStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid subscriber ID format in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting notification session", map[string]interface{}{"subscriber_id": subscriberID})
			internalWS.ServeWs(h.hub, conn, subscriberID)
			h.logger.Info("NotificationHandler", "Notification session ended", map[string]interface{}{"subscriber_id": subscriberID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
