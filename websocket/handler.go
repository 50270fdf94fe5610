// websocket/handler.go
package websocket

import (
	"time"

	"boq-analysis-backend/config"
	"boq-analysis-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService defines a token validator interface
type AuthService interface {
	VerifyToken(token string) (*token.Payload, error)
}

// WsHandler manages WebSocket requests and connections
type WsHandler struct {
	hub  *Hub
	auth AuthService
}

// NewWsHandler creates a new WebSocket handler instance
func NewWsHandler(hub *Hub, auth AuthService) *WsHandler {
	return &WsHandler{
		hub:  hub,
		auth: auth,
	}
}

// HandleWebSocket handles incoming WebSocket upgrade requests. Clients
// connect with a service token and optionally a project id to watch, then
// receive processing progress events as they happen.
func (h *WsHandler) HandleWebSocket(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	tokenStr := c.Query("token")
	if tokenStr == "" {
		config.Logger.Warn("WebSocket connection attempted without token")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required - token parameter missing",
		})
	}

	payload, err := h.auth.VerifyToken(tokenStr)
	if err != nil {
		config.Logger.Warn("WebSocket token verification failed", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	projectID := c.Query("project_id")
	if projectID != "" {
		if _, err := uuid.Parse(projectID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid project_id format",
			})
		}
	}

	config.Logger.Info("WebSocket connection authenticated",
		zap.String("email", payload.Email),
		zap.String("project_id", projectID),
	)

	// Upgrade to WebSocket using Fiber's websocket package
	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			ID:       uuid.New(),
			Email:    payload.Email,
			Conn:     conn,
			Hub:      h.hub,
			Send:     make(chan WebSocketMessage, 256),
			Projects: make(map[string]bool),
		}

		// Auto-watch the project the client connected with
		if projectID != "" {
			client.Projects[projectID] = true
		}

		h.hub.register <- client

		config.Logger.Info("WebSocket client registered",
			zap.String("clientID", client.ID.String()),
			zap.String("email", client.Email),
		)

		go client.writePump()
		client.readPump()
	})(c)
}

// clientCommand is the only inbound message shape clients may send: watch or
// unwatch a project's progress events.
type clientCommand struct {
	Action    string `json:"action"`
	ProjectID string `json:"project_id"`
}

// readPump listens for incoming watch/unwatch commands from the WebSocket
func (c *Client) readPump() {
	defer func() {
		config.Logger.Info("WebSocket client disconnecting",
			zap.String("clientID", c.ID.String()),
			zap.String("email", c.Email),
		)
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	// Set connection limits
	c.Conn.SetReadLimit(4 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var cmd clientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				config.Logger.Warn("WebSocket unexpected close",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
			}
			break
		}

		if cmd.ProjectID == "" {
			c.sendError("project_id is required")
			continue
		}
		if _, err := uuid.Parse(cmd.ProjectID); err != nil {
			c.sendError("invalid project_id format")
			continue
		}

		switch cmd.Action {
		case "watch":
			c.WatchProject(cmd.ProjectID)
		case "unwatch":
			c.UnwatchProject(cmd.ProjectID)
		default:
			config.Logger.Warn("Unknown WebSocket command",
				zap.String("action", cmd.Action),
				zap.String("clientID", c.ID.String()),
			)
			c.sendError("Unknown action: " + cmd.Action)
		}
	}
}

// writePump sends queued messages and keeps the connection alive
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(message); err != nil {
				config.Logger.Warn("WebSocket write failed",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendError(message string) {
	select {
	case c.Send <- WebSocketMessage{
		Type:      MessageTypeError,
		Payload:   fiber.Map{"message": message},
		Timestamp: time.Now(),
	}:
	default:
	}
}
