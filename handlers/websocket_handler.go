package handlers

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"estate-crm/services"
)

// WebSocketMessage represents an incoming WebSocket message
type WebSocketMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// WebSocketUpgrade upgrades HTTP connection to WebSocket
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket handles dashboard WebSocket connections
func HandleWebSocket(c *websocket.Conn) {
	callerID, ok := c.Locals("caller_id").(string)
	if !ok || callerID == "" {
		slog.Error("WebSocket connection without authenticated caller")
		c.Close()
		return
	}

	email, _ := c.Locals("email").(string)

	conn := &services.WebSocketConnection{
		Conn:         c,
		ConnectionID: uuid.New().String(),
		CallerID:     callerID,
		Email:        email,
		Send:         make(chan []byte, 256),
	}

	wsManager := services.GetWebSocketManager()
	wsManager.RegisterConnection(conn)
	defer wsManager.UnregisterConnection(conn.ConnectionID)

	slog.Info("WebSocket connection established",
		"connectionID", conn.ConnectionID,
		"callerID", callerID)

	welcomeMsg := map[string]interface{}{
		"type":          "connected",
		"message":       "WebSocket connection established",
		"connection_id": conn.ConnectionID,
	}
	if welcomeData, err := json.Marshal(welcomeMsg); err == nil {
		c.WriteMessage(websocket.TextMessage, welcomeData)
	}

	go handleWebSocketSend(conn)

	handleWebSocketReceive(conn)
}

// handleWebSocketSend handles sending messages to the WebSocket client
func handleWebSocketSend(conn *services.WebSocketConnection) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Error("Failed to write WebSocket message", "error", err)
				return
			}

		case <-ticker.C:
			// Send ping to keep connection alive
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleWebSocketReceive handles receiving messages from the WebSocket client
func handleWebSocketReceive(conn *services.WebSocketConnection) {
	defer func() {
		conn.Conn.Close()
	}()

	conn.Conn.SetReadLimit(64 * 1024)
	conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, messageBytes, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket read error", "error", err)
			}
			break
		}

		conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg WebSocketMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			slog.Error("Failed to parse WebSocket message", "error", err)
			continue
		}

		switch msg.Type {
		case "ping":
			pongMsg := map[string]string{"type": "pong"}
			if pongData, err := json.Marshal(pongMsg); err == nil {
				conn.Send <- pongData
			}

		default:
			slog.Warn("Unknown WebSocket message type",
				"type", msg.Type,
				"callerID", conn.CallerID)
		}
	}
}
