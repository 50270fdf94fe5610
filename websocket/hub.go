// websocket/hub.go
package websocket

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeProcessingStarted  MessageType = "PROCESSING_STARTED"
	MessageTypeProcessingComplete MessageType = "PROCESSING_COMPLETE"
	MessageTypeProcessingFailed   MessageType = "PROCESSING_FAILED"
	MessageTypeInsightsReady      MessageType = "INSIGHTS_READY"
	MessageTypeError              MessageType = "ERROR"
)

type WebSocketMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
	ProjectID string      `json:"projectId,omitempty"`
}

type Client struct {
	ID       uuid.UUID
	Email    string
	Conn     *websocket.Conn
	Hub      *Hub
	Send     chan WebSocketMessage
	Projects map[string]bool
	mu       sync.RWMutex
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan WebSocketMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan WebSocketMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.broadcastToAll(message)
		}
	}
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(message WebSocketMessage) {
	h.broadcast <- message
}

// BroadcastToProject sends a message to clients watching a specific project
func (h *Hub) BroadcastToProject(projectID string, message WebSocketMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.mu.RLock()
		_, isWatching := client.Projects[projectID]
		client.mu.RUnlock()

		if isWatching {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// broadcastToAll sends a message to all connected clients
func (h *Hub) broadcastToAll(message WebSocketMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(h.clients, client)
		}
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// WatchProject adds a project to the client's watch list
func (c *Client) WatchProject(projectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Projects == nil {
		c.Projects = make(map[string]bool)
	}
	c.Projects[projectID] = true
}

// UnwatchProject removes a project from the client's watch list
func (c *Client) UnwatchProject(projectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Projects, projectID)
}

// IsWatchingProject checks if the client watches a project
func (c *Client) IsWatchingProject(projectID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.Projects[projectID]
	return exists
}
