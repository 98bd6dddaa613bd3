package websocket

import (
	"sync"
	"time"

	"purchase-orders-backend/purchase_orders/services"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeNotification MessageType = "NOTIFICATION"
	MessageTypeError        MessageType = "ERROR"
)

type WebSocketMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NotificationPayload is the body of a NOTIFICATION message.
type NotificationPayload struct {
	Message  string            `json:"message"`
	Severity services.Severity `json:"severity"`
}

type Client struct {
	ID   uuid.UUID
	User string
	Conn *websocket.Conn
	Hub  *Hub
	Send chan WebSocketMessage
}

// Hub tracks connected clients by user and fans messages out to them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	now        func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		now:        time.Now,
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
			h.removeClient(client)

		case <-h.done:
			return
		}
	}
}

func (h *Hub) Stop() { close(h.done) }

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// SendToUser queues message on every connection of user. Slow clients are dropped.
func (h *Hub) SendToUser(user string, message WebSocketMessage) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for client := range h.clients {
		if client.User != user {
			continue
		}
		select {
		case client.Send <- message:
			delivered++
		default:
			close(client.Send)
			delete(h.clients, client)
		}
	}
	return delivered
}

// Notify implements services.Notifier.
func (h *Hub) Notify(user, message string, severity services.Severity) {
	h.SendToUser(user, WebSocketMessage{
		Type:      MessageTypeNotification,
		Payload:   NotificationPayload{Message: message, Severity: severity},
		Timestamp: h.now(),
	})
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
