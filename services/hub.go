package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) send(event any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(event)
}

// ConnectionManager is the connection directory: username -> live session.
// Delivery is best-effort and at-most-once; offline recipients are skipped.
type ConnectionManager struct {
	mu     sync.RWMutex
	online map[string]*wsClient
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{online: map[string]*wsClient{}}
}

// Handle runs one socket session. The auth middleware put the resolved
// username into the connection locals before the upgrade.
func (m *ConnectionManager) Handle(conn *websocket.Conn) {
	username, _ := conn.Locals("username").(string)
	if username == "" {
		conn.Close()
		return
	}

	client := &wsClient{conn: conn}
	m.mu.Lock()
	if old, ok := m.online[username]; ok {
		old.conn.Close()
	}
	m.online[username] = client
	m.mu.Unlock()
	log.Printf("[WS] %s connected", username)

	defer func() {
		m.mu.Lock()
		if m.online[username] == client {
			delete(m.online, username)
		}
		m.mu.Unlock()
		conn.Close()
		log.Printf("[WS] %s disconnected", username)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		m.handleMessage(username, client, raw)
	}
}

// handleMessage relays direct user-to-user chat sent over the socket.
func (m *ConnectionManager) handleMessage(username string, client *wsClient, raw []byte) {
	var msg struct {
		Type      string `json:"type"`
		Msg       string `json:"msg"`
		Recipient string `json:"recipient"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		client.send(fiber.Map{"type": "error", "msg": "Invalid JSON format"})
		return
	}

	switch msg.Type {
	case "msg":
		if !m.Deliver(msg.Recipient, fiber.Map{"type": "msg", "msg": fmt.Sprintf("%s says: %s", username, msg.Msg)}) {
			client.send(fiber.Map{"type": "error", "msg": fmt.Sprintf("User %s is not online", msg.Recipient)})
		}
	default:
		client.send(fiber.Map{"type": "error", "msg": "Unknown message type"})
	}
}

// Deliver sends one event to a connected user. Returns false when the user
// is offline or the write fails; callers never retry.
func (m *ConnectionManager) Deliver(username string, event any) bool {
	m.mu.RLock()
	client, ok := m.online[username]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	if err := client.send(event); err != nil {
		log.Printf("[WS] delivery to %s failed: %v", username, err)
		return false
	}
	return true
}

// IsOnline reports whether a user currently has a live session.
func (m *ConnectionManager) IsOnline(username string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.online[username]
	return ok
}

// Broadcast sends an event to every connected session.
func (m *ConnectionManager) Broadcast(event any) {
	m.mu.RLock()
	clients := make([]*wsClient, 0, len(m.online))
	for _, c := range m.online {
		clients = append(clients, c)
	}
	m.mu.RUnlock()
	for _, c := range clients {
		c.send(event)
	}
}
