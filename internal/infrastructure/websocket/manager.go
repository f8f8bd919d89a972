package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chatmarket/internal/infrastructure/metrics"
	"chatmarket/pkg/logger"
)

const (
	EventNewMessage       = "new_message"
	EventConversationRead = "conversation_read"
	EventOrderUpdated     = "order_updated"
	EventPing             = "ping"
	EventPong             = "pong"
)

// Event is the frame pushed to connected clients
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Client represents one WebSocket connection of a signed-in account
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// Manager tracks active connections per account. One account may hold
// several connections, e.g. two browser tabs.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	commands   CommandHandler
	mutex      sync.RWMutex
	done       chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Done is closed once the registration loop has stopped. Nothing receives on
// Register or Unregister after that.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Start runs the registration loop until ctx is done
func (m *Manager) Start(ctx context.Context) {
	go func() {
		defer close(m.done)

		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if m.clients[client.UserID] == nil {
					m.clients[client.UserID] = make(map[*Client]struct{})
				}
				m.clients[client.UserID][client] = struct{}{}
				m.mutex.Unlock()
				metrics.WebsocketConnected()
				logger.Debug("Websocket client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.remove(client)

			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	conns, ok := m.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}

	delete(conns, client)
	if len(conns) == 0 {
		delete(m.clients, client.UserID)
	}
	close(client.Send)
	metrics.WebsocketDisconnected()
	logger.Debug("Websocket client unregistered: %s", client.UserID)
}

// IsConnected reports whether userID has at least one live connection
func (m *Manager) IsConnected(userID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return len(m.clients[userID]) > 0
}

// Notify pushes an event to every connection of userID. Slow clients whose
// buffer is full are dropped.
func (m *Manager) Notify(userID string, eventType string, data interface{}) {
	frame, err := json.Marshal(Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("Failed to encode websocket event %s: %v", eventType, err)
		return
	}

	m.SendToUser(userID, frame)
}

func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	var stale []*Client
	for client := range m.clients[userID] {
		select {
		case client.Send <- message:
		default:
			stale = append(stale, client)
		}
	}
	m.mutex.RUnlock()

	for _, client := range stale {
		logger.Warn("Dropping slow websocket client: %s", client.UserID)
		m.remove(client)
	}
}

// reply answers a single connection; Send is only written under the read
// lock while the client is still registered.
func (m *Manager) reply(c *Client, eventType string, data interface{}) {
	frame, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now().UTC().Format(time.RFC3339)})
	if err != nil {
		logger.Error("Failed to encode websocket reply %s: %v", eventType, err)
		return
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if _, ok := m.clients[c.UserID][c]; !ok {
		return
	}
	select {
	case c.Send <- frame:
	default:
	}
}

// ReadPump reads frames from the connection and hands them to the manager
func (c *Client) ReadPump(ctx context.Context, m *Manager) {
	defer func() {
		select {
		case m.Unregister <- c:
		case <-m.done:
			m.remove(c)
		}
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Websocket read error for %s: %v", c.UserID, err)
			}
			break
		}

		m.HandleClientMessage(ctx, c, raw)
	}
}

// WritePump sends queued frames to the connection
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Warn("Websocket write error for %s: %v", c.UserID, err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
