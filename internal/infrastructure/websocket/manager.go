package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"roostermarket/internal/domain/entity"
	"roostermarket/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

// Client is one websocket connection. A user may hold several. Send is never
// closed; the manager closes done when it drops the client.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
	done   chan struct{}
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return newClient(userID, conn, sendBuffer)
}

func newClient(userID string, conn *websocket.Conn, buffer int) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, buffer),
		done:   make(chan struct{}),
	}
}

// Manager tracks live connections and delivers chat events to them.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Start runs the registration loop until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		defer close(m.done)
		for {
			select {
			case client := <-m.Register:
				m.add(client)
				logger.Debug("websocket client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.remove(client)
				logger.Debug("websocket client unregistered: %s", client.UserID)

			case <-ctx.Done():
				m.closeAll()
				return
			}
		}
	}()
}

// Attach registers c. It reports false once the manager has stopped.
func (m *Manager) Attach(c *Client) bool {
	select {
	case m.Register <- c:
		return true
	case <-m.done:
		return false
	}
}

// detach unregisters c without blocking after the manager has stopped.
func (m *Manager) detach(c *Client) {
	select {
	case m.Unregister <- c:
	case <-m.done:
	}
}

func (m *Manager) add(c *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	set, ok := m.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		m.clients[c.UserID] = set
	}
	set[c] = struct{}{}
}

func (m *Manager) remove(c *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.removeLocked(c)
}

func (m *Manager) removeLocked(c *Client) {
	set, ok := m.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.done)
	if len(set) == 0 {
		delete(m.clients, c.UserID)
	}
}

func (m *Manager) closeAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, set := range m.clients {
		for c := range set {
			m.removeLocked(c)
		}
	}
}

// IsOnline reports whether userID has at least one open connection.
func (m *Manager) IsOnline(userID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[userID]) > 0
}

// SendToUser queues payload on every connection of userID. Connections whose
// buffer is full are dropped.
func (m *Manager) SendToUser(userID string, payload []byte) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for c := range m.clients[userID] {
		select {
		case c.Send <- payload:
		default:
			logger.Warn("websocket send buffer full, dropping client %s", userID)
			m.removeLocked(c)
		}
	}
}

// Publish delivers a chat event to every listed user that is connected.
func (m *Manager) Publish(ctx context.Context, userIDs []string, event *entity.ChatEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	for _, id := range userIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.SendToUser(id, payload)
	}
	return nil
}

// ReadPump drains inbound frames until the connection fails, then unregisters.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.detach(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error for %s: %v", c.UserID, err)
			}
			return
		}
		if reply := handleInbound(data); reply != nil {
			select {
			case <-c.done:
				return
			case c.Send <- reply:
			default:
			}
		}
	}
}

// WritePump writes queued payloads and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("websocket write error for %s: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
