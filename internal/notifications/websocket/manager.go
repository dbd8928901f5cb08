package websocket

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"straypaws/rescue-portal/rescue-portal-backend/internal/notifications"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 50 * time.Second
)

// Manager tracks live connections per account and pushes notifications to
// them. Delivery is best-effort: an account with no open connection is not an
// error worth surfacing.
type Manager struct {
	mu          sync.RWMutex
	connections map[string][]*connection // account ID -> open sockets
	upgrader    websocket.Upgrader
}

type connection struct {
	accountID string
	conn      *websocket.Conn
	send      chan notifications.Notification
}

// NewManager creates a websocket manager.
func NewManager() *Manager {
	return &Manager{
		connections: make(map[string][]*connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Origin checking is the reverse proxy's job in this deployment.
				return true
			},
		},
	}
}

// HandleConnection upgrades the request and registers the socket for the
// authenticated account.
func (m *Manager) HandleConnection(w http.ResponseWriter, r *http.Request, accountID string) error {
	ws, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &connection{
		accountID: accountID,
		conn:      ws,
		send:      make(chan notifications.Notification, 32),
	}

	m.mu.Lock()
	m.connections[accountID] = append(m.connections[accountID], c)
	m.mu.Unlock()

	go m.writePump(c)
	go m.readPump(c)
	return nil
}

// SendToAccount pushes a notification to every open socket of the account.
func (m *Manager) SendToAccount(accountID string, n notifications.Notification) error {
	m.mu.RLock()
	conns := m.connections[accountID]
	m.mu.RUnlock()

	for _, c := range conns {
		select {
		case c.send <- n:
		default:
			// Slow consumer; drop rather than block the dispatcher.
		}
	}
	return nil
}

// Close shuts down all open connections.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, conns := range m.connections {
		for _, c := range conns {
			close(c.send)
		}
	}
	m.connections = make(map[string][]*connection)
}

func (m *Manager) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case n, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(n); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the socket is server-push only. It exists
// to notice closes and unregister the connection.
func (m *Manager) readPump(c *connection) {
	defer m.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Manager) unregister(c *connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conns := m.connections[c.accountID]
	for i, other := range conns {
		if other == c {
			m.connections[c.accountID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(m.connections[c.accountID]) == 0 {
		delete(m.connections, c.accountID)
	}
}
