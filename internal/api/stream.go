package api

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// HistoryEvent describes websocket payloads emitted when a user's history changes.
type HistoryEvent struct {
	Type      string          `json:"type"`
	Item      *HistoryItemDTO `json:"item,omitempty"`
	ID        string          `json:"id,omitempty"`
	Deleted   int64           `json:"deleted,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

const (
	historyEventSaved   = "saved"
	historyEventDeleted = "deleted"
	historyEventCleared = "cleared"
)

// wsClient wraps a websocket connection with write locking.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// HistoryNotifier fans history events out to each user's open sockets.
type HistoryNotifier struct {
	mu      sync.Mutex
	clients map[string]map[*wsClient]struct{}
}

func NewHistoryNotifier() *HistoryNotifier {
	return &HistoryNotifier{clients: make(map[string]map[*wsClient]struct{})}
}

// Register attaches a websocket connection for userID and returns a client handle.
func (n *HistoryNotifier) Register(userID string, conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}
	n.mu.Lock()
	defer n.mu.Unlock()
	set, ok := n.clients[userID]
	if !ok {
		set = make(map[*wsClient]struct{})
		n.clients[userID] = set
	}
	set[client] = struct{}{}
	return client
}

// Unregister removes the client and closes the socket.
func (n *HistoryNotifier) Unregister(userID string, client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	n.remove(userID, client)
	n.mu.Unlock()
	_ = client.conn.Close()
}

// Publish sends the event to every socket the user has open. Clients that
// fail to accept the write are dropped.
func (n *HistoryNotifier) Publish(userID string, event HistoryEvent) {
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	defer n.mu.Unlock()
	for client := range n.clients[userID] {
		if err := client.writeJSON(event); err != nil {
			n.remove(userID, client)
			_ = client.conn.Close()
		}
	}
}

// Connections reports how many sockets are open for userID.
func (n *HistoryNotifier) Connections(userID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.clients[userID])
}

func (n *HistoryNotifier) remove(userID string, client *wsClient) {
	set := n.clients[userID]
	delete(set, client)
	if len(set) == 0 {
		delete(n.clients, userID)
	}
}

func (c *wsClient) writeJSON(payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(payload)
}
