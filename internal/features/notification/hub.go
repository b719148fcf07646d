package notification

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Event is the wire shape pushed to clients.
type Event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
	SentAt  time.Time   `json:"sent_at"`
}

// wsConn is the write surface the hub needs from a connection.
// *websocket.Conn satisfies it.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// client wraps a connection with a write lock. The underlying websocket
// allows only one concurrent writer, and two imports finishing together
// would otherwise write from two request goroutines at once.
type client struct {
	conn wsConn
	mu   sync.Mutex
}

// writeWait bounds how long a push may block on one connection. Clients
// that cannot keep up get dropped, never waited on.
const writeWait = 5 * time.Second

// Hub fans events out to every open connection of a tenant.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[wsConn]*client // tenant id -> connections
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		conns: make(map[string]map[wsConn]*client),
		log:   log,
	}
}

func (h *Hub) register(tenantID string, conn wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[tenantID] == nil {
		h.conns[tenantID] = make(map[wsConn]*client)
	}
	h.conns[tenantID][conn] = &client{conn: conn}
}

func (h *Hub) unregister(tenantID string, conn wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[tenantID], conn)
	if len(h.conns[tenantID]) == 0 {
		delete(h.conns, tenantID)
	}
}

// Notify implements the import pipeline's progress interface.
func (h *Hub) Notify(tenantID string, event string, payload interface{}) {
	data, err := json.Marshal(Event{Event: event, Payload: payload, SentAt: time.Now()})
	if err != nil {
		h.log.Error("marshaling notification", zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.conns[tenantID]))
	for _, cl := range h.conns[tenantID] {
		targets = append(targets, cl)
	}
	h.mu.RUnlock()

	for _, cl := range targets {
		cl.mu.Lock()
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := cl.conn.WriteMessage(websocket.TextMessage, data)
		cl.mu.Unlock()
		if err != nil {
			h.unregister(tenantID, cl.conn)
			cl.conn.Close()
		}
	}
}
