package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event names broadcast on a call room.
const (
	EventAgentTyping   = "agent-typing"
	EventAgentResponse = "agent-response"
)

// TypingEvent signals that a synthetic participant is composing a reply.
type TypingEvent struct {
	CallID    string `json:"callId"`
	AgentName string `json:"agentName"`
	IsTyping  bool   `json:"isTyping"`
}

// ResponseEvent carries one delivered persona reply.
type ResponseEvent struct {
	CallID       string  `json:"callId"`
	AgentName    string  `json:"agentName"`
	ResponseText string  `json:"responseText"`
	AudioURL     *string `json:"audioUrl"`
	Timestamp    string  `json:"timestamp"`
	Region       string  `json:"region"`
}

// Envelope is the wire shape for every room message.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

const writeTimeout = 5 * time.Second

// Hub fans events out to websocket clients grouped into rooms keyed by call
// id. Broadcast never blocks the caller: slow clients are dropped.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*client]struct{}
	logger *zap.Logger

	upgrader websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*client]struct{}),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Join upgrades the request to a websocket and subscribes it to the room.
// Blocks until the client disconnects.
func (h *Hub) Join(room string, w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn}
	h.add(room, c)
	defer h.remove(room, c)

	// Clients only listen; reads just detect disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// Broadcast sends the event to every client in the room.
func (h *Hub) Broadcast(room, event string, data interface{}) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to marshal room event", zap.String("event", event), zap.Error(err))
		}
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(payload); err != nil {
			h.remove(room, c)
		}
	}
}

// RoomSize returns the number of connected clients in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (h *Hub) add(room string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*client]struct{})
	}
	h.rooms[room][c] = struct{}{}
}

func (h *Hub) remove(room string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rooms[room]; ok {
		if _, ok := clients[c]; ok {
			delete(clients, c)
			c.conn.Close()
			if len(clients) == 0 {
				delete(h.rooms, room)
			}
		}
	}
}
