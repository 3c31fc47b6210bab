package devtools

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// MessageType is the type of a pushed message.
type MessageType string

const (
	MessageState  MessageType = "state"
	MessageReload MessageType = "reload"
	MessageError  MessageType = "error"
)

// Message is sent to inspector clients via WebSocket.
type Message struct {
	Type     MessageType     `json:"type"`
	State    any             `json:"state,omitempty"`
	Reloaded int             `json:"reloaded,omitempty"`
	Error    string          `json:"error,omitempty"`
	Detail   json.RawMessage `json:"detail,omitempty"`
}

// hub manages WebSocket connections.
type hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	writeMu  sync.Mutex
	upgrader websocket.Upgrader
}

func newHub() *hub {
	return &hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Local tooling only
			},
		},
	}
}

// serve upgrades the request and keeps the connection until the client
// leaves. hello is written before the connection joins broadcasts.
func (h *hub) serve(w http.ResponseWriter, req *http.Request, hello func() Message) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	if data, err := json.Marshal(hello()); err == nil {
		h.writeMu.Lock()
		err = conn.WriteMessage(websocket.TextMessage, data)
		h.writeMu.Unlock()
		if err != nil {
			conn.Close()
			return
		}
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// broadcast sends a message to all connected clients.
func (h *hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		data, _ = json.Marshal(Message{Type: MessageError, Error: err.Error()})
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.mu.Lock()
			delete(h.clients, client)
			h.mu.Unlock()
			client.Close()
		}
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
