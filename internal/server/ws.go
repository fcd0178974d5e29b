package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ChakriOriginals/MathVizAI/internal/pipeline"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHub broadcasts pipeline events to connected WebSocket clients.
type WSHub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
	bus     *pipeline.EventBus
	eventCh chan pipeline.Event
}

// NewWSHub creates a hub subscribed to the given event bus.
func NewWSHub(bus *pipeline.EventBus) *WSHub {
	return &WSHub{
		clients: make(map[*websocket.Conn]bool),
		bus:     bus,
		eventCh: bus.Subscribe(),
	}
}

// Run starts the hub's event broadcast loop.
func (h *WSHub) Run() {
	for evt := range h.eventCh {
		data, err := json.Marshal(evt)
		if err != nil {
			continue
		}

		h.mu.Lock()
		for conn := range h.clients {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}

// HandleWebSocket upgrades HTTP connections to WebSocket.
func (h *WSHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
