package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/fonsirada/clothingapp/internal/manip"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// stateInterval is the broadcast period for controller snapshots (~30 Hz),
// matching the active capture rate so the cursor indicator stays fluid.
const stateInterval = 33 * time.Millisecond

// StateHandler is the bidirectional rendering-layer socket: it pushes
// controller snapshots out and accepts layout messages in. The
// rendering layer owns the toolbar layout, so it must tell the core
// where the buttons are and how big the container is.
type StateHandler struct {
	controller *manip.Controller
	clients    map[*websocket.Conn]bool
	mu         sync.RWMutex
}

// clientMessage is what the rendering layer sends over the socket.
type clientMessage struct {
	// Container is the rendering element size in pixels.
	Container *manip.Point `json:"container,omitempty"`

	// Hitboxes maps tool names ("move", "rotate", "scale") to their
	// button rectangles in container coordinates.
	Hitboxes map[string]manip.Rect `json:"hitboxes,omitempty"`

	// Mode switches between "hand" and "body" input.
	Mode string `json:"mode,omitempty"`
}

// NewStateHandler creates a StateHandler for the given controller.
func NewStateHandler(c *manip.Controller) *StateHandler {
	h := &StateHandler{
		controller: c,
		clients:    make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		h.handleMessage(data)
	}
}

// handleMessage applies a rendering-layer message to the controller.
// Malformed messages are dropped; the socket stays up.
func (h *StateHandler) handleMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("bad state message: %v", err)
		return
	}

	if msg.Container != nil || msg.Hitboxes != nil {
		container := manip.Point{}
		if msg.Container != nil {
			container = *msg.Container
		}

		hitboxes := make(map[manip.Tool]manip.Rect, len(msg.Hitboxes))
		for name, rect := range msg.Hitboxes {
			switch tool := manip.Tool(name); tool {
			case manip.ToolMove, manip.ToolRotate, manip.ToolScale:
				hitboxes[tool] = rect
			}
		}
		h.controller.SetLayout(container, hitboxes)
	}

	switch manip.Mode(msg.Mode) {
	case manip.ModeHand, manip.ModeBody:
		h.controller.SetMode(manip.Mode(msg.Mode))
	}
}

// broadcast sends controller snapshots to all connected clients.
func (h *StateHandler) broadcast() {
	ticker := time.NewTicker(stateInterval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		msg, err := json.Marshal(map[string]any{
			"state":     h.controller.Snapshot(),
			"timestamp": time.Now().UnixMilli(),
		})
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
