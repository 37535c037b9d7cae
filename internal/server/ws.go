package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/airsketch/internal/engine"
)

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// FrameSource publishes engine frames.
type FrameSource interface {
	Subscribe() (<-chan engine.Frame, func())
}

// FramesHandler broadcasts every engine frame to WebSocket clients as JSON.
type FramesHandler struct {
	logger  *slog.Logger
	cancel  func()
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	done    chan struct{}
}

// NewFramesHandler subscribes to source and starts broadcasting.
func NewFramesHandler(source FrameSource, logger *slog.Logger) *FramesHandler {
	if logger == nil {
		logger = slog.Default()
	}

	frames, cancel := source.Subscribe()
	h := &FramesHandler{
		logger:  logger,
		cancel:  cancel,
		clients: make(map[*websocket.Conn]bool),
		done:    make(chan struct{}),
	}
	go h.broadcast(frames)
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *FramesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
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

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *FramesHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops broadcasting and disconnects every client.
func (h *FramesHandler) Close() {
	h.cancel()
	<-h.done

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(writeWait))
		conn.Close()
	}
}

// broadcast sends each frame to all connected clients. It is the only
// writer on client connections.
func (h *FramesHandler) broadcast(frames <-chan engine.Frame) {
	defer close(h.done)

	for f := range frames {
		msg, err := json.Marshal(f)
		if err != nil {
			h.logger.Error("failed to encode frame", slog.Any("error", err))
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				// The reader loop notices the closed connection and unregisters it.
				conn.Close()
			}
		}
		h.mu.RUnlock()
	}
}
