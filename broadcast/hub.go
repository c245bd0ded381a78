package broadcast

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Envelope wraps every outbound event with its name, matching the
// event-name channel spec §6 describes.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Hub owns the set of connected spectator sockets and fans JSON events
// out to all of them. Grounded on scraper/downloader/downloader.go's
// use of gorilla/websocket — that dialed outward as a client; Hub is
// the mirror image, serving inbound upgrades.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]chan []byte

	log *slog.Logger

	onCountChange func(n int)
}

// NewHub creates an empty hub. onCountChange, if non-nil, is invoked
// with the new spectator count on every connect/disconnect so the
// scheduler can keep GameState.SpectatorCount current.
func NewHub(log *slog.Logger, onCountChange func(n int)) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns:         make(map[*websocket.Conn]chan []byte),
		log:           log,
		onCountChange: onCountChange,
	}
}

// ServeHTTP upgrades the connection and keeps it alive until it closes
// or the hub shuts it down; there are no inbound commands on this
// channel (spec §6).
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("spectator upgrade failed", "err", err)
		return
	}

	out := make(chan []byte, 32)
	h.mu.Lock()
	h.conns[conn] = out
	n := len(h.conns)
	h.mu.Unlock()
	h.notifyCount(n)

	go h.writeLoop(conn, out)
	h.readLoop(conn)
}

// readLoop exists only to detect the peer closing the connection; the
// channel carries no inbound commands.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(conn *websocket.Conn, out chan []byte) {
	for msg := range out {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	out, ok := h.conns[conn]
	if ok {
		delete(h.conns, conn)
		close(out)
	}
	n := len(h.conns)
	h.mu.Unlock()
	conn.Close()
	h.notifyCount(n)
}

func (h *Hub) notifyCount(n int) {
	if h.onCountChange != nil {
		h.onCountChange(n)
	}
}

// Publish fans a tick snapshot out to every connected spectator as a
// `game:tick` event.
func (h *Hub) Publish(snap Snapshot) {
	h.Emit("game:tick", snap)
}

// Emit fans an arbitrary named event out to every connected spectator.
// Slow/blocked connections are dropped rather than allowed to stall
// the broadcast of a tick to everyone else.
func (h *Hub) Emit(event string, payload interface{}) {
	body, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		h.log.Error("marshal broadcast event", "event", event, "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, out := range h.conns {
		select {
		case out <- body:
		default:
			delete(h.conns, conn)
			close(out)
			conn.Close()
		}
	}
}

// SpectatorCount returns the number of currently connected sockets.
func (h *Hub) SpectatorCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
