package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	hubSendBuffer      = 16
	hubWriteTimeout    = 5 * time.Second
	hubShutdownTimeout = 3 * time.Second
	hubEventsPath      = "/api/v1/events"
)

// Hub broadcasts events to WebSocket listeners on a local address.
// Slow consumers have events dropped rather than stalling the sync loop.
type Hub struct {
	addr    string
	server  *http.Server
	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

func NewHub(addr string) *Hub {
	return &Hub{
		addr:    addr,
		clients: make(map[chan []byte]struct{}),
	}
}

// Start serves the events endpoint until ctx is cancelled.
func (h *Hub) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(hubEventsPath, h.handleWS)

	h.server = &http.Server{
		Addr:    h.addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), hubShutdownTimeout)
		defer cancel()
		h.server.Shutdown(shutdownCtx)
	}()

	slog.Info("notify hub listening", "addr", h.addr, "path", hubEventsPath)
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // local listeners only
	})
	if err != nil {
		slog.Warn("notify hub accept failed", "error", err)
		return
	}

	send := make(chan []byte, hubSendBuffer)
	h.mu.Lock()
	h.clients[send] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, send)
		h.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-send:
			writeCtx, cancel := context.WithTimeout(ctx, hubWriteTimeout)
			err := conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// Notify implements Notifier. Marshals once and fans out non-blocking.
func (h *Hub) Notify(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("notify hub marshal failed", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for send := range h.clients {
		select {
		case send <- data:
		default:
			// listener is not keeping up, drop
		}
	}
}
