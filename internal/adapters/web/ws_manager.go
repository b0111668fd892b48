// Package web exposes the tracker's snapshots over HTTP and WebSocket.
package web

import (
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lcalzada-xor/wifitrack/internal/core/domain"
	"github.com/lcalzada-xor/wifitrack/internal/telemetry"
)

// WSMessage is the envelope for all websocket pushes.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WSManager fans tracker change notifications out to websocket clients.
// It implements ports.TrackerListener, so registering it with the tracker
// is all the wiring the push channel needs.
type WSManager struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]chan WSMessage
	upgrader websocket.Upgrader
	origins  map[string]struct{}
}

// NewWSManager creates an empty manager. Browser connections are only
// accepted from origins matching the server's listen address.
func NewWSManager(addr string) *WSManager {
	m := &WSManager{
		clients: make(map[*websocket.Conn]chan WSMessage),
		origins: allowedOrigins(addr),
	}
	m.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     m.checkOrigin,
	}
	return m
}

// allowedOrigins builds the origin set for a listen address: the
// loopback names plus the concrete host when the server binds one.
func allowedOrigins(addr string) map[string]struct{} {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		host, port = "", "8080"
	}

	hosts := []string{"localhost", "127.0.0.1", "::1"}
	switch host {
	case "", "0.0.0.0", "::", "localhost", "127.0.0.1", "::1":
	default:
		hosts = append(hosts, host)
	}

	origins := make(map[string]struct{}, 2*len(hosts))
	for _, h := range hosts {
		hp := net.JoinHostPort(h, port)
		origins["http://"+hp] = struct{}{}
		origins["https://"+hp] = struct{}{}
	}
	return origins
}

func (m *WSManager) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Non-browser clients send no Origin header.
	if origin == "" {
		return true
	}
	if _, ok := m.origins[origin]; ok {
		return true
	}

	slog.Warn("websocket rejected origin", "origin", origin)
	return false
}

// HandleWebSocket upgrades the connection and registers the client.
func (m *WSManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	send := make(chan WSMessage, 16)

	m.mu.Lock()
	m.clients[conn] = send
	m.mu.Unlock()
	telemetry.WSClients.Inc()

	slog.Info("websocket connected", "remote", conn.RemoteAddr())

	// Writer: one goroutine per client owns the connection for writes.
	go func() {
		defer conn.Close()
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}()

	// Reader: drains until the client goes away, then unregisters.
	go func() {
		defer func() {
			m.mu.Lock()
			if ch, ok := m.clients[conn]; ok {
				delete(m.clients, conn)
				close(ch)
			}
			m.mu.Unlock()
			telemetry.WSClients.Dec()
			slog.Info("websocket disconnected", "remote", conn.RemoteAddr())
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends a message to every connected client. Slow clients are
// skipped rather than blocking the caller.
func (m *WSManager) Broadcast(msg WSMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, send := range m.clients {
		select {
		case send <- msg:
		default:
			telemetry.WSMessagesDropped.Inc()
		}
	}
}

// Close disconnects all clients.
func (m *WSManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn, send := range m.clients {
		close(send)
		conn.Close()
		delete(m.clients, conn)
	}
}

// OnEntriesChanged implements ports.TrackerListener.
func (m *WSManager) OnEntriesChanged(reason domain.ChangeReason) {
	m.Broadcast(WSMessage{Type: "entries_changed", Payload: map[string]string{
		"reason": reasonString(reason),
	}})
}

// OnSavedCountChanged implements ports.TrackerListener.
func (m *WSManager) OnSavedCountChanged(count int) {
	m.Broadcast(WSMessage{Type: "saved_count", Payload: count})
}

// OnSubscriptionCountChanged implements ports.TrackerListener.
func (m *WSManager) OnSubscriptionCountChanged(count int) {
	m.Broadcast(WSMessage{Type: "subscription_count", Payload: count})
}

func reasonString(reason domain.ChangeReason) string {
	if reason == domain.ReasonScanResults {
		return "scan_results"
	}
	return "general"
}
