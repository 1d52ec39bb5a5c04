package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yipfcu/fcubridge/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The status stream is read-only local tooling; no origin policy.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWebSocket streams state updates to the client as JSON messages,
// starting with one snapshot per known device.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	logging.Debug("websocket client connected", zap.String("remote", r.RemoteAddr))

	updates, cancel := s.source.SubscribeUpdates()
	defer cancel()

	for _, dev := range s.source.Devices() {
		if err := writeJSON(conn, dev); err != nil {
			return
		}
	}

	// Drain inbound frames so close/ping control messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := writeJSON(conn, update); err != nil {
				logging.Debug("websocket client gone", zap.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
