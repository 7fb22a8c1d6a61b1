package httpServer

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"camrelay/pkg/models"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The relay is CORS-open; the websocket channel follows suit.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleRosterSocket upgrades the connection and pushes the camera roster to
// the viewer: once immediately, again on every announce, and on demand when
// the client sends {"action": "get-cameras"}.
func (s *Server) handleRosterSocket(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := s.broadcaster.Subscribe(s.cfg.RosterBuffer)
	defer cancel()
	s.metrics.RecordSubscribe()
	defer s.metrics.RecordUnsubscribe()

	s.log.Info("roster subscriber connected", zap.String("remote", conn.RemoteAddr().String()))
	defer s.log.Info("roster subscriber disconnected", zap.String("remote", conn.RemoteAddr().String()))

	requests := make(chan struct{}, 1)
	done := make(chan struct{})
	go s.readRosterCommands(conn, requests, done)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case roster, ok := <-updates:
			if !ok {
				// Broadcaster closed: server shutting down.
				return
			}
			if err := writeRoster(conn, roster); err != nil {
				return
			}
		case <-requests:
			if err := writeRoster(conn, s.broadcaster.Roster()); err != nil {
				return
			}
		case <-ticker.C:
			// Ping to keep the connection alive
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// readRosterCommands reads client messages until the connection fails and
// forwards roster pull requests to the write loop. All writes happen on the
// write loop; gorilla connections allow only one concurrent writer.
func (s *Server) readRosterCommands(conn *websocket.Conn, requests chan<- struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				s.log.Debug("roster socket read error", zap.Error(err))
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		var cmd models.RosterCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			continue
		}
		if cmd.Action == "get-cameras" {
			select {
			case requests <- struct{}{}:
			default:
				// A pull is already pending; it will carry the same snapshot.
			}
		}
	}
}

func writeRoster(conn *websocket.Conn, roster []string) error {
	return conn.WriteJSON(models.RosterMessage{
		Event:   "camera-list",
		Cameras: roster,
	})
}
