package receiver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const wsCloseWait = time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 256,
	// Senders are tools, not browsers; origin is not checked.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWebSocket treats every binary message as one command buffer.
func (s *Service) handleWebSocket(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(int64(s.cfg.MaxDatagramBytes) + 1)
	s.trackWebSocket(conn, true)
	defer s.trackWebSocket(conn, false)

	remote := conn.RemoteAddr().String()
	active := s.wsClients.Add(1)
	s.log.Info().Str("remote", remote).Int64("active_clients", active).Msg("websocket client connected")
	defer func() {
		remaining := s.wsClients.Add(-1)
		s.log.Info().Str("remote", remote).Int64("active_clients", remaining).Msg("websocket client disconnected")
	}()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				s.log.Warn().Err(err).Str("remote", remote).Msg("websocket read failed")
			}
			return
		}
		if kind != websocket.BinaryMessage {
			msg := websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "binary messages only")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsCloseWait))
			return
		}
		_, _ = s.Handle(TransportWebSocket, remote, data)
	}
}

func (s *Service) trackWebSocket(conn *websocket.Conn, open bool) {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()
	if open {
		s.wsConns[conn] = struct{}{}
	} else {
		delete(s.wsConns, conn)
	}
}

// closeWebSockets sends a going-away close to every open connection and
// closes it. Hijacked connections are not closed by http.Server.Shutdown.
func (s *Service) closeWebSockets() {
	s.wsMu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.wsConns))
	for conn := range s.wsConns {
		conns = append(conns, conn)
	}
	s.wsMu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "receiver shutting down")
	for _, conn := range conns {
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsCloseWait))
		_ = conn.Close()
	}
	if len(conns) > 0 {
		s.log.Info().Int("clients", len(conns)).Msg("websocket clients closed")
	}
}
