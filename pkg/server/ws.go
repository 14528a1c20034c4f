package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
)

// handleWebSocket streams keypad operations for one session. Every inbound
// message is an action; every reply carries the resulting state.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.sessions.get(id); !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()

	logger := s.logger.With().Str("sessionId", id).Logger()
	logger.Debug().Str("remote", r.RemoteAddr).Msg("websocket connection established")

	if !s.sendAction(r.Context(), conn, id, action{Op: opState}) {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug().Err(err).Msg("websocket read error")
			}
			return
		}

		var a action
		if err := json.Unmarshal(data, &a); err != nil {
			logger.Warn().Err(err).Msg("invalid message")
			if conn.WriteJSON(actionReply{Error: "invalid message: " + err.Error()}) != nil {
				return
			}
			continue
		}

		if !s.sendAction(r.Context(), conn, id, a) {
			return
		}
	}
}

// sendAction applies a to the session and writes the reply. It reports
// whether the connection should stay open.
func (s *Server) sendAction(ctx context.Context, conn *websocket.Conn, id string, a action) bool {
	sess, ok := s.sessions.get(id)
	if !ok {
		_ = conn.WriteJSON(actionReply{Op: a.Op, Error: "session not found"})
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
		return false
	}

	sess.mu.Lock()
	sess.touch(s.sessions.now())
	reply, _ := s.apply(ctx, sess, a)
	sess.mu.Unlock()

	if err := conn.WriteJSON(reply); err != nil {
		s.logger.Debug().Err(err).Str("sessionId", id).Msg("websocket write failed")
		return false
	}
	return true
}
