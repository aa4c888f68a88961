package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	liveWriteTimeout = 10 * time.Second
	liveReadLimit    = 4096
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// LiveRequest is one query frame sent by a live search client.
type LiveRequest struct {
	Query string `json:"query"`
	Sort  string `json:"sort"`
	Limit int    `json:"limit"`
}

// LiveResponse answers one LiveRequest. Seq counts requests on the session
// starting at 1; the greeting frame sent on connect has Seq 0 and no page.
type LiveResponse struct {
	Session string    `json:"session"`
	Seq     int       `json:"seq"`
	Page    *PageView `json:"page,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// GET /ws
func (s *Server) live(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(liveReadLimit)

	session := uuid.New().String()
	logger := s.logger.With("session", session)
	logger.Debug("live session opened")

	if err := s.writeLive(conn, LiveResponse{Session: session}); err != nil {
		return
	}

	for seq := 1; ; seq++ {
		var req LiveRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("live session closed", "requests", seq-1)
			} else {
				logger.Debug("live session ended", "error", err, "requests", seq-1)
			}
			return
		}

		resp := LiveResponse{Session: session, Seq: seq}
		params := browseParams{Query: req.Query, Sort: req.Sort, Limit: req.Limit}
		if err := s.validate.Struct(params); err != nil {
			resp.Error = describeValidation(err)
		} else if view, err := s.browse(r, params); err != nil {
			resp.Error = err.Error()
		} else {
			resp.Page = view
		}

		if err := s.writeLive(conn, resp); err != nil {
			logger.Debug("live write failed", "error", err)
			return
		}
	}
}

func (s *Server) writeLive(conn *websocket.Conn, resp LiveResponse) error {
	if err := conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(resp)
}
