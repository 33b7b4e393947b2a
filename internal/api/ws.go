package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sprite-ai/patchlint/internal/model"
	"github.com/sprite-ai/patchlint/internal/report"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: localOrigin,
}

// localOrigin accepts clients that send no Origin header and pages served
// from the local machine.
func localOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// WebSocket message types from client.
const (
	wsMsgLintPatch = "lint_patch"
	wsMsgRunDir    = "run_dir"
	wsMsgFinish    = "finish"
)

// WebSocket message types to client.
const (
	wsMsgReport  = "report"
	wsMsgSummary = "summary"
	wsMsgError   = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// lintSession collects the patches linted over one connection so that
// "finish" can report on them as a batch.
type lintSession struct {
	reports []model.FileReport
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	session := &lintSession{}
	ws := &wsConn{conn: conn, log: s.log}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warnw("websocket read failed", "error", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			ws.sendError("invalid message format")
			continue
		}

		switch msg.Type {
		case wsMsgLintPatch:
			s.handleWSLintPatch(r, ws, session, msg.Data)
		case wsMsgRunDir:
			s.handleWSRunDir(r, ws, msg.Data)
		case wsMsgFinish:
			ws.send(wsMsgSummary, report.SummaryToJSON(&model.RunSummary{Reports: session.reports}))
			session.reports = nil
		default:
			ws.sendError("unknown message type: " + msg.Type)
		}
	}
}

func (s *Server) handleWSLintPatch(r *http.Request, ws *wsConn, session *lintSession, data json.RawMessage) {
	var req lintRequest
	if err := json.Unmarshal(data, &req); err != nil {
		ws.sendError("invalid lint_patch data")
		return
	}

	fr, err := s.lintPatch(req)
	if err != nil {
		ws.sendError(err.Error())
		return
	}
	session.reports = append(session.reports, fr)
	s.log.Debugw("linted patch over websocket", "name", fr.Name, "issues", len(fr.Issues))

	ws.send(wsMsgReport, report.FileToJSON(fr))
}

func (s *Server) handleWSRunDir(r *http.Request, ws *wsConn, data json.RawMessage) {
	var req runRequest
	if err := json.Unmarshal(data, &req); err != nil {
		ws.sendError("invalid run_dir data")
		return
	}

	summary, err := s.runDir(r.Context(), req)
	if err != nil {
		ws.sendError(err.Error())
		return
	}

	ws.send(wsMsgSummary, report.SummaryToJSON(summary))
}

type wsConn struct {
	conn *websocket.Conn
	log  *zap.SugaredLogger
}

func (c *wsConn) send(msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		c.log.Warnw("ws marshal failed", "error", err)
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := c.conn.WriteJSON(msg); err != nil {
		c.log.Warnw("ws write failed", "error", err)
	}
}

func (c *wsConn) sendError(errMsg string) {
	c.send(wsMsgError, map[string]string{"message": errMsg})
}
