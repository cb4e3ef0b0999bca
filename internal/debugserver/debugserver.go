// Package debugserver upgrades an HTTP connection to a websocket and
// streams one JSON frame per step_one_line call, grounded on
// pkg/vm/websocket.go / pkg/eval/ws_helpers.go's Upgrade/Send/Receive
// helpers (same gorilla/websocket Upgrader shape, generalized from
// Flowa's script-level `websocket` builtin to a debug-session stream).
package debugserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"cstep/internal/interp"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StepFrame is one JSON frame pushed to a connected client after each
// step_one_line call.
type StepFrame struct {
	Line       int    `json:"line"`
	Done       bool   `json:"done"`
	StackDepth int    `json:"stack_depth"`
	Error      string `json:"error,omitempty"`
}

// Server drives an *interp.Interpreter in lockstep with a client's "next"
// requests, one websocket connection per debug session.
type Server struct {
	It *interp.Interpreter
}

// ServeHTTP upgrades the request and then, for every text message the
// client sends, advances the interpreter one line and streams the
// resulting frame back as JSON. Any message content triggers a step; the
// payload itself is ignored, matching spec §6.3's line-granular `next`.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := s.sendFrame(conn, 0); err != nil {
		return
	}

	for {
		msgType, _, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		done, stepErr := s.It.StepOneLine()
		var errMsg string
		if stepErr != nil {
			errMsg = stepErr.Error()
		}
		if err := s.sendFrame(conn, depthOf(s.It), withDone(done), withError(errMsg)); err != nil {
			return
		}
		if done || stepErr != nil {
			return
		}
	}
}

func depthOf(it *interp.Interpreter) int { return len(it.MainStack) }

type frameOpt func(*StepFrame)

func withDone(done bool) frameOpt  { return func(f *StepFrame) { f.Done = done } }
func withError(msg string) frameOpt { return func(f *StepFrame) { f.Error = msg } }

func (s *Server) sendFrame(conn *websocket.Conn, depth int, opts ...frameOpt) error {
	frame := StepFrame{Line: s.It.CurrentLine, StackDepth: depth}
	for _, opt := range opts {
		opt(&frame)
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal step frame: %w", err)
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}
