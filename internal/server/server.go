// Package server exposes the annotator over HTTP: a health endpoint and a
// WebSocket endpoint that annotates sentence pairs sent as JSON frames and
// streams the classified edits back.
package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/annotext/errant/core/annotate"
	"github.com/annotext/errant/core/edit"
	"github.com/annotext/errant/core/merge"
	"github.com/annotext/errant/internal/logging"
)

// Request is one annotation request frame.
type Request struct {
	Orig     string `json:"orig"`
	Cor      string `json:"cor"`
	Tokenize bool   `json:"tokenize,omitempty"`
	Lev      bool   `json:"lev,omitempty"`
	Merge    string `json:"merge,omitempty"`
}

// EditView is the wire form of one classified edit.
type EditView struct {
	OrigStart int    `json:"orig_start"`
	OrigEnd   int    `json:"orig_end"`
	CorStart  int    `json:"cor_start"`
	CorEnd    int    `json:"cor_end"`
	Type      string `json:"type"`
	Orig      string `json:"orig"`
	Cor       string `json:"cor"`
	M2        string `json:"m2"`
}

// Response is one annotation response frame. Error is set instead of Edits
// when the request could not be processed.
type Response struct {
	Edits []EditView `json:"edits,omitempty"`
	Error string     `json:"error,omitempty"`
}

// Server serves annotation requests over WebSocket connections.
type Server struct {
	annotator *annotate.Annotator
	strategy  merge.Strategy
	origins   []string
	upgrader  websocket.Upgrader
}

// New creates a server around an annotator with a default merge strategy.
// With no origins given every origin may connect.
func New(annotator *annotate.Annotator, strategy merge.Strategy, origins ...string) *Server {
	s := &Server{
		annotator: annotator,
		strategy:  strategy,
		origins:   origins,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return allowedOrigin(s.origins, r)
		},
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/annotate", s.handleAnnotate)
	return withSecurityHeaders(withCORS(s.origins, mux))
}

// handleAnnotate upgrades the connection and answers one Response per
// Request frame until the client disconnects. Per-request failures travel
// in-band; they never close the connection.
func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	logging.WebSocketEvent("client_connected", r.RemoteAddr)
	defer logging.WebSocketEvent("client_disconnected", r.RemoteAddr)

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Warn("websocket read failed", "error", err)
			}
			return
		}
		resp := s.annotateRequest(req)
		if err := conn.WriteJSON(resp); err != nil {
			logging.Warn("websocket write failed", "error", err)
			return
		}
	}
}

func (s *Server) annotateRequest(req Request) Response {
	strategy := s.strategy
	if req.Merge != "" {
		parsed, err := merge.ParseStrategy(req.Merge)
		if err != nil {
			return Response{Error: err.Error()}
		}
		strategy = parsed
	}
	origDoc, err := s.annotator.Parse(req.Orig, req.Tokenize)
	if err != nil {
		return Response{Error: err.Error()}
	}
	corDoc, err := s.annotator.Parse(req.Cor, req.Tokenize)
	if err != nil {
		return Response{Error: err.Error()}
	}
	edits, err := s.annotator.Annotate(origDoc, corDoc, req.Lev, strategy)
	if err != nil {
		return Response{Error: err.Error()}
	}
	views := make([]EditView, len(edits))
	for i, e := range edits {
		views[i] = viewOf(e)
	}
	return Response{Edits: views}
}

func viewOf(e edit.Edit) EditView {
	return EditView{
		OrigStart: e.OrigStart,
		OrigEnd:   e.OrigEnd,
		CorStart:  e.CorStart,
		CorEnd:    e.CorEnd,
		Type:      e.Type,
		Orig:      e.OrigText(),
		Cor:       e.CorText(),
		M2:        e.ToM2(0),
	}
}
