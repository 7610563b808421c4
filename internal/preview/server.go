// Package preview is an optional dev-time server: run with
// "implicitmesh extract -serve=<addr>", it accepts browser websocket
// connections and streams each Refine round's vertices as a JSON frame
// (the CLI leaves the frame's Edges empty), playing the role of an
// external plotting sink over the wire instead of to a file.
//
// A mutex-guarded client registry and a broadcast loop that drops any
// connection whose write fails, built on gorilla/websocket.
package preview

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ThermalSpan/implicit-plotter/internal/plot"
)

// Frame is one broadcast update: the refinement level this snapshot was
// taken at, plus the vertices and edges currently materialized.
type Frame struct {
	RunID    string            `json:"run_id"`
	Level    int               `json:"level"`
	Vertices []plot.Point      `json:"vertices"`
	Edges    []plot.LineSegment `json:"edges"`
}

// Server holds the set of connected preview clients.
type Server struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}
}

// NewServer builds an empty preview server.
func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handler upgrades incoming requests to websocket connections and
// registers them as broadcast recipients until they close.
func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("preview: upgrade failed: %v", err)
			return
		}
		s.mu.Lock()
		s.clients[conn] = struct{}{}
		s.mu.Unlock()

		go s.drain(conn)
	}
}

// drain discards any inbound messages (this server only pushes frames)
// until the client disconnects, then removes it from the registry.
func (s *Server) drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

// Broadcast sends frame as JSON to every connected client, dropping any
// connection whose write fails rather than letting one bad client stall
// the whole refinement loop.
func (s *Server) Broadcast(frame Frame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	s.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.RUnlock()

	var dead []*websocket.Conn
	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			dead = append(dead, c)
		}
	}

	if len(dead) > 0 {
		s.mu.Lock()
		for _, c := range dead {
			delete(s.clients, c)
		}
		s.mu.Unlock()
	}
	return nil
}

// ListenAndServe registers Handler at /ws and serves it on addr. It
// blocks until the server errors or the process is terminated, the way
// a dev-only debug server is expected to run in the foreground.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.Handler())
	log.Printf("preview: listening on %s (ws://%s/ws)", addr, addr)
	return http.ListenAndServe(addr, mux)
}
