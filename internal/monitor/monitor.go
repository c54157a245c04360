// Package monitor exposes the table over a websocket so any number of
// read-only observers can watch a game. Observers receive the same snapshots
// a local renderer would; nothing flows back into the engine.
package monitor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/dissidentcode/blackjack/internal/game"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Server fans table snapshots out to connected websocket observers.
type Server struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewServer creates a monitor server
func NewServer(logger *log.Logger) *Server {
	return &Server{
		logger: logger.WithPrefix("monitor"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Observers are read-only; any origin may watch.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// OnEvent implements game.EventSubscriber by broadcasting the event's
// snapshot, so the server can be subscribed directly to a game's bus.
func (s *Server) OnEvent(event game.GameEvent) {
	s.Broadcast(event.State())
}

// Broadcast sends a snapshot to every connected observer. Slow observers are
// disconnected rather than allowed to stall the table.
func (s *Server) Broadcast(snap game.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("failed to marshal snapshot", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.logger.Warn("dropping slow observer")
			delete(s.clients, c)
			close(c.send)
		}
	}
}

// Observers returns the current observer count
func (s *Server) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Handler returns the HTTP handler: /watch upgrades to a websocket, / is a
// plain status line.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", s.handleWatch)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "blackjack table: %d observer(s) connected\n", s.Observers())
	})
	return mux
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Info("observer connected", "remote", conn.RemoteAddr())

	go s.writePump(c)
	go s.readPump(c)
}

// writePump pushes snapshots and pings to one observer until it goes away.
func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.drop(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.drop(c)
				return
			}
		}
	}
}

// readPump discards anything the observer sends and notices disconnects.
func (s *Server) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("observer read error", "error", err)
			}
			s.drop(c)
			return
		}
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
		s.logger.Info("observer disconnected", "remote", c.conn.RemoteAddr())
	}
}
