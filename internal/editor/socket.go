package editor

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/pagecraft/internal/auth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// socketMessage is the outgoing WebSocket message format.
type socketMessage struct {
	Type  string `json:"type"` // "state" or "error"
	State *State `json:"state,omitempty"`
	Error string `json:"error,omitempty"`
}

// RegisterSocket mounts the WebSocket command channel. It must not sit behind
// a request timeout.
func RegisterSocket(r chi.Router, m *Manager) {
	r.Get("/ws/projects/{id}", handleSocket(m))
}

// socketConn serializes writes; gorilla connections allow one writer at a time.
type socketConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *socketConn) send(msg socketMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

func handleSocket(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Open(r.Context(), chi.URLParam(r, "id"), auth.UserID(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			m.logger.Warn("websocket upgrade", "error", err)
			return
		}
		defer ws.Close()
		conn := &socketConn{conn: ws}

		updates, cancel := s.Subscribe()
		defer cancel()
		go func() {
			for st := range updates {
				if err := conn.send(socketMessage{Type: "state", State: &st}); err != nil {
					return
				}
			}
		}()

		initial := s.State()
		if err := conn.send(socketMessage{Type: "state", State: &initial}); err != nil {
			return
		}

		for {
			_, msg, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					m.logger.Warn("websocket read", "project", s.ID(), "error", err)
				}
				return
			}

			var cmd Command
			if err := json.Unmarshal(msg, &cmd); err != nil {
				conn.send(socketMessage{Type: "error", Error: "invalid message format"})
				continue
			}
			before := s.Version()
			if err := s.Apply(r.Context(), cmd); err != nil {
				conn.send(socketMessage{Type: "error", Error: err.Error()})
				continue
			}
			// Changes reach the client through the subscription; commands
			// that changed nothing still get a reply.
			if s.Version() == before {
				st := s.State()
				conn.send(socketMessage{Type: "state", State: &st})
			}
		}
	}
}
