package progress

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guideworks/guide-lab/pkg/routes"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy is enforced by middleware; the socket accepts
		// whatever origin the API accepted.
		return true
	},
}

// Handler streams progress events for an upload session over a websocket.
type Handler struct {
	broker *Broker
	logger *slog.Logger
}

// NewHandler creates a progress handler.
func NewHandler(broker *Broker, logger *slog.Logger) *Handler {
	return &Handler{
		broker: broker,
		logger: logger.With("handler", "progress"),
	}
}

// Routes returns the progress endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/progress",
		Description: "Upload progress streams",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{session}", Handler: h.Stream},
		},
	}
}

func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	session := r.PathValue("session")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	events, cancel := h.broker.Subscribe(session)

	go h.writePump(conn, events, cancel)
	go h.readPump(conn, cancel)
}

// writePump forwards broker events to the socket until the subscription
// or the connection ends.
func (h *Handler) writePump(conn *websocket.Conn, events <-chan Event, cancel func()) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
	}()

	for {
		select {
		case ev, ok := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so close handshakes are observed.
func (h *Handler) readPump(conn *websocket.Conn, cancel func()) {
	defer func() {
		cancel()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
