package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/vetdesk/booking/internal/identity"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; tighten in production.
	},
}

// Handler upgrades authenticated HTTP requests to websocket connections and
// wires them into the hub. The credential travels as a token query parameter
// because browsers cannot set headers on websocket requests; a missing or
// invalid token is rejected before the upgrade.
type Handler struct {
	hub    *Hub
	tokens *identity.TokenManager
	log    zerolog.Logger
}

func NewHandler(hub *Hub, tokens *identity.TokenManager, log zerolog.Logger) *Handler {
	return &Handler{hub: hub, tokens: tokens, log: log}
}

func (h *Handler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	id, err := h.tokens.Verify(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		UserID: id.ID,
		Send:   make(chan []byte, 256),
	}
	h.hub.Register(client)

	h.log.Debug().Str("user_id", id.ID.String()).Msg("websocket connected")

	go h.writePump(client, conn)
	go h.readPump(client, conn)
}

// readPump drains inbound frames. Clients send nothing meaningful; the read
// loop exists to detect disconnects and unregister promptly.
func (h *Handler) readPump(client *Client, conn *websocket.Conn) {
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writePump(client *Client, conn *websocket.Conn) {
	defer conn.Close()

	for payload := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	// Send channel closed by the hub; tell the peer we are done.
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
