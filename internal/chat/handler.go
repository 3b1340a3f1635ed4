package chat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for now (dev mode).
	},
}

// HistorySource supplies the recent messages replayed to a new connection.
type HistorySource interface {
	RecentMessages(ctx context.Context) ([]ChatMessage, error)
}

// Handler upgrades websocket requests and hands the connection to the hub.
type Handler struct {
	hub     *Hub
	history HistorySource
	log     zerolog.Logger
}

func NewHandler(hub *Hub, history HistorySource, log zerolog.Logger) *Handler {
	return &Handler{hub: hub, history: history, log: log}
}

func (h *Handler) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	session := NewSession()

	// Seed recent history before the session joins the live stream, so the
	// replay always precedes fresh broadcasts on this connection.
	if h.history != nil {
		if msgs, err := h.history.RecentMessages(r.Context()); err != nil {
			h.log.Warn().Err(err).Msg("could not load recent messages")
		} else {
			for _, msg := range msgs {
				payload, err := json.Marshal(chatEvent(msg))
				if err != nil {
					continue
				}
				select {
				case session.send <- payload:
				default:
					// History larger than the send buffer; live traffic wins.
				}
			}
		}
	}

	h.hub.Register(session)

	client := &Client{hub: h.hub, conn: conn, session: session, log: h.log}
	go client.writePump()
	go client.readPump()
}
