package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// saveTimeout bounds the background persistence write for one message.
const saveTimeout = 5 * time.Second

// MessageStore is what the hub needs from the persistence layer.
type MessageStore interface {
	SaveMessage(ctx context.Context, msg ChatMessage) error
}

// IncomingMessage is an organic chat message bound to the session that
// typed it.
type IncomingMessage struct {
	Session *Session
	Text    string
}

type joinRequest struct {
	session *Session
	name    string
}

// Hub is the central coordinator. Its Run loop is the only goroutine that
// drives presence transitions and broadcasts, so every recipient observes
// events in the order the loop issued them. Slow work (persistence, the
// assistant call) runs off-loop and re-enters through the post channel.
type Hub struct {
	registry  *Registry
	store     MessageStore
	responder *Responder
	trigger   *Trigger
	log       zerolog.Logger

	register   chan *Session
	unregister chan *Session
	join       chan joinRequest
	publish    chan IncomingMessage
	post       chan ChatMessage
	done       chan struct{}
}

func NewHub(registry *Registry, store MessageStore, responder *Responder, trigger *Trigger, log zerolog.Logger) *Hub {
	return &Hub{
		registry:   registry,
		store:      store,
		responder:  responder,
		trigger:    trigger,
		log:        log,
		register:   make(chan *Session),
		unregister: make(chan *Session),
		join:       make(chan joinRequest),
		publish:    make(chan IncomingMessage),
		post:       make(chan ChatMessage),
		done:       make(chan struct{}),
	}
}

// Register adds a freshly connected, unjoined session.
func (h *Hub) Register(s *Session) {
	select {
	case h.register <- s:
	case <-h.done:
	}
}

// Unregister removes a disconnected session. Safe to call once per session.
func (h *Hub) Unregister(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// Join binds a display name to a session and announces it.
func (h *Hub) Join(s *Session, name string) {
	select {
	case h.join <- joinRequest{session: s, name: name}:
	case <-h.done:
	}
}

// Publish feeds one organic chat message into the pipeline.
func (h *Hub) Publish(s *Session, text string) {
	select {
	case h.publish <- IncomingMessage{Session: s, Text: text}:
	case <-h.done:
	}
}

// Post re-enters a server-authored message (assistant replies) into the
// serialized broadcast stream.
func (h *Hub) Post(msg ChatMessage) {
	select {
	case h.post <- msg:
	case <-h.done:
	}
}

// Run drives the hub until ctx is cancelled. It is the only goroutine that
// touches presence state, which keeps the registry and the broadcast order
// consistent without any further coordination. Run must be called exactly
// once; after it returns, the ingress methods become no-ops so connection
// pumps can still unwind during shutdown.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return

		case s := <-h.register:
			h.registry.Add(s)

		case s := <-h.unregister:
			name, found := h.registry.Remove(s)
			if !found {
				// Already dropped as a slow consumer.
				continue
			}
			close(s.send)
			if name != "" {
				h.broadcast(chatEvent(NewChatMessage(SystemAuthor, fmt.Sprintf("%s has disconnected", name))))
				h.broadcast(userListEvent(h.registry.CurrentNames()))
			}

		case req := <-h.join:
			if !h.registry.Bind(req.session, req.name) {
				h.log.Warn().Str("session_id", req.session.ID).Str("name", req.name).Msg("rejecting invalid join")
				continue
			}
			h.broadcast(chatEvent(NewChatMessage(SystemAuthor, fmt.Sprintf("Welcome %s to the chat!", req.name))))
			h.broadcast(userListEvent(h.registry.CurrentNames()))

		case in := <-h.publish:
			h.handleIncoming(ctx, in)

		case msg := <-h.post:
			h.broadcast(chatEvent(msg))
		}
	}
}

// handleIncoming is the message pipeline: build, persist, deliver, and maybe
// summon the assistant. Persistence and the assistant call must not delay
// delivery or the handling of later events, so both run in goroutines.
func (h *Hub) handleIncoming(ctx context.Context, in IncomingMessage) {
	name, joined := h.registry.Name(in.Session)
	if !joined {
		// Protocol violation: the client never sent a join frame.
		h.log.Warn().Str("session_id", in.Session.ID).Msg("dropping message from session that never joined")
		return
	}

	msg := NewChatMessage(name, in.Text)
	go h.persist(msg)
	h.broadcast(chatEvent(msg))

	if h.trigger.Match(in.Text) {
		go func() {
			reply := h.responder.Respond(ctx, in.Text)
			select {
			case h.post <- reply:
			case <-ctx.Done():
			}
		}()
	}
}

// persist writes one message to the store. A failed write is logged and
// forgotten: delivery already happened and takes priority over durability.
func (h *Hub) persist(msg ChatMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := h.store.SaveMessage(ctx, msg); err != nil {
		h.log.Error().Err(err).Str("username", msg.Username).Msg("failed to save message")
	}
}

// broadcast fans one event out to every live session. A session whose send
// buffer is full gets dropped so it cannot stall the rest; if it had joined,
// its departure is announced afterwards so every remaining client sees the
// refreshed roster.
func (h *Hub) broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Str("event", ev.Type).Msg("failed to encode event")
		return
	}
	var dropped []string
	for _, s := range h.registry.Sessions() {
		select {
		case s.send <- payload:
		default:
			name, _ := h.registry.Remove(s)
			close(s.send)
			h.log.Warn().Str("session_id", s.ID).Msg("send buffer full, dropping session")
			if name != "" {
				dropped = append(dropped, name)
			}
		}
	}
	for _, name := range dropped {
		h.broadcast(chatEvent(NewChatMessage(SystemAuthor, fmt.Sprintf("%s has disconnected", name))))
		h.broadcast(userListEvent(h.registry.CurrentNames()))
	}
}
