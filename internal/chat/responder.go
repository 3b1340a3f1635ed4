package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"go-chatroom/internal/assistant"
)

// FallbackText is broadcast when the assistant gateway fails. The user who
// triggered the assistant always sees a reply, real or not.
const FallbackText = "Sorry, I'm having trouble responding right now!"

// Responder turns a triggering chat message into exactly one ChatBot message.
type Responder struct {
	gateway assistant.Gateway
	log     zerolog.Logger
}

func NewResponder(gateway assistant.Gateway, log zerolog.Logger) *Responder {
	return &Responder{gateway: gateway, log: log}
}

// Respond asks the gateway to complete the trigger text. A gateway error or a
// blank reply degrades to the fixed fallback; no retries, no error surfaces.
func (r *Responder) Respond(ctx context.Context, triggerText string) ChatMessage {
	reply, err := r.gateway.Complete(ctx, triggerText)
	if err != nil {
		r.log.Error().Err(err).Msg("assistant gateway call failed, sending fallback")
		return NewChatMessage(ChatBotAuthor, FallbackText)
	}
	if strings.TrimSpace(reply) == "" {
		r.log.Warn().Msg("assistant gateway returned an empty reply, sending fallback")
		return NewChatMessage(ChatBotAuthor, FallbackText)
	}
	return NewChatMessage(ChatBotAuthor, reply)
}
