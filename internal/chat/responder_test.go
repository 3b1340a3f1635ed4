package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestResponder_Success_Wraps_Gateway_Reply(t *testing.T) {
	req := require.New(t)
	responder := NewResponder(newFakeGateway("Try restarting it.", nil), zerolog.Nop())

	msg := responder.Respond(context.Background(), "help, my router is on fire")

	req.Equal(ChatBotAuthor, msg.Username)
	req.Equal("Try restarting it.", msg.Message)
	req.False(msg.CreatedAt.IsZero())
}

func TestResponder_Gateway_Error_Yields_Fallback(t *testing.T) {
	req := require.New(t)
	responder := NewResponder(newFakeGateway("", errors.New("timeout")), zerolog.Nop())

	msg := responder.Respond(context.Background(), "help")

	req.Equal(ChatBotAuthor, msg.Username)
	req.Equal(FallbackText, msg.Message)
}

func TestResponder_Blank_Reply_Yields_Fallback(t *testing.T) {
	req := require.New(t)
	responder := NewResponder(newFakeGateway("   \n", nil), zerolog.Nop())

	msg := responder.Respond(context.Background(), "help")

	req.Equal(FallbackText, msg.Message)
}
