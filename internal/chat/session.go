package chat

import "github.com/google/uuid"

// sendBuffer is the per-session outbound queue. A session that falls this far
// behind the broadcast stream gets dropped by the hub.
const sendBuffer = 256

// Session is one live connection as the hub sees it. The display name is not
// stored here: the Registry is the only owner of the name binding.
type Session struct {
	ID   string
	send chan []byte
}

func NewSession() *Session {
	return &Session{
		ID:   uuid.NewString(),
		send: make(chan []byte, sendBuffer),
	}
}
