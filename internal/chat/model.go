package chat

import "time"

// Pseudo-authors used for messages the server writes itself.
const (
	SystemAuthor  = "System"
	ChatBotAuthor = "ChatBot"
)

// ---------------------------------------------
// Database & broadcast models
// ---------------------------------------------

// ChatMessage is one line of chat as stored and as broadcast.
// Field names match what the frontend renders.
type ChatMessage struct {
	ID        int       `json:"id,omitempty"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewChatMessage stamps a message with the current time.
func NewChatMessage(username, text string) ChatMessage {
	return ChatMessage{Username: username, Message: text, CreatedAt: time.Now().UTC()}
}

// ---------------------------------------------
// Wire protocol
// ---------------------------------------------

// Outbound event names.
const (
	EventChatMessage = "chat message"
	EventUserList    = "user list"
)

// Event is the envelope pushed to every connected client.
// Exactly one of Message / Users is set, depending on Type.
// Users deliberately has no omitempty: an empty roster still serializes as
// an explicit array so clients can clear their user list.
type Event struct {
	Type    string       `json:"event"`
	Message *ChatMessage `json:"message,omitempty"`
	Users   []string     `json:"users"`
}

func chatEvent(msg ChatMessage) Event {
	return Event{Type: EventChatMessage, Message: &msg}
}

func userListEvent(names []string) Event {
	if names == nil {
		names = []string{}
	}
	return Event{Type: EventUserList, Users: names}
}

// Inbound frame types.
const (
	FrameJoin    = "join"
	FrameMessage = "chat message"
)

// Frame is the simplified JSON a client sends us.
// Clients never send IDs or timestamps; we figure those out.
type Frame struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}
