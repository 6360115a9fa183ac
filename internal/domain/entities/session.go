package entities

import "time"

// Turn roles within a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a session's conversation history.
type Turn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTurn creates a turn stamped with the current time.
func NewTurn(role, text string) Turn {
	return Turn{Role: role, Text: text, CreatedAt: time.Now()}
}

// Session is a logical conversation thread identified by an opaque id.
// History grows only by append; turns are never reordered or dropped.
type Session struct {
	ID    string `json:"id"`
	Turns []Turn `json:"turns"`
}
