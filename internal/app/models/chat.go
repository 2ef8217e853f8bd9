package models

import (
	"time"

	"github.com/google/uuid"
)

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry in a conversation. While an assistant reply is
// streaming its Content is rewritten in place; once the turn commits the
// message is never touched again.
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatTurnMessage is the reduced {role, content} shape sent to the completion
// endpoint. IDs and timestamps are local bookkeeping and never leave the app.
type ChatTurnMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnMessages flattens a history into the wire shape, keeping order.
func TurnMessages(history []ChatMessage) []ChatTurnMessage {
	out := make([]ChatTurnMessage, 0, len(history))
	for _, m := range history {
		out = append(out, ChatTurnMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}
