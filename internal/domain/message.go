package domain

import (
	"github.com/google/uuid"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one entry in a conversation. The log is append-only: a
// message is never mutated or removed once added, except that the whole
// log is cleared on reset.
type Message struct {
	ID      string      `json:"id"`
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// NewUserMessage creates a user message with a fresh identity.
// IDs are random UUIDs, so two turns resolving in the same instant
// still carry distinct identities.
func NewUserMessage(content string) Message {
	return Message{
		ID:      uuid.NewString(),
		Role:    RoleUser,
		Content: content,
	}
}

// NewAssistantMessage creates an assistant message with a fresh identity.
func NewAssistantMessage(content string) Message {
	return Message{
		ID:      uuid.NewString(),
		Role:    RoleAssistant,
		Content: content,
	}
}
