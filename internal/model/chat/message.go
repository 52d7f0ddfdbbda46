package chat

import (
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var (
	ErrEmptyConversation = errors.New("messages must be a non-empty array")
	ErrInvalidRole       = errors.New("invalid message role")
)

// Message is a single role-tagged conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Valid reports whether r is one of the accepted roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Validate checks that the conversation is non-empty and every turn carries a known role.
func Validate(messages []Message) error {
	if len(messages) == 0 {
		return ErrEmptyConversation
	}
	for i, msg := range messages {
		if !msg.Role.Valid() {
			return fmt.Errorf("%w %q at index %d", ErrInvalidRole, msg.Role, i)
		}
	}
	return nil
}

// ToSchema converts turns to eino messages, keeping their order.
func ToSchema(messages []Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		out = append(out, &schema.Message{
			Role:    schema.RoleType(msg.Role),
			Content: msg.Content,
		})
	}
	return out
}
