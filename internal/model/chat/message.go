package chat

import "strings"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one the answer service understands.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single exchanged turn. It is never mutated after it enters history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a visitor turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an answer turn.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Blank reports whether text carries nothing but whitespace.
func Blank(text string) bool {
	return strings.TrimSpace(text) == ""
}
