package types

import "time"

// Role identifies the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in the console history.
// Mode is empty for messages that are not tied to a panel.
type Message struct {
	Role      Role      `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Mode      Mode      `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// NewMessage builds a message stamped with the current time.
func NewMessage(role Role, content string, mode Mode) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now(), Mode: mode}
}

// FilterByMode returns the messages tagged with mode, preserving order.
func FilterByMode(history []Message, mode Mode) []Message {
	out := make([]Message, 0, len(history))
	for _, msg := range history {
		if msg.Mode == mode {
			out = append(out, msg)
		}
	}
	return out
}
