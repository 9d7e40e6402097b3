// Package message defines the text messages exchanged in a single invocation.
package message

// Role represents the sender of a message in a conversation.
type Role string

const (
	System    Role = "system"
	User      Role = "user"
	Assistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case System, User, Assistant:
		return true
	}
	return false
}

// String returns the underlying string value of the role.
func (r Role) String() string {
	return string(r)
}

// Message is a single text turn. It is a value type that copies cheaply.
type Message struct {
	Role Role
	Text string
}

// New creates a message with the given role and text.
func New(r Role, text string) Message {
	return Message{Role: r, Text: text}
}
