// Package chat provides the ordered conversation handed to a provider template.
package chat

import (
	"github.com/germanamz/aicall/pkg/chats/message"
)

// SystemAcknowledgment is the assistant reply synthesized after a system
// prompt for schemas that have no native system role.
const SystemAcknowledgment = "Understood. I will follow these instructions."

// Chat is an ordered list of messages. The zero value is ready to use.
// Chat is not safe for concurrent use; each invocation builds its own.
type Chat struct {
	messages []message.Message
}

// FromPrompt builds the conversation for one invocation: an optional system
// message followed by the user prompt. An empty system prompt adds nothing.
func FromPrompt(system, prompt string) *Chat {
	c := &Chat{}
	if system != "" {
		c.Append(message.New(message.System, system))
	}
	c.Append(message.New(message.User, prompt))

	return c
}

// Append adds one or more messages to the conversation.
func (c *Chat) Append(msgs ...message.Message) {
	c.messages = append(c.messages, msgs...)
}

// Len returns the number of messages in the conversation.
func (c *Chat) Len() int {
	return len(c.messages)
}

// Messages returns a copy of all messages in the conversation.
func (c *Chat) Messages() []message.Message {
	cp := make([]message.Message, len(c.messages))
	copy(cp, c.messages)
	return cp
}

// SystemPrompt returns the text of the first system message, or an empty
// string if there is none.
func (c *Chat) SystemPrompt() string {
	for _, m := range c.messages {
		if m.Role == message.System {
			return m.Text
		}
	}
	return ""
}

// Prompt returns the text of the last user message, or an empty string.
func (c *Chat) Prompt() string {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == message.User {
			return c.messages[i].Text
		}
	}
	return ""
}

// SystemAsTurns returns the conversation with every system message replaced by
// a user message carrying its text followed by a canned assistant
// acknowledgment. The final message is unchanged.
func (c *Chat) SystemAsTurns() []message.Message {
	out := make([]message.Message, 0, len(c.messages)+1)
	for _, m := range c.messages {
		if m.Role != message.System {
			out = append(out, m)
			continue
		}
		out = append(out,
			message.New(message.User, m.Text),
			message.New(message.Assistant, SystemAcknowledgment),
		)
	}
	return out
}

// Flatten collapses the conversation into a single string for schemas with one
// prompt field. A system prompt precedes the user prompt, separated by a blank
// line; without one the result is the prompt unchanged.
func (c *Chat) Flatten() string {
	if sys := c.SystemPrompt(); sys != "" {
		return sys + "\n\n" + c.Prompt()
	}
	return c.Prompt()
}
