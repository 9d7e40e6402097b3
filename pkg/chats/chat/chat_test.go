package chat

import (
	"testing"

	"github.com/germanamz/aicall/pkg/chats/message"

	"github.com/stretchr/testify/assert"
)

func TestChat_ZeroValue(t *testing.T) {
	var c Chat

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Messages())
	assert.Empty(t, c.Prompt())
	assert.Empty(t, c.SystemPrompt())
}

func TestChat_Append(t *testing.T) {
	var c Chat
	c.Append(message.New(message.User, "hello"), message.New(message.Assistant, "hi"))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "hello", c.Prompt())
}

func TestFromPrompt_NoSystem(t *testing.T) {
	c := FromPrompt("", "What is Go?")

	assert.Equal(t, []message.Message{message.New(message.User, "What is Go?")}, c.Messages())
	assert.Equal(t, "What is Go?", c.Prompt())
	assert.Empty(t, c.SystemPrompt())
}

func TestFromPrompt_WithSystem(t *testing.T) {
	c := FromPrompt("Be terse.", "What is Go?")

	assert.Equal(t, []message.Message{
		message.New(message.System, "Be terse."),
		message.New(message.User, "What is Go?"),
	}, c.Messages())
	assert.Equal(t, "Be terse.", c.SystemPrompt())
	assert.Equal(t, "What is Go?", c.Prompt())
}

func TestChat_Messages_IsCopy(t *testing.T) {
	c := FromPrompt("", "original")

	msgs := c.Messages()
	msgs[0].Text = "mutated"

	assert.Equal(t, "original", c.Messages()[0].Text)
}

func TestChat_SystemAsTurns(t *testing.T) {
	c := FromPrompt("Answer in French.", "Hello")

	turns := c.SystemAsTurns()
	assert.Len(t, turns, 3)
	assert.Equal(t, message.New(message.User, "Answer in French."), turns[0])
	assert.Equal(t, message.New(message.Assistant, SystemAcknowledgment), turns[1])
	assert.Equal(t, message.New(message.User, "Hello"), turns[2])
}

func TestChat_SystemAsTurns_NoSystem(t *testing.T) {
	c := FromPrompt("", "Hello")

	turns := c.SystemAsTurns()
	assert.Equal(t, []message.Message{message.New(message.User, "Hello")}, turns)
}

func TestChat_Flatten(t *testing.T) {
	assert.Equal(t, "Tell a joke", FromPrompt("", "Tell a joke").Flatten())
	assert.Equal(t, "Be dry.\n\nTell a joke", FromPrompt("Be dry.", "Tell a joke").Flatten())
}
