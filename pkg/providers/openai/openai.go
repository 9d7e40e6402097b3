// Package openai provides a Completer implementation for the OpenAI Chat Completions API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/germanamz/aicall/pkg/chats/chat"
	"github.com/germanamz/aicall/pkg/chats/message"
	"github.com/germanamz/aicall/pkg/modeladapter"
	"github.com/germanamz/aicall/pkg/modeladapter/usage"
)

const (
	// DefaultEndpoint is the public chat completions URL.
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	// DefaultModel is used when neither the caller nor the config file names one.
	DefaultModel = "gpt-4"
	// EnvVar names the environment variable holding the API key.
	EnvVar = "OPENAI_API_KEY"
)

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the OpenAI Chat Completions API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter that posts to endpoint with bearer auth.
func New(endpoint, apiKey, model string, client *http.Client) *Adapter {
	a := &Adapter{
		ModelAdapter: modeladapter.New(endpoint, modeladapter.Auth{Key: apiKey}, client),
	}
	a.Name = model

	return a
}

// Complete sends the conversation to the Chat Completions API and returns the
// first choice's message content.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat) (modeladapter.Reply, error) {
	req := a.buildRequest(c)

	var resp apiResponse
	if err := a.PostJSON(ctx, req, &resp); err != nil {
		return modeladapter.Reply{}, fmt.Errorf("openai: %w", err)
	}

	return parseResponse(resp)
}

// --- request types ---

type apiRequest struct {
	Model       string       `json:"model,omitempty"`
	Messages    []apiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- response types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
	Usage   apiUsage    `json:"usage"`
}

type apiChoice struct {
	Message      apiRespMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type apiRespMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(c *chat.Chat) apiRequest {
	return apiRequest{
		Model:       a.Name,
		Messages:    convertMessages(c),
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
	}
}

// convertMessages maps c onto role/content pairs. A system prompt becomes one
// leading "system" message.
func convertMessages(c *chat.Chat) []apiMessage {
	msgs := make([]apiMessage, 0, c.Len())
	for _, m := range c.Messages() {
		switch m.Role {
		case message.System, message.User, message.Assistant:
			msgs = append(msgs, apiMessage{Role: m.Role.String(), Content: m.Text})
		}
	}

	return msgs
}

func parseResponse(resp apiResponse) (modeladapter.Reply, error) {
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil {
		return modeladapter.Reply{}, fmt.Errorf("openai: %w: missing choices[0].message.content", modeladapter.ErrUnexpectedShape)
	}

	return modeladapter.Reply{
		Text:  strings.TrimSpace(*resp.Choices[0].Message.Content),
		Usage: usage.Ptr(resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
	}, nil
}
