// Package anthropic provides a Completer implementation for the Anthropic Messages API.
package anthropic

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
	// DefaultEndpoint is the public Messages API URL.
	DefaultEndpoint = "https://api.anthropic.com/v1/messages"
	// DefaultModel is used when neither the caller nor the config file names one.
	DefaultModel = "claude-3-sonnet-20240229"
	// EnvVar names the environment variable holding the API key.
	EnvVar = "ANTHROPIC_API_KEY"
	// APIVersion is sent in the anthropic-version header.
	APIVersion = "2023-06-01"
)

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the Anthropic Messages API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter configured for the Anthropic API.
func New(endpoint, apiKey, model string, client *http.Client) *Adapter {
	a := &Adapter{}
	a.ModelAdapter = modeladapter.New(endpoint, modeladapter.Auth{
		Key:    apiKey,
		Header: "x-api-key",
	}, client)
	a.Name = model
	a.Headers = map[string]string{
		"anthropic-version": APIVersion,
	}

	return a
}

// Complete sends the conversation to the Messages API and returns the text of
// the first content block.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat) (modeladapter.Reply, error) {
	req := a.buildRequest(c)

	var resp apiResponse
	if err := a.PostJSON(ctx, req, &resp); err != nil {
		return modeladapter.Reply{}, fmt.Errorf("anthropic: %w", err)
	}

	return parseResponse(resp)
}

// --- request types ---

type apiRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
	Messages    []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- response types ---

type apiResponse struct {
	Content    []apiContent `json:"content"`
	StopReason string       `json:"stop_reason"`
	Usage      apiUsage     `json:"usage"`
}

type apiContent struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// --- conversion helpers ---

// buildRequest encodes a system prompt as a user turn plus an assistant
// acknowledgment; the request never uses the top-level system field.
func (a *Adapter) buildRequest(c *chat.Chat) apiRequest {
	req := apiRequest{
		Model:       a.Name,
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
	}

	for _, m := range c.SystemAsTurns() {
		req.Messages = append(req.Messages, apiMessage{Role: mapRole(m.Role), Content: m.Text})
	}

	return req
}

func mapRole(r message.Role) string {
	if r == message.Assistant {
		return "assistant"
	}
	return "user"
}

func parseResponse(resp apiResponse) (modeladapter.Reply, error) {
	if len(resp.Content) == 0 || resp.Content[0].Text == nil {
		return modeladapter.Reply{}, fmt.Errorf("anthropic: %w: missing content[0].text", modeladapter.ErrUnexpectedShape)
	}

	return modeladapter.Reply{
		Text:  strings.TrimSpace(*resp.Content[0].Text),
		Usage: usage.Ptr(resp.Usage.InputTokens, resp.Usage.OutputTokens),
	}, nil
}
