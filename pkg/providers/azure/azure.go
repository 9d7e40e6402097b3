// Package azure implements the modeladapter.Completer interface for Azure
// OpenAI deployments using the OpenAI-compatible chat completions API.
//
// Azure has no global endpoint: the URL names the resource and deployment,
// e.g. https://my-resource.openai.azure.com/openai/deployments/{model}/chat/completions?api-version=2024-02-01.
// The deployment is part of the URL, so the body carries no model field.
package azure

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/germanamz/aicall/pkg/chats/chat"
	"github.com/germanamz/aicall/pkg/modeladapter"
	"github.com/germanamz/aicall/pkg/modeladapter/usage"
)

const (
	// DefaultModel labels results when no deployment name is configured.
	DefaultModel = "gpt-4"
	// EnvVar names the environment variable holding the API key.
	EnvVar = "AZURE_OPENAI_API_KEY"
	// AuthHeader carries the raw key, without a scheme.
	AuthHeader = "api-key"
)

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter sends chat completions to an Azure OpenAI deployment.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter for the given deployment endpoint. A {model}
// placeholder in the endpoint is replaced with the deployment name.
// A nil client falls back to a client bounded by modeladapter.DefaultTimeout.
func New(endpoint, apiKey, model string, client *http.Client) *Adapter {
	a := &Adapter{
		ModelAdapter: modeladapter.New(modeladapter.ExpandEndpoint(endpoint, model), modeladapter.Auth{Key: apiKey, Header: AuthHeader}, client),
	}
	a.Name = model
	return a
}

// Complete sends the conversation to the deployment's chat completions
// endpoint and returns the first choice's content.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat) (modeladapter.Reply, error) {
	req := chatRequest{
		Messages:    convertMessages(c),
		Temperature: a.Temperature,
		MaxTokens:   a.MaxTokens,
	}

	var resp chatResponse
	if err := a.PostJSON(ctx, req, &resp); err != nil {
		return modeladapter.Reply{}, fmt.Errorf("azure: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil {
		return modeladapter.Reply{}, fmt.Errorf("azure: %w: missing choices[0].message.content", modeladapter.ErrUnexpectedShape)
	}

	return modeladapter.Reply{
		Text:  strings.TrimSpace(*resp.Choices[0].Message.Content),
		Usage: usage.Ptr(resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
	}, nil
}

// API request/response types.

type chatRequest struct {
	Messages    []apiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string   `json:"id"`
	Choices []choice `json:"choices"`
	Usage   apiUsage `json:"usage"`
}

type choice struct {
	Message      respMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type respMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// convertMessages transforms a Chat into the API message format. The system
// prompt keeps its native "system" role.
func convertMessages(c *chat.Chat) []apiMessage {
	msgs := make([]apiMessage, 0, c.Len())

	for _, m := range c.Messages() {
		if !m.Role.Valid() {
			continue
		}
		msgs = append(msgs, apiMessage{Role: m.Role.String(), Content: m.Text})
	}

	return msgs
}
