// Package cohere provides a Completer implementation for the Cohere generate API.
package cohere

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
	// DefaultEndpoint is the public generate URL.
	DefaultEndpoint = "https://api.cohere.ai/v1/generate"
	// DefaultModel is used when neither the caller nor the config file names one.
	DefaultModel = "command"
	// EnvVar names the environment variable holding the API key.
	EnvVar = "COHERE_API_KEY"
)

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the Cohere generate API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter with bearer auth.
func New(endpoint, apiKey, model string, client *http.Client) *Adapter {
	a := &Adapter{
		ModelAdapter: modeladapter.New(endpoint, modeladapter.Auth{Key: apiKey}, client),
	}
	a.Name = model

	return a
}

// Complete sends a flat prompt and returns the first generation's text.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat) (modeladapter.Reply, error) {
	req := apiRequest{
		Model:       a.Name,
		Prompt:      c.Flatten(),
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
	}

	var resp apiResponse
	if err := a.PostJSON(ctx, req, &resp); err != nil {
		return modeladapter.Reply{}, fmt.Errorf("cohere: %w", err)
	}

	if len(resp.Generations) == 0 || resp.Generations[0].Text == nil {
		return modeladapter.Reply{}, fmt.Errorf("cohere: %w: missing generations[0].text", modeladapter.ErrUnexpectedShape)
	}

	units := resp.Meta.BilledUnits
	return modeladapter.Reply{
		Text:  strings.TrimSpace(*resp.Generations[0].Text),
		Usage: usage.Ptr(units.InputTokens, units.OutputTokens),
	}, nil
}

type apiRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type apiResponse struct {
	ID          string          `json:"id"`
	Generations []apiGeneration `json:"generations"`
	Meta        apiMeta         `json:"meta"`
}

type apiGeneration struct {
	ID   string  `json:"id"`
	Text *string `json:"text"`
}

type apiMeta struct {
	BilledUnits apiBilledUnits `json:"billed_units"`
}

type apiBilledUnits struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
