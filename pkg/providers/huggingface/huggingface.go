// Package huggingface provides a Completer implementation for the HuggingFace
// Inference API text-generation task.
package huggingface

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/germanamz/aicall/pkg/chats/chat"
	"github.com/germanamz/aicall/pkg/modeladapter"
)

const (
	// DefaultEndpoint is the inference URL template; {model} is substituted
	// with the resolved repository id.
	DefaultEndpoint = "https://api-inference.huggingface.co/models/{model}"
	// DefaultModel is used when neither the caller nor the config file names one.
	DefaultModel = "microsoft/DialoGPT-medium"
	// EnvVar names the environment variable holding the API token.
	EnvVar = "HUGGINGFACE_API_KEY"
)

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the HuggingFace Inference API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter with bearer auth.
func New(endpoint, apiKey, model string, client *http.Client) *Adapter {
	a := &Adapter{
		ModelAdapter: modeladapter.New(modeladapter.ExpandEndpoint(endpoint, model), modeladapter.Auth{Key: apiKey}, client),
	}
	a.Name = model

	return a
}

// Complete sends the flat inputs field and returns generated_text of the
// first array element. The API does not report token usage.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat) (modeladapter.Reply, error) {
	req := apiRequest{
		Inputs: c.Flatten(),
		Parameters: apiParameters{
			MaxNewTokens:   a.MaxTokens,
			Temperature:    a.Temperature,
			ReturnFullText: false,
		},
	}

	var resp []apiGeneration
	if err := a.PostJSON(ctx, req, &resp); err != nil {
		return modeladapter.Reply{}, fmt.Errorf("huggingface: %w", err)
	}

	if len(resp) == 0 || resp[0].GeneratedText == nil {
		return modeladapter.Reply{}, fmt.Errorf("huggingface: %w: missing [0].generated_text", modeladapter.ErrUnexpectedShape)
	}

	return modeladapter.Reply{Text: strings.TrimSpace(*resp[0].GeneratedText)}, nil
}

type apiRequest struct {
	Inputs     string        `json:"inputs"`
	Parameters apiParameters `json:"parameters"`
}

type apiParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type apiGeneration struct {
	GeneratedText *string `json:"generated_text"`
}
