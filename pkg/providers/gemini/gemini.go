// Package gemini provides a Completer implementation for the Google Gemini
// generateContent API.
package gemini

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
	// DefaultEndpoint is the generateContent URL template; {model} is
	// substituted with the resolved model.
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/{model}:generateContent"
	// DefaultModel is used when neither the caller nor the config file names one.
	DefaultModel = "gemini-pro"
	// EnvVar names the environment variable holding the API key.
	EnvVar = "GOOGLE_AI_API_KEY"
	// KeyParam is the query parameter that carries the API key.
	KeyParam = "key"
)

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the Google Gemini API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter for the Gemini API. The key travels as the "key"
// URL query parameter rather than a header, matching the public REST docs.
func New(endpoint, apiKey, model string, client *http.Client) *Adapter {
	a := &Adapter{}
	a.ModelAdapter = modeladapter.New(modeladapter.ExpandEndpoint(endpoint, model), modeladapter.Auth{
		Key:   apiKey,
		Query: KeyParam,
	}, client)
	a.Name = model

	return a
}

// Complete sends the conversation to generateContent and returns the text of
// the first candidate's first part.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat) (modeladapter.Reply, error) {
	req := a.buildRequest(c)

	var resp apiResponse
	if err := a.PostJSON(ctx, req, &resp); err != nil {
		return modeladapter.Reply{}, fmt.Errorf("gemini: %w", err)
	}

	return parseResponse(resp)
}

// --- request types ---

type apiRequest struct {
	Contents         []apiContent     `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type apiContent struct {
	Role  string    `json:"role"`
	Parts []apiPart `json:"parts"`
}

type apiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// --- response types ---

type apiResponse struct {
	Candidates    []apiCandidate `json:"candidates"`
	UsageMetadata apiUsageMeta   `json:"usageMetadata"`
}

type apiCandidate struct {
	Content      apiRespContent `json:"content"`
	FinishReason string         `json:"finishReason"`
}

type apiRespContent struct {
	Role  string        `json:"role"`
	Parts []apiRespPart `json:"parts"`
}

type apiRespPart struct {
	Text *string `json:"text"`
}

type apiUsageMeta struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
}

// --- conversion helpers ---

// buildRequest encodes a system prompt as a user turn followed by a "model"
// acknowledgment; systemInstruction is not used.
func (a *Adapter) buildRequest(c *chat.Chat) apiRequest {
	req := apiRequest{
		GenerationConfig: generationConfig{
			Temperature:     a.Temperature,
			MaxOutputTokens: a.MaxTokens,
		},
	}

	for _, m := range c.SystemAsTurns() {
		req.Contents = append(req.Contents, apiContent{
			Role:  mapRole(m.Role),
			Parts: []apiPart{{Text: m.Text}},
		})
	}

	return req
}

func mapRole(r message.Role) string {
	if r == message.Assistant {
		return "model"
	}
	return "user"
}

func parseResponse(resp apiResponse) (modeladapter.Reply, error) {
	if len(resp.Candidates) == 0 {
		return modeladapter.Reply{}, fmt.Errorf("gemini: %w: missing candidates[0]", modeladapter.ErrUnexpectedShape)
	}

	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == nil {
		return modeladapter.Reply{}, fmt.Errorf("gemini: %w: missing candidates[0].content.parts[0].text", modeladapter.ErrUnexpectedShape)
	}

	return modeladapter.Reply{
		Text:  strings.TrimSpace(*parts[0].Text),
		Usage: usage.Ptr(resp.UsageMetadata.PromptTokenCount, resp.UsageMetadata.CandidatesTokenCount),
	}, nil
}
