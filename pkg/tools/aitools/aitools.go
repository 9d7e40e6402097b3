// Package aitools provides tools that let MCP clients generate text through
// the engine. API keys are never accepted as tool arguments; they come from
// the config file or the environment the server was started with.
package aitools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/germanamz/aicall/pkg/engine"
	"github.com/germanamz/aicall/pkg/tools/toolbox"
)

// Toolkit binds the tools to one engine and config file.
type Toolkit struct {
	eng        *engine.Engine
	configFile string
}

// New creates a Toolkit. configFile may be empty.
func New(eng *engine.Engine, configFile string) *Toolkit {
	return &Toolkit{eng: eng, configFile: configFile}
}

// Tools returns a ToolBox containing generate_text and list_providers.
func (k *Toolkit) Tools() *toolbox.ToolBox {
	tb := toolbox.New()
	tb.Register(k.generateTextTool(), k.listProvidersTool())

	return tb
}

type generateInput struct {
	Provider     string   `json:"provider"`
	Prompt       string   `json:"prompt"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
	Model        string   `json:"model,omitempty"`
	MaxTokens    int      `json:"max_tokens,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	Endpoint     string   `json:"endpoint,omitempty"`
}

const generateSchema = `{"type":"object","properties":{` +
	`"provider":{"type":"string","enum":["OpenAI","Anthropic","Google","Azure","Cohere","HuggingFace"],"description":"Provider to call"},` +
	`"prompt":{"type":"string","description":"User prompt"},` +
	`"system_prompt":{"type":"string","description":"Optional instructions sent ahead of the prompt"},` +
	`"model":{"type":"string","description":"Model name; defaults per provider"},` +
	`"max_tokens":{"type":"integer","minimum":1,"description":"Output token limit (default 1000)"},` +
	`"temperature":{"type":"number","minimum":0,"maximum":2,"description":"Sampling temperature (default 0.7)"},` +
	`"endpoint":{"type":"string","description":"Endpoint URL; required for Azure"}` +
	`},"required":["provider","prompt"]}`

func (k *Toolkit) generateTextTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "generate_text",
		Description: "Send one prompt to a hosted text generation API and return the normalized result as JSON.",
		InputSchema: json.RawMessage(generateSchema),
		Handler:     k.handleGenerate,
	}
}

func (k *Toolkit) handleGenerate(ctx context.Context, input json.RawMessage) (string, error) {
	var in generateInput
	if err := toolbox.Decode(input, &in); err != nil {
		return "", fmt.Errorf("generate_text: invalid input: %w", err)
	}

	res, err := k.eng.Invoke(ctx, engine.Params{
		Provider:     in.Provider,
		Prompt:       in.Prompt,
		SystemPrompt: in.SystemPrompt,
		Model:        in.Model,
		MaxTokens:    in.MaxTokens,
		Temperature:  in.Temperature,
		Endpoint:     in.Endpoint,
		ConfigFile:   k.configFile,
	})
	if err != nil {
		return "", fmt.Errorf("generate_text: %w", err)
	}
	if !res.OK() {
		return "", errors.New("generate_text: " + res.Error)
	}

	out, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("generate_text: %w", err)
	}

	return string(out), nil
}

type providerInfo struct {
	Name            string `json:"name"`
	EnvVar          string `json:"env_var"`
	DefaultModel    string `json:"default_model"`
	DefaultEndpoint string `json:"default_endpoint,omitempty"`
	Auth            string `json:"auth"`
}

func (k *Toolkit) listProvidersTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "list_providers",
		Description: "List the supported providers with their default model, endpoint and API key variable.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
		Handler: func(_ context.Context, _ json.RawMessage) (string, error) {
			profiles := engine.Profiles()
			infos := make([]providerInfo, 0, len(profiles))
			for _, p := range profiles {
				infos = append(infos, providerInfo{
					Name:            string(p.ID),
					EnvVar:          p.EnvVar,
					DefaultModel:    p.DefaultModel,
					DefaultEndpoint: p.DefaultEndpoint,
					Auth:            p.AuthScheme,
				})
			}

			out, err := json.Marshal(infos)
			if err != nil {
				return "", fmt.Errorf("list_providers: %w", err)
			}
			return string(out), nil
		},
	}
}
