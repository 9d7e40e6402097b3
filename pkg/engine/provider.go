package engine

import (
	"net/http"

	"github.com/germanamz/aicall/pkg/modeladapter"
	"github.com/germanamz/aicall/pkg/providers/anthropic"
	"github.com/germanamz/aicall/pkg/providers/azure"
	"github.com/germanamz/aicall/pkg/providers/cohere"
	"github.com/germanamz/aicall/pkg/providers/gemini"
	"github.com/germanamz/aicall/pkg/providers/huggingface"
	"github.com/germanamz/aicall/pkg/providers/openai"
	"github.com/germanamz/aicall/pkg/providers/provider"
)

// AdapterConfig is the fully resolved input of a Factory.
type AdapterConfig struct {
	Endpoint    string
	APIKey      string //nolint:gosec // resolved credential, not a hardcoded secret
	Model       string
	MaxTokens   int
	Temperature float64
	Client      *http.Client
}

// Factory builds the request template for one provider.
type Factory func(cfg AdapterConfig) modeladapter.Completer

// Profile is the static bundle of defaults for one provider.
type Profile struct {
	ID              provider.ID
	EnvVar          string // Environment variable consulted for the API key.
	DefaultModel    string
	DefaultEndpoint string // Empty when the caller must supply one.
	AuthScheme      string // Human-readable credential transport.
	New             Factory
}

// RequiresEndpoint reports whether the provider has no usable default endpoint.
func (p Profile) RequiresEndpoint() bool {
	return p.DefaultEndpoint == ""
}

// sampler is implemented by every template through the embedded ModelAdapter.
type sampler interface {
	SetSampling(maxTokens int, temperature float64)
}

func configure(a modeladapter.Completer, cfg AdapterConfig) modeladapter.Completer {
	if s, ok := a.(sampler); ok {
		s.SetSampling(cfg.MaxTokens, cfg.Temperature)
	}
	return a
}

// builtinProfiles is the fixed provider table. It is never mutated after
// package initialization.
var builtinProfiles = map[provider.ID]Profile{
	provider.OpenAI: {
		ID:              provider.OpenAI,
		EnvVar:          openai.EnvVar,
		DefaultModel:    openai.DefaultModel,
		DefaultEndpoint: openai.DefaultEndpoint,
		AuthScheme:      "Authorization: Bearer",
		New: func(cfg AdapterConfig) modeladapter.Completer {
			return configure(openai.New(cfg.Endpoint, cfg.APIKey, cfg.Model, cfg.Client), cfg)
		},
	},
	provider.Anthropic: {
		ID:              provider.Anthropic,
		EnvVar:          anthropic.EnvVar,
		DefaultModel:    anthropic.DefaultModel,
		DefaultEndpoint: anthropic.DefaultEndpoint,
		AuthScheme:      "x-api-key + anthropic-version",
		New: func(cfg AdapterConfig) modeladapter.Completer {
			return configure(anthropic.New(cfg.Endpoint, cfg.APIKey, cfg.Model, cfg.Client), cfg)
		},
	},
	provider.Google: {
		ID:              provider.Google,
		EnvVar:          gemini.EnvVar,
		DefaultModel:    gemini.DefaultModel,
		DefaultEndpoint: gemini.DefaultEndpoint,
		AuthScheme:      "?key= query parameter",
		New: func(cfg AdapterConfig) modeladapter.Completer {
			return configure(gemini.New(cfg.Endpoint, cfg.APIKey, cfg.Model, cfg.Client), cfg)
		},
	},
	provider.Azure: {
		ID:           provider.Azure,
		EnvVar:       azure.EnvVar,
		DefaultModel: azure.DefaultModel,
		AuthScheme:   "api-key",
		New: func(cfg AdapterConfig) modeladapter.Completer {
			return configure(azure.New(cfg.Endpoint, cfg.APIKey, cfg.Model, cfg.Client), cfg)
		},
	},
	provider.Cohere: {
		ID:              provider.Cohere,
		EnvVar:          cohere.EnvVar,
		DefaultModel:    cohere.DefaultModel,
		DefaultEndpoint: cohere.DefaultEndpoint,
		AuthScheme:      "Authorization: Bearer",
		New: func(cfg AdapterConfig) modeladapter.Completer {
			return configure(cohere.New(cfg.Endpoint, cfg.APIKey, cfg.Model, cfg.Client), cfg)
		},
	},
	provider.HuggingFace: {
		ID:              provider.HuggingFace,
		EnvVar:          huggingface.EnvVar,
		DefaultModel:    huggingface.DefaultModel,
		DefaultEndpoint: huggingface.DefaultEndpoint,
		AuthScheme:      "Authorization: Bearer",
		New: func(cfg AdapterConfig) modeladapter.Completer {
			return configure(huggingface.New(cfg.Endpoint, cfg.APIKey, cfg.Model, cfg.Client), cfg)
		},
	},
}

// Profiles returns the built-in profiles in display order.
func Profiles() []Profile {
	out := make([]Profile, 0, len(provider.All))
	for _, id := range provider.All {
		out = append(out, builtinProfiles[id])
	}
	return out
}

// LookupProfile returns the built-in profile for id.
func LookupProfile(id provider.ID) (Profile, bool) {
	p, ok := builtinProfiles[id]
	return p, ok
}
