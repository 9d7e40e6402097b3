package engine

import (
	"context"
	"testing"

	"github.com/germanamz/aicall/pkg/chats/chat"
	"github.com/germanamz/aicall/pkg/modeladapter"
	"github.com/germanamz/aicall/pkg/providers/openai"
	"github.com/germanamz/aicall/pkg/providers/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfiles_CoverEveryProvider(t *testing.T) {
	profiles := Profiles()
	require.Len(t, profiles, len(provider.All))

	for i, p := range profiles {
		assert.Equal(t, provider.All[i], p.ID)
		assert.NotEmpty(t, p.EnvVar, p.ID)
		assert.NotEmpty(t, p.DefaultModel, p.ID)
		assert.NotNil(t, p.New, p.ID)
	}
}

func TestProfiles_Defaults(t *testing.T) {
	tests := []struct {
		id       provider.ID
		envVar   string
		model    string
		endpoint string
	}{
		{provider.OpenAI, "OPENAI_API_KEY", "gpt-4", "https://api.openai.com/v1/chat/completions"},
		{provider.Anthropic, "ANTHROPIC_API_KEY", "claude-3-sonnet-20240229", "https://api.anthropic.com/v1/messages"},
		{provider.Google, "GOOGLE_AI_API_KEY", "gemini-pro", "https://generativelanguage.googleapis.com/v1beta/models/{model}:generateContent"},
		{provider.Azure, "AZURE_OPENAI_API_KEY", "gpt-4", ""},
		{provider.Cohere, "COHERE_API_KEY", "command", "https://api.cohere.ai/v1/generate"},
		{provider.HuggingFace, "HUGGINGFACE_API_KEY", "microsoft/DialoGPT-medium", "https://api-inference.huggingface.co/models/{model}"},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			p, ok := LookupProfile(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.envVar, p.EnvVar)
			assert.Equal(t, tt.model, p.DefaultModel)
			assert.Equal(t, tt.endpoint, p.DefaultEndpoint)
			assert.Equal(t, tt.endpoint == "", p.RequiresEndpoint())
		})
	}
}

func TestProfileFactory_AppliesSampling(t *testing.T) {
	p, ok := LookupProfile(provider.OpenAI)
	require.True(t, ok)

	c := p.New(AdapterConfig{Endpoint: "https://example.test", APIKey: "k", Model: "m", MaxTokens: 12, Temperature: 0.3})

	a, ok := c.(*openai.Adapter)
	require.True(t, ok)
	assert.Equal(t, 12, a.MaxTokens)
	assert.InDelta(t, 0.3, a.Temperature, 1e-9)
	assert.Equal(t, "m", a.Name)
	assert.Equal(t, "https://example.test", a.Endpoint)
}

type stubCompleter struct {
	got *chat.Chat
}

func (s *stubCompleter) Complete(_ context.Context, c *chat.Chat) (modeladapter.Reply, error) {
	s.got = c
	return modeladapter.Reply{Text: "stubbed"}, nil
}

func TestWithProfile_OverridesBuiltin(t *testing.T) {
	stub := &stubCompleter{}
	var seen AdapterConfig

	eng := New(WithProfile(Profile{
		ID:              provider.Cohere,
		EnvVar:          "STUB_KEY",
		DefaultModel:    "stub-model",
		DefaultEndpoint: "https://stub.test/{model}",
		New: func(cfg AdapterConfig) modeladapter.Completer {
			seen = cfg
			return stub
		},
	}), WithEnv(Env{"STUB_KEY": "stub-secret"}))

	res, err := eng.Invoke(context.Background(), Params{Provider: "cohere", Prompt: "hi", SystemPrompt: "sys"})
	require.NoError(t, err)
	assert.Equal(t, "stubbed", res.Text())

	assert.Equal(t, "https://stub.test/stub-model", seen.Endpoint)
	assert.Equal(t, "stub-secret", seen.APIKey)
	assert.Equal(t, DefaultMaxTokens, seen.MaxTokens)
	assert.InDelta(t, DefaultTemperature, seen.Temperature, 1e-9)

	require.NotNil(t, stub.got)
	assert.Equal(t, "sys", stub.got.SystemPrompt())
	assert.Equal(t, "hi", stub.got.Prompt())

	builtin, _ := LookupProfile(provider.Cohere)
	assert.Equal(t, "COHERE_API_KEY", builtin.EnvVar)
}
