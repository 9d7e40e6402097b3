package provider_test

import (
	"testing"

	"github.com/germanamz/aicall/pkg/providers/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]provider.ID{
		"OpenAI":        provider.OpenAI,
		"openai":        provider.OpenAI,
		"  ANTHROPIC  ": provider.Anthropic,
		"google":        provider.Google,
		"Azure":         provider.Azure,
		"cohere":        provider.Cohere,
		"huggingface":   provider.HuggingFace,
	}

	for in, want := range cases {
		got, err := provider.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParse_Unknown(t *testing.T) {
	_, err := provider.Parse("mistral")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "mistral"`)
	assert.Contains(t, err.Error(), "HuggingFace")
}

func TestAll_SixProviders(t *testing.T) {
	assert.Len(t, provider.All, 6)
	assert.Equal(t, []string{"OpenAI", "Anthropic", "Google", "Azure", "Cohere", "HuggingFace"}, provider.Names())
}
