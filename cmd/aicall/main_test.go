package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/germanamz/aicall/pkg/engine"
	"github.com/germanamz/aicall/pkg/providers/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type run struct {
	code   int
	stdout string
	stderr string
}

// isolate points the user config dir and key variables at clean values so
// the developer's own setup cannot leak into a test.
func isolate(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, v := range []string{
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GOOGLE_AI_API_KEY",
		"AZURE_OPENAI_API_KEY", "COHERE_API_KEY", "HUGGINGFACE_API_KEY",
		"AICALL_PROVIDER", "AICALL_MODEL", "AICALL_OUTPUT",
	} {
		t.Setenv(v, "")
	}
}

func runCLI(t *testing.T, stdin string, args ...string) run {
	t.Helper()

	var out, errOut bytes.Buffer
	args = append([]string{"--env", filepath.Join(t.TempDir(), "none.env")}, args...)
	code := execute(args, strings.NewReader(stdin), &out, &errOut)

	return run{code: code, stdout: out.String(), stderr: errOut.String()}
}

type fakeAPI struct {
	hits atomic.Int32
	url  string
}

func newFakeOpenAI(t *testing.T, check func(r *http.Request, body map[string]any)) *fakeAPI {
	t.Helper()

	api := &fakeAPI{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.hits.Add(1)

		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(data, &body)
		if check != nil {
			check(r, body)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  hello there \n"}}],"usage":{"prompt_tokens":4,"completion_tokens":2}}`))
	}))
	t.Cleanup(srv.Close)
	api.url = srv.URL

	return api
}

func lastUserContent(body map[string]any) string {
	msgs, _ := body["messages"].([]any)
	if len(msgs) == 0 {
		return ""
	}
	m, _ := msgs[len(msgs)-1].(map[string]any)
	s, _ := m["content"].(string)
	return s
}

func TestGenerate_Raw(t *testing.T) {
	isolate(t)
	api := newFakeOpenAI(t, func(r *http.Request, body map[string]any) {
		assert.Equal(t, "Bearer k-1", r.Header.Get("Authorization"))
		assert.Equal(t, "hi", lastUserContent(body))
		assert.InDelta(t, 0.2, body["temperature"], 1e-9)
		assert.InDelta(t, 50, body["max_tokens"], 0)
	})

	r := runCLI(t, "", "-P", "openai", "-k", "k-1", "-p", "hi", "-e", api.url,
		"-t", "0.2", "--max-tokens", "50", "--raw")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "hello there\n", r.stdout)
}

func TestGenerate_JSON(t *testing.T) {
	isolate(t)
	api := newFakeOpenAI(t, nil)

	r := runCLI(t, "", "-P", "OpenAI", "-k", "k", "-e", api.url, "--json", "positional prompt")
	require.Equal(t, 0, r.code, r.stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	assert.Equal(t, "OpenAI", got["provider"])
	assert.Equal(t, "gpt-4", got["model"])
	assert.Equal(t, "positional prompt", got["prompt"])
	assert.Equal(t, "hello there", got["response"])
	assert.InDelta(t, 6, got["tokens_used"], 0)
	assert.NotEmpty(t, got["id"])
	assert.NotEmpty(t, got["timestamp"])
}

func TestGenerate_Pretty(t *testing.T) {
	isolate(t)
	api := newFakeOpenAI(t, nil)

	r := runCLI(t, "", "-P", "OpenAI", "-k", "k", "-e", api.url, "-p", "hi")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "OpenAI")
	assert.Contains(t, r.stdout, "hello there")
}

func TestGenerate_PromptFromStdin(t *testing.T) {
	isolate(t)
	api := newFakeOpenAI(t, func(_ *http.Request, body map[string]any) {
		assert.Equal(t, "from stdin", lastUserContent(body))
	})

	r := runCLI(t, "from stdin\n", "-P", "OpenAI", "-k", "k", "-e", api.url, "-p", "-", "--raw")
	require.Equal(t, 0, r.code, r.stderr)

	r = runCLI(t, "from stdin", "-P", "OpenAI", "-k", "k", "-e", api.url, "--raw")
	require.Equal(t, 0, r.code, r.stderr)
	assert.EqualValues(t, 2, api.hits.Load())
}

func TestGenerate_EnvironmentDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("AICALL_PROVIDER", "OpenAI")
	t.Setenv("AICALL_OUTPUT", "raw")

	api := newFakeOpenAI(t, func(r *http.Request, _ map[string]any) {
		assert.Equal(t, "Bearer env-key", r.Header.Get("Authorization"))
	})

	r := runCLI(t, "", "-e", api.url, "-p", "hi")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "hello there\n", r.stdout)
}

func TestGenerate_DotEnvFile(t *testing.T) {
	isolate(t)
	// Unset rather than empty so godotenv is allowed to set it.
	require.NoError(t, os.Unsetenv("OPENAI_API_KEY"))

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("OPENAI_API_KEY=dotenv-key\n"), 0o600))

	api := newFakeOpenAI(t, func(r *http.Request, _ map[string]any) {
		assert.Equal(t, "Bearer dotenv-key", r.Header.Get("Authorization"))
	})

	var out, errOut bytes.Buffer
	code := execute([]string{"--env", envFile, "-P", "OpenAI", "-e", api.url, "-p", "hi", "--raw"},
		strings.NewReader(""), &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
}

func TestGenerate_ConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "providers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"OpenAI":{"ApiKey":"X","Model":"m1"}}`), 0o600))

	api := newFakeOpenAI(t, func(r *http.Request, body map[string]any) {
		assert.Equal(t, "Bearer X", r.Header.Get("Authorization"))
		assert.Equal(t, "m1", body["model"])
	})

	r := runCLI(t, "", "-c", path, "-P", "OpenAI", "-e", api.url, "-p", "hi", "--raw")
	require.Equal(t, 0, r.code, r.stderr)
}

func TestGenerate_InvalidParametersExitTwo(t *testing.T) {
	isolate(t)
	api := newFakeOpenAI(t, nil)

	cases := [][]string{
		{"-P", "OpenAI", "-k", "k", "-e", api.url, "-p", "hi", "-t", "2.5"},
		{"-P", "Nope", "-k", "k", "-e", api.url, "-p", "hi"},
		{"-P", "OpenAI", "-e", api.url, "-p", "hi"},
		{"-P", "Azure", "-k", "k", "-p", "hi"},
		{"-P", "OpenAI", "-k", "k", "-e", api.url, "-p", "hi", "-o", "yaml"},
		{"-P", "OpenAI", "-k", "k", "-e", api.url, "-p", "hi", "--raw", "--json"},
		{"--no-such-flag"},
	}

	for _, args := range cases {
		r := runCLI(t, "", args...)
		assert.Equal(t, 2, r.code, "args %v: %s", args, r.stderr)
		assert.Contains(t, r.stderr, "error:", "args %v", args)
	}

	assert.EqualValues(t, 0, api.hits.Load())
}

func TestGenerate_FailureExitOne(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	r := runCLI(t, "", "-P", "OpenAI", "-k", "sk-secret-value-123456", "-e", srv.URL, "-p", "hi", "--raw")
	assert.Equal(t, 1, r.code)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "503")
	assert.NotContains(t, r.stderr, "sk-secret-value-123456")

	r = runCLI(t, "", "-P", "OpenAI", "-k", "k", "-e", srv.URL, "-p", "hi", "--json")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stdout, `"response": null`)
}

func TestProvidersCommand(t *testing.T) {
	isolate(t)
	t.Setenv("COHERE_API_KEY", "set")

	r := runCLI(t, "", "providers")
	require.Equal(t, 0, r.code, r.stderr)
	for _, name := range []string{"OpenAI", "Anthropic", "Google", "Azure", "Cohere", "HuggingFace"} {
		assert.Contains(t, r.stdout, name)
	}

	r = runCLI(t, "", "providers", "--json")
	require.Equal(t, 0, r.code, r.stderr)

	var rows []providerRow
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &rows))
	require.Len(t, rows, 6)
	assert.True(t, rows[4].KeySet)
	assert.False(t, rows[0].KeySet)
	assert.Empty(t, rows[3].DefaultEndpoint)
}

func TestInitCommand(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cfg", "providers.json")

	r := runCLI(t, "", "init", "-c", path, "--providers", "openai,Azure")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ApiKey": "${OPENAI_API_KEY}"`)
	assert.Contains(t, string(data), azureEndpointRef)

	r = runCLI(t, "", "init", "-c", path, "--providers", "Cohere")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "already exists")

	r = runCLI(t, "", "init", "-c", path, "--providers", "Cohere", "--force")
	require.Equal(t, 0, r.code, r.stderr)

	r = runCLI(t, "", "init", "-c", path, "--providers", "Mistral", "--force")
	assert.Equal(t, 2, r.code)
}

func TestInitThenGenerate(t *testing.T) {
	isolate(t)
	t.Setenv("COHERE_API_KEY", "co-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer co-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"generations":[{"text":"ok"}]}`))
	}))
	t.Cleanup(srv.Close)

	r := runCLI(t, "", "init", "--providers", "Cohere")
	require.Equal(t, 0, r.code, r.stderr)

	r = runCLI(t, "", "-P", "cohere", "-e", srv.URL, "-p", "hi", "--raw")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "ok\n", r.stdout)
}

func TestEndpointValidator(t *testing.T) {
	azure, _ := engine.LookupProfile(provider.Azure)
	openai, _ := engine.LookupProfile(provider.OpenAI)

	assert.Error(t, endpointValidator(azure)(""))
	assert.NoError(t, endpointValidator(azure)("${AZURE_OPENAI_ENDPOINT}"))
	assert.NoError(t, endpointValidator(azure)("https://x.openai.azure.com/openai/deployments/{model}/chat/completions"))
	assert.Error(t, endpointValidator(azure)("x.openai.azure.com"))
	assert.NoError(t, endpointValidator(openai)(""))
}

func TestVersionFlag(t *testing.T) {
	isolate(t)

	r := runCLI(t, "", "--version")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, version)
}
