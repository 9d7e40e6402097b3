package aitools_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germanamz/aicall/pkg/engine"
	"github.com/germanamz/aicall/pkg/tools/aitools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToolkit(t *testing.T, handler http.HandlerFunc) (*aitools.Toolkit, string) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	eng := engine.New(engine.WithEnv(engine.Env{"COHERE_API_KEY": "k"}))
	return aitools.New(eng, ""), srv.URL
}

func TestGenerateText(t *testing.T) {
	tk, url := newToolkit(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"generations":[{"text":" hi there "}]}`))
	})

	args, err := json.Marshal(map[string]any{"provider": "Cohere", "prompt": "hello", "endpoint": url, "temperature": 0})
	require.NoError(t, err)

	out, err := tk.Tools().Call(context.Background(), "generate_text", args)
	require.NoError(t, err)

	var res engine.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotNil(t, res.Response)
	assert.Equal(t, "hi there", *res.Response)
	assert.Equal(t, "Cohere", res.Provider)
	assert.Equal(t, "command", res.Model)
}

func TestGenerateText_Failures(t *testing.T) {
	tk, url := newToolkit(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	tb := tk.Tools()

	_, err := tb.Call(context.Background(), "generate_text", json.RawMessage(`{"provider":"Cohere","prompt":"x","endpoint":"`+url+`"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	_, err = tb.Call(context.Background(), "generate_text", json.RawMessage(`{"provider":"Cohere","prompt":"x","temperature":9}`))
	require.ErrorIs(t, err, engine.ErrInvalidParameter)

	_, err = tb.Call(context.Background(), "generate_text", json.RawMessage(`not json`))
	require.Error(t, err)
}

func TestListProviders(t *testing.T) {
	tk := aitools.New(engine.New(), "")

	out, err := tk.Tools().Call(context.Background(), "list_providers", nil)
	require.NoError(t, err)

	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 6)
	assert.Equal(t, "OpenAI", infos[0]["name"])
	assert.Equal(t, "OPENAI_API_KEY", infos[0]["env_var"])
	assert.NotContains(t, infos[3], "default_endpoint")
}
