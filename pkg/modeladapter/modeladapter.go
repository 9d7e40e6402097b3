package modeladapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/germanamz/aicall/pkg/chats/chat"
	"github.com/germanamz/aicall/pkg/modeladapter/usage"
)

// DefaultTimeout bounds a whole request, from dial to the last byte of the body.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a non-2xx body is kept in a StatusError.
const maxErrorBody = 4096

var (
	// ErrDecode is wrapped when a 2xx response body is not valid JSON for the
	// destination type.
	ErrDecode = errors.New("decode response")

	// ErrUnexpectedShape is wrapped by templates when the response decoded but
	// the generated text is not where the provider documents it.
	ErrUnexpectedShape = errors.New("unexpected response shape")
)

// StatusError is returned when the API responds with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Reply is the normalized outcome of a single completion.
type Reply struct {
	Text  string            // Extracted text, whitespace-trimmed.
	Usage *usage.TokenCount // Nil when the provider does not report usage.
}

// Completer sends a conversation to a provider and returns the extracted reply.
type Completer interface {
	Complete(ctx context.Context, c *chat.Chat) (Reply, error)
}

// Auth holds credential transport settings for a provider API.
type Auth struct {
	Key    string // API key value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
	Query  string // When set, the key travels as this URL query parameter instead of a header.
}

// ModelAdapter holds shared state for provider templates. Embed it in concrete
// adapter structs to get request building, auth, custom headers and JSON
// posting. Concrete types implement Completer by adding a Complete method.
type ModelAdapter struct {
	Name        string            // Model identifier (e.g. "gpt-4").
	Temperature float64           // Sampling temperature.
	MaxTokens   int               // Maximum tokens in the response.
	Auth        Auth              // Credential transport.
	Endpoint    string            // Fully resolved request URL.
	Client      *http.Client      // HTTP client; falls back to a client bounded by DefaultTimeout.
	Headers     map[string]string // Extra headers applied to every request.
}

// New creates a ModelAdapter with the given settings.
// A nil client falls back to a DefaultTimeout client at call time.
func New(endpoint string, auth Auth, client *http.Client) ModelAdapter {
	return ModelAdapter{
		Auth:     auth,
		Endpoint: endpoint,
		Client:   client,
	}
}

// ExpandEndpoint substitutes the {model} placeholder in an endpoint template.
func ExpandEndpoint(tmpl, model string) string {
	return strings.ReplaceAll(tmpl, "{model}", model)
}

func (a *ModelAdapter) httpClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}

	return &http.Client{Timeout: DefaultTimeout}
}

// URL returns the endpoint with query-parameter auth applied.
func (a *ModelAdapter) URL() (string, error) {
	if a.Auth.Query == "" || a.Auth.Key == "" {
		return a.Endpoint, nil
	}

	u, err := url.Parse(a.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}

	q := u.Query()
	q.Set(a.Auth.Query, a.Auth.Key)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// RedactedURL returns the endpoint with any query-parameter credential masked.
func (a *ModelAdapter) RedactedURL() string {
	if a.Auth.Query == "" {
		return a.Endpoint
	}

	u, err := url.Parse(a.Endpoint)
	if err != nil {
		return a.Endpoint
	}

	q := u.Query()
	q.Set(a.Auth.Query, "REDACTED")
	u.RawQuery = q.Encode()

	return u.String()
}

// NewRequest builds an *http.Request for the endpoint with auth and custom
// headers already applied.
func (a *ModelAdapter) NewRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	target, err := a.URL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	// Apply header auth.
	if a.Auth.Key != "" && a.Auth.Query == "" {
		header := a.Auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := a.Auth.Key
		if header == "Authorization" {
			scheme := a.Auth.Scheme
			if scheme == "" {
				scheme = "Bearer"
			}

			value = scheme + " " + value
		} else if a.Auth.Scheme != "" {
			value = a.Auth.Scheme + " " + value
		}

		req.Header.Set(header, value)
	}

	for k, v := range a.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// Do sends the request using the configured HTTP client.
func (a *ModelAdapter) Do(req *http.Request) (*http.Response, error) {
	return a.httpClient().Do(req) //nolint:gosec // URL comes from resolved provider configuration.
}

// PostJSON marshals payload as JSON, sends exactly one POST to the endpoint,
// checks for a 2xx status, and unmarshals the response body into dest.
// If dest is nil the response body is discarded after the status check.
func (a *ModelAdapter) PostJSON(ctx context.Context, payload any, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := a.NewRequest(ctx, http.MethodPost, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Do(req)
	if err != nil {
		// url.Error embeds the full request URL, which may carry the key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = a.RedactedURL()
		}
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return nil
}

// SetSampling sets the output token limit and temperature.
func (a *ModelAdapter) SetSampling(maxTokens int, temperature float64) {
	a.MaxTokens = maxTokens
	a.Temperature = temperature
}
