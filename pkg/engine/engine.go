package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/germanamz/aicall/pkg/chats/chat"
	"github.com/germanamz/aicall/pkg/modeladapter"
	"github.com/germanamz/aicall/pkg/providers/provider"
	"github.com/germanamz/aicall/pkg/redact"
	"github.com/google/uuid"
)

// Engine dispatches invocations to provider templates. Construct it with New;
// it is immutable afterwards and safe for concurrent use.
type Engine struct {
	env          Env
	log          *slog.Logger
	client       *http.Client
	now          func() time.Time
	newID        func() string
	profiles     map[provider.ID]Profile
	strictConfig bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithEnv sets the environment snapshot used for API keys and ${VAR}
// expansion in config files. The default is an empty snapshot.
func WithEnv(env Env) Option {
	return func(e *Engine) { e.env = env }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithHTTPClient sets the client used for the outbound request. The default
// is bounded by modeladapter.DefaultTimeout.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) { e.client = c }
}

// WithClock sets the time source for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator sets the function producing result IDs.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// WithStrictConfig makes an unparseable config file an ErrInvalidParameter
// instead of a logged warning.
func WithStrictConfig(strict bool) Option {
	return func(e *Engine) { e.strictConfig = strict }
}

// WithProfile replaces the built-in profile for p.ID.
func WithProfile(p Profile) Option {
	return func(e *Engine) { e.profiles[p.ID] = p }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		env:      Env{},
		log:      slog.New(slog.DiscardHandler),
		client:   &http.Client{Timeout: modeladapter.DefaultTimeout},
		now:      time.Now,
		newID:    uuid.NewString,
		profiles: make(map[provider.ID]Profile, len(builtinProfiles)),
	}
	for id, p := range builtinProfiles {
		e.profiles[id] = p
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Invoke validates and resolves p, sends exactly one request and returns the
// normalized Result.
//
// Preflight failures (ErrInvalidParameter, ErrMissingCredential,
// ErrMissingEndpoint) are returned as errors and no request is made. Once the
// request has been attempted, the error is always nil and failures are
// described by Result.Error and Result.Err.
func (e *Engine) Invoke(ctx context.Context, p Params) (Result, error) {
	r, err := e.Resolve(p)
	if err != nil {
		return Result{}, err
	}

	return e.Execute(ctx, r), nil
}

// Text is Invoke in raw mode: it returns exactly the trimmed text that Invoke
// would place in Result.Response, or the failure as an error.
func (e *Engine) Text(ctx context.Context, p Params) (string, error) {
	res, err := e.Invoke(ctx, p)
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return "", res.Err
	}
	return res.Text(), nil
}

// Execute sends the request described by r. It never returns an error;
// failures are folded into the Result.
func (e *Engine) Execute(ctx context.Context, r Resolved) Result {
	id := r.Profile.ID
	completer := r.Profile.New(AdapterConfig{
		Endpoint:    r.Endpoint,
		APIKey:      r.APIKey,
		Model:       r.Model,
		MaxTokens:   r.MaxTokens,
		Temperature: r.Temperature,
		Client:      e.client,
	})

	res := Result{
		ID:       e.newID(),
		Provider: string(id),
		Model:    r.Model,
		Prompt:   r.Prompt,
	}
	log := e.log.With("id", res.ID, "provider", string(id), "model", r.Model)

	log.Debug("sending request",
		"endpoint", redactedEndpoint(completer, r.Endpoint),
		"key_source", string(r.KeySource),
		"model_source", string(r.ModelSource),
		"endpoint_source", string(r.EndpointSource),
		"max_tokens", r.MaxTokens,
		"temperature", r.Temperature,
	)

	start := time.Now()
	reply, err := completer.Complete(ctx, chat.FromPrompt(r.SystemPrompt, r.Prompt))
	res.Duration = time.Since(start)
	res.Timestamp = e.now().UTC()

	if err != nil {
		res.Err = classify(err)
		res.Error = redact.Secret(redact.String(res.Err.Error()), r.APIKey)
		log.Warn("request failed", "err", res.Error, "duration", res.Duration)
		return res
	}

	text := reply.Text
	res.Response = &text
	if reply.Usage != nil {
		u := *reply.Usage
		total := u.Total()
		res.Usage = &u
		res.Tokens = &total
	}

	log.Debug("request completed", "duration", res.Duration, "chars", len(text))

	return res
}

// classify maps a template error onto the failure taxonomy.
func classify(err error) error {
	if errors.Is(err, modeladapter.ErrUnexpectedShape) || errors.Is(err, modeladapter.ErrDecode) {
		return fmt.Errorf("%w: %w", ErrUnexpectedResponseShape, err)
	}
	return fmt.Errorf("%w: %w", ErrNetworkFailure, err)
}

func redactedEndpoint(c modeladapter.Completer, fallback string) string {
	if r, ok := c.(interface{ RedactedURL() string }); ok {
		return r.RedactedURL()
	}
	return redact.String(fallback)
}
