// Package redact masks API credentials in strings and log records.
package redact

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// Placeholder replaces every credential that is found.
const Placeholder = "[REDACTED]"

// minSecretLen guards Secret against masking trivially short values.
const minSecretLen = 4

type rule struct {
	re   *regexp.Regexp
	repl string
}

var rules = []rule{
	// Anthropic keys: sk-ant-...
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]{20,}`), Placeholder},
	// OpenAI keys: sk-...
	{regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`), Placeholder},
	// Google AI keys: AIza...
	{regexp.MustCompile(`AIza[a-zA-Z0-9_-]{30,}`), Placeholder},
	// HuggingFace tokens: hf_...
	{regexp.MustCompile(`hf_[a-zA-Z0-9]{20,}`), Placeholder},
	// Bearer tokens.
	{regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]{16,}`), Placeholder},
	// Keys in query strings keep the parameter name so URLs stay readable.
	{regexp.MustCompile(`([?&]key=)[^&\s"]+`), "${1}" + Placeholder},
}

// opaqueToken catches unprefixed keys in log output only. Result errors keep
// long identifiers such as request ids intact.
var opaqueToken = regexp.MustCompile(`[a-zA-Z0-9_-]{40,}`)

var sensitiveKeys = []string{
	"authorization",
	"api_key",
	"apikey",
	"api-key",
	"secret",
	"password",
	"token",
	"credential",
}

// String replaces every known credential pattern in s. Unprefixed tokens are
// left alone; the log Handler masks those as well.
func String(s string) string {
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}

func logString(s string) string {
	return opaqueToken.ReplaceAllString(String(s), Placeholder)
}

// Secret replaces every literal occurrence of secret in s. Values shorter
// than four bytes are left alone.
func Secret(s, secret string) string {
	if len(secret) < minSecretLen {
		return s
	}
	return strings.ReplaceAll(s, secret, Placeholder)
}

// IsSensitiveKey reports whether an attribute or header name carries a credential.
func IsSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if key == "tokens" || strings.HasSuffix(key, "_tokens") {
		return false
	}
	for _, k := range sensitiveKeys {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}

// Handler wraps an slog.Handler and redacts credentials from every record.
type Handler struct {
	inner slog.Handler
}

// NewHandler returns a Handler that redacts before delegating to inner.
func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

// Enabled reports whether the inner handler handles records at the given level.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle redacts the message and attributes, then passes the record on.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, logString(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})

	return h.inner.Handle(ctx, out)
}

// WithAttrs returns a new handler with the given attributes redacted and added.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &Handler{inner: h.inner.WithAttrs(redacted)}
}

// WithGroup returns a new handler with the given group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, Placeholder)
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, logString(v.String()))
	case slog.KindGroup:
		group := v.Group()
		attrs := make([]any, len(group))
		for i, g := range group {
			attrs[i] = redactAttr(g)
		}
		return slog.Group(a.Key, attrs...)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, logString(err.Error()))
		}
	}

	return a
}
