package engine

import (
	"time"

	"github.com/germanamz/aicall/pkg/modeladapter/usage"
)

// Result is the normalized outcome of one attempted request. Exactly one of
// Response and Error is set.
type Result struct {
	ID        string            `json:"id"`
	Provider  string            `json:"provider"`
	Model     string            `json:"model"`
	Prompt    string            `json:"prompt"`
	Response  *string           `json:"response"`
	Tokens    *int              `json:"tokens_used,omitempty"`
	Usage     *usage.TokenCount `json:"usage,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Duration  time.Duration     `json:"-"`
	Error     string            `json:"error,omitempty"`

	// Err wraps ErrNetworkFailure or ErrUnexpectedResponseShape on failure.
	Err error `json:"-"`
}

// OK reports whether the request produced a response.
func (r Result) OK() bool {
	return r.Response != nil
}

// Text returns the response text, or an empty string on failure.
func (r Result) Text() string {
	if r.Response == nil {
		return ""
	}
	return *r.Response
}
