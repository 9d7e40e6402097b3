// Package modeladapter defines the completion interface and the HTTP plumbing
// shared by every provider template.
//
// It contains:
//   - [Completer] interface and [Reply] result
//   - embeddable [ModelAdapter] base struct with auth transport (header or URL
//     query parameter), extra headers, a bounded HTTP client and [ModelAdapter.PostJSON]
//   - [github.com/germanamz/aicall/pkg/modeladapter/usage] holds token usage counts
//
// Model configuration (name, temperature, max tokens) is inlined directly on
// the ModelAdapter struct. This package contains no provider-specific code.
// Concrete templates live in the packages under pkg/providers.
package modeladapter
