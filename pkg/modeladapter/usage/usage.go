// Package usage holds the token counts a provider reports for one call.
package usage

// TokenCount holds input and output token counts for a single LLM call.
type TokenCount struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Total returns the sum of input and output tokens.
func (tc TokenCount) Total() int {
	return tc.InputTokens + tc.OutputTokens
}

// Ptr returns a pointer to a TokenCount, or nil when both counts are zero.
// Providers that omit usage decode to zeros, which are reported as absent.
func Ptr(input, output int) *TokenCount {
	if input == 0 && output == 0 {
		return nil
	}

	return &TokenCount{InputTokens: input, OutputTokens: output}
}
