// Package providers holds the request templates for the six supported text
// generation APIs.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/aicall/pkg/providers/provider]: the fixed provider enumeration
//   - [github.com/germanamz/aicall/pkg/providers/openai]: OpenAI chat completions
//   - [github.com/germanamz/aicall/pkg/providers/azure]: Azure OpenAI chat completions
//   - [github.com/germanamz/aicall/pkg/providers/anthropic]: Anthropic messages
//   - [github.com/germanamz/aicall/pkg/providers/gemini]: Google generateContent
//   - [github.com/germanamz/aicall/pkg/providers/cohere]: Cohere generate
//   - [github.com/germanamz/aicall/pkg/providers/huggingface]: HuggingFace inference
//
// Every template embeds [github.com/germanamz/aicall/pkg/modeladapter.ModelAdapter]
// and implements its Completer interface. Body construction is pure; the only
// I/O is the single POST issued by Complete.
package providers
