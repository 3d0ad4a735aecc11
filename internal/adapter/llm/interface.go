// Package llm provides chat-completion clients for the external
// summarization strategies.
package llm

import "context"

// Client sends a single system+user prompt and returns the reply text.
type Client interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Provider names the backend, e.g. "openai".
	Provider() string
}

// CompletionRequest is a provider-neutral completion request.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// CompletionResponse is the reply text with usage stats.
type CompletionResponse struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// Ensure clients implement Client.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*AnthropicClient)(nil)
	_ Client = (*MockClient)(nil)
)
