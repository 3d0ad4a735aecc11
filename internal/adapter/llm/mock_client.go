package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// MockClient is a deterministic Client for local runs and tests.
type MockClient struct{}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Provider returns "mock".
func (m *MockClient) Provider() string { return "mock" }

// Complete returns a fixed structured summary built from the prompt.
func (m *MockClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := map[string]any{
		"issue_summary":     "[MOCK] " + firstLine(req.Prompt),
		"key_actions":       []string{"Review thread"},
		"resolution_status": "pending",
		"sentiment":         "neutral",
		"priority":          "medium",
		"next_steps":        "Review thread and take appropriate action",
		"tags":              []string{"mock"},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return &CompletionResponse{
		Content:          string(raw),
		Model:            "mock",
		PromptTokens:     len(req.Prompt) / 4,
		CompletionTokens: len(raw) / 4,
	}, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
