package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAnthropicClientComplete(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ant-test", r.Header.Get("x-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "{\"issue_summary\":\"wrong size\"}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 30, "output_tokens": 9}
		}`))
	}))
	defer server.Close()

	client := NewAnthropicClient("ant-test", "claude-3-5-haiku-latest", zap.NewNop(), anthropic.WithBaseURL(server.URL+"/v1"))
	resp, err := client.Complete(context.Background(), &CompletionRequest{
		System:      "You summarize threads.",
		Prompt:      "Analyze this thread",
		Temperature: 0.5,
		MaxTokens:   500,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"issue_summary":"wrong size"}`, resp.Content)
	assert.Equal(t, "claude-3-5-haiku-latest", resp.Model)
	assert.Equal(t, 30, resp.PromptTokens)
	assert.Equal(t, 9, resp.CompletionTokens)

	assert.Equal(t, "claude-3-5-haiku-latest", body["model"])
	assert.Equal(t, "You summarize threads.", body["system"])
	assert.Equal(t, float64(500), body["max_tokens"])

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestAnthropicClientEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "msg_2", "type": "message", "role": "assistant", "model": "m", "content": [], "usage": {"input_tokens": 1, "output_tokens": 0}}`))
	}))
	defer server.Close()

	client := NewAnthropicClient("ant-test", "m", zap.NewNop(), anthropic.WithBaseURL(server.URL+"/v1"))
	_, err := client.Complete(context.Background(), &CompletionRequest{Prompt: "hi", MaxTokens: 10})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
