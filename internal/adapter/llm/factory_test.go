package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/threadreview/internal/config"
)

func TestNewClientFromConfig(t *testing.T) {
	logger := zap.NewNop()

	assert.Nil(t, NewClientFromConfig(config.AIConfig{Provider: config.ProviderOpenAI}, logger))

	c := NewClientFromConfig(config.AIConfig{Provider: config.ProviderOpenAI, OpenAIAPIKey: "sk", OpenAIModel: "gpt-4"}, logger)
	require.NotNil(t, c)
	assert.Equal(t, "openai", c.Provider())

	c = NewClientFromConfig(config.AIConfig{Provider: config.ProviderAnthropic, AnthropicAPIKey: "k", AnthropicModel: "m"}, logger)
	require.NotNil(t, c)
	assert.Equal(t, "anthropic", c.Provider())

	c = NewClientFromConfig(config.AIConfig{Provider: config.ProviderMock}, logger)
	require.NotNil(t, c)
	assert.Equal(t, "mock", c.Provider())
}

func TestMockClientReturnsJSON(t *testing.T) {
	resp, err := NewMockClient().Complete(context.Background(), &CompletionRequest{Prompt: "Analyze this\nthread"})
	require.NoError(t, err)

	out, err := ExtractJSON(resp.Content)
	require.NoError(t, err)
	assert.Contains(t, out, `"issue_summary":"[MOCK] Analyze this"`)
}

func TestMockClientHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMockClient().Complete(ctx, &CompletionRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
