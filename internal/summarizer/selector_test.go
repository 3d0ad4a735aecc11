package summarizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/threadreview/internal/adapter/llm"
	"github.com/xiaot623/gogo/threadreview/internal/domain"
)

func TestSelectorRulesOnly(t *testing.T) {
	s := NewSelector(nil, NewRuleSummarizer(), zap.NewNop())
	th := threadWith("package is late")

	got := s.Summarize(context.Background(), th)

	assert.Equal(t, domain.SummaryTypeRuleBased, s.Method())
	assert.Equal(t, domain.SummaryTypeRuleBased, got.SummaryType)
	assert.Equal(t, []string{"delivery"}, got.Tags)
}

func TestSelectorUsesExternal(t *testing.T) {
	client := &fakeClient{provider: "openai", reply: `{"issue_summary":"From the model"}`}
	ext := NewExternalSummarizer(client, ExternalOptions{}, zap.NewNop())
	s := NewSelector(ext, NewRuleSummarizer(), zap.NewNop())

	got := s.Summarize(context.Background(), threadWith("hello"))

	assert.Equal(t, domain.SummaryTypeOpenAI, s.Method())
	assert.Equal(t, domain.SummaryTypeOpenAI, got.SummaryType)
	assert.Equal(t, "From the model", got.IssueSummary)
}

func TestSelectorKeepsUnparseableReply(t *testing.T) {
	client := &fakeClient{provider: "openai", reply: "plain prose answer"}
	s := NewSelector(NewExternalSummarizer(client, ExternalOptions{}, zap.NewNop()), NewRuleSummarizer(), zap.NewNop())

	got := s.Summarize(context.Background(), threadWith("hello"))

	assert.Equal(t, domain.SummaryTypeOpenAI, got.SummaryType)
	assert.Equal(t, "plain prose answer", got.IssueSummary)
	assert.Empty(t, got.Priority)
}

func TestSelectorFallsBackOnFailure(t *testing.T) {
	client := &fakeClient{provider: "openai", err: errors.New("connection refused")}
	s := NewSelector(NewExternalSummarizer(client, ExternalOptions{}, zap.NewNop()), NewRuleSummarizer(), zap.NewNop())
	th := threadWith("my order arrived damaged")

	got := s.Summarize(context.Background(), th)

	want := SummarizeWithRules(th)
	want.SummaryType = domain.SummaryTypeRuleBased
	assert.Equal(t, want, got)
}

func TestSelectorWithMockClient(t *testing.T) {
	ext := NewExternalSummarizer(llm.NewMockClient(), ExternalOptions{}, zap.NewNop())
	s := NewSelector(ext, NewRuleSummarizer(), zap.NewNop())

	got := s.Summarize(context.Background(), threadWith("hello"))

	assert.Equal(t, domain.SummaryTypeMock, got.SummaryType)
	assert.Equal(t, []string{"mock"}, got.Tags)
}
