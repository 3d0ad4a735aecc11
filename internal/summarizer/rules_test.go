package summarizer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/threadreview/internal/domain"
)

func threadWith(bodies ...string) *domain.Thread {
	msgs := make([]domain.Message, len(bodies))
	for i, b := range bodies {
		sender := domain.SenderCustomer
		if i%2 == 1 {
			sender = domain.SenderCompany
		}
		msgs[i] = domain.Message{Sender: sender, Timestamp: "2024-01-01T00:00:00Z", Body: b}
	}
	return &domain.Thread{
		ThreadID: "t1",
		Topic:    "General inquiry",
		Subject:  "Question",
		OrderID:  "ORD-42",
		Product:  "Kettle",
		Messages: msgs,
	}
}

func TestRulesEmptyThread(t *testing.T) {
	got := SummarizeWithRules(threadWith())

	assert.Equal(t, "Customer contacted regarding Kettle (Order ORD-42). Issues: General inquiry.", got.IssueSummary)
	assert.Equal(t, []string{
		"Total messages exchanged: 0",
		"Customer messages: 0",
		"Agent responses: 0",
	}, got.KeyActions)
	assert.Equal(t, domain.ResolutionPending, got.ResolutionStatus)
	assert.Equal(t, domain.SentimentNeutral, got.Sentiment)
	assert.Equal(t, domain.PriorityMedium, got.Priority)
	assert.Equal(t, nextStepsOpen, got.NextSteps)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
}

func TestRulesTagsKeepDeclarationOrder(t *testing.T) {
	got := SummarizeWithRules(threadWith("I want a REFUND, the item arrived broken and the tracking is stuck. Also wrong size."))

	assert.Equal(t, []string{"damaged", "delivery", "wrong item", "refund"}, got.Tags)
	assert.Equal(t, "Customer contacted regarding Kettle (Order ORD-42). Issues: damaged, delivery, wrong item, refund.", got.IssueSummary)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
}

func TestRulesResolvedTakesPrecedence(t *testing.T) {
	bodies := []string{"a", "b", "c", "d", "e", "f", "g", "this is resolved"}
	got := SummarizeWithRules(threadWith(bodies...))

	assert.Equal(t, domain.ResolutionResolved, got.ResolutionStatus)
	assert.Equal(t, nextStepsResolved, got.NextSteps)
	assert.Equal(t, domain.PriorityUrgent, got.Priority)
}

func TestRulesEscalationScenario(t *testing.T) {
	got := SummarizeWithRules(threadWith(
		"hello",
		"hi, how can we help",
		"my blender arrived damaged",
		"sorry to hear",
		"this is urgent",
		"we are on it",
		"ok",
	))

	assert.Equal(t, domain.ResolutionEscalated, got.ResolutionStatus)
	assert.Equal(t, domain.PriorityUrgent, got.Priority)
	assert.Contains(t, got.Tags, "damaged")
	assert.Equal(t, "Customer messages: 4", got.KeyActions[1])
	assert.Equal(t, "Agent responses: 3", got.KeyActions[2])
}

func TestRulesSentiment(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "no words", body: "hello there", want: domain.SentimentNeutral},
		{name: "frustrated", body: "broken and lost, a real problem", want: domain.SentimentFrustrated},
		{name: "negative", body: "broken and lost. thanks", want: domain.SentimentNegative},
		{name: "positive", body: "thanks, I appreciate it", want: domain.SentimentPositive},
		{name: "tie nonzero", body: "broken but thanks", want: domain.SentimentNeutral},
		{name: "substring counts", body: "the issues were approved", want: domain.SentimentNeutral},
		{name: "repeat counts once", body: "broken broken broken thanks", want: domain.SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sentiment(tt.body))
		})
	}
}

func TestRulesPriority(t *testing.T) {
	assert.Equal(t, domain.PriorityUrgent, priority("please, this is urgent", 1, false))
	assert.Equal(t, domain.PriorityUrgent, priority("", 7, false))
	assert.Equal(t, domain.PriorityHigh, priority("", 5, false))
	assert.Equal(t, domain.PriorityHigh, priority("", 1, true))
	assert.Equal(t, domain.PriorityMedium, priority("", 4, false))
}

func TestRulesCaseFolding(t *testing.T) {
	got := SummarizeWithRules(threadWith("My ADDRESS changed, please REROUTE. URGENT!"))

	assert.Equal(t, []string{"address"}, got.Tags)
	assert.Equal(t, domain.PriorityUrgent, got.Priority)
}

func TestRulesDeterministic(t *testing.T) {
	th := threadWith("broken kettle", "sorry", "where is my refund?", "resolved, thanks")

	first, err := json.Marshal(SummarizeWithRules(th))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := json.Marshal(SummarizeWithRules(th))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestRulesEmptyTagsSerializeAsArray(t *testing.T) {
	raw, err := json.Marshal(SummarizeWithRules(threadWith("hello")))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"tags":[]`)
}
