package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/threadreview/internal/adapter/llm"
	"github.com/xiaot623/gogo/threadreview/internal/domain"
)

const systemPrompt = "You are a customer service summarization assistant. Provide clear, actionable summaries."

// ExternalSummarizer asks a language model for a structured summary.
type ExternalSummarizer struct {
	client      llm.Client
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// ExternalOptions tunes the external request.
type ExternalOptions struct {
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// NewExternalSummarizer wraps client.
func NewExternalSummarizer(client llm.Client, opts ExternalOptions, logger *zap.Logger) *ExternalSummarizer {
	return &ExternalSummarizer{
		client:      client,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		timeout:     opts.Timeout,
		logger:      logger.Named("external"),
	}
}

// Label is the summary type recorded for payloads from this strategy.
func (e *ExternalSummarizer) Label() domain.SummaryType {
	return domain.SummaryType(e.client.Provider())
}

// Summarize returns an error only when the model call itself fails. A reply
// that is not a JSON summary degrades to a payload holding the raw text.
func (e *ExternalSummarizer) Summarize(ctx context.Context, thread *domain.Thread) (domain.SummaryPayload, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := e.client.Complete(ctx, &llm.CompletionRequest{
		System:      systemPrompt,
		Prompt:      BuildPrompt(thread),
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		return domain.SummaryPayload{}, fmt.Errorf("%s summarization: %w", e.client.Provider(), err)
	}

	payload, ok := ParseSummary(resp.Content)
	if !ok {
		e.logger.Warn("Model reply is not a JSON summary, keeping raw text",
			zap.String("thread_id", thread.ThreadID))
	}
	return payload, nil
}

// BuildPrompt renders the thread as a sender-labeled transcript.
func BuildPrompt(thread *domain.Thread) string {
	var transcript strings.Builder
	for _, m := range thread.Messages {
		sender := "Agent"
		if m.Sender == domain.SenderCustomer {
			sender = "Customer"
		}
		fmt.Fprintf(&transcript, "%s (%s): %s\n\n", sender, m.Timestamp, m.Body)
	}

	return fmt.Sprintf(`Analyze this customer service email thread and provide a structured summary.

Thread Information:
- Order ID: %s
- Product: %s
- Topic: %s
- Subject: %s

Email Thread:
%s
Provide a JSON response with:
1. issue_summary: Brief description of the customer's main issue
2. key_actions: List of actions taken or needed
3. resolution_status: Current status (resolved, pending, escalated)
4. sentiment: Customer sentiment (positive, neutral, negative, frustrated)
5. priority: Priority level (low, medium, high, urgent)
6. next_steps: What needs to happen next
7. tags: Relevant tags for categorization

Format as valid JSON.`, thread.OrderID, thread.Product, thread.Topic, thread.Subject, transcript.String())
}

// ParseSummary decodes a model reply. When the reply holds no usable JSON
// object it returns {issue_summary: reply} and false.
func ParseSummary(reply string) (domain.SummaryPayload, bool) {
	raw, err := llm.ExtractJSON(reply)
	if err != nil {
		return domain.SummaryPayload{IssueSummary: reply}, false
	}

	var wire struct {
		IssueSummary     flexText `json:"issue_summary"`
		KeyActions       flexList `json:"key_actions"`
		ResolutionStatus flexText `json:"resolution_status"`
		Sentiment        flexText `json:"sentiment"`
		Priority         flexText `json:"priority"`
		NextSteps        flexText `json:"next_steps"`
		Tags             flexList `json:"tags"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return domain.SummaryPayload{IssueSummary: reply}, false
	}

	return domain.SummaryPayload{
		IssueSummary:     string(wire.IssueSummary),
		KeyActions:       wire.KeyActions,
		ResolutionStatus: strings.ToLower(string(wire.ResolutionStatus)),
		Sentiment:        strings.ToLower(string(wire.Sentiment)),
		Priority:         strings.ToLower(string(wire.Priority)),
		NextSteps:        string(wire.NextSteps),
		Tags:             wire.Tags,
	}, true
}

// flexText accepts a string or a list of strings (joined with "; ").
type flexText string

func (f *flexText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexText(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*f = flexText(strings.Join(list, "; "))
	return nil
}

// flexList accepts a list of strings or a single string.
type flexList []string

func (f *flexList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*f = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*f = flexList{s}
	return nil
}
