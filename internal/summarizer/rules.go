package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/xiaot623/gogo/threadreview/internal/domain"
)

type issueCategory struct {
	name     string
	keywords []string
}

// issueCategories is evaluated in declaration order; tags keep that order.
var issueCategories = []issueCategory{
	{name: "damaged", keywords: []string{"damaged", "broken", "defective"}},
	{name: "delivery", keywords: []string{"delayed", "late", "where", "tracking", "stuck"}},
	{name: "wrong_item", keywords: []string{"wrong", "color", "size"}},
	{name: "refund", keywords: []string{"refund", "return", "credit"}},
	{name: "address", keywords: []string{"address", "reroute"}},
}

var (
	negativeWords = []string{"broken", "wrong", "delayed", "stuck", "lost", "issue", "problem"}
	positiveWords = []string{"resolved", "thanks", "appreciate", "approve"}
)

const (
	escalateAfterMessages = 5
	urgentAfterMessages   = 6
	highAfterMessages     = 4

	nextStepsOpen     = "Review thread and take appropriate action"
	nextStepsResolved = "Thread appears resolved"
)

// RuleSummarizer is the deterministic keyword-based summarizer.
type RuleSummarizer struct{}

// NewRuleSummarizer creates a RuleSummarizer.
func NewRuleSummarizer() *RuleSummarizer {
	return &RuleSummarizer{}
}

// Summarize never fails.
func (r *RuleSummarizer) Summarize(_ context.Context, thread *domain.Thread) (domain.SummaryPayload, error) {
	return SummarizeWithRules(thread), nil
}

// SummarizeWithRules applies the keyword rules to a thread. It is a pure
// function of the thread's product, order id, topic and messages.
func SummarizeWithRules(thread *domain.Thread) domain.SummaryPayload {
	total := len(thread.Messages)
	customer, company := 0, 0
	bodies := make([]string, 0, total)
	for _, m := range thread.Messages {
		switch m.Sender {
		case domain.SenderCustomer:
			customer++
		case domain.SenderCompany:
			company++
		}
		bodies = append(bodies, strings.ToLower(m.Body))
	}
	text := strings.Join(bodies, " ")

	issues := detectIssues(text)
	status := resolutionStatus(text, total)

	described := thread.Topic
	if len(issues) > 0 {
		described = strings.Join(issues, ", ")
	}

	nextSteps := nextStepsOpen
	if status == domain.ResolutionResolved {
		nextSteps = nextStepsResolved
	}

	return domain.SummaryPayload{
		IssueSummary: fmt.Sprintf("Customer contacted regarding %s (Order %s). Issues: %s.",
			thread.Product, thread.OrderID, described),
		KeyActions: []string{
			fmt.Sprintf("Total messages exchanged: %d", total),
			fmt.Sprintf("Customer messages: %d", customer),
			fmt.Sprintf("Agent responses: %d", company),
		},
		ResolutionStatus: status,
		Sentiment:        sentiment(text),
		Priority:         priority(text, total, len(issues) > 0),
		NextSteps:        nextSteps,
		Tags:             issues,
	}
}

// detectIssues returns the matched category names with '_' replaced by ' '.
// The result is never nil.
func detectIssues(text string) []string {
	issues := []string{}
	for _, c := range issueCategories {
		if containsAny(text, c.keywords) {
			issues = append(issues, strings.ReplaceAll(c.name, "_", " "))
		}
	}
	return issues
}

// sentiment compares how many listed words appear in text. Each word counts
// at most once.
func sentiment(text string) string {
	neg := countPresent(text, negativeWords)
	pos := countPresent(text, positiveWords)
	switch {
	case neg > pos*2:
		return domain.SentimentFrustrated
	case neg > pos:
		return domain.SentimentNegative
	case pos > neg:
		return domain.SentimentPositive
	default:
		return domain.SentimentNeutral
	}
}

// resolutionStatus checks "resolved" before the message-count escalation.
func resolutionStatus(text string, total int) string {
	switch {
	case strings.Contains(text, "resolved"):
		return domain.ResolutionResolved
	case total > escalateAfterMessages:
		return domain.ResolutionEscalated
	default:
		return domain.ResolutionPending
	}
}

func priority(text string, total int, hasIssues bool) string {
	switch {
	case strings.Contains(text, "urgent") || total > urgentAfterMessages:
		return domain.PriorityUrgent
	case total > highAfterMessages || hasIssues:
		return domain.PriorityHigh
	default:
		return domain.PriorityMedium
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
