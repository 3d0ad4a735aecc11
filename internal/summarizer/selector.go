package summarizer

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/threadreview/internal/domain"
)

// Selector tries the external strategy, when one is configured, and falls
// back to the rules on any failure.
type Selector struct {
	external *ExternalSummarizer
	rules    *RuleSummarizer
	logger   *zap.Logger
}

// NewSelector creates a Selector. external may be nil.
func NewSelector(external *ExternalSummarizer, rules *RuleSummarizer, logger *zap.Logger) *Selector {
	return &Selector{
		external: external,
		rules:    rules,
		logger:   logger.Named("summarizer"),
	}
}

// Method names the strategy tried first.
func (s *Selector) Method() domain.SummaryType {
	if s.external != nil {
		return s.external.Label()
	}
	return domain.SummaryTypeRuleBased
}

// Summarize returns the payload stamped with the strategy that produced it.
// It does not fail: external errors are logged and absorbed.
func (s *Selector) Summarize(ctx context.Context, thread *domain.Thread) domain.SummaryPayload {
	if s.external != nil {
		payload, err := s.external.Summarize(ctx, thread)
		if err == nil {
			payload.SummaryType = s.external.Label()
			return payload
		}
		s.logger.Warn("External summarization failed, falling back to rules",
			zap.String("thread_id", thread.ThreadID),
			zap.Error(err))
	}

	payload, _ := s.rules.Summarize(ctx, thread)
	payload.SummaryType = domain.SummaryTypeRuleBased
	return payload
}
