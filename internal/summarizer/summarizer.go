// Package summarizer turns a thread into a structured summary, either with
// an external language model or with fixed keyword rules.
package summarizer

import (
	"context"

	"github.com/xiaot623/gogo/threadreview/internal/domain"
)

// Summarizer produces a summary payload for a thread.
type Summarizer interface {
	Summarize(ctx context.Context, thread *domain.Thread) (domain.SummaryPayload, error)
}
