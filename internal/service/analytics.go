package service

import (
	"context"
	"fmt"
	"math"

	"github.com/xiaot623/gogo/threadreview/internal/domain"
	"github.com/xiaot623/gogo/threadreview/internal/repository"
)

// GetAnalytics returns the dashboard counters. Pending includes edited
// summaries and the approval rate is a percentage rounded to two decimals.
func (s *Service) GetAnalytics(ctx context.Context) (*domain.Analytics, error) {
	out := &domain.Analytics{}
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if out.TotalThreads, err = tx.CountThreads(ctx); err != nil {
			return err
		}
		if out.TotalSummaries, err = tx.CountSummaries(ctx, store.SummaryFilter{}); err != nil {
			return err
		}
		if out.PendingSummaries, err = tx.CountSummaries(ctx, store.SummaryFilter{
			Statuses: []domain.SummaryStatus{domain.SummaryStatusPending, domain.SummaryStatusEdited},
		}); err != nil {
			return err
		}
		if out.ApprovedSummaries, err = tx.CountSummaries(ctx, store.SummaryFilter{
			Statuses: []domain.SummaryStatus{domain.SummaryStatusApproved},
		}); err != nil {
			return err
		}
		if out.ByType, err = tx.CountSummariesByType(ctx); err != nil {
			return err
		}
		out.ByStatus, err = tx.CountSummariesByStatus(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute analytics: %w", err)
	}
	out.ApprovalRate = approvalRate(out.ApprovedSummaries, out.TotalSummaries)
	return out, nil
}

func approvalRate(approved, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(approved)/float64(total)*100*100) / 100
}

// SummariesByType counts summaries per strategy label.
func (s *Service) SummariesByType(ctx context.Context) (map[string]int, error) {
	var counts map[string]int
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		counts, err = tx.CountSummariesByType(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count summaries by type: %w", err)
	}
	return counts, nil
}

// SummariesByStatus counts summaries per lifecycle status.
func (s *Service) SummariesByStatus(ctx context.Context) (map[string]int, error) {
	var counts map[string]int
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		counts, err = tx.CountSummariesByStatus(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count summaries by status: %w", err)
	}
	return counts, nil
}

// Health reports liveness and the active summarization strategy.
func (s *Service) Health() domain.HealthResponse {
	return domain.HealthResponse{
		Status:    "healthy",
		NLPMethod: string(s.summarizer.Method()),
		Timestamp: s.now(),
	}
}
