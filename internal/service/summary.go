package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/threadreview/internal/domain"
	"github.com/xiaot623/gogo/threadreview/internal/repository"
	"github.com/xiaot623/gogo/threadreview/policy"
)

const notAvailable = "N/A"

// SummarizeThread generates a pending summary for a stored thread.
// Generation runs outside any transaction; the summary and its audit entry
// are written together afterwards.
func (s *Service) SummarizeThread(ctx context.Context, threadID string) (*domain.Summary, error) {
	thread, err := s.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	payload := s.summarizer.Summarize(ctx, thread)

	summary := &domain.Summary{
		ThreadID:        thread.ThreadID,
		OriginalSummary: payload,
		EditedSummary:   payload.Clone(),
		Status:          domain.SummaryStatusPending,
		SummaryType:     payload.SummaryType,
		CreatedAt:       s.now(),
	}

	err = s.store.WithTx(ctx, func(tx store.Tx) error {
		previous, err := tx.CountSummaries(ctx, store.SummaryFilter{ThreadID: thread.ThreadID})
		if err != nil {
			return err
		}
		summary.CRMContext = crmContext(thread, previous)

		if err := tx.CreateSummary(ctx, summary); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, &domain.AuditLogEntry{
			ThreadID: thread.ThreadID,
			Action:   domain.AuditActionSummaryGenerated,
			User:     domain.UserSystem,
			Details:  fmt.Sprintf("Summary ID: %d", summary.ID),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store summary: %w", err)
	}

	s.logger.Info("summary generated",
		zap.String("thread_id", thread.ThreadID),
		zap.Int64("summary_id", summary.ID),
		zap.String("summary_type", string(summary.SummaryType)),
	)
	return summary, nil
}

func crmContext(thread *domain.Thread, previous int) map[string]any {
	return map[string]any{
		"order_id":                thread.OrderID,
		"product":                 thread.Product,
		"customer_lifetime_value": notAvailable,
		"previous_interactions":   previous,
		"order_value":             notAvailable,
	}
}

// ListSummaries returns summaries newest first. A non-empty status matches
// exactly; an unknown status yields an empty list.
func (s *Service) ListSummaries(ctx context.Context, status string) ([]domain.Summary, error) {
	filter := store.SummaryFilter{}
	if status != "" {
		filter.Statuses = []domain.SummaryStatus{domain.SummaryStatus(status)}
	}

	var summaries []domain.Summary
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		summaries, err = tx.ListSummaries(ctx, filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	if summaries == nil {
		summaries = []domain.Summary{}
	}
	return summaries, nil
}

func (s *Service) GetSummary(ctx context.Context, id int64) (*domain.Summary, error) {
	var summary *domain.Summary
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		summary, err = tx.GetSummary(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	if summary == nil {
		return nil, ErrSummaryNotFound
	}
	return summary, nil
}

// EditSummary replaces the edited payload and marks the summary edited.
func (s *Service) EditSummary(ctx context.Context, id int64, req domain.EditSummaryRequest) error {
	if req.EditedSummary == nil || req.EditedSummary.IsEmpty() {
		return &ValidationError{Field: "edited_summary", Message: "is required"}
	}
	edited := req.EditedSummary.Clone()
	user := userOr(req.User, domain.UserAnonymous)

	return s.transition(ctx, id, func(tx store.Tx) (bool, error) {
		return tx.UpdateSummaryEdit(ctx, id, edited)
	}, domain.AuditActionSummaryEdited, user, fmt.Sprintf("Summary ID: %d", id))
}

// ApproveSummary marks a summary approved and records who approved it.
func (s *Service) ApproveSummary(ctx context.Context, id int64, req domain.ApproveSummaryRequest) error {
	user := userOr(req.User, domain.UserAnonymous)
	approvedAt := s.now()

	return s.transition(ctx, id, func(tx store.Tx) (bool, error) {
		return tx.UpdateSummaryApproved(ctx, id, user, approvedAt)
	}, domain.AuditActionSummaryApproved, user, fmt.Sprintf("Summary ID: %d", id))
}

// RejectSummary marks a summary rejected. The reason lives only in the audit log.
func (s *Service) RejectSummary(ctx context.Context, id int64, req domain.RejectSummaryRequest) error {
	user := userOr(req.User, domain.UserAnonymous)

	return s.transition(ctx, id, func(tx store.Tx) (bool, error) {
		return tx.UpdateSummaryStatus(ctx, id, domain.SummaryStatusRejected)
	}, domain.AuditActionSummaryRejected, user, fmt.Sprintf("Summary ID: %d, Reason: %s", id, req.Reason))
}

// transition applies update and appends the matching audit entry in one
// transaction.
func (s *Service) transition(ctx context.Context, id int64, update func(tx store.Tx) (bool, error), action domain.AuditAction, user, details string) error {
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		summary, err := tx.GetSummary(ctx, id)
		if err != nil {
			return err
		}
		if summary == nil {
			return ErrSummaryNotFound
		}

		updated, err := update(tx)
		if err != nil {
			return err
		}
		if !updated {
			return ErrSummaryNotFound
		}

		return tx.AppendAudit(ctx, &domain.AuditLogEntry{
			ThreadID: summary.ThreadID,
			Action:   action,
			User:     user,
			Details:  details,
		})
	})
	if err != nil {
		if IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to update summary %d: %w", id, err)
	}

	s.logger.Info("summary updated", zap.Int64("summary_id", id), zap.String("action", string(action)), zap.String("user", user))
	return nil
}

// ExportSummary builds the CRM record for an approved summary. It returns
// nil when the summary is missing or the export policy denies it.
func (s *Service) ExportSummary(ctx context.Context, id int64) (*domain.ExportRecord, error) {
	var (
		summary *domain.Summary
		thread  *domain.Thread
	)
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		summary, err = tx.GetSummary(ctx, id)
		if err != nil || summary == nil {
			return err
		}
		thread, err = tx.GetThread(ctx, summary.ThreadID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load summary for export: %w", err)
	}
	if summary == nil {
		return nil, nil
	}

	allowed, err := s.policyEngine.Allowed(ctx, policy.ExportInput{SummaryID: summary.ID, Status: string(summary.Status)})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate export policy: %w", err)
	}
	if !allowed || summary.ApprovedAt == nil {
		return nil, nil
	}

	record := &domain.ExportRecord{
		ExportID:        uuid.New().String(),
		ThreadID:        summary.ThreadID,
		Summary:         summary.EditedSummary,
		CRMContext:      summary.CRMContext,
		ApprovedAt:      *summary.ApprovedAt,
		ExportTimestamp: s.now(),
	}
	if summary.ApprovedBy != nil {
		record.ApprovedBy = *summary.ApprovedBy
	}
	if thread != nil {
		record.OrderID = thread.OrderID
		record.Product = thread.Product
		record.Topic = thread.Topic
	} else {
		record.OrderID = contextString(summary.CRMContext, "order_id")
		record.Product = contextString(summary.CRMContext, "product")
	}
	return record, nil
}

func contextString(ctx map[string]any, key string) string {
	if v, ok := ctx[key].(string); ok {
		return v
	}
	return ""
}
