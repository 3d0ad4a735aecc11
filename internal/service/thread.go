package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/threadreview/internal/domain"
	"github.com/xiaot623/gogo/threadreview/internal/repository"
)

type importedThread struct {
	ThreadID    string            `json:"thread_id"`
	Topic       string            `json:"topic"`
	Subject     string            `json:"subject"`
	InitiatedBy string            `json:"initiated_by"`
	OrderID     string            `json:"order_id"`
	Product     string            `json:"product"`
	Messages    *[]domain.Message `json:"messages"`
}

func parseImportedThread(raw json.RawMessage) (*domain.Thread, error) {
	var in importedThread
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, &ValidationError{Field: "thread", Message: err.Error()}
	}
	if in.ThreadID == "" {
		return nil, &ValidationError{Field: "thread_id", Message: "is required"}
	}
	if in.Messages == nil {
		return nil, &ValidationError{Field: "messages", Message: "is required"}
	}
	for i, m := range *in.Messages {
		if !m.Sender.Valid() {
			return nil, &ValidationError{Field: fmt.Sprintf("messages[%d].sender", i), Message: fmt.Sprintf("invalid sender %q", m.Sender)}
		}
	}
	return &domain.Thread{
		ThreadID:    in.ThreadID,
		Topic:       in.Topic,
		Subject:     in.Subject,
		InitiatedBy: in.InitiatedBy,
		OrderID:     in.OrderID,
		Product:     in.Product,
		Messages:    *in.Messages,
	}, nil
}

// ImportThreads stores each item of a batch independently and returns how
// many were stored. Items that fail to parse or store are skipped.
func (s *Service) ImportThreads(ctx context.Context, items []json.RawMessage) (int, error) {
	imported := 0
	for i, raw := range items {
		thread, err := parseImportedThread(raw)
		if err != nil {
			s.logger.Warn("skipping malformed thread", zap.Int("index", i), zap.Error(err))
			continue
		}
		thread.CreatedAt = s.now()

		err = s.store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.UpsertThread(ctx, thread); err != nil {
				return err
			}
			return tx.AppendAudit(ctx, &domain.AuditLogEntry{
				ThreadID: thread.ThreadID,
				Action:   domain.AuditActionThreadCreated,
				User:     domain.UserSystem,
				Details:  fmt.Sprintf("Thread %s created", thread.ThreadID),
			})
		})
		if err != nil {
			s.logger.Warn("failed to import thread", zap.String("thread_id", thread.ThreadID), zap.Error(err))
			continue
		}
		imported++
	}

	s.logger.Info("threads imported", zap.Int("imported", imported), zap.Int("total", len(items)))
	return imported, nil
}

func (s *Service) ListThreads(ctx context.Context) ([]domain.Thread, error) {
	var threads []domain.Thread
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		threads, err = tx.ListThreads(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	if threads == nil {
		threads = []domain.Thread{}
	}
	return threads, nil
}

func (s *Service) GetThread(ctx context.Context, threadID string) (*domain.Thread, error) {
	var thread *domain.Thread
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		thread, err = tx.GetThread(ctx, threadID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}
	return thread, nil
}

// DeleteThread removes a thread. Its summaries and audit history remain.
func (s *Service) DeleteThread(ctx context.Context, threadID string) error {
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		deleted, err := tx.DeleteThread(ctx, threadID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrThreadNotFound
		}
		return tx.AppendAudit(ctx, &domain.AuditLogEntry{
			ThreadID: threadID,
			Action:   domain.AuditActionThreadDeleted,
			User:     domain.UserSystem,
			Details:  fmt.Sprintf("Thread %s deleted", threadID),
		})
	})
	if err != nil {
		if IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	return nil
}

// GetThreadAudit returns the audit history of a thread, oldest first.
func (s *Service) GetThreadAudit(ctx context.Context, threadID string) ([]domain.AuditLogEntry, error) {
	var entries []domain.AuditLogEntry
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		entries, err = tx.ListAudit(ctx, threadID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}
	if entries == nil {
		entries = []domain.AuditLogEntry{}
	}
	return entries, nil
}
