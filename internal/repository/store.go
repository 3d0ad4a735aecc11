// Package store defines the record store for threads, summaries and the
// audit log, and its SQLite implementation.
package store

import (
	"context"
	"time"

	"github.com/xiaot623/gogo/threadreview/internal/domain"
)

// Store opens transactions over the three record collections.
type Store interface {
	// WithTx runs fn inside a single transaction. The transaction commits
	// when fn returns nil and rolls back on error or panic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
}

// Tx is the set of record operations available inside a transaction.
// Lookups that miss return nil with a nil error.
type Tx interface {
	// Thread operations
	UpsertThread(ctx context.Context, thread *domain.Thread) error
	GetThread(ctx context.Context, threadID string) (*domain.Thread, error)
	ListThreads(ctx context.Context) ([]domain.Thread, error)
	DeleteThread(ctx context.Context, threadID string) (bool, error)
	CountThreads(ctx context.Context) (int, error)

	// Summary operations
	CreateSummary(ctx context.Context, summary *domain.Summary) error
	GetSummary(ctx context.Context, id int64) (*domain.Summary, error)
	ListSummaries(ctx context.Context, filter SummaryFilter) ([]domain.Summary, error)
	CountSummaries(ctx context.Context, filter SummaryFilter) (int, error)
	CountSummariesByType(ctx context.Context) (map[string]int, error)
	CountSummariesByStatus(ctx context.Context) (map[string]int, error)
	UpdateSummaryEdit(ctx context.Context, id int64, edited domain.SummaryPayload) (bool, error)
	UpdateSummaryApproved(ctx context.Context, id int64, approvedBy string, approvedAt time.Time) (bool, error)
	UpdateSummaryStatus(ctx context.Context, id int64, status domain.SummaryStatus) (bool, error)

	// Audit operations
	AppendAudit(ctx context.Context, entry *domain.AuditLogEntry) error
	ListAudit(ctx context.Context, threadID string) ([]domain.AuditLogEntry, error)
}

// SummaryFilter narrows summary queries. Zero values match everything.
type SummaryFilter struct {
	Statuses []domain.SummaryStatus
	ThreadID string
}
