package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/threadreview/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testThread(id string) *domain.Thread {
	return &domain.Thread{
		ThreadID:    id,
		Topic:       "Delivery",
		Subject:     "Where is my order?",
		InitiatedBy: "customer",
		OrderID:     "ORD-1",
		Product:     "Blender",
		Messages: []domain.Message{
			{Sender: domain.SenderCustomer, Timestamp: "2024-01-01T10:00:00Z", Body: "My package is late"},
			{Sender: domain.SenderCompany, Timestamp: "2024-01-01T11:00:00Z", Body: "We are checking"},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func testSummary(threadID string) *domain.Summary {
	payload := domain.SummaryPayload{
		IssueSummary: "Customer contacted regarding Blender (Order ORD-1). Issues: delivery.",
		KeyActions:   []string{"Total messages exchanged: 2"},
		Tags:         []string{},
	}
	return &domain.Summary{
		ThreadID:        threadID,
		OriginalSummary: payload,
		EditedSummary:   payload.Clone(),
		Status:          domain.SummaryStatusPending,
		SummaryType:     domain.SummaryTypeRuleBased,
		CRMContext:      map[string]any{"order_id": "ORD-1"},
		CreatedAt:       time.Now().UTC(),
	}
}

func TestSQLiteStoreThreadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	thread := testThread("t1")
	err := store.WithTx(ctx, func(tx Tx) error {
		return tx.UpsertThread(ctx, thread)
	})
	require.NoError(t, err)

	err = store.WithTx(ctx, func(tx Tx) error {
		got, err := tx.GetThread(ctx, "t1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, thread.Product, got.Product)
		assert.Equal(t, thread.Messages, got.Messages)

		missing, err := tx.GetThread(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
		return nil
	})
	require.NoError(t, err)
}

func TestSQLiteStoreUpsertReplacesThread(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := testThread("t1")
	second := testThread("t1")
	second.Product = "Toaster"
	second.Messages = second.Messages[:1]

	require.NoError(t, store.WithTx(ctx, func(tx Tx) error { return tx.UpsertThread(ctx, first) }))
	require.NoError(t, store.WithTx(ctx, func(tx Tx) error { return tx.UpsertThread(ctx, second) }))

	require.NoError(t, store.WithTx(ctx, func(tx Tx) error {
		n, err := tx.CountThreads(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		got, err := tx.GetThread(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, "Toaster", got.Product)
		assert.Len(t, got.Messages, 1)
		return nil
	}))
}

func TestSQLiteStoreRollbackOnError(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx Tx) error {
		if err := tx.UpsertThread(ctx, testThread("t1")); err != nil {
			return err
		}
		if err := tx.AppendAudit(ctx, &domain.AuditLogEntry{ThreadID: "t1", Action: domain.AuditActionThreadCreated, User: "system"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, store.WithTx(ctx, func(tx Tx) error {
		got, err := tx.GetThread(ctx, "t1")
		require.NoError(t, err)
		assert.Nil(t, got)

		entries, err := tx.ListAudit(ctx, "t1")
		require.NoError(t, err)
		assert.Empty(t, entries)
		return nil
	}))
}

func TestSQLiteStoreSummaryLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	summary := testSummary("t1")
	require.NoError(t, store.WithTx(ctx, func(tx Tx) error { return tx.CreateSummary(ctx, summary) }))
	require.NotZero(t, summary.ID)

	edited := summary.EditedSummary.Clone()
	edited.IssueSummary = "edited"

	require.NoError(t, store.WithTx(ctx, func(tx Tx) error {
		ok, err := tx.UpdateSummaryEdit(ctx, summary.ID, edited)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = tx.UpdateSummaryEdit(ctx, 9999, edited)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	}))

	approvedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.WithTx(ctx, func(tx Tx) error {
		ok, err := tx.UpdateSummaryApproved(ctx, summary.ID, "alice", approvedAt)
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	}))

	require.NoError(t, store.WithTx(ctx, func(tx Tx) error {
		got, err := tx.GetSummary(ctx, summary.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.SummaryStatusApproved, got.Status)
		assert.Equal(t, "edited", got.EditedSummary.IssueSummary)
		assert.Equal(t, summary.OriginalSummary.IssueSummary, got.OriginalSummary.IssueSummary)
		assert.NotNil(t, got.OriginalSummary.Tags)
		require.NotNil(t, got.ApprovedBy)
		assert.Equal(t, "alice", *got.ApprovedBy)
		require.NotNil(t, got.ApprovedAt)
		assert.True(t, approvedAt.Equal(*got.ApprovedAt))
		assert.Equal(t, "ORD-1", got.CRMContext["order_id"])
		return nil
	}))
}

func TestSQLiteStoreSummaryFiltersAndCounts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.WithTx(ctx, func(tx Tx) error {
		for i := 0; i < 3; i++ {
			if err := tx.CreateSummary(ctx, testSummary("t1")); err != nil {
				return err
			}
		}
		other := testSummary("t2")
		other.SummaryType = domain.SummaryTypeOpenAI
		if err := tx.CreateSummary(ctx, other); err != nil {
			return err
		}
		_, err := tx.UpdateSummaryStatus(ctx, other.ID, domain.SummaryStatusRejected)
		return err
	}))

	require.NoError(t, store.WithTx(ctx, func(tx Tx) error {
		pending, err := tx.ListSummaries(ctx, SummaryFilter{Statuses: []domain.SummaryStatus{domain.SummaryStatusPending}})
		require.NoError(t, err)
		assert.Len(t, pending, 3)
		assert.Greater(t, pending[0].ID, pending[1].ID)

		forThread, err := tx.CountSummaries(ctx, SummaryFilter{ThreadID: "t2"})
		require.NoError(t, err)
		assert.Equal(t, 1, forThread)

		all, err := tx.CountSummaries(ctx, SummaryFilter{})
		require.NoError(t, err)
		assert.Equal(t, 4, all)

		byType, err := tx.CountSummariesByType(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"rule_based": 3, "openai": 1}, byType)

		byStatus, err := tx.CountSummariesByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"pending": 3, "rejected": 1}, byStatus)
		return nil
	}))
}

func TestSQLiteStoreDeleteThreadKeepsSummaries(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	summary := testSummary("t1")
	require.NoError(t, store.WithTx(ctx, func(tx Tx) error {
		if err := tx.UpsertThread(ctx, testThread("t1")); err != nil {
			return err
		}
		return tx.CreateSummary(ctx, summary)
	}))

	require.NoError(t, store.WithTx(ctx, func(tx Tx) error {
		ok, err := tx.DeleteThread(ctx, "t1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = tx.DeleteThread(ctx, "t1")
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := tx.GetSummary(ctx, summary.ID)
		require.NoError(t, err)
		assert.NotNil(t, got)
		return nil
	}))
}

func TestSQLiteStoreAuditOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	actions := []domain.AuditAction{
		domain.AuditActionThreadCreated,
		domain.AuditActionSummaryGenerated,
		domain.AuditActionSummaryApproved,
	}
	require.NoError(t, store.WithTx(ctx, func(tx Tx) error {
		for _, a := range actions {
			if err := tx.AppendAudit(ctx, &domain.AuditLogEntry{ThreadID: "t1", Action: a, User: "system"}); err != nil {
				return err
			}
		}
		return tx.AppendAudit(ctx, &domain.AuditLogEntry{ThreadID: "t2", Action: domain.AuditActionThreadCreated, User: "system"})
	}))

	require.NoError(t, store.WithTx(ctx, func(tx Tx) error {
		entries, err := tx.ListAudit(ctx, "t1")
		require.NoError(t, err)
		require.Len(t, entries, 3)
		for i, a := range actions {
			assert.Equal(t, a, entries[i].Action)
			assert.False(t, entries[i].Timestamp.IsZero())
		}
		return nil
	}))
}

func TestFileDSN(t *testing.T) {
	assert.Equal(t, ":memory:", fileDSN(":memory:"))
	assert.Equal(t, "file:x.db?mode=memory", fileDSN("file:x.db?mode=memory"))
	assert.Equal(t, "reviews.db?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", fileDSN("reviews.db"))
}

func TestSQLiteStoreConcurrentReadThenWrite(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "reviews.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	summary := testSummary("t1")
	require.NoError(t, store.WithTx(ctx, func(tx Tx) error { return tx.CreateSummary(ctx, summary) }))

	statuses := []domain.SummaryStatus{domain.SummaryStatusApproved, domain.SummaryStatusRejected}
	var wg sync.WaitGroup
	errs := make(chan error, 2*20)
	for _, status := range statuses {
		wg.Add(1)
		go func(status domain.SummaryStatus) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				errs <- store.WithTx(ctx, func(tx Tx) error {
					got, err := tx.GetSummary(ctx, summary.ID)
					if err != nil {
						return err
					}
					if got == nil {
						return errors.New("summary missing")
					}
					_, err = tx.UpdateSummaryStatus(ctx, summary.ID, status)
					return err
				})
			}
		}(status)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
