package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/threadreview/internal/domain"
)

const summaryColumns = "id, thread_id, original_summary, edited_summary, status, summary_type, crm_context, created_at, approved_at, approved_by"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens the database at dsn and migrates it.
func NewSQLiteStore(dsn string, logger *zap.Logger) (*SQLiteStore, error) {
	dsn = fileDSN(dsn)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := runMigrations(db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger.Named("store")}, nil
}

// fileDSN adds locking options to file databases. Transactions take the
// write lock at BEGIN so a read-then-write waits on the busy timeout
// instead of failing with a stale snapshot.
func fileDSN(dsn string) string {
	if dsn == ":memory:" || strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// WithTx runs fn in a transaction.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(tx Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&sqliteTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Rollback failed", zap.Error(rbErr))
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type sqliteTx struct {
	tx *sql.Tx
}

var _ Tx = (*sqliteTx)(nil)

// UpsertThread inserts a thread, replacing any existing record with the same id.
func (t *sqliteTx) UpsertThread(ctx context.Context, thread *domain.Thread) error {
	messages := thread.Messages
	if messages == nil {
		messages = []domain.Message{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to encode messages: %w", err)
	}
	_, err = t.tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO threads (thread_id, topic, subject, initiated_by, order_id, product, messages, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		thread.ThreadID, thread.Topic, thread.Subject, thread.InitiatedBy, thread.OrderID, thread.Product, string(raw), thread.CreatedAt)
	return err
}

// GetThread retrieves a thread by ID.
func (t *sqliteTx) GetThread(ctx context.Context, threadID string) (*domain.Thread, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT thread_id, topic, subject, initiated_by, order_id, product, messages, created_at FROM threads WHERE thread_id = ?`,
		threadID)
	thread, err := scanThread(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return thread, nil
}

// ListThreads lists all threads, newest first.
func (t *sqliteTx) ListThreads(ctx context.Context) ([]domain.Thread, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT thread_id, topic, subject, initiated_by, order_id, product, messages, created_at FROM threads ORDER BY created_at DESC, thread_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := []domain.Thread{}
	for rows.Next() {
		thread, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		threads = append(threads, *thread)
	}
	return threads, rows.Err()
}

// DeleteThread removes a thread record. Summaries and audit entries are kept.
func (t *sqliteTx) DeleteThread(ctx context.Context, threadID string) (bool, error) {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM threads WHERE thread_id = ?`, threadID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// CountThreads returns the number of stored threads.
func (t *sqliteTx) CountThreads(ctx context.Context) (int, error) {
	var n int
	err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM threads`).Scan(&n)
	return n, err
}

// CreateSummary inserts a summary and sets its ID.
func (t *sqliteTx) CreateSummary(ctx context.Context, summary *domain.Summary) error {
	original, err := json.Marshal(summary.OriginalSummary)
	if err != nil {
		return fmt.Errorf("failed to encode original summary: %w", err)
	}
	edited, err := json.Marshal(summary.EditedSummary)
	if err != nil {
		return fmt.Errorf("failed to encode edited summary: %w", err)
	}
	var crm sql.NullString
	if summary.CRMContext != nil {
		raw, err := json.Marshal(summary.CRMContext)
		if err != nil {
			return fmt.Errorf("failed to encode crm context: %w", err)
		}
		crm = sql.NullString{String: string(raw), Valid: true}
	}

	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO summaries (thread_id, original_summary, edited_summary, status, summary_type, crm_context, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		summary.ThreadID, string(original), string(edited), summary.Status, summary.SummaryType, crm, summary.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get summary ID: %w", err)
	}
	summary.ID = id
	return nil
}

// GetSummary retrieves a summary by ID.
func (t *sqliteTx) GetSummary(ctx context.Context, id int64) (*domain.Summary, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+summaryColumns+` FROM summaries WHERE id = ?`, id)
	summary, err := scanSummary(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ListSummaries lists summaries matching filter, newest first.
func (t *sqliteTx) ListSummaries(ctx context.Context, filter SummaryFilter) ([]domain.Summary, error) {
	query, args, err := applySummaryFilter(sq.Select(summaryColumns).From("summaries"), filter).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []domain.Summary{}
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, rows.Err()
}

// CountSummaries counts summaries matching filter.
func (t *sqliteTx) CountSummaries(ctx context.Context, filter SummaryFilter) (int, error) {
	query, args, err := applySummaryFilter(sq.Select("COUNT(*)").From("summaries"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}
	var n int
	err = t.tx.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// CountSummariesByType groups summary counts by summary_type.
func (t *sqliteTx) CountSummariesByType(ctx context.Context) (map[string]int, error) {
	return t.countSummariesGrouped(ctx, "summary_type")
}

// CountSummariesByStatus groups summary counts by status.
func (t *sqliteTx) CountSummariesByStatus(ctx context.Context) (map[string]int, error) {
	return t.countSummariesGrouped(ctx, "status")
}

func (t *sqliteTx) countSummariesGrouped(ctx context.Context, column string) (map[string]int, error) {
	query, args, err := sq.Select(column, "COUNT(*)").From("summaries").GroupBy(column).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// UpdateSummaryEdit replaces the edited payload and marks the summary edited.
func (t *sqliteTx) UpdateSummaryEdit(ctx context.Context, id int64, edited domain.SummaryPayload) (bool, error) {
	raw, err := json.Marshal(edited)
	if err != nil {
		return false, fmt.Errorf("failed to encode edited summary: %w", err)
	}
	res, err := t.tx.ExecContext(ctx,
		`UPDATE summaries SET edited_summary = ?, status = ? WHERE id = ?`,
		string(raw), domain.SummaryStatusEdited, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// UpdateSummaryApproved marks a summary approved by approvedBy at approvedAt.
func (t *sqliteTx) UpdateSummaryApproved(ctx context.Context, id int64, approvedBy string, approvedAt time.Time) (bool, error) {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE summaries SET status = ?, approved_at = ?, approved_by = ? WHERE id = ?`,
		domain.SummaryStatusApproved, approvedAt, approvedBy, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// UpdateSummaryStatus sets the status of a summary.
func (t *sqliteTx) UpdateSummaryStatus(ctx context.Context, id int64, status domain.SummaryStatus) (bool, error) {
	res, err := t.tx.ExecContext(ctx, `UPDATE summaries SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// AppendAudit appends an audit log entry and sets its ID.
func (t *sqliteTx) AppendAudit(ctx context.Context, entry *domain.AuditLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO audit_log (thread_id, action, user, details, timestamp) VALUES (?, ?, ?, ?, ?)`,
		entry.ThreadID, entry.Action, entry.User, entry.Details, entry.Timestamp)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get audit ID: %w", err)
	}
	entry.ID = id
	return nil
}

// ListAudit lists audit entries for a thread in insertion order.
func (t *sqliteTx) ListAudit(ctx context.Context, threadID string) ([]domain.AuditLogEntry, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT id, thread_id, action, user, details, timestamp FROM audit_log WHERE thread_id = ? ORDER BY id ASC`,
		threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.AuditLogEntry{}
	for rows.Next() {
		var e domain.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.ThreadID, &e.Action, &e.User, &e.Details, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func applySummaryFilter(b sq.SelectBuilder, filter SummaryFilter) sq.SelectBuilder {
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		b = b.Where(sq.Eq{"status": statuses})
	}
	if filter.ThreadID != "" {
		b = b.Where(sq.Eq{"thread_id": filter.ThreadID})
	}
	return b
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanThread(row rowScanner) (*domain.Thread, error) {
	var thread domain.Thread
	var messages string
	if err := row.Scan(&thread.ThreadID, &thread.Topic, &thread.Subject, &thread.InitiatedBy,
		&thread.OrderID, &thread.Product, &messages, &thread.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(messages), &thread.Messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages for thread %s: %w", thread.ThreadID, err)
	}
	return &thread, nil
}

func scanSummary(row rowScanner) (*domain.Summary, error) {
	var summary domain.Summary
	var original, edited string
	var crm, approvedBy sql.NullString
	var approvedAt sql.NullTime
	if err := row.Scan(&summary.ID, &summary.ThreadID, &original, &edited, &summary.Status,
		&summary.SummaryType, &crm, &summary.CreatedAt, &approvedAt, &approvedBy); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(original), &summary.OriginalSummary); err != nil {
		return nil, fmt.Errorf("failed to decode original summary %d: %w", summary.ID, err)
	}
	if err := json.Unmarshal([]byte(edited), &summary.EditedSummary); err != nil {
		return nil, fmt.Errorf("failed to decode edited summary %d: %w", summary.ID, err)
	}
	if crm.Valid && crm.String != "" {
		if err := json.Unmarshal([]byte(crm.String), &summary.CRMContext); err != nil {
			return nil, fmt.Errorf("failed to decode crm context %d: %w", summary.ID, err)
		}
	}
	if approvedAt.Valid {
		at := approvedAt.Time
		summary.ApprovedAt = &at
	}
	if approvedBy.Valid {
		by := approvedBy.String
		summary.ApprovedBy = &by
	}
	return &summary, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
