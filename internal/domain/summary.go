package domain

import (
	"encoding/json"
	"time"
)

// SummaryPayload is the structured body of a summary.
//
// A payload produced from an unparseable AI response carries only
// IssueSummary. Tags is emitted whenever it is non-nil, so a rule-based
// payload with no detected issues serializes "tags": [].
type SummaryPayload struct {
	IssueSummary     string      `json:"issue_summary"`
	KeyActions       []string    `json:"key_actions,omitempty"`
	ResolutionStatus string      `json:"resolution_status,omitempty"`
	Sentiment        string      `json:"sentiment,omitempty"`
	Priority         string      `json:"priority,omitempty"`
	NextSteps        string      `json:"next_steps,omitempty"`
	Tags             []string    `json:"tags,omitempty"`
	SummaryType      SummaryType `json:"summary_type,omitempty"`
}

// MarshalJSON keeps an empty, non-nil Tags slice in the output.
func (p SummaryPayload) MarshalJSON() ([]byte, error) {
	type wire struct {
		IssueSummary     string      `json:"issue_summary"`
		KeyActions       []string    `json:"key_actions,omitempty"`
		ResolutionStatus string      `json:"resolution_status,omitempty"`
		Sentiment        string      `json:"sentiment,omitempty"`
		Priority         string      `json:"priority,omitempty"`
		NextSteps        string      `json:"next_steps,omitempty"`
		Tags             *[]string   `json:"tags,omitempty"`
		SummaryType      SummaryType `json:"summary_type,omitempty"`
	}
	w := wire{
		IssueSummary:     p.IssueSummary,
		KeyActions:       p.KeyActions,
		ResolutionStatus: p.ResolutionStatus,
		Sentiment:        p.Sentiment,
		Priority:         p.Priority,
		NextSteps:        p.NextSteps,
		SummaryType:      p.SummaryType,
	}
	if p.Tags != nil {
		w.Tags = &p.Tags
	}
	return json.Marshal(w)
}

// Clone returns a deep copy of the payload.
func (p SummaryPayload) Clone() SummaryPayload {
	out := p
	if p.KeyActions != nil {
		out.KeyActions = append([]string{}, p.KeyActions...)
	}
	if p.Tags != nil {
		out.Tags = append([]string{}, p.Tags...)
	}
	return out
}

// IsEmpty reports whether p carries no content at all.
func (p SummaryPayload) IsEmpty() bool {
	return p.IssueSummary == "" && p.ResolutionStatus == "" && p.Sentiment == "" &&
		p.Priority == "" && p.NextSteps == "" && p.SummaryType == "" &&
		len(p.KeyActions) == 0 && len(p.Tags) == 0
}

// Summary is a reviewable summary of a thread.
type Summary struct {
	ID              int64          `json:"id"`
	ThreadID        string         `json:"thread_id"`
	OriginalSummary SummaryPayload `json:"original_summary"`
	EditedSummary   SummaryPayload `json:"edited_summary"`
	Status          SummaryStatus  `json:"status"`
	SummaryType     SummaryType    `json:"summary_type"`
	CRMContext      map[string]any `json:"crm_context"`
	CreatedAt       time.Time      `json:"created_at"`
	ApprovedAt      *time.Time     `json:"approved_at"`
	ApprovedBy      *string        `json:"approved_by"`
}

// AuditLogEntry is an append-only record of a mutating action.
type AuditLogEntry struct {
	ID        int64       `json:"id"`
	ThreadID  string      `json:"thread_id"`
	Action    AuditAction `json:"action"`
	User      string      `json:"user"`
	Details   string      `json:"details"`
	Timestamp time.Time   `json:"timestamp"`
}

// ExportRecord is the CRM-facing view of an approved summary.
type ExportRecord struct {
	ExportID        string         `json:"export_id"`
	ThreadID        string         `json:"thread_id"`
	OrderID         string         `json:"order_id"`
	Product         string         `json:"product"`
	Topic           string         `json:"topic"`
	Summary         SummaryPayload `json:"summary"`
	CRMContext      map[string]any `json:"crm_context"`
	ApprovedBy      string         `json:"approved_by"`
	ApprovedAt      time.Time      `json:"approved_at"`
	ExportTimestamp time.Time      `json:"export_timestamp"`
}

// Analytics is the dashboard snapshot.
type Analytics struct {
	TotalThreads      int            `json:"total_threads"`
	TotalSummaries    int            `json:"total_summaries"`
	PendingSummaries  int            `json:"pending_summaries"`
	ApprovedSummaries int            `json:"approved_summaries"`
	ApprovalRate      float64        `json:"approval_rate"`
	ByType            map[string]int `json:"by_type,omitempty"`
	ByStatus          map[string]int `json:"by_status,omitempty"`
}
