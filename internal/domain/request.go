package domain

import (
	"encoding/json"
	"time"
)

// ImportThreadsRequest is the body of a thread import.
// Items are kept raw so a single malformed entry does not fail the batch.
type ImportThreadsRequest struct {
	Threads []json.RawMessage `json:"threads"`
}

// ImportThreadsResponse reports how many threads of a batch were stored.
type ImportThreadsResponse struct {
	Success  bool `json:"success"`
	Imported int  `json:"imported"`
	Total    int  `json:"total"`
}

// SummarizeResponse is returned after a summary is generated.
type SummarizeResponse struct {
	Success   bool           `json:"success"`
	SummaryID int64          `json:"summary_id"`
	Summary   SummaryPayload `json:"summary"`
}

// EditSummaryRequest replaces the edited payload of a summary.
type EditSummaryRequest struct {
	EditedSummary *SummaryPayload `json:"edited_summary"`
	User          string          `json:"user"`
}

// ApproveSummaryRequest approves a summary.
type ApproveSummaryRequest struct {
	User string `json:"user"`
}

// RejectSummaryRequest rejects a summary.
type RejectSummaryRequest struct {
	User   string `json:"user"`
	Reason string `json:"reason"`
}

// HealthResponse reports liveness and the active summarization strategy.
type HealthResponse struct {
	Status    string    `json:"status"`
	NLPMethod string    `json:"nlp_method"`
	Timestamp time.Time `json:"timestamp"`
}
