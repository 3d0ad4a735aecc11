// Package domain defines the core domain models for thread review.
package domain

// Sender identifies who wrote a message in a thread.
type Sender string

const (
	SenderCustomer Sender = "customer"
	SenderCompany  Sender = "company"
)

// Valid reports whether s is a known sender.
func (s Sender) Valid() bool {
	return s == SenderCustomer || s == SenderCompany
}

// SummaryStatus represents the review status of a summary.
type SummaryStatus string

const (
	SummaryStatusPending  SummaryStatus = "pending"
	SummaryStatusEdited   SummaryStatus = "edited"
	SummaryStatusApproved SummaryStatus = "approved"
	SummaryStatusRejected SummaryStatus = "rejected"
)

// SummaryType records which strategy produced a summary.
type SummaryType string

const (
	SummaryTypeRuleBased SummaryType = "rule_based"
	SummaryTypeOpenAI    SummaryType = "openai"
	SummaryTypeMock      SummaryType = "mock"
)

// AuditAction tags an audit log entry.
type AuditAction string

const (
	AuditActionThreadCreated    AuditAction = "thread_created"
	AuditActionThreadDeleted    AuditAction = "thread_deleted"
	AuditActionSummaryGenerated AuditAction = "summary_generated"
	AuditActionSummaryEdited    AuditAction = "summary_edited"
	AuditActionSummaryApproved  AuditAction = "summary_approved"
	AuditActionSummaryRejected  AuditAction = "summary_rejected"
)

// Values produced by the summarizers.
const (
	ResolutionResolved  = "resolved"
	ResolutionEscalated = "escalated"
	ResolutionPending   = "pending"

	SentimentFrustrated = "frustrated"
	SentimentNegative   = "negative"
	SentimentPositive   = "positive"
	SentimentNeutral    = "neutral"

	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

// Users recorded on audit entries when the caller does not supply one.
const (
	UserSystem    = "system"
	UserAnonymous = "anonymous"
)
