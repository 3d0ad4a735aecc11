package domain

import "time"

// Message is a single email in a thread.
type Message struct {
	Sender    Sender `json:"sender"`
	Timestamp string `json:"timestamp"`
	Body      string `json:"body"`
}

// Thread is an imported email conversation with a customer.
type Thread struct {
	ThreadID    string    `json:"thread_id"`
	Topic       string    `json:"topic"`
	Subject     string    `json:"subject"`
	InitiatedBy string    `json:"initiated_by"`
	OrderID     string    `json:"order_id"`
	Product     string    `json:"product"`
	Messages    []Message `json:"messages"`
	CreatedAt   time.Time `json:"created_at"`
}
