package kotae

import (
	"time"

	"github.com/google/uuid"
)

// Source attributes part of an answer to a document excerpt.
type Source struct {
	Document   string `json:"document"`
	Excerpt    string `json:"excerpt"`
	Confidence string `json:"confidence"` // HIGH, MEDIUM, or LOW
}

// QueryResponse is the answer returned for one question.
type QueryResponse struct {
	Answer  string    `json:"answer"`
	Sources []Source  `json:"sources"`
	QueryID uuid.UUID `json:"query_id"`
}

// HistoryRecord is one entry in the append-only query history.
type HistoryRecord struct {
	QueryID   uuid.UUID `json:"query_id"`
	Timestamp time.Time `json:"timestamp"`
	UserQuery string    `json:"user_query"`
	Response  string    `json:"response"`
	Sources   []Source  `json:"source_documents"`
}

// HistoryPage is a page of history records, newest first.
type HistoryPage struct {
	Records []HistoryRecord `json:"records"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// ServiceHealth reports per-collaborator connectivity.
type ServiceHealth struct {
	Search  string `json:"search"`
	History string `json:"history"`
}

// HealthResponse is the server's health report.
type HealthResponse struct {
	Status   string        `json:"status"`
	Version  string        `json:"version,omitempty"`
	Services ServiceHealth `json:"services"`
}
