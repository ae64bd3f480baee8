// Package model defines the domain types shared across Kotae's packages:
// search results coming back from the index, the sources projected to
// callers, and the history record persisted for every answered query.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Confidence is the relevance-confidence label the search gateway attaches
// to a result.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// SearchResult is one ranked excerpt returned by the search gateway.
// Title and Excerpt may be empty: a result without excerpt text contributes
// nothing to the answer, and a missing title falls back to "Unknown Document"
// at assembly time. An empty Confidence is treated as MEDIUM.
type SearchResult struct {
	Title      string
	Excerpt    string
	Confidence Confidence
	// Score is the raw similarity score from the index, kept for logging.
	// Results arrive pre-ranked; Kotae never re-orders on Score.
	Score float32
}

// Source is the caller-facing projection of one search result. Exactly one
// Source is produced per result with non-empty excerpt text.
type Source struct {
	Document   string     `json:"document"`
	Excerpt    string     `json:"excerpt"`
	Confidence Confidence `json:"confidence"`
}

// HistoryRecord is the append-only audit entry written once per answered
// query. It is never updated or deleted. Sources is exactly the source list
// returned to the caller for the same request.
type HistoryRecord struct {
	QueryID   uuid.UUID `json:"query_id"`
	Timestamp time.Time `json:"timestamp"`
	UserQuery string    `json:"user_query"`
	Response  string    `json:"response"`
	Sources   []Source  `json:"source_documents"`
}
