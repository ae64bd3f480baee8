package model

import "github.com/google/uuid"

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse is the success body of POST /query. QueryID doubles as the
// primary key of the history record written for this request.
type QueryResponse struct {
	Answer  string    `json:"answer"`
	Sources []Source  `json:"sources"`
	QueryID uuid.UUID `json:"query_id"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ServiceHealth reports per-collaborator connectivity in the health response.
type ServiceHealth struct {
	Search  string `json:"search"`
	History string `json:"history"`
}

// HealthResponse is the body of GET /health. Liveness only — the states
// reflect cheap pings, not deep dependency checks.
type HealthResponse struct {
	Status   string        `json:"status"`
	Version  string        `json:"version,omitempty"`
	Services ServiceHealth `json:"services"`
}

// HistoryPage is the body of GET /v1/history.
type HistoryPage struct {
	Records []HistoryRecord `json:"records"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}
