package kotae

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	queryID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/query", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "What is multi-tenancy?", body["question"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(QueryResponse{
			Answer: "Based on the SaaS Architecture Fundamentals document, here's what I found:\n\nDocument 1: ...",
			Sources: []Source{
				{Document: "chapter-2.pdf", Excerpt: "Multi-tenancy means...", Confidence: "HIGH"},
			},
			QueryID: queryID,
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	resp, err := c.Query(context.Background(), "What is multi-tenancy?")
	require.NoError(t, err)
	assert.Equal(t, queryID, resp.QueryID)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "chapter-2.pdf", resp.Sources[0].Document)
}

func TestQuery_EmptyQuestion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Question is required"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Query(context.Background(), "")
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))

	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, "Question is required", apiErr.Message)
}

func TestQuery_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error","details":"search_unavailable: deadline exceeded"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Query(context.Background(), "q")
	require.Error(t, err)

	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Contains(t, apiErr.Details, "search_unavailable")
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status:   "healthy",
			Services: ServiceHealth{Search: "connected", History: "connected"},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	resp, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "connected", resp.Services.Search)
}

func TestHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/history", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(HistoryPage{
			Records: []HistoryRecord{{QueryID: uuid.New(), UserQuery: "q"}},
			Total:   1,
			Limit:   5,
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	page, err := c.History(context.Background(), 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Records, 1)
}

func TestHistoryRecord_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Query not found"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.HistoryRecord(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
