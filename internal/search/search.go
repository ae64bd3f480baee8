// Package search implements the search gateway: given a question, it returns
// ranked document excerpts from an external vector index. The gateway owns
// the embedding step and the score-to-confidence mapping; it never re-ranks
// what the index returns.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ashita-ai/kotae/internal/model"
	"github.com/ashita-ai/kotae/internal/service/embedding"
)

// Gateway is the interface the orchestrator depends on.
// Implementations must be safe for concurrent use.
type Gateway interface {
	// Search returns up to limit excerpts relevant to query, best first.
	Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error)

	// Healthy returns nil if the search index is reachable, or an error
	// describing the problem.
	Healthy(ctx context.Context) error
}

// Index is the vector index behind the gateway. Satisfied by QdrantIndex;
// tests substitute a fake.
type Index interface {
	Query(ctx context.Context, vector []float32, limit int) ([]model.SearchResult, error)
	Healthy(ctx context.Context) error
}

// VectorGateway implements Gateway by embedding the question and querying a
// vector index.
type VectorGateway struct {
	embedder embedding.Provider
	index    Index
	logger   *slog.Logger
}

// NewVectorGateway creates a gateway over the given embedder and index.
func NewVectorGateway(embedder embedding.Provider, index Index, logger *slog.Logger) *VectorGateway {
	return &VectorGateway{embedder: embedder, index: index, logger: logger}
}

// Search embeds the query text and returns the index's ranked excerpts.
func (g *VectorGateway) Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	vector, err := g.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}

	results, err := g.index.Query(ctx, vector, limit)
	if err != nil {
		return nil, err
	}

	g.logger.Debug("search: query served", "results", len(results), "limit", limit)
	return results, nil
}

// Healthy reports reachability of the underlying index.
func (g *VectorGateway) Healthy(ctx context.Context) error {
	return g.index.Healthy(ctx)
}

// Similarity score bands for confidence labels. Cosine similarity in [0, 1];
// the bands mirror the HIGH/MEDIUM/LOW scale the caller-facing API exposes.
const (
	highConfidenceScore   = 0.80
	mediumConfidenceScore = 0.50
)

// confidenceFromScore maps a raw similarity score to a confidence label.
func confidenceFromScore(score float32) model.Confidence {
	switch {
	case score >= highConfidenceScore:
		return model.ConfidenceHigh
	case score >= mediumConfidenceScore:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}
