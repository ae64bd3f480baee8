// Package query implements the query orchestrator: validate the question,
// search the index, assemble context and sources, synthesize the answer,
// persist the history record, and shape the response.
//
// The orchestrator is stateless across requests. Within one request the four
// steps are strictly sequential, and the caller's context flows through both
// external calls so an abandoned request releases its connections promptly.
package query

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ashita-ai/kotae/internal/model"
	"github.com/ashita-ai/kotae/internal/search"
	"github.com/ashita-ai/kotae/internal/service/answer"
)

// HistoryStore is the append-only audit log the orchestrator writes to.
// Implemented by storage.DB.
type HistoryStore interface {
	InsertQueryRecord(ctx context.Context, rec model.HistoryRecord) error
}

// Settings holds the orchestrator's immutable per-deployment configuration.
type Settings struct {
	CorpusName    string // display name used in the answer prefix
	PageSize      int    // excerpts requested from the search gateway
	PreviewLength int    // characters of context embedded in the answer
}

// Service coordinates one query end to end. Safe for concurrent use: it
// holds only immutable settings and concurrency-safe collaborators.
type Service struct {
	gateway  search.Gateway
	history  HistoryStore
	settings Settings
	logger   *slog.Logger
}

// New creates a query orchestrator.
func New(gateway search.Gateway, history HistoryStore, settings Settings, logger *slog.Logger) *Service {
	return &Service{
		gateway:  gateway,
		history:  history,
		settings: settings,
		logger:   logger,
	}
}

// Ask answers one question. On success the returned response is backed by
// exactly one history record keyed by its QueryID, and the record's source
// list is identical to the response's. On failure the caller gets a typed
// *Error and no partial response.
//
// A question that matches nothing is not a failure: the response carries the
// fixed fallback answer and an empty source list, and is persisted like any
// other answer so the audit log covers every request that reached the index.
func (s *Service) Ask(ctx context.Context, question string) (model.QueryResponse, error) {
	if strings.TrimSpace(question) == "" {
		return model.QueryResponse{}, &Error{
			Kind:    KindValidation,
			Message: "question is empty",
		}
	}

	results, err := s.gateway.Search(ctx, question, s.settings.PageSize)
	if err != nil {
		return model.QueryResponse{}, &Error{
			Kind:    KindSearchUnavailable,
			Message: "search gateway call failed",
			Err:     err,
		}
	}

	context_, sources := answer.Assemble(results)
	if sources == nil {
		sources = []model.Source{} // marshals as [], never null
	}
	answerText := answer.Synthesize(context_, s.settings.CorpusName, s.settings.PreviewLength)

	queryID := uuid.New()
	rec := model.HistoryRecord{
		QueryID:   queryID,
		Timestamp: time.Now().UTC(),
		UserQuery: question,
		Response:  answerText,
		Sources:   sources,
	}

	if err := s.history.InsertQueryRecord(ctx, rec); err != nil {
		return model.QueryResponse{}, &Error{
			Kind:    KindPersistence,
			Message: "history write failed",
			Err:     err,
		}
	}

	s.logger.Info("query answered",
		"query_id", queryID,
		"results", len(results),
		"sources", len(sources),
	)

	return model.QueryResponse{
		Answer:  answerText,
		Sources: sources,
		QueryID: queryID,
	}, nil
}
