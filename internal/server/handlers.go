package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ashita-ai/kotae/internal/model"
	"github.com/ashita-ai/kotae/internal/search"
	"github.com/ashita-ai/kotae/internal/service/query"
	"github.com/ashita-ai/kotae/internal/storage"
)

// Asker answers one question end to end. Implemented by query.Service.
type Asker interface {
	Ask(ctx context.Context, question string) (model.QueryResponse, error)
}

// HistoryReader serves the audit endpoints and the history health probe.
// Implemented by storage.DB.
type HistoryReader interface {
	GetQueryRecord(ctx context.Context, queryID uuid.UUID) (model.HistoryRecord, error)
	ListRecentQueries(ctx context.Context, limit, offset int) ([]model.HistoryRecord, int, error)
	Ping(ctx context.Context) error
}

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	querySvc            Asker
	history             HistoryReader
	gateway             search.Gateway
	logger              *slog.Logger
	version             string
	maxRequestBodyBytes int64
	openapiSpec         []byte
}

// HandlersDeps holds all dependencies for constructing Handlers.
type HandlersDeps struct {
	QuerySvc            Asker
	History             HistoryReader
	Gateway             search.Gateway
	Logger              *slog.Logger
	Version             string
	MaxRequestBodyBytes int64
	OpenAPISpec         []byte
}

// NewHandlers creates a new Handlers with all dependencies.
func NewHandlers(d HandlersDeps) *Handlers {
	return &Handlers{
		querySvc:            d.QuerySvc,
		history:             d.History,
		gateway:             d.Gateway,
		logger:              d.Logger,
		version:             d.Version,
		maxRequestBodyBytes: d.MaxRequestBodyBytes,
		openapiSpec:         d.OpenAPISpec,
	}
}

// HandleOpenAPISpec serves the embedded OpenAPI specification.
func (h *Handlers) HandleOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	if len(h.openapiSpec) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.openapiSpec)
}

// HandleQuery handles POST /query. All failure modes funnel through the
// orchestrator's error kinds; this is the single boundary that translates
// them to HTTP shapes.
func (h *Handlers) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req model.QueryRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		// An empty body is treated as {} and fails question validation
		// below instead of body parsing.
		if !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "Invalid request body", "")
			return
		}
	}

	resp, err := h.querySvc.Ask(r.Context(), req.Question)
	if err != nil {
		switch query.KindOf(err) {
		case query.KindValidation:
			writeError(w, http.StatusBadRequest, "Question is required", "")
		default:
			h.logger.Error("query failed",
				"error", err,
				"request_id", RequestIDFromContext(r.Context()),
			)
			writeError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleHealth handles GET /health. Liveness only: cheap pings against both
// collaborators, never a deep dependency check.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	services := model.ServiceHealth{Search: "connected", History: "connected"}

	if err := h.gateway.Healthy(ctx); err != nil {
		services.Search = "disconnected"
		status = "degraded"
	}
	if err := h.history.Ping(ctx); err != nil {
		services.History = "disconnected"
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, model.HealthResponse{
		Status:   status,
		Version:  h.version,
		Services: services,
	})
}

// HandleGetHistory handles GET /v1/history/{query_id}.
func (h *Handlers) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	queryID, err := uuid.Parse(r.PathValue("query_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query ID", "")
		return
	}

	rec, err := h.history.GetQueryRecord(r.Context(), queryID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Query not found", "")
			return
		}
		h.logger.Error("history lookup failed", "error", err, "query_id", queryID)
		writeError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// HandleListHistory handles GET /v1/history with limit/offset pagination.
func (h *Handlers) HandleListHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	if limit > 100 {
		limit = 100
	}
	offset := queryInt(r, "offset", 0)

	recs, total, err := h.history.ListRecentQueries(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("history list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	if recs == nil {
		recs = []model.HistoryRecord{}
	}

	writeJSON(w, http.StatusOK, model.HistoryPage{
		Records: recs,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}

// queryInt parses an integer query parameter, falling back on absence or garbage.
func queryInt(r *http.Request, name string, defaultVal int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}
