// Package mcp implements the Model Context Protocol server for Kotae.
//
// The MCP server exposes the question-answering pipeline and the query
// history through MCP tools and resources, allowing MCP-compatible AI
// agents to ask questions against the document corpus.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ashita-ai/kotae/internal/model"
	"github.com/ashita-ai/kotae/internal/search"
	"github.com/ashita-ai/kotae/internal/service/query"
)

// QueryService answers one question end to end. Implemented by query.Service.
type QueryService interface {
	Ask(ctx context.Context, question string) (model.QueryResponse, error)
}

// History reads persisted query records. Implemented by storage.DB.
type History interface {
	GetQueryRecord(ctx context.Context, queryID uuid.UUID) (model.HistoryRecord, error)
	ListRecentQueries(ctx context.Context, limit, offset int) ([]model.HistoryRecord, int, error)
}

// Server wraps the MCP server with Kotae's service layer.
type Server struct {
	mcpServer *mcpserver.MCPServer
	querySvc  QueryService
	history   History
	gateway   search.Gateway
	logger    *slog.Logger
}

// New creates and configures a new MCP server with all resources and tools.
func New(querySvc QueryService, history History, gateway search.Gateway, logger *slog.Logger, version string) *Server {
	s := &Server{
		querySvc: querySvc,
		history:  history,
		gateway:  gateway,
		logger:   logger,
	}

	s.mcpServer = mcpserver.NewMCPServer(
		"kotae",
		version,
		mcpserver.WithResourceCapabilities(true, true),
		mcpserver.WithToolCapabilities(true),
	)

	s.registerResources()
	s.registerTools()

	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

func (s *Server) registerResources() {
	// kotae://history/recent — most recent answered queries.
	s.mcpServer.AddResource(
		mcplib.NewResource(
			"kotae://history/recent",
			"Recent Queries",
			mcplib.WithResourceDescription("Most recently answered queries with their sources"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleHistoryRecent,
	)

	// kotae://history/{query_id} — a single query record.
	s.mcpServer.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"kotae://history/{query_id}",
			"Query Record",
			mcplib.WithTemplateDescription("A single answered query by its ID"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		s.handleHistoryRecord,
	)
}

func (s *Server) registerTools() {
	// ask_documents — the full pipeline: search, assemble, answer, persist.
	s.mcpServer.AddTool(
		mcplib.NewTool("ask_documents",
			mcplib.WithDescription("Ask a question against the document corpus and get a sourced answer"),
			mcplib.WithString("question", mcplib.Description("Natural language question"), mcplib.Required()),
		),
		s.handleAsk,
	)

	// search_documents — raw retrieval without answer synthesis or persistence.
	s.mcpServer.AddTool(
		mcplib.NewTool("search_documents",
			mcplib.WithDescription("Search the document corpus and return raw excerpts without synthesizing an answer"),
			mcplib.WithString("query", mcplib.Description("Natural language search query"), mcplib.Required()),
			mcplib.WithNumber("limit", mcplib.Description("Maximum excerpts to return")),
		),
		s.handleSearch,
	)
}

func (s *Server) handleHistoryRecent(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	records, total, err := s.history.ListRecentQueries(ctx, 20, 0)
	if err != nil {
		return nil, fmt.Errorf("mcp: recent queries: %w", err)
	}

	data, err := json.MarshalIndent(map[string]any{
		"records": records,
		"total":   total,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mcp: marshal history: %w", err)
	}

	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      "kotae://history/recent",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleHistoryRecord(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	uri := request.Params.URI
	raw := strings.TrimPrefix(uri, "kotae://history/")
	queryID, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("mcp: invalid history URI: %s", uri)
	}

	rec, err := s.history.GetQueryRecord(ctx, queryID)
	if err != nil {
		return nil, fmt.Errorf("mcp: query record: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mcp: marshal record: %w", err)
	}

	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleAsk(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	question := request.GetString("question", "")

	resp, err := s.querySvc.Ask(ctx, question)
	if err != nil {
		if query.KindOf(err) == query.KindValidation {
			return errorResult("question is required"), nil
		}
		s.logger.Error("mcp: ask failed", "error", err)
		return errorResult(fmt.Sprintf("ask failed: %v", err)), nil
	}

	resultData, _ := json.MarshalIndent(resp, "", "  ")

	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: string(resultData)},
		},
	}, nil
}

func (s *Server) handleSearch(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	q := request.GetString("query", "")
	if strings.TrimSpace(q) == "" {
		return errorResult("query is required"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 || limit > 20 {
		limit = 5
	}

	results, err := s.gateway.Search(ctx, q, limit)
	if err != nil {
		return errorResult(fmt.Sprintf("search failed: %v", err)), nil
	}

	resultData, _ := json.MarshalIndent(map[string]any{
		"results": results,
		"total":   len(results),
	}, "", "  ")

	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: string(resultData)},
		},
	}, nil
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
