package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/switchboard"
	httpAdapter "github.com/aretw0/switchboard/pkg/adapters/http"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ops"
	"github.com/aretw0/switchboard/pkg/value"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server exposes one operation table as MCP tools.
type Server struct {
	table     *ops.Table
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance for table.
func NewServer(table *ops.Table, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		table:     table,
		logger:    logger,
		mcpServer: server.NewMCPServer("switchboard-"+table.Domain().String(), strings.TrimSpace(switchboard.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	return httpAdapter.NewServer(addr, mux, s.logger).ListenAndServe(ctx)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	for _, t := range s.table.Tools() {
		tool := mcp.NewTool(t.Name,
			mcp.WithDescription(t.Description),
			mcp.WithArray("args", mcp.Description("Positional arguments, in declaration order")),
			mcp.WithObject("kwargs", mcp.Description("Named arguments")),
		)
		s.mcpServer.AddTool(tool, s.handle(t.Name))
	}
}

// handle runs one operation. Operation failures are tool errors, not protocol errors.
func (s *Server) handle(operation string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req, err := toRequest(operation, request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		out, err := s.table.Execute(ctx, req)
		if err != nil {
			s.logger.Warn("MCP: operation failed", "domain", s.table.Domain(), "operation", operation, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.Marshal(domain.Success(operation, out))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func toRequest(operation string, arguments map[string]any) (domain.Request, error) {
	var args []value.Value
	if raw, ok := arguments["args"]; ok && raw != nil {
		items, ok := raw.([]any)
		if !ok {
			return domain.Request{}, fmt.Errorf("%w: args must be an array", domain.ErrInvalidArgument)
		}
		v, err := value.FromAny(items)
		if err != nil {
			return domain.Request{}, fmt.Errorf("%w: args: %v", domain.ErrInvalidArgument, err)
		}
		args, _ = v.AsList()
	}

	var kwargs map[string]value.Value
	if raw, ok := arguments["kwargs"]; ok && raw != nil {
		fields, ok := raw.(map[string]any)
		if !ok {
			return domain.Request{}, fmt.Errorf("%w: kwargs must be an object", domain.ErrInvalidArgument)
		}
		v, err := value.FromAny(fields)
		if err != nil {
			return domain.Request{}, fmt.Errorf("%w: kwargs: %v", domain.ErrInvalidArgument, err)
		}
		kwargs, _ = v.AsMap()
	}
	return domain.NewRequest(operation, args, kwargs), nil
}

func (s *Server) registerResources() {
	uri := "switchboard://" + s.table.Domain().String() + "/tools"
	s.mcpServer.AddResource(mcp.NewResource(uri, "Operation table",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(map[string]any{"tools": s.table.Tools()})
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
