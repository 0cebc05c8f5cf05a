package mcp

import (
	"context"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/syntaxrag/recall/pkg/usecase/memory"
	"github.com/syntaxrag/recall/pkg/utils/logging"
)

// Server exposes the memory pipeline and retrieval engine as MCP
// tools. Tool handlers report failures as structured
// {success: false, error} payloads instead of protocol errors so a
// misbehaving request never aborts the session.
type Server struct {
	uc  *memory.UseCase
	srv *mcp.Server
}

// New creates an MCP server backed by the given use case
func New(uc *memory.UseCase) *Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "recall",
		Version: "0.1.0",
	}, nil)

	s := &Server{
		uc:  uc,
		srv: srv,
	}

	mcp.AddTool(srv, ingestMemoryTool(), s.handleIngest)
	mcp.AddTool(srv, retrieveMemoriesTool(), s.handleRetrieve)
	mcp.AddTool(srv, memoryStatsTool(), s.handleStats)

	return s
}

// RunStdio serves MCP over stdin/stdout until the context is cancelled
// or the peer disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	logging.From(ctx).Info("starting MCP server on stdio")
	if err := s.srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return goerr.Wrap(err, "MCP server failed")
	}
	return nil
}

// RunHTTP serves MCP over the streamable HTTP transport
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s.srv
	}, nil)

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpSrv.Shutdown(context.Background())
	}()

	logging.From(ctx).Info("starting MCP server on HTTP", "addr", addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return goerr.Wrap(err, "MCP HTTP server failed")
	}
	return nil
}
