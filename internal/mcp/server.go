// ABOUTME: MCP server initialization and configuration for tastelog.
// ABOUTME: Exposes the review store to AI agents as a set of tools over stdio.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/2389-research/tastelog/internal/logging"
	"github.com/2389-research/tastelog/internal/storage"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with the review store.
type Server struct {
	mcp   *gomcp.Server
	store storage.ReviewStore
	log   zerolog.Logger
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithLogger sets the logger tool calls are recorded to.
func WithLogger(l zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.log = l
	}
}

// NewServer creates an MCP server backed by store.
func NewServer(store storage.ReviewStore, opts ...ServerOption) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("review store is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "tastelog",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcp:   mcpServer,
		store: store,
		log:   logging.Component("mcp"),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerReviewTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info().Str("store", s.store.Path()).Msg("serving on stdio")
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}
