// ABOUTME: MCP server exposing quicknote to AI agents over stdio.
// ABOUTME: Provides tools, resources, and prompts backed by the note store.

package mcp

import (
	"context"

	"github.com/harper/quicknote/internal/notes"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

type Server struct {
	server *mcp.Server
	store  *notes.Store
	log    zerolog.Logger
}

func NewServer(store *notes.Store, version string, log zerolog.Logger) *Server {
	s := &Server{store: store, log: log}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "quicknote",
			Version: version,
		},
		&mcp.ServerOptions{
			HasTools:     true,
			HasResources: true,
			HasPrompts:   true,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

func (s *Server) Serve(ctx context.Context) error {
	s.log.Info().Int("notes", s.store.Len()).Msg("serving MCP over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
