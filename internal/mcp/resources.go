// ABOUTME: MCP resources exposing notes as readable documents.
// ABOUTME: Lets AI agents read note text through the quicknote://note/{id} URI.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/quicknote/internal/notes"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const noteURIPrefix = "quicknote://note/"

func (s *Server) registerResources() {
	s.server.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: noteURIPrefix + "{id}",
			Name:        "Note",
			Description: "Access individual notes by ID",
			MIMEType:    "text/markdown",
		},
		s.handleReadResource,
	)
}

func (s *Server) handleReadResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	idStr, ok := strings.CutPrefix(req.Params.URI, noteURIPrefix)
	if !ok || idStr == "" {
		return nil, fmt.Errorf("invalid resource URI: %s", req.Params.URI)
	}

	note, err := s.store.FindByPrefix(idStr)
	if errors.Is(err, notes.ErrNoteNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	content := fmt.Sprintf("_Created %s_\n\n%s", note.CreatedAt.Format("2006-01-02 15:04"), note.Content)

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     content,
			},
		},
	}, nil
}
