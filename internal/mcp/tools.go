// ABOUTME: MCP tools for creating, listing, searching and deleting notes.
// ABOUTME: Maps CLI functionality to the MCP tool interface.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/quicknote/internal/models"
	"github.com/harper/quicknote/internal/notes"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultListLimit   = 20
	defaultSearchLimit = 10
)

// noteView is the JSON shape notes take in tool results.
type noteView struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func viewOf(n *models.Note) noteView {
	return noteView{ID: n.ID.String(), Content: n.Content, CreatedAt: n.CreatedAt}
}

func viewsOf(list []*models.Note, limit int) []noteView {
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]noteView, 0, len(list))
	for _, n := range list {
		out = append(out, viewOf(n))
	}
	return out
}

func (s *Server) registerTools() {
	// add_note
	s.server.AddTool(&mcp.Tool{
		Name:        "add_note",
		Description: "Create a new note. It is placed first in the collection.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"content": {"type": "string", "description": "Note text"}
			},
			"required": ["content"]
		}`),
	}, s.handleAddNote)

	// list_notes
	s.server.AddTool(&mcp.Tool{
		Name:        "list_notes",
		Description: "List notes, newest first",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "integer", "description": "Max results, 0 for all", "default": 20}
			}
		}`),
	}, s.handleListNotes)

	// search_notes
	s.server.AddTool(&mcp.Tool{
		Name:        "search_notes",
		Description: "Find notes whose text contains the query, ignoring case",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Search query"},
				"limit": {"type": "integer", "description": "Max results, 0 for all", "default": 10}
			},
			"required": ["query"]
		}`),
	}, s.handleSearchNotes)

	// get_note
	s.server.AddTool(&mcp.Tool{
		Name:        "get_note",
		Description: "Get a note by ID or ID prefix",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Note ID or prefix (6+ chars)"}
			},
			"required": ["id"]
		}`),
	}, s.handleGetNote)

	// delete_note
	s.server.AddTool(&mcp.Tool{
		Name:        "delete_note",
		Description: "Delete a note",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Note ID or prefix (6+ chars)"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeleteNote)
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
		IsError: true,
	}
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func toolJSON(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return toolText(string(data))
}

// Tool handlers.
func (s *Server) handleAddNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	note, err := s.store.Create(params.Content)
	if errors.Is(err, notes.ErrEmptyContent) {
		return toolError("note content cannot be empty"), nil
	}
	if err != nil {
		return toolError("failed to create note: %v", err), nil
	}

	msg := fmt.Sprintf("Created note %s", note.ID.String())
	if perr := s.store.Err(); perr != nil {
		msg += fmt.Sprintf(" (not saved yet: %v)", perr)
	}
	return toolText(msg), nil
}

func (s *Server) handleListNotes(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Limit int `json:"limit"`
	}
	params.Limit = defaultListLimit
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return nil, err
		}
	}

	return toolJSON(viewsOf(s.store.Notes(), params.Limit)), nil
}

func (s *Server) handleSearchNotes(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	params.Limit = defaultSearchLimit
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	return toolJSON(viewsOf(s.store.Search(params.Query), params.Limit)), nil
}

func (s *Server) handleGetNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	note, err := s.store.FindByPrefix(params.ID)
	if err != nil {
		return toolError("failed to get note: %v", err), nil
	}
	return toolJSON(viewOf(note)), nil
}

func (s *Server) handleDeleteNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	note, err := s.store.FindByPrefix(params.ID)
	if err != nil {
		return toolError("failed to find note: %v", err), nil
	}
	if !s.store.Delete(note.ID) {
		return toolError("note %s was already deleted", note.ID.String()), nil
	}
	return toolText(fmt.Sprintf("Deleted note %s", note.ID.String())), nil
}
