// ABOUTME: MCP prompts for common quicknote workflows.
// ABOUTME: Provides pre-configured prompts for summarizing and reviewing notes.

package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "summarize-note",
		Description: "Generate a summary of an existing note",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "note_id",
				Description: "ID of the note to summarize",
				Required:    true,
			},
		},
	}, s.getSummarizeNotePrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "review-notes",
		Description: "Review recent notes for follow-ups and duplicates",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "query",
				Description: "Only review notes containing this text",
				Required:    false,
			},
		},
	}, s.getReviewNotesPrompt)
}

func userPrompt(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: text,
				},
			},
		},
	}
}

func (s *Server) getSummarizeNotePrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	noteID, ok := req.Params.Arguments["note_id"]
	if !ok || noteID == "" {
		return nil, fmt.Errorf("note_id argument is required")
	}

	template := fmt.Sprintf(`Please summarize the note with ID: %s

1. Use the get_note tool to retrieve the note content
2. Read and analyze the note
3. Create a concise summary highlighting:
   - Main topic or theme
   - Key points or takeaways
   - Important details or action items
4. If the summary is worth keeping, use the add_note tool to save it as a new note`, noteID)

	return userPrompt(template), nil
}

func (s *Server) getReviewNotesPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	step := "Use the list_notes tool to see my most recent notes"
	if query := req.Params.Arguments["query"]; query != "" {
		step = fmt.Sprintf("Use the search_notes tool with the query %q", query)
	}

	template := fmt.Sprintf(`Help me review my quick notes:

1. %s
2. Point out notes that contain open tasks or follow-ups
3. Identify notes that repeat each other and could be merged
4. Suggest which notes look obsolete and could be deleted with delete_note

Please refer to notes by their IDs. Do not delete anything without asking me first.`, step)

	return userPrompt(template), nil
}
