package tools

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mgraves-column/openspec-tracking/internal/board"
	"github.com/mgraves-column/openspec-tracking/internal/source"
)

// CardTool handles the board_card MCP tool.
// Task progress is read from the change directory under proposalsDir when
// one is configured.
type CardTool struct {
	session      *board.Session
	proposalsDir string
}

// NewCardTool creates a CardTool over session. proposalsDir may be empty.
func NewCardTool(session *board.Session, proposalsDir string) *CardTool {
	return &CardTool{session: session, proposalsDir: proposalsDir}
}

// Definition returns the MCP tool definition for registration.
func (t *CardTool) Definition() mcp.Tool {
	return mcp.NewTool("board_card",
		mcp.WithDescription("Show every field of one card: artifacts, task progress, specs, dependencies and notes."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("Card id (the change slug)."),
		),
	)
}

// Handle processes the board_card tool call.
func (t *CardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("card_id", "")
	if id == "" {
		return mcp.NewToolResultError("card_id is required"), nil
	}
	card, ok := t.session.Card(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Card %q not found.", id)), nil
	}

	var progress *source.Progress
	if t.proposalsDir != "" {
		p, ok, err := source.TaskProgress(filepath.Join(t.proposalsDir, card.ID))
		if err != nil {
			return nil, fmt.Errorf("reading task progress of %s: %w", card.ID, err)
		}
		if ok {
			progress = &p
		}
	}
	return mcp.NewToolResultText(cardDetail(card, t.session.Cards(), progress)), nil
}
