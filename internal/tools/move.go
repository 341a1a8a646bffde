package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mgraves-column/openspec-tracking/internal/board"
)

// MoveTool handles the board_move MCP tool.
type MoveTool struct {
	session *board.Session
}

// NewMoveTool creates a MoveTool over session.
func NewMoveTool(session *board.Session) *MoveTool {
	return &MoveTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *MoveTool) Definition() mcp.Tool {
	return mcp.NewTool("board_move",
		mcp.WithDescription(
			"Move a card to another column. Moving to the column it is already in still "+
				"refreshes its updated timestamp. The board is saved afterwards.",
		),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("Card id to move."),
		),
		mcp.WithString("column",
			mcp.Required(),
			mcp.Description("Destination column."),
			mcp.Enum(columnIDs()...),
		),
	)
}

// Handle processes the board_move tool call.
func (t *MoveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("card_id", "")
	column := board.ColumnID(req.GetString("column", ""))
	if id == "" {
		return mcp.NewToolResultError("card_id is required"), nil
	}

	before, ok := t.session.Card(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Card %q not found. The board is unchanged.", id)), nil
	}
	if err := t.session.MoveCard(id, column); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	from := board.GetColumn(before.Column)
	to := board.GetColumn(column)
	return mcp.NewToolResultText(fmt.Sprintf(
		"Moved **%s** from %s %s to %s %s.", before.Title, from.Icon, from.Title, to.Icon, to.Title,
	)), nil
}
