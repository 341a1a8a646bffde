package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mgraves-column/openspec-tracking/internal/board"
)

// ResetTool handles the board_reset MCP tool.
type ResetTool struct {
	session *board.Session
}

// NewResetTool creates a ResetTool over session.
func NewResetTool(session *board.Session) *ResetTool {
	return &ResetTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *ResetTool) Definition() mcp.Tool {
	return mcp.NewTool("board_reset",
		mcp.WithDescription(
			"Discard all board edits (columns, priorities, notes, order) and restore the "+
				"source dataset. Requires confirm=true.",
		),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true to reset."),
		),
	)
}

// Handle processes the board_reset tool call.
func (t *ResetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	confirm, _ := req.GetArguments()["confirm"].(bool)
	if !confirm {
		return mcp.NewToolResultError("Reset not confirmed: pass confirm=true to discard all board edits."), nil
	}
	t.session.Reset()
	return mcp.NewToolResultText(fmt.Sprintf(
		"Board reset to the source dataset (%d cards, data version %d).",
		len(t.session.Cards()), t.session.DataVersion(),
	)), nil
}
