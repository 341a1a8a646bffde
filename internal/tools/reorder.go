package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mgraves-column/openspec-tracking/internal/board"
)

// ReorderTool handles the board_reorder MCP tool.
type ReorderTool struct {
	session *board.Session
}

// NewReorderTool creates a ReorderTool over session.
func NewReorderTool(session *board.Session) *ReorderTool {
	return &ReorderTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *ReorderTool) Definition() mcp.Tool {
	return mcp.NewTool("board_reorder",
		mcp.WithDescription(
			"Set the order of the cards in one column. List every card of the column: "+
				"cards of that column left out of the list are removed from the board. "+
				"Ids that are unknown or belong to another column are ignored.",
		),
		mcp.WithString("column",
			mcp.Required(),
			mcp.Description("Column to reorder."),
			mcp.Enum(columnIDs()...),
		),
		mcp.WithString("card_ids",
			mcp.Required(),
			mcp.Description("Comma-separated card ids in the desired order."),
		),
	)
}

// Handle processes the board_reorder tool call.
func (t *ReorderTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	column := board.ColumnID(req.GetString("column", ""))
	ids := parseIDList(req.GetString("card_ids", ""))
	if len(ids) == 0 {
		return mcp.NewToolResultError("card_ids must list at least one card id"), nil
	}

	if err := t.session.ReorderWithinColumn(column, ids); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	after := t.session.ColumnCards(board.Filter{}, column)
	order := make([]string, 0, len(after))
	for _, c := range after {
		order = append(order, "`"+c.ID+"`")
	}
	col := board.GetColumn(column)
	return mcp.NewToolResultText(fmt.Sprintf("%s %s order: %s", col.Icon, col.Title, strings.Join(order, ", "))), nil
}
