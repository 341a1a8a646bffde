package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mgraves-column/openspec-tracking/internal/board"
)

// UpdateTool handles the board_update MCP tool.
// It edits the user-owned fields of a card: priority, notes and column.
type UpdateTool struct {
	session *board.Session
}

// NewUpdateTool creates an UpdateTool over session.
func NewUpdateTool(session *board.Session) *UpdateTool {
	return &UpdateTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("board_update",
		mcp.WithDescription(
			"Update a card's priority, notes or column. Only the fields you pass are changed. "+
				"These fields survive regeneration of the source dataset.",
		),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("Card id to update."),
		),
		mcp.WithString("priority",
			mcp.Description("New priority."),
			mcp.Enum(priorityIDs...),
		),
		mcp.WithString("notes",
			mcp.Description("Replacement notes text. Pass an empty string to clear."),
		),
		mcp.WithString("column",
			mcp.Description("New column."),
			mcp.Enum(columnIDs()...),
		),
	)
}

// Handle processes the board_update tool call.
func (t *UpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("card_id", "")
	if id == "" {
		return mcp.NewToolResultError("card_id is required"), nil
	}
	if _, ok := t.session.Card(id); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Card %q not found. The board is unchanged.", id)), nil
	}

	args := req.GetArguments()
	var patch board.CardPatch
	var changed []string
	if v, ok := args["priority"].(string); ok {
		p := board.Priority(v)
		patch.Priority = &p
		changed = append(changed, "priority → "+v)
	}
	if v, ok := args["notes"].(string); ok {
		patch.Notes = &v
		changed = append(changed, "notes")
	}
	if v, ok := args["column"].(string); ok {
		c := board.ColumnID(v)
		patch.Column = &c
		changed = append(changed, "column → "+v)
	}
	if patch.IsEmpty() {
		return mcp.NewToolResultError("Nothing to update: pass at least one of priority, notes or column."), nil
	}

	if err := t.session.UpdateCard(id, patch); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated `%s`: %s.", id, strings.Join(changed, ", "))), nil
}
