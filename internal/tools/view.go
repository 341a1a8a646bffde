package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mgraves-column/openspec-tracking/internal/board"
)

// ViewTool handles the board_view MCP tool.
// It renders the filtered board column by column.
type ViewTool struct {
	session *board.Session
}

// NewViewTool creates a ViewTool over session.
func NewViewTool(session *board.Session) *ViewTool {
	return &ViewTool{session: session}
}

// Definition returns the MCP tool definition for registration.
func (t *ViewTool) Definition() mcp.Tool {
	return mcp.NewTool("board_view",
		mcp.WithDescription(
			"Show the board grouped by column. Filters combine: a card is shown only if it "+
				"matches the search text (title, tags, spec names, epic title, phase; case-insensitive) "+
				"AND the priority AND the epic.",
		),
		mcp.WithString("search",
			mcp.Description("Case-insensitive text to look for. Empty shows everything."),
		),
		mcp.WithString("priority",
			mcp.Description("Only show cards of this priority."),
			mcp.Enum(withAll(priorityIDs)...),
		),
		mcp.WithString("epic",
			mcp.Description("Only show cards of this epic."),
			mcp.Enum(withAll(epicIDs())...),
		),
		mcp.WithString("column",
			mcp.Description("Only show this column. Omit for all columns."),
			mcp.Enum(columnIDs()...),
		),
	)
}

// Handle processes the board_view tool call.
func (t *ViewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, err := parseFilter(
		req.GetString("search", ""),
		req.GetString("priority", ""),
		req.GetString("epic", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	columns := board.Columns
	if col := req.GetString("column", ""); col != "" {
		if err := board.ValidateColumn(board.ColumnID(col)); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		columns = []board.Column{board.GetColumn(board.ColumnID(col))}
	}

	all := t.session.Cards()
	visible := t.session.View(filter)

	var b strings.Builder
	fmt.Fprintf(&b, "# OpenSpec Board\n\n%d of %d cards shown · data version %d\n",
		len(visible), len(all), t.session.DataVersion())
	for _, col := range columns {
		cards := board.ColumnCards(visible, board.Filter{}, col.ID)
		fmt.Fprintf(&b, "\n## %s %s (%d)\n\n", col.Icon, col.Title, len(cards))
		if len(cards) == 0 {
			b.WriteString("_empty_\n")
			continue
		}
		for _, c := range cards {
			b.WriteString(cardLine(c, all))
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}
