package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mgraves-column/openspec-tracking/internal/board"
)

// ExportTool handles the board_export MCP tool.
type ExportTool struct {
	session    *board.Session
	snapshots  Snapshots
	defaultDir string
}

// NewExportTool creates an ExportTool writing to defaultDir unless the call
// names a directory.
func NewExportTool(session *board.Session, snapshots Snapshots, defaultDir string) *ExportTool {
	return &ExportTool{session: session, snapshots: snapshots, defaultDir: defaultDir}
}

// Definition returns the MCP tool definition for registration.
func (t *ExportTool) Definition() mcp.Tool {
	return mcp.NewTool("board_export",
		mcp.WithDescription(
			"Write the current board to a dated JSON file (openspec-board-YYYY-MM-DD.json). "+
				"The file can be loaded back with board_import.",
		),
		mcp.WithString("directory",
			mcp.Description("Directory to write into. Defaults to the configured export directory."),
		),
	)
}

// Handle processes the board_export tool call.
func (t *ExportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := req.GetString("directory", t.defaultDir)
	if dir == "" {
		dir = t.defaultDir
	}

	snap := t.session.Snapshot()
	path, err := t.snapshots.ExportToFile(dir, snap.Cards, snap.DataVersion)
	if err != nil {
		return nil, fmt.Errorf("exporting board: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Exported %d cards to `%s`.", len(snap.Cards), path)), nil
}
