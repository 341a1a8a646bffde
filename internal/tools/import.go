package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mgraves-column/openspec-tracking/internal/board"
	"github.com/mgraves-column/openspec-tracking/internal/storage"
)

// Import modes.
const (
	ImportReplace   = "replace"
	ImportReconcile = "reconcile"
)

// ImportTool handles the board_import MCP tool.
type ImportTool struct {
	session   *board.Session
	snapshots Snapshots
}

// NewImportTool creates an ImportTool.
func NewImportTool(session *board.Session, snapshots Snapshots) *ImportTool {
	return &ImportTool{session: session, snapshots: snapshots}
}

// Definition returns the MCP tool definition for registration.
func (t *ImportTool) Definition() mcp.Tool {
	return mcp.NewTool("board_import",
		mcp.WithDescription(
			"Load a board from an exported JSON file. `replace` installs the file's cards as-is; "+
				"`reconcile` keeps the current card set and takes column, priority and notes from the file.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the exported JSON file."),
		),
		mcp.WithString("mode",
			mcp.Description("How to apply the file. Defaults to replace."),
			mcp.Enum(ImportReplace, ImportReconcile),
		),
	)
}

// Handle processes the board_import tool call.
func (t *ImportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	mode := req.GetString("mode", ImportReplace)
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	if mode != ImportReplace && mode != ImportReconcile {
		return mcp.NewToolResultError(fmt.Sprintf("invalid mode %q: must be replace or reconcile", mode)), nil
	}

	state, err := t.snapshots.ImportFile(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidSnapshot) || errors.Is(err, storage.ErrReadSnapshot) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("importing board: %w", err)
	}

	if mode == ImportReconcile {
		t.session.ReconcileImported(state)
		return mcp.NewToolResultText(fmt.Sprintf(
			"Reconciled `%s` against the source dataset: %d cards on the board.", path, len(t.session.Cards()),
		)), nil
	}

	if err := t.session.ReplaceCards(state.Cards); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Import rejected, board unchanged: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Imported %d cards from `%s`.", len(state.Cards), path)), nil
}
