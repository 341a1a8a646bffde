// Package server wires the board components and creates the MCP server.
//
// This is the composition root: it opens storage, loads the source dataset,
// builds the Session and injects it into tools, prompts and resources.
// No board logic lives here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mgraves-column/openspec-tracking/internal/config"
	"github.com/mgraves-column/openspec-tracking/internal/prompts"
	"github.com/mgraves-column/openspec-tracking/internal/resources"
	"github.com/mgraves-column/openspec-tracking/internal/tools"
	"go.uber.org/zap"
)

// Name is the MCP server name.
const Name = "openspec-board"

// Version is set at build time via ldflags.
var Version = "dev"

// New opens the board described by cfg and creates the MCP server with all
// tools, prompts and resources registered.
//
// The returned cleanup function closes the storage backend and must be
// called on shutdown. It is always non-nil.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b, err := Open(ctx, cfg, logger)
	if err != nil {
		return nil, noop, fmt.Errorf("opening board: %w", err)
	}
	cleanup := func() {
		if err := b.Close(); err != nil {
			logger.Warn("closing board storage failed", zap.Error(err))
		}
	}
	return NewMCPServer(b), cleanup, nil
}

// NewMCPServer registers every board tool, prompt and resource against b.
func NewMCPServer(b *Board) *server.MCPServer {
	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Read tools ---

	viewTool := tools.NewViewTool(b.Session)
	s.AddTool(viewTool.Definition(), viewTool.Handle)

	cardTool := tools.NewCardTool(b.Session, b.Config.ProposalsPath)
	s.AddTool(cardTool.Definition(), cardTool.Handle)

	// --- Mutations ---

	moveTool := tools.NewMoveTool(b.Session)
	s.AddTool(moveTool.Definition(), moveTool.Handle)

	updateTool := tools.NewUpdateTool(b.Session)
	s.AddTool(updateTool.Definition(), updateTool.Handle)

	reorderTool := tools.NewReorderTool(b.Session)
	s.AddTool(reorderTool.Definition(), reorderTool.Handle)

	resetTool := tools.NewResetTool(b.Session)
	s.AddTool(resetTool.Definition(), resetTool.Handle)

	// --- Export / import ---

	exportTool := tools.NewExportTool(b.Session, b.Store, b.Config.ExportDir)
	s.AddTool(exportTool.Definition(), exportTool.Handle)

	importTool := tools.NewImportTool(b.Session, b.Store)
	s.AddTool(importTool.Definition(), importTool.Handle)

	// --- Prompts ---

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	triagePrompt := prompts.NewTriagePrompt()
	s.AddPrompt(triagePrompt.Definition(), triagePrompt.Handle)

	// --- Resources ---

	resourceHandler := resources.NewHandler(b.Session)
	s.AddResource(resourceHandler.StateResource(), resourceHandler.HandleState)
	s.AddResource(resourceHandler.CatalogResource(), resourceHandler.HandleCatalog)

	return s
}

func noop() {}

// serverInstructions tells the assistant how the board behaves.
func serverInstructions() string {
	return `You have access to an OpenSpec board: a kanban view of the changes under openspec/changes.

## Model
- Cards come from the source dataset generated from each change's proposal.md front-matter.
- Column, priority and notes are board state owned by the user. They survive regeneration.
- Titles, epics, phases, dependencies, artifacts, specs and tags belong to the source.
  Edit the proposal front-matter and regenerate to change them.
- A dependency is unresolved until the card it names is in the done column.

## Tools
- board_view: the board by column, filtered by search text, priority and epic (all filters must match).
- board_card: one card in full, with task progress and a column hint from its artifacts.
- board_move / board_update: change column, priority or notes. Every change is saved immediately.
- board_reorder: set the order of one column. List every card of the column, or the missing ones are removed.
- board_export / board_import: dated JSON snapshots. Import mode "reconcile" keeps the current card set.
- board_reset: drop all user state. Ask the user before calling it.`
}
