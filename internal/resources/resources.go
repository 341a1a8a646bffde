// Package resources implements the MCP resources of the board.
//
// Resources are read-only JSON documents the host can pull into context,
// addressed with board:// URIs.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mgraves-column/openspec-tracking/internal/board"
)

// Resource URIs.
const (
	StateURI   = "board://state"
	CatalogURI = "board://catalog"
)

// Handler serves board resources from a session.
type Handler struct {
	session *board.Session
}

// NewHandler creates a resource Handler.
func NewHandler(session *board.Session) *Handler {
	return &Handler{session: session}
}

// StateResource returns the MCP resource definition for the board envelope.
func (h *Handler) StateResource() mcp.Resource {
	return mcp.NewResource(
		StateURI,
		"Board State",
		mcp.WithResourceDescription("Current board as a snapshot envelope: cards, version, dataVersion, lastSaved"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleState returns the current envelope, in the same shape as an export.
func (h *Handler) HandleState(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, h.session.Snapshot())
}

// CatalogResource returns the MCP resource definition for columns and epics.
func (h *Handler) CatalogResource() mcp.Resource {
	return mcp.NewResource(
		CatalogURI,
		"Board Catalog",
		mcp.WithResourceDescription("Columns, epics and priorities with their colors and the number of cards in each"),
		mcp.WithMIMEType("application/json"),
	)
}

type columnEntry struct {
	board.Column
	Count int `json:"count"`
}

type epicEntry struct {
	board.Epic
	Count int `json:"count"`
}

type priorityEntry struct {
	ID    board.Priority `json:"id"`
	Color string         `json:"color"`
	Count int            `json:"count"`
}

type catalog struct {
	Columns    []columnEntry   `json:"columns"`
	Epics      []epicEntry     `json:"epics"`
	Priorities []priorityEntry `json:"priorities"`
}

// HandleCatalog returns the column, epic and priority catalogs with live counts.
func (h *Handler) HandleCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	cards := h.session.Cards()
	byColumn := board.CountByColumn(cards)
	byEpic := board.CountByEpic(cards)

	var out catalog
	for _, c := range board.Columns {
		out.Columns = append(out.Columns, columnEntry{Column: c, Count: byColumn[c.ID]})
	}
	for _, e := range board.Epics {
		out.Epics = append(out.Epics, epicEntry{Epic: e, Count: byEpic[e.ID]})
	}
	byPriority := make(map[board.Priority]int)
	for _, c := range cards {
		byPriority[c.Priority]++
	}
	for _, p := range board.Priorities {
		out.Priorities = append(out.Priorities, priorityEntry{ID: p, Color: board.PriorityColor(p), Count: byPriority[p]})
	}
	return jsonContents(req.Params.URI, out)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
