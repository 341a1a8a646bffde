package resources

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mgraves-column/openspec-tracking/internal/board"
)

func testSession() *board.Session {
	card := func(id string, col board.ColumnID, epic board.EpicID) board.Card {
		return board.Card{
			ID: id, Title: id, Slug: id, Column: col, Priority: board.PriorityLow, Epic: epic,
			Dependencies: []string{}, Specs: []board.SubSpec{}, Tags: []string{},
		}
	}
	ds := board.Dataset{DataVersion: 99, Cards: []board.Card{
		card("a", board.ColumnDone, board.EpicConnectors),
		card("b", board.ColumnDone, board.EpicGovernance),
		card("c", board.ColumnBacklog, board.EpicConnectors),
	}}
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return board.NewSession(ds, nil, board.WithClock(func() time.Time { return now }))
}

func read(t *testing.T, handle func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error), uri string) string {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	contents, err := handle(context.Background(), req)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	if text.URI != uri || text.MIMEType != "application/json" {
		t.Errorf("URI/MIME = %s %s", text.URI, text.MIMEType)
	}
	return text.Text
}

func TestHandleState_ReturnsEnvelope(t *testing.T) {
	h := NewHandler(testSession())
	var state board.BoardState
	if err := json.Unmarshal([]byte(read(t, h.HandleState, StateURI)), &state); err != nil {
		t.Fatalf("state is not an envelope: %v", err)
	}
	if state.Version != board.EnvelopeVersion || state.DataVersion != 99 || len(state.Cards) != 3 {
		t.Errorf("state = %+v", state)
	}
}

func TestHandleCatalog_Counts(t *testing.T) {
	h := NewHandler(testSession())
	var got catalog
	if err := json.Unmarshal([]byte(read(t, h.HandleCatalog, CatalogURI)), &got); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(got.Columns) != len(board.Columns) || len(got.Epics) != len(board.Epics) {
		t.Fatalf("catalog sizes = %d/%d", len(got.Columns), len(got.Epics))
	}
	counts := map[board.ColumnID]int{}
	for _, c := range got.Columns {
		counts[c.ID] = c.Count
	}
	if counts[board.ColumnDone] != 2 || counts[board.ColumnBacklog] != 1 || counts[board.ColumnDesign] != 0 {
		t.Errorf("column counts = %v", counts)
	}
	for _, e := range got.Epics {
		if e.ID == board.EpicConnectors && e.Count != 2 {
			t.Errorf("connectors count = %d, want 2", e.Count)
		}
	}
}

func TestHandleCatalog_PriorityColors(t *testing.T) {
	h := NewHandler(testSession())
	var got catalog
	if err := json.Unmarshal([]byte(read(t, h.HandleCatalog, CatalogURI)), &got); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(got.Priorities) != 4 || got.Priorities[0].ID != board.PriorityCritical {
		t.Fatalf("priorities = %+v", got.Priorities)
	}
	want := map[board.Priority]priorityEntry{
		board.PriorityCritical: {ID: board.PriorityCritical, Color: "#ef4444", Count: 0},
		board.PriorityLow:      {ID: board.PriorityLow, Color: "#6b7280", Count: 3},
	}
	for _, p := range got.Priorities {
		if w, ok := want[p.ID]; ok && p != w {
			t.Errorf("priority %s = %+v, want %+v", p.ID, p, w)
		}
	}
}

func TestResourceDefinitions(t *testing.T) {
	h := NewHandler(testSession())
	if h.StateResource().URI != StateURI {
		t.Errorf("state URI = %s", h.StateResource().URI)
	}
	if h.CatalogResource().URI != CatalogURI {
		t.Errorf("catalog URI = %s", h.CatalogResource().URI)
	}
}
