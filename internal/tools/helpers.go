// Package tools implements the MCP tool handlers for the board.
//
// Each file holds one tool: a struct carrying its dependencies, a
// Definition for registration and a Handle compatible with mcp-go's
// CallToolRequest signature. Bad input comes back as a tool error result;
// only infrastructure failures are returned as Go errors.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgraves-column/openspec-tracking/internal/board"
	"github.com/mgraves-column/openspec-tracking/internal/source"
)

// Snapshots is the persistence surface used by export and import.
// storage.Store implements it.
type Snapshots interface {
	ExportToFile(dir string, cards []board.Card, dataVersion int) (string, error)
	ImportFile(ctx context.Context, path string) (*board.BoardState, error)
}

// columnIDs lists the column ids in board order, for mcp.Enum.
func columnIDs() []string {
	out := make([]string, 0, len(board.Columns))
	for _, c := range board.Columns {
		out = append(out, string(c.ID))
	}
	return out
}

// epicIDs lists the epic ids in catalog order, for mcp.Enum.
func epicIDs() []string {
	out := make([]string, 0, len(board.Epics))
	for _, e := range board.Epics {
		out = append(out, string(e.ID))
	}
	return out
}

// priorityIDs lists the priorities, most urgent first, for mcp.Enum.
var priorityIDs = func() []string {
	out := make([]string, 0, len(board.Priorities))
	for _, p := range board.Priorities {
		out = append(out, string(p))
	}
	return out
}()

// withAll prepends the "all" filter value.
func withAll(values []string) []string {
	return append([]string{"all"}, values...)
}

// parseIDList splits a comma-separated id list, dropping blanks.
func parseIDList(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// parseFilter reads and validates the shared view filter arguments.
func parseFilter(search, priority, epic string) (board.Filter, error) {
	f := board.Filter{Search: search}
	if priority != "" && priority != string(board.AllPriorities) {
		if err := board.ValidatePriority(board.Priority(priority)); err != nil {
			return board.Filter{}, err
		}
		f.Priority = board.PriorityFilter(priority)
	}
	if epic != "" && epic != string(board.AllEpics) {
		if err := board.ValidateEpic(board.EpicID(epic)); err != nil {
			return board.Filter{}, err
		}
		f.Epic = board.EpicFilter(epic)
	}
	return f, nil
}

// cardLine renders one card as a markdown list item.
func cardLine(c board.Card, all []board.Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- **%s** (`%s`) · %s · %s", c.Title, c.ID, c.Priority, board.GetEpic(c.Epic).Title)
	if c.Phase != nil {
		fmt.Fprintf(&b, " · %s", *c.Phase)
	}
	if blocked := board.UnresolvedDependencies(c, all); len(blocked) > 0 {
		fmt.Fprintf(&b, " · ⛔ waiting on %s", strings.Join(blocked, ", "))
	}
	b.WriteString("\n")
	return b.String()
}

// cardDetail renders every field of a card. progress is nil when the change
// has no task checkboxes.
func cardDetail(c board.Card, all []board.Card, progress *source.Progress) string {
	var b strings.Builder
	col := board.GetColumn(c.Column)
	epic := board.GetEpic(c.Epic)

	fmt.Fprintf(&b, "# %s\n\n", c.Title)
	fmt.Fprintf(&b, "**ID:** `%s`\n", c.ID)
	fmt.Fprintf(&b, "**Column:** %s %s\n", col.Icon, col.Title)
	if hint := source.InferColumn(c.Artifacts, c.Specs); hint != c.Column && c.Column != board.ColumnDone {
		fmt.Fprintf(&b, "**Artifacts suggest:** %s\n", board.GetColumn(hint).Title)
	}
	fmt.Fprintf(&b, "**Priority:** %s\n", c.Priority)
	fmt.Fprintf(&b, "**Epic:** %s\n", epic.Title)
	fmt.Fprintf(&b, "**Phase:** %s\n", c.PhaseLabel())
	fmt.Fprintf(&b, "**Created:** %s\n", c.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Updated:** %s\n\n", c.UpdatedAt.Format("2006-01-02 15:04:05"))

	b.WriteString("## Artifacts\n\n")
	for _, a := range []struct {
		name    string
		present bool
	}{
		{"proposal", c.Artifacts.Proposal},
		{"design", c.Artifacts.Design},
		{"work plan", c.Artifacts.WorkPlan},
		{"test spec", c.Artifacts.TestSpec},
		{"tasks", c.Artifacts.Tasks},
	} {
		mark := "⬜"
		if a.present {
			mark = "✅"
		}
		fmt.Fprintf(&b, "- %s %s\n", mark, a.name)
	}
	if progress != nil {
		fmt.Fprintf(&b, "\n**Tasks:** %d/%d done\n", progress.Done, progress.Total)
	}

	if len(c.Specs) > 0 {
		b.WriteString("\n## Specs\n\n")
		for _, s := range c.Specs {
			fmt.Fprintf(&b, "- %s (`%s`)\n", s.Name, s.Path)
		}
	}

	if len(c.Dependencies) > 0 {
		unresolved := make(map[string]bool)
		for _, id := range board.UnresolvedDependencies(c, all) {
			unresolved[id] = true
		}
		b.WriteString("\n## Dependencies\n\n")
		for _, id := range c.Dependencies {
			state := "resolved"
			if unresolved[id] {
				state = "unresolved"
			}
			fmt.Fprintf(&b, "- `%s` (%s)\n", id, state)
		}
	}

	if len(c.Tags) > 0 {
		fmt.Fprintf(&b, "\n**Tags:** %s\n", strings.Join(c.Tags, ", "))
	}
	if c.Notes != "" {
		fmt.Fprintf(&b, "\n## Notes\n\n%s\n", c.Notes)
	}
	return b.String()
}
