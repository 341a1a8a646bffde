package board

import "fmt"

// Epic is static reference data for an epic.
type Epic struct {
	ID    EpicID  `json:"id"`
	Title string  `json:"title"`
	Color string  `json:"color"`
	Phase *string `json:"phase"`
}

// Column is static reference data for a workflow column.
type Column struct {
	ID    ColumnID `json:"id"`
	Title string   `json:"title"`
	Icon  string   `json:"icon"`
	Color string   `json:"color"`
}

// Epics is the fixed epic catalog.
var Epics = []Epic{
	{ID: EpicSecurityFoundation, Title: "Security Foundation", Color: "#ef4444", Phase: StringPtr("Phase 4")},
	{ID: EpicDetectionVisibility, Title: "Detection & Visibility", Color: "#f97316", Phase: StringPtr("Phase 5")},
	{ID: EpicPlatformIntelligence, Title: "Platform Intelligence", Color: "#3b82f6"},
	{ID: EpicAdvancedSecurity, Title: "Advanced Security", Color: "#8b5cf6"},
	{ID: EpicSupplyChain, Title: "Supply Chain Security", Color: "#ec4899"},
	{ID: EpicInfrastructure, Title: "Infrastructure & Platform", Color: "#06b6d4"},
	{ID: EpicGovernance, Title: "Governance & Compliance", Color: "#10b981"},
	{ID: EpicConnectors, Title: "Connectors", Color: "#eab308"},
	{ID: EpicRefactoring, Title: "Refactoring & Cleanup", Color: "#6b7280"},
}

// Columns is the fixed column list in presentation order.
var Columns = []Column{
	{ID: ColumnBacklog, Title: "Backlog", Icon: "◇", Color: "#6b7280"},
	{ID: ColumnProposed, Title: "Proposed", Icon: "◆", Color: "#8b5cf6"},
	{ID: ColumnDesign, Title: "In Design", Icon: "△", Color: "#3b82f6"},
	{ID: ColumnSpecced, Title: "Spec'd", Icon: "⬡", Color: "#06b6d4"},
	{ID: ColumnInProgress, Title: "In Progress", Icon: "▶", Color: "#f59e0b"},
	{ID: ColumnDone, Title: "Done", Icon: "✓", Color: "#10b981"},
}

// LookupEpic returns the catalog entry for id.
func LookupEpic(id EpicID) (Epic, bool) {
	for _, e := range Epics {
		if e.ID == id {
			return e, true
		}
	}
	return Epic{}, false
}

// GetEpic returns the catalog entry for id. An unknown id is a programming
// error and panics.
func GetEpic(id EpicID) Epic {
	e, ok := LookupEpic(id)
	if !ok {
		panic(fmt.Sprintf("board: unknown epic %q", id))
	}
	return e
}

// GetColumn returns the column definition for id. Panics on an unknown id.
func GetColumn(id ColumnID) Column {
	for _, c := range Columns {
		if c.ID == id {
			return c
		}
	}
	panic(fmt.Sprintf("board: unknown column %q", id))
}

// Priorities lists the priorities from most to least urgent.
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// PriorityColor returns the display color for a priority.
func PriorityColor(p Priority) string {
	switch p {
	case PriorityCritical:
		return "#ef4444"
	case PriorityHigh:
		return "#f97316"
	case PriorityMedium:
		return "#eab308"
	default:
		return "#6b7280"
	}
}
