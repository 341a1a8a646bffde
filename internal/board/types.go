// Package board holds the card store of the openspec board and the logic that
// operates on it.
//
// A card is a change proposal moving through a fixed set of columns. Its
// fields are split by ownership:
//   - definition fields (title, slug, epic, phase, dependencies, artifacts,
//     specs, tags, createdAt) belong to the generated source dataset
//   - user-state fields (column, priority, notes) belong to the user
//   - updatedAt is bookkeeping, stamped by every mutation
//
// The package is organized the same way throughout:
//   - types.go: enums, card and envelope types
//   - catalog.go: static epic and column reference data
//   - reconcile.go: merge of source dataset and persisted snapshot
//   - mutate.go: move, update and reorder primitives
//   - query.go: filtered views
//   - session.go: the single-writer state object tying it together
package board

import (
	"errors"
	"fmt"
	"time"
)

// EnvelopeVersion is the schema version written into every BoardState.
const EnvelopeVersion = 1

var (
	// ErrInvalidColumn is returned when a value is not one of the six columns.
	ErrInvalidColumn = errors.New("invalid column")
	// ErrInvalidPriority is returned when a value is not one of the four priorities.
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrInvalidEpic is returned when a value is not one of the nine epics.
	ErrInvalidEpic = errors.New("invalid epic")
	// ErrMissingID is returned when a card has no id.
	ErrMissingID = errors.New("missing id")
	// ErrDuplicateID is returned when two cards share an id.
	ErrDuplicateID = errors.New("duplicate card id")
)

// --- Column enum ---

// ColumnID identifies a workflow column.
type ColumnID string

const (
	ColumnBacklog    ColumnID = "backlog"
	ColumnProposed   ColumnID = "proposed"
	ColumnDesign     ColumnID = "design"
	ColumnSpecced    ColumnID = "specced"
	ColumnInProgress ColumnID = "in-progress"
	ColumnDone       ColumnID = "done"
)

var validColumns = map[ColumnID]bool{
	ColumnBacklog:    true,
	ColumnProposed:   true,
	ColumnDesign:     true,
	ColumnSpecced:    true,
	ColumnInProgress: true,
	ColumnDone:       true,
}

// ValidateColumn returns an error if the column is not recognized.
func ValidateColumn(c ColumnID) error {
	if !validColumns[c] {
		return fmt.Errorf("%w %q: must be one of: backlog, proposed, design, specced, in-progress, done", ErrInvalidColumn, c)
	}
	return nil
}

// --- Priority enum ---

// Priority ranks how urgent a card is.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var validPriorities = map[Priority]bool{
	PriorityCritical: true,
	PriorityHigh:     true,
	PriorityMedium:   true,
	PriorityLow:      true,
}

// ValidatePriority returns an error if the priority is not recognized.
func ValidatePriority(p Priority) error {
	if !validPriorities[p] {
		return fmt.Errorf("%w %q: must be one of: critical, high, medium, low", ErrInvalidPriority, p)
	}
	return nil
}

// --- Epic enum ---

// EpicID groups cards into a larger initiative.
type EpicID string

const (
	EpicSecurityFoundation   EpicID = "security-foundation"
	EpicDetectionVisibility  EpicID = "detection-visibility"
	EpicPlatformIntelligence EpicID = "platform-intelligence"
	EpicAdvancedSecurity     EpicID = "advanced-security"
	EpicSupplyChain          EpicID = "supply-chain"
	EpicInfrastructure       EpicID = "infrastructure"
	EpicGovernance           EpicID = "governance"
	EpicConnectors           EpicID = "connectors"
	EpicRefactoring          EpicID = "refactoring"
)

// ValidateEpic returns an error if the epic is not in the catalog.
func ValidateEpic(e EpicID) error {
	if _, ok := LookupEpic(e); !ok {
		return fmt.Errorf("%w %q: must be one of the %d catalog epics", ErrInvalidEpic, e, len(Epics))
	}
	return nil
}

// --- Core data structures ---

// Artifacts records which documents exist for a change proposal.
type Artifacts struct {
	Proposal bool `json:"proposal"`
	Design   bool `json:"design"`
	WorkPlan bool `json:"workPlan"`
	TestSpec bool `json:"testSpec"`
	Tasks    bool `json:"tasks"`
}

// SubSpec is a capability spec nested under a change proposal.
type SubSpec struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Card is one change proposal on the board. ID equals the source slug and
// never changes.
type Card struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Column       ColumnID  `json:"column"`
	Priority     Priority  `json:"priority"`
	Epic         EpicID    `json:"epic"`
	Phase        *string   `json:"phase"`
	Dependencies []string  `json:"dependencies"`
	Artifacts    Artifacts `json:"artifacts"`
	Specs        []SubSpec `json:"specs"`
	Tags         []string  `json:"tags"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BoardState is the persisted and exported envelope around the card store.
type BoardState struct {
	Cards       []Card    `json:"cards"`
	Version     int       `json:"version"`
	DataVersion int       `json:"dataVersion"`
	LastSaved   time.Time `json:"lastSaved"`
}

// Dataset is the generated, authoritative card list for a session.
// It is never modified once loaded.
type Dataset struct {
	DataVersion int    `json:"dataVersion"`
	Cards       []Card `json:"cards"`
}

// PhaseLabel returns the card phase or "" when unset.
func (c Card) PhaseLabel() string {
	if c.Phase == nil {
		return ""
	}
	return *c.Phase
}

// StringPtr returns a pointer to s. Handy for Phase and patch fields.
func StringPtr(s string) *string {
	return &s
}
